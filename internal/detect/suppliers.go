package detect

import (
	"fmt"
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

// supplierConcentration flags suppliers billing more than half of the
// total device spend. The denominator includes device lines without a
// payee, so shares can sum below 100%.
func supplierConcentration(v *dataset.View) *model.Table {
	type agg struct {
		cents  int64
		claims distinct
	}
	groups := make(map[string]*agg)
	var order []string
	var total int64
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice {
			continue
		}
		total += l.LineValueCents
		if l.PayeeTaxID == nil {
			continue
		}
		g, ok := groups[*l.PayeeTaxID]
		if !ok {
			g = &agg{}
			groups[*l.PayeeTaxID] = g
			order = append(order, *l.PayeeTaxID)
		}
		g.cents += l.LineValueCents
		if l.ClaimID != "" {
			g.claims.add(l.ClaimID)
		}
	}
	if total <= 0 {
		return nil
	}

	type row struct {
		cnpj string
		g    *agg
		pct  float64
	}
	var rows []row
	for _, cnpj := range order {
		g := groups[cnpj]
		pct := round2(float64(g.cents) / float64(total) * 100)
		if pct <= supplierSharePct {
			continue
		}
		rows = append(rows, row{cnpj, g, pct})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].pct > rows[j].pct
	})

	tbl := model.NewTable(
		"SP_PJ_DOC", "SP_PJ_DOC_FORMATADO", "RAZAO_SOCIAL",
		"VALOR_TOTAL_OPME", "QTD_AIH_FORNECIDAS", "PERCENTUAL_VALOR",
	)
	for _, r := range rows {
		cnpj := r.cnpj
		tbl.Append(
			cnpj,
			normalize.FormatCNPJ(&cnpj),
			str(v.SupplierName(&cnpj)),
			fmtMoney(r.g.cents),
			fmtInt(r.g.claims.len()),
			fmtDecimal(r.pct),
		)
	}
	return tbl
}

// duplicateDeviceInvoices flags an invoice number reused by the same
// supplier across more than one claim.
func duplicateDeviceInvoices(v *dataset.View) *model.Table {
	type key struct {
		payee   string
		invoice string
	}
	type agg struct {
		claims distinct
		cents  int64
	}
	groups := make(map[key]*agg)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.PayeeTaxID == nil || l.InvoiceNumber == nil ||
			*l.InvoiceNumber == model.MissingInvoice {
			continue
		}
		k := key{*l.PayeeTaxID, *l.InvoiceNumber}
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
			order = append(order, k)
		}
		g.cents += l.LineValueCents
		if l.ClaimID != "" {
			g.claims.add(l.ClaimID)
		}
	}

	type row struct {
		key key
		g   *agg
	}
	var rows []row
	for _, k := range order {
		if groups[k].claims.len() > 1 {
			rows = append(rows, row{k, groups[k]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].g.cents > rows[j].g.cents
	})

	tbl := model.NewTable(
		"RAZAO_SOCIAL", "CNPJ_FORMATADO", "SP_NF",
		"NUM_AIH_ASSOCIADAS", "VALOR_TOTAL_OPME", "AIH_ASSOCIADAS",
	)
	for _, r := range rows {
		cnpj := r.key.payee
		n := r.g.claims.len()
		tbl.Append(
			str(v.SupplierName(&cnpj)),
			normalize.FormatCNPJ(&cnpj),
			r.key.invoice,
			fmtInt(n),
			fmtMoney(r.g.cents),
			fmt.Sprintf("%d AIHs (%s)", n, r.g.claims.sortedExamples(exampleListLimit)),
		)
	}
	return tbl
}

// physicianSupplierConcentration flags a physician-supplier pair where the
// supplier covers more than 70% of the physician's device spend AND that
// spend exceeds the median pair spend, filtering out low-volume noise.
func physicianSupplierConcentration(v *dataset.View) *model.Table {
	type key struct {
		physician string
		payee     string
	}
	type agg struct {
		cents int64
		count int
	}
	groups := make(map[key]*agg)
	var order []key
	totals := make(map[string]int64)
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.PayeeTaxID == nil || !model.ValidPhysician(l.PhysicianName) {
			continue
		}
		k := key{*l.PhysicianName, *l.PayeeTaxID}
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
			order = append(order, k)
		}
		g.cents += l.LineValueCents
		g.count++
		totals[k.physician] += l.LineValueCents
	}
	if len(groups) == 0 {
		return nil
	}

	pairValues := make([]float64, 0, len(order))
	for _, k := range order {
		pairValues = append(pairValues, float64(groups[k].cents))
	}
	median := Quantile(pairValues, 0.5)

	type row struct {
		key key
		g   *agg
		pct float64
	}
	var rows []row
	for _, k := range order {
		g := groups[k]
		total := totals[k.physician]
		if total <= 0 {
			continue
		}
		pct := round2(float64(g.cents) / float64(total) * 100)
		if pct <= physicianSupplierPct || float64(g.cents) <= median {
			continue
		}
		rows = append(rows, row{k, g, pct})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.key.physician != b.key.physician {
			return a.key.physician < b.key.physician
		}
		if a.pct != b.pct {
			return a.pct > b.pct
		}
		return a.key.payee < b.key.payee
	})

	tbl := model.NewTable(
		"MEDICO", "SP_PJ_DOC", "SP_PJ_DOC_FORMATADO", "RAZAO_SOCIAL",
		"VALOR_TOTAL_OPME", "QTD_OPME_REGISTROS",
		"TOTAL_OPME_GERAL_MEDICO", "PERC_FORNECEDOR_PARA_MEDICO",
	)
	for _, r := range rows {
		cnpj := r.key.payee
		tbl.Append(
			r.key.physician,
			cnpj,
			normalize.FormatCNPJ(&cnpj),
			str(v.SupplierName(&cnpj)),
			fmtMoney(r.g.cents),
			fmtInt(r.g.count),
			fmtMoney(totals[r.key.physician]),
			fmtDecimal(r.pct),
		)
	}
	return tbl
}
