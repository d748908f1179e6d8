package detect

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

// deviceCostOutliers flags device lines whose value sits above the Tukey
// upper fence (Q3 + 1.5×IQR) of positive device values. Zero and negative
// values are excluded from both the fence and the flagging.
func deviceCostOutliers(v *dataset.View) *model.Table {
	var idx []int
	var values []float64
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.LineValueCents <= 0 {
			continue
		}
		idx = append(idx, i)
		values = append(values, float64(l.LineValueCents))
	}
	if len(values) == 0 {
		return nil
	}
	fence := IQRUpperFence(values, iqrFenceMultiplier)

	var flagged []int
	for _, i := range idx {
		if float64(v.Lines[i].LineValueCents) > fence {
			flagged = append(flagged, i)
		}
	}
	sort.SliceStable(flagged, func(a, b int) bool {
		return v.Lines[flagged[a]].LineValueCents > v.Lines[flagged[b]].LineValueCents
	})

	tbl := model.NewTable(
		"SP_NAIH", "NOME", "MEDICO", "DESC_ATO_PROF",
		"SP_VALATO", "SP_PJ_DOC", "SP_NF", "SP_PJ_DOC_FORMATADO",
	)
	for _, i := range flagged {
		l := &v.Lines[i]
		tbl.Append(
			l.ClaimID,
			str(l.PatientName),
			str(l.PhysicianName),
			str(l.ProcedureDescription),
			fmtMoney(l.LineValueCents),
			str(l.PayeeTaxID),
			str(l.InvoiceNumber),
			normalize.FormatCNPJ(l.PayeeTaxID),
		)
	}
	return tbl
}

// deviceMissingInvoice flags device lines with no invoice number or the
// "N/A" placeholder, in input order.
func deviceMissingInvoice(v *dataset.View) *model.Table {
	tbl := model.NewTable(
		"SP_NAIH", "NOME", "MEDICO", "DESC_ATO_PROF",
		"SP_VALATO", "SP_PJ_DOC", "SP_PJ_DOC_FORMATADO",
	)
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice {
			continue
		}
		if l.InvoiceNumber != nil && *l.InvoiceNumber != model.MissingInvoice {
			continue
		}
		tbl.Append(
			l.ClaimID,
			str(l.PatientName),
			str(l.PhysicianName),
			str(l.ProcedureDescription),
			fmtMoney(l.LineValueCents),
			str(l.PayeeTaxID),
			normalize.FormatCNPJ(l.PayeeTaxID),
		)
	}
	return tbl
}

// highDeviceShare flags claims whose device spend exceeds 70% of the
// claim's total calculated cost. The ratio is compared unrounded.
func highDeviceShare(v *dataset.View) *model.Table {
	deviceCost := dataset.DeviceCostByClaim(v.Lines)
	if len(deviceCost) == 0 {
		return nil
	}

	type row struct {
		claim string
		name  *string
		opme  int64
		total int64
		ratio float64
	}
	var rows []row
	for i := range v.Claims {
		c := &v.Claims[i]
		opme := deviceCost[c.ClaimID]
		total := c.HospitalValueCents + c.ProfessionalValueCents + opme
		if total == 0 {
			continue
		}
		ratio := float64(opme) / float64(total)
		if ratio <= deviceShareLimit {
			continue
		}
		rows = append(rows, row{c.ClaimID, c.PatientName, opme, total, ratio})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ratio > rows[j].ratio
	})

	tbl := model.NewTable("SP_NAIH", "NOME", "CUSTO_TOTAL_OPME_AIH", "CUSTO_TOTAL_AIH_CALC", "RATIO_OPME_TOTAL")
	for _, r := range rows {
		tbl.Append(r.claim, str(r.name), fmtMoney(r.opme), fmtMoney(r.total), fmtDecimal(r.ratio))
	}
	return tbl
}
