// Package report renders the summary tables of an audit run: volume and
// cost rollups over the canonical views. Every table is pure over the
// (already filtered) View, so reports reflect exactly what the detectors
// saw.
package report

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

const topN = 10

// A Report is a named table suitable for export alongside the alerts.
type Report struct {
	Name  string // file-name slug
	Title string
	Table *model.Table
}

// BuildAll produces every report table, skipping the ones with no rows.
func BuildAll(v *dataset.View) []Report {
	all := []Report{
		{"overview", "Visão geral", Overview(v)},
		{"claims_per_month", "AIHs por mês", ClaimsPerMonth(v)},
		{"costs_per_month", "Custos por mês", CostsPerMonth(v)},
		{"claims_per_state", "AIHs por UF", ClaimsPerState(v)},
		{"top_procedures", "Procedimentos mais frequentes", TopProcedures(v)},
		{"mean_stay", "Permanência média por procedimento", MeanStay(v)},
		{"top_physicians", "Médicos por volume e custo", TopPhysicians(v)},
		{"top_patients", "Pacientes por volume e custo", TopPatients(v)},
		{"top_suppliers", "Fornecedores OPME por valor", TopSuppliers(v)},
		{"top_devices", "OPME por valor total", TopDevices(v)},
	}
	out := all[:0]
	for _, r := range all {
		if !r.Table.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// Overview summarizes the filtered dataset in one row.
func Overview(v *dataset.View) *model.Table {
	if len(v.Lines) == 0 {
		return nil
	}
	patients := make(map[string]struct{})
	physicians := make(map[string]struct{})
	suppliers := make(map[string]struct{})
	var deviceCents int64
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.PatientID != nil {
			patients[*l.PatientID] = struct{}{}
		}
		if model.ValidPhysician(l.PhysicianName) {
			physicians[*l.PhysicianName] = struct{}{}
		}
		if l.IsDevice {
			deviceCents += l.LineValueCents
			if l.PayeeTaxID != nil {
				suppliers[*l.PayeeTaxID] = struct{}{}
			}
		}
	}
	var hospCents, profCents int64
	for i := range v.Claims {
		hospCents += v.Claims[i].HospitalValueCents
		profCents += v.Claims[i].ProfessionalValueCents
	}

	tbl := model.NewTable(
		"LINHAS", "AIHS", "PACIENTES", "MEDICOS", "FORNECEDORES",
		"VAL_SH_TOTAL", "VAL_SP_TOTAL", "VAL_OPME_TOTAL", "VAL_GERAL",
	)
	tbl.Append(
		itoa(len(v.Lines)),
		itoa(len(v.Claims)),
		itoa(len(patients)),
		itoa(len(physicians)),
		itoa(len(suppliers)),
		money(hospCents),
		money(profCents),
		money(deviceCents),
		money(hospCents+profCents+deviceCents),
	)
	return tbl
}

// ClaimsPerMonth counts claims per admission period, ascending by period.
// Claims without an admission date are dropped from the series.
func ClaimsPerMonth(v *dataset.View) *model.Table {
	counts := make(map[string]int)
	for i := range v.Claims {
		if p := v.Claims[i].AdmissionPeriod; p != nil {
			counts[*p]++
		}
	}
	tbl := model.NewTable("COMPETENCIA", "QTD_AIH")
	for _, p := range sortedKeys(counts) {
		tbl.Append(p, itoa(counts[p]))
	}
	return tbl
}

// CostsPerMonth breaks hospital, professional and device spend down per
// admission period.
func CostsPerMonth(v *dataset.View) *model.Table {
	type agg struct{ sh, sp, opme int64 }
	periods := make(map[string]*agg)
	get := func(p *string) *agg {
		if p == nil {
			return nil
		}
		a, ok := periods[*p]
		if !ok {
			a = &agg{}
			periods[*p] = a
		}
		return a
	}
	for i := range v.Claims {
		if a := get(v.Claims[i].AdmissionPeriod); a != nil {
			a.sh += v.Claims[i].HospitalValueCents
			a.sp += v.Claims[i].ProfessionalValueCents
		}
	}
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice {
			continue
		}
		if a := get(l.AdmissionPeriod); a != nil {
			a.opme += l.LineValueCents
		}
	}

	keys := make([]string, 0, len(periods))
	for p := range periods {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	tbl := model.NewTable("COMPETENCIA", "VAL_SH", "VAL_SP", "VAL_OPME", "VAL_TOTAL")
	for _, p := range keys {
		a := periods[p]
		tbl.Append(p, money(a.sh), money(a.sp), money(a.opme), money(a.sh+a.sp+a.opme))
	}
	return tbl
}

// ClaimsPerState counts claims per state, descending.
func ClaimsPerState(v *dataset.View) *model.Table {
	counts := make(map[string]int)
	for i := range v.Claims {
		if s := v.Claims[i].State; s != nil {
			counts[*s]++
		}
	}
	tbl := model.NewTable("SP_UF", "QTD_AIH")
	for _, s := range keysByCountDesc(counts) {
		tbl.Append(s, itoa(counts[s]))
	}
	return tbl
}

// TopProcedures lists the most frequent professional acts with their total
// and mean values.
func TopProcedures(v *dataset.View) *model.Table {
	type agg struct {
		count int
		cents int64
	}
	groups := make(map[string]*agg)
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.IsDevice || l.ProcedureDescription == nil {
			continue
		}
		a, ok := groups[*l.ProcedureDescription]
		if !ok {
			a = &agg{}
			groups[*l.ProcedureDescription] = a
		}
		a.count++
		a.cents += l.LineValueCents
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return groups[keys[i]].count > groups[keys[j]].count
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("DESC_ATO_PROF", "QTD", "VALOR_TOTAL", "VALOR_MEDIO")
	for _, k := range keys {
		a := groups[k]
		mean := a.cents / int64(a.count)
		tbl.Append(k, itoa(a.count), money(a.cents), money(mean))
	}
	return tbl
}

// MeanStay reports the mean stay in days per principal procedure, over
// claims with both admission and discharge dates.
func MeanStay(v *dataset.View) *model.Table {
	// Principal procedure lives on lines; take the first one per claim.
	procByClaim := make(map[string]string)
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.ClaimID == "" || l.PrincipalProcedure == nil {
			continue
		}
		if _, ok := procByClaim[l.ClaimID]; !ok {
			procByClaim[l.ClaimID] = *l.PrincipalProcedure
		}
	}

	type agg struct {
		days  int
		count int
	}
	groups := make(map[string]*agg)
	for i := range v.Claims {
		c := &v.Claims[i]
		proc, ok := procByClaim[c.ClaimID]
		if !ok || c.AdmissionDate == nil || c.DischargeDate == nil {
			continue
		}
		days := int(c.DischargeDate.Sub(*c.AdmissionDate).Hours() / 24)
		if days < 0 {
			continue
		}
		a, found := groups[proc]
		if !found {
			a = &agg{}
			groups[proc] = a
		}
		a.days += days
		a.count++
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return groups[keys[i]].count > groups[keys[j]].count
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("DESC_PROC_REAL", "QTD_AIH", "MEDIA_DIAS")
	for _, k := range keys {
		a := groups[k]
		mean := float64(a.days) / float64(a.count)
		tbl.Append(k, itoa(a.count), decimal(mean))
	}
	return tbl
}

// TopPhysicians ranks physicians by distinct claims and act spend.
func TopPhysicians(v *dataset.View) *model.Table {
	type agg struct {
		claims map[string]struct{}
		cents  int64
	}
	groups := make(map[string]*agg)
	for i := range v.Lines {
		l := &v.Lines[i]
		if !model.ValidPhysician(l.PhysicianName) {
			continue
		}
		a, ok := groups[*l.PhysicianName]
		if !ok {
			a = &agg{claims: make(map[string]struct{})}
			groups[*l.PhysicianName] = a
		}
		if l.ClaimID != "" {
			a.claims[l.ClaimID] = struct{}{}
		}
		a.cents += l.LineValueCents
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return len(groups[keys[i]].claims) > len(groups[keys[j]].claims)
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("MEDICO", "QTD_AIH", "VALOR_TOTAL_ATOS")
	for _, k := range keys {
		a := groups[k]
		tbl.Append(k, itoa(len(a.claims)), money(a.cents))
	}
	return tbl
}

// TopPatients ranks patients by claim count and total calculated cost.
func TopPatients(v *dataset.View) *model.Table {
	totals := v.TotalCostByClaim()
	type agg struct {
		name   *string
		claims int
		cents  int64
	}
	groups := make(map[string]*agg)
	for i := range v.Claims {
		c := &v.Claims[i]
		if c.PatientID == nil {
			continue
		}
		a, ok := groups[*c.PatientID]
		if !ok {
			a = &agg{name: c.PatientName}
			groups[*c.PatientID] = a
		}
		a.claims++
		a.cents += totals[c.ClaimID]
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return groups[keys[i]].claims > groups[keys[j]].claims
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("PACCNS", "NOME", "QTD_AIH", "CUSTO_TOTAL")
	for _, k := range keys {
		a := groups[k]
		tbl.Append(k, normalize.Deref(a.name), itoa(a.claims), money(a.cents))
	}
	return tbl
}

// TopSuppliers ranks device suppliers by spend, joining legal names from
// the registry.
func TopSuppliers(v *dataset.View) *model.Table {
	type agg struct {
		cents  int64
		claims map[string]struct{}
	}
	groups := make(map[string]*agg)
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.PayeeTaxID == nil {
			continue
		}
		a, ok := groups[*l.PayeeTaxID]
		if !ok {
			a = &agg{claims: make(map[string]struct{})}
			groups[*l.PayeeTaxID] = a
		}
		a.cents += l.LineValueCents
		if l.ClaimID != "" {
			a.claims[l.ClaimID] = struct{}{}
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return groups[keys[i]].cents > groups[keys[j]].cents
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("SP_PJ_DOC", "CNPJ_FORMATADO", "RAZAO_SOCIAL", "QTD_AIH", "VALOR_TOTAL_OPME")
	for _, k := range keys {
		a := groups[k]
		cnpj := k
		tbl.Append(
			cnpj,
			normalize.FormatCNPJ(&cnpj),
			normalize.Deref(v.SupplierName(&cnpj)),
			itoa(len(a.claims)),
			money(a.cents),
		)
	}
	return tbl
}

// TopDevices ranks device descriptions by total spend with mean values.
func TopDevices(v *dataset.View) *model.Table {
	type agg struct {
		count int
		cents int64
	}
	groups := make(map[string]*agg)
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.ProcedureDescription == nil {
			continue
		}
		a, ok := groups[*l.ProcedureDescription]
		if !ok {
			a = &agg{}
			groups[*l.ProcedureDescription] = a
		}
		a.count++
		a.cents += l.LineValueCents
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return groups[keys[i]].cents > groups[keys[j]].cents
	})
	if len(keys) > topN {
		keys = keys[:topN]
	}

	tbl := model.NewTable("DESC_ATO_PROF", "QTD", "VALOR_TOTAL", "VALOR_MEDIO")
	for _, k := range keys {
		a := groups[k]
		tbl.Append(k, itoa(a.count), money(a.cents), money(a.cents/int64(a.count)))
	}
	return tbl
}
