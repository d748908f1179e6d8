package detect

import (
	"sort"
	"strings"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

// multiProceduresPerDay flags a claim whose lines record more than three
// distinct principal procedures for the same patient on the same admission
// date.
func multiProceduresPerDay(v *dataset.View) *model.Table {
	type key struct {
		claim   string
		patient string
		name    string
		date    string
	}
	groups := make(map[key]*distinct)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.ClaimID == "" || l.PatientID == nil || l.PatientName == nil ||
			l.AdmissionDate == nil || l.PrincipalProcedure == nil {
			continue
		}
		k := key{l.ClaimID, *l.PatientID, *l.PatientName, normalize.FormatDate(l.AdmissionDate)}
		g, ok := groups[k]
		if !ok {
			g = &distinct{}
			groups[k] = g
			order = append(order, k)
		}
		g.add(*l.PrincipalProcedure)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.claim != b.claim {
			return a.claim < b.claim
		}
		if a.patient != b.patient {
			return a.patient < b.patient
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.date < b.date
	})
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].len() > groups[order[j]].len()
	})

	tbl := model.NewTable("SP_NAIH", "PACCNS", "NOME", "SP_DTINTER", "NUM_PROCEDIMENTOS_DISTINTOS")
	for _, k := range order {
		n := groups[k].len()
		if n <= maxProceduresPerDay {
			continue
		}
		tbl.Append(k.claim, k.patient, k.name, k.date, fmtInt(n))
	}
	return tbl
}

// patientExcessiveActs flags patients accumulating more than two distinct
// professional acts across the period, listing the act descriptions as
// evidence. Device lines are excluded; the listing is capped at the top
// offenders.
func patientExcessiveActs(v *dataset.View) *model.Table {
	type key struct {
		patient string
		name    string
	}
	codes := make(map[key]*distinct)
	descs := make(map[key]*distinct)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.IsDevice || l.ProcedureCode == nil || l.PatientID == nil || l.PatientName == nil {
			continue
		}
		k := key{*l.PatientID, *l.PatientName}
		if _, ok := codes[k]; !ok {
			codes[k] = &distinct{}
			descs[k] = &distinct{}
			order = append(order, k)
		}
		codes[k].add(*l.ProcedureCode)
		if l.ProcedureDescription != nil {
			descs[k].add(*l.ProcedureDescription)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.patient != b.patient {
			return a.patient < b.patient
		}
		return a.name < b.name
	})
	sort.SliceStable(order, func(i, j int) bool {
		return codes[order[i]].len() > codes[order[j]].len()
	})

	tbl := model.NewTable("PACCNS", "NOME", "NUM_ATOS_DISTINTOS", "LISTA_ATOS_PROF_DESC")
	for _, k := range order {
		n := codes[k].len()
		if n <= maxProfessionalActs {
			continue
		}
		acts := append([]string(nil), descs[k].order...)
		sort.Strings(acts)
		tbl.Append(k.patient, k.name, fmtInt(n), strings.Join(acts, ", "))
		if tbl.Len() == excessiveActsTopN {
			break
		}
	}
	return tbl
}

// multiDevicesPerClaim flags a claim carrying more than two distinct
// device (OPME) codes.
func multiDevicesPerClaim(v *dataset.View) *model.Table {
	type key struct {
		claim   string
		patient string
		name    string
	}
	groups := make(map[key]*distinct)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.ClaimID == "" || l.PatientID == nil ||
			l.PatientName == nil || l.ProcedureCode == nil {
			continue
		}
		k := key{l.ClaimID, *l.PatientID, *l.PatientName}
		g, ok := groups[k]
		if !ok {
			g = &distinct{}
			groups[k] = g
			order = append(order, k)
		}
		g.add(*l.ProcedureCode)
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.claim != b.claim {
			return a.claim < b.claim
		}
		if a.patient != b.patient {
			return a.patient < b.patient
		}
		return a.name < b.name
	})
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].len() > groups[order[j]].len()
	})

	tbl := model.NewTable("SP_NAIH", "PACCNS", "NOME", "NUM_OPME_DISTINTAS")
	for _, k := range order {
		n := groups[k].len()
		if n <= maxDevicesPerClaim {
			continue
		}
		tbl.Append(k.claim, k.patient, k.name, fmtInt(n))
	}
	return tbl
}

// deviceWithoutProcedure flags a device line whose claim has no principal
// procedure at all, or whose principal procedures carry none of the
// keywords mapped for the device's code prefix. Prefixes without a keyword
// mapping are treated as compatible.
func deviceWithoutProcedure(v *dataset.View) *model.Table {
	procs := make(map[string][]string)
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.ClaimID == "" || l.PrincipalProcedure == nil {
			continue
		}
		found := false
		for _, p := range procs[l.ClaimID] {
			if p == *l.PrincipalProcedure {
				found = true
				break
			}
		}
		if !found {
			procs[l.ClaimID] = append(procs[l.ClaimID], *l.PrincipalProcedure)
		}
	}

	tbl := model.NewTable("SP_NAIH", "NOME", "MEDICO", "SP_ATOPROF", "DESC_ATO_PROF", "SP_VALATO")
	for i := range v.Lines {
		l := &v.Lines[i]
		if !l.IsDevice || l.ClaimID == "" {
			continue
		}
		claimProcs := procs[l.ClaimID]
		flag := false
		if len(claimProcs) == 0 {
			flag = true
		} else if l.ProcedureCode != nil {
			keywords, mapped := prefixKeywords(*l.ProcedureCode)
			if mapped && !anyContains(claimProcs, keywords) {
				flag = true
			}
		}
		if !flag {
			continue
		}
		tbl.Append(
			l.ClaimID,
			str(l.PatientName),
			str(l.PhysicianName),
			str(l.ProcedureCode),
			str(l.ProcedureDescription),
			fmtMoney(l.LineValueCents),
		)
	}
	return tbl
}

func prefixKeywords(code string) ([]string, bool) {
	for prefix, kws := range deviceProcedureKeywords {
		if strings.HasPrefix(code, prefix) {
			return kws, true
		}
	}
	return nil, false
}

func anyContains(procs, keywords []string) bool {
	for _, p := range procs {
		for _, kw := range keywords {
			if strings.Contains(p, kw) {
				return true
			}
		}
	}
	return false
}
