package detect

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// physicianHighCostActs flags physicians whose count of high-cost acts
// reaches the 90th percentile of all physician counts. Placeholder
// physician names never participate.
func physicianHighCostActs(v *dataset.View) *model.Table {
	type agg struct {
		count int
		cents int64
	}
	groups := make(map[string]*agg)
	var order []string
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.IsDevice || l.ProcedureDescription == nil || !model.ValidPhysician(l.PhysicianName) {
			continue
		}
		if _, ok := highCostActs[*l.ProcedureDescription]; !ok {
			continue
		}
		g, ok := groups[*l.PhysicianName]
		if !ok {
			g = &agg{}
			groups[*l.PhysicianName] = g
			order = append(order, *l.PhysicianName)
		}
		if l.ProcedureCode != nil {
			g.count++
		}
		g.cents += l.LineValueCents
	}
	if len(groups) == 0 {
		return nil
	}

	counts := make([]float64, 0, len(order))
	for _, name := range order {
		counts = append(counts, float64(groups[name].count))
	}
	cutoff := Quantile(counts, highCostActPercentile)

	sort.Strings(order)
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].count > groups[order[j]].count
	})

	tbl := model.NewTable("MEDICO", "QTD_ATOS_ALTO_CUSTO", "VALOR_TOTAL_ATOS_ALTO_CUSTO")
	for _, name := range order {
		g := groups[name]
		if float64(g.count) < cutoff {
			continue
		}
		tbl.Append(name, fmtInt(g.count), fmtMoney(g.cents))
	}
	return tbl
}

// physicianFacilityConcentration flags a physician responsible for more
// than half the claims of a facility. The facility total comes from the
// claim view; the per-physician count from distinct claim ids on service
// lines.
func physicianFacilityConcentration(v *dataset.View) *model.Table {
	type key struct {
		facility  string
		physician string
	}
	perPhysician := make(map[key]*distinct)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		if l.IsDevice || l.FacilityID == nil || !model.ValidPhysician(l.PhysicianName) || l.ClaimID == "" {
			continue
		}
		k := key{*l.FacilityID, *l.PhysicianName}
		g, ok := perPhysician[k]
		if !ok {
			g = &distinct{}
			perPhysician[k] = g
			order = append(order, k)
		}
		g.add(l.ClaimID)
	}

	perFacility := make(map[string]*distinct)
	for i := range v.Claims {
		c := &v.Claims[i]
		if c.FacilityID == nil {
			continue
		}
		g, ok := perFacility[*c.FacilityID]
		if !ok {
			g = &distinct{}
			perFacility[*c.FacilityID] = g
		}
		g.add(c.ClaimID)
	}

	type row struct {
		key   key
		count int
		total int
		pct   float64
	}
	var rows []row
	for _, k := range order {
		facTotal, ok := perFacility[k.facility]
		if !ok || facTotal.len() == 0 {
			continue
		}
		n := perPhysician[k].len()
		pct := round2(float64(n) / float64(facTotal.len()) * 100)
		if pct <= facilitySharePct {
			continue
		}
		rows = append(rows, row{k, n, facTotal.len(), pct})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.key.facility != b.key.facility {
			return a.key.facility < b.key.facility
		}
		if a.pct != b.pct {
			return a.pct > b.pct
		}
		return a.key.physician < b.key.physician
	})

	tbl := model.NewTable("SP_CNES", "MEDICO", "NUM_AIH_MEDICO_HOSP", "TOTAL_AIH_HOSPITAL", "PERCENTUAL_AIH_MEDICO")
	for _, r := range rows {
		tbl.Append(r.key.facility, r.key.physician, fmtInt(r.count), fmtInt(r.total), fmtDecimal(r.pct))
	}
	return tbl
}
