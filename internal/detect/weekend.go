package detect

import (
	"sort"
	"time"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// weekdayOrder is Monday-first, the order the evidence columns are laid
// out in.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// weekendProcedures flags principal procedures whose distinct claims fall
// on weekends more than 30% of the time and more than three times in
// absolute terms. The rule only runs when the data has at least one
// Saturday and one Sunday admission, otherwise a weekday-only extract
// would flag nothing meaningful.
func weekendProcedures(v *dataset.View) *model.Table {
	type counts struct {
		byDay map[time.Weekday]*distinct
	}
	groups := make(map[string]*counts)
	var order []string
	sawSaturday, sawSunday := false, false

	for i := range v.Lines {
		l := &v.Lines[i]
		if l.PrincipalProcedure == nil || l.AdmissionDate == nil || l.ClaimID == "" {
			continue
		}
		day := l.AdmissionDate.Weekday()
		switch day {
		case time.Saturday:
			sawSaturday = true
		case time.Sunday:
			sawSunday = true
		}
		g, ok := groups[*l.PrincipalProcedure]
		if !ok {
			g = &counts{byDay: make(map[time.Weekday]*distinct)}
			groups[*l.PrincipalProcedure] = g
			order = append(order, *l.PrincipalProcedure)
		}
		d, ok := g.byDay[day]
		if !ok {
			d = &distinct{}
			g.byDay[day] = d
		}
		d.add(l.ClaimID)
	}
	if !sawSaturday || !sawSunday {
		return nil
	}

	type row struct {
		proc    string
		byDay   map[time.Weekday]int
		weekend int
		total   int
		pct     float64
	}
	var rows []row
	for _, proc := range order {
		g := groups[proc]
		byDay := make(map[time.Weekday]int, 7)
		total := 0
		for _, day := range weekdayOrder {
			n := 0
			if d, ok := g.byDay[day]; ok {
				n = d.len()
			}
			byDay[day] = n
			total += n
		}
		weekend := byDay[time.Saturday] + byDay[time.Sunday]
		if total == 0 {
			continue
		}
		pct := round2(float64(weekend) / float64(total) * 100)
		if pct <= weekendSharePct || weekend <= weekendAbsoluteCount {
			continue
		}
		rows = append(rows, row{proc, byDay, weekend, total, pct})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].pct > rows[j].pct
	})

	cols := []string{"DESC_PROC_REAL"}
	for _, day := range weekdayOrder {
		cols = append(cols, day.String())
	}
	cols = append(cols, "TOTAL_FDS", "TOTAL_SEMANA_CALC", "PERC_FDS")
	tbl := model.NewTable(cols...)
	for _, r := range rows {
		cells := []string{r.proc}
		for _, day := range weekdayOrder {
			cells = append(cells, fmtInt(r.byDay[day]))
		}
		cells = append(cells, fmtInt(r.weekend), fmtInt(r.total), fmtDecimal(r.pct))
		tbl.Append(cells...)
	}
	return tbl
}
