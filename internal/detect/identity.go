package detect

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// identityGroup is the evidence for one (anchor, variant) pair of an
// identity inconsistency: the claim ids and physicians seen with it.
type identityGroup struct {
	claims     distinct
	physicians distinct
}

// patientMultipleNames flags a health-card id appearing under more than
// one patient name, one row per (id, name) pair with example claims and
// physicians.
func patientMultipleNames(v *dataset.View) *model.Table {
	return identityInconsistency(v,
		func(l *model.ClaimLine) (string, bool) {
			if l.PatientID == nil {
				return "", false
			}
			return *l.PatientID, true
		},
		func(l *model.ClaimLine) (string, bool) {
			if l.PatientName == nil {
				return "", false
			}
			return *l.PatientName, true
		},
		"PACCNS", "NOME",
	)
}

// patientMultipleIDs is the mirror rule: one patient name spread across
// more than one health-card id.
func patientMultipleIDs(v *dataset.View) *model.Table {
	return identityInconsistency(v,
		func(l *model.ClaimLine) (string, bool) {
			if l.PatientName == nil {
				return "", false
			}
			return *l.PatientName, true
		},
		func(l *model.ClaimLine) (string, bool) {
			if l.PatientID == nil {
				return "", false
			}
			return *l.PatientID, true
		},
		"NOME", "PACCNS",
	)
}

func identityInconsistency(v *dataset.View, anchor, variant func(*model.ClaimLine) (string, bool), anchorCol, variantCol string) *model.Table {
	variants := make(map[string]*distinct)
	for i := range v.Lines {
		l := &v.Lines[i]
		a, ok := anchor(l)
		if !ok {
			continue
		}
		vv, ok := variant(l)
		if !ok {
			continue
		}
		d, found := variants[a]
		if !found {
			d = &distinct{}
			variants[a] = d
		}
		d.add(vv)
	}

	type key struct {
		anchor  string
		variant string
	}
	groups := make(map[key]*identityGroup)
	var order []key
	for i := range v.Lines {
		l := &v.Lines[i]
		a, ok := anchor(l)
		if !ok {
			continue
		}
		// A line can carry the anchor with a missing variant; such anchors
		// never enter the variants map.
		if d := variants[a]; d == nil || d.len() <= 1 {
			continue
		}
		vv, ok := variant(l)
		if !ok {
			continue
		}
		k := key{a, vv}
		g, found := groups[k]
		if !found {
			g = &identityGroup{}
			groups[k] = g
			order = append(order, k)
		}
		if l.ClaimID != "" {
			g.claims.add(l.ClaimID)
		}
		if l.PhysicianName != nil {
			g.physicians.add(*l.PhysicianName)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.anchor != b.anchor {
			return a.anchor < b.anchor
		}
		return a.variant < b.variant
	})
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.anchor != b.anchor {
			return a.anchor < b.anchor
		}
		return groups[a].claims.len() > groups[b].claims.len()
	})

	tbl := model.NewTable(anchorCol, variantCol, "AIHS", "MEDICOS", "QTD_AIHS")
	for _, k := range order {
		g := groups[k]
		tbl.Append(
			k.anchor,
			k.variant,
			g.claims.examples(exampleListLimit),
			g.physicians.examples(exampleListLimit),
			fmtInt(g.claims.len()),
		)
	}
	return tbl
}
