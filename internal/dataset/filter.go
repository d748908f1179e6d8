package dataset

import "github.com/gyeh/aihaudit/internal/model"

// FilterSpec restricts a View before detectors run. Zero values mean "no
// restriction". Year bounds are inclusive and apply to the admission year.
type FilterSpec struct {
	YearMin    int
	YearMax    int
	Physician  string
	Procedure  string
	FacilityID string
}

// IsZero reports whether the spec restricts nothing.
func (s FilterSpec) IsZero() bool {
	return s == FilterSpec{}
}

// Filter returns a new View restricted by the spec. Physician and principal
// procedure restrict the claim view to the claim ids matched in the line
// view, so claim-level detectors see every claim the selected physician or
// procedure touched. Facility and year bounds apply to both views directly.
func (v *View) Filter(spec FilterSpec) *View {
	if spec.IsZero() {
		return v
	}

	keepLine := func(l *model.ClaimLine) bool {
		if spec.YearMin != 0 && (l.AdmissionYear == 0 || l.AdmissionYear < spec.YearMin) {
			return false
		}
		if spec.YearMax != 0 && (l.AdmissionYear == 0 || l.AdmissionYear > spec.YearMax) {
			return false
		}
		if spec.Physician != "" && (l.PhysicianName == nil || *l.PhysicianName != spec.Physician) {
			return false
		}
		if spec.Procedure != "" && (l.PrincipalProcedure == nil || *l.PrincipalProcedure != spec.Procedure) {
			return false
		}
		if spec.FacilityID != "" && (l.FacilityID == nil || *l.FacilityID != spec.FacilityID) {
			return false
		}
		return true
	}

	// Claim ids for the physician/procedure restriction are gathered from
	// the unfiltered line view, so a claim survives even when the matching
	// line itself falls outside the year or facility bounds.
	claimIDs := make(map[string]struct{})
	if spec.Physician != "" || spec.Procedure != "" {
		for i := range v.Lines {
			l := &v.Lines[i]
			if spec.Physician != "" && (l.PhysicianName == nil || *l.PhysicianName != spec.Physician) {
				continue
			}
			if spec.Procedure != "" && (l.PrincipalProcedure == nil || *l.PrincipalProcedure != spec.Procedure) {
				continue
			}
			claimIDs[l.ClaimID] = struct{}{}
		}
	}

	var lines []model.ClaimLine
	for i := range v.Lines {
		if keepLine(&v.Lines[i]) {
			lines = append(lines, v.Lines[i])
		}
	}

	keepClaim := func(c *model.Claim) bool {
		if spec.YearMin != 0 && (c.AdmissionYear == 0 || c.AdmissionYear < spec.YearMin) {
			return false
		}
		if spec.YearMax != 0 && (c.AdmissionYear == 0 || c.AdmissionYear > spec.YearMax) {
			return false
		}
		if spec.FacilityID != "" && (c.FacilityID == nil || *c.FacilityID != spec.FacilityID) {
			return false
		}
		// Physician and procedure live on lines, not claims: keep the
		// claims whose ids survived the line filter.
		if spec.Physician != "" || spec.Procedure != "" {
			if _, ok := claimIDs[c.ClaimID]; !ok {
				return false
			}
		}
		return true
	}

	var claims []model.Claim
	for i := range v.Claims {
		if keepClaim(&v.Claims[i]) {
			claims = append(claims, v.Claims[i])
		}
	}

	return &View{Lines: lines, Claims: claims, Suppliers: v.Suppliers}
}
