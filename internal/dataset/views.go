// Package dataset derives the canonical analysis views from normalized
// claim lines: the one-row-per-claim summary, per-claim device rollups and
// the filtered snapshots every detector consumes. Views are immutable once
// built; detectors only read them.
package dataset

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/model"
)

// View bundles the canonical views plus the supplier registry index. All
// detectors and reports run against one View.
type View struct {
	Lines     []model.ClaimLine
	Claims    []model.Claim
	Suppliers map[string]*string // padded CNPJ → legal name
}

// NewView builds the canonical claim view from lines and indexes the
// supplier registry.
func NewView(lines []model.ClaimLine, suppliers []model.Supplier) *View {
	idx := make(map[string]*string, len(suppliers))
	for i := range suppliers {
		idx[suppliers[i].CNPJ] = suppliers[i].LegalName
	}
	return &View{
		Lines:     lines,
		Claims:    BuildClaimView(lines),
		Suppliers: idx,
	}
}

// SupplierName resolves a payee tax id against the registry. Unmatched or
// nil ids resolve to nil; the row is never dropped on a failed join.
func (v *View) SupplierName(cnpj *string) *string {
	if cnpj == nil {
		return nil
	}
	return v.Suppliers[*cnpj]
}

// BuildClaimView derives the one-row-per-claim summary. The claim-level
// cost fields come from the first line (input order) whose professional doc
// is not the all-zero institution sentinel; a claim whose lines all carry
// the sentinel still yields one row from its first line. Output is ordered
// by claim id. Deterministic and idempotent on the same input.
func BuildClaimView(lines []model.ClaimLine) []model.Claim {
	primary := make(map[string]*model.ClaimLine)
	fallback := make(map[string]*model.ClaimLine)
	var order []string

	for i := range lines {
		l := &lines[i]
		if l.ClaimID == "" {
			continue
		}
		if _, seen := fallback[l.ClaimID]; !seen {
			fallback[l.ClaimID] = l
			order = append(order, l.ClaimID)
		}
		sentinel := l.ProfessionalTaxID != nil && *l.ProfessionalTaxID == model.InstitutionDoc
		if !sentinel {
			if _, seen := primary[l.ClaimID]; !seen {
				primary[l.ClaimID] = l
			}
		}
	}

	sort.Strings(order)
	claims := make([]model.Claim, 0, len(order))
	for _, id := range order {
		l := primary[id]
		if l == nil {
			l = fallback[id]
		}
		claims = append(claims, model.Claim{
			ClaimID:                l.ClaimID,
			PatientID:              l.PatientID,
			PatientName:            l.PatientName,
			HospitalValueCents:     l.HospitalValueCents,
			ProfessionalValueCents: l.ProfessionalValueCents,
			AdmissionDate:          l.AdmissionDate,
			DischargeDate:          l.DischargeDate,
			FacilityID:             l.FacilityID,
			State:                  l.State,
			AdmissionYear:          l.AdmissionYear,
			AdmissionPeriod:        l.AdmissionPeriod,
		})
	}
	return claims
}

// DeviceCostByClaim sums device (OPME) line values per claim, in cents.
func DeviceCostByClaim(lines []model.ClaimLine) map[string]int64 {
	costs := make(map[string]int64)
	for i := range lines {
		if lines[i].IsDevice && lines[i].ClaimID != "" {
			costs[lines[i].ClaimID] += lines[i].LineValueCents
		}
	}
	return costs
}

// TotalCostByClaim computes hospital + professional + device cents per
// claim in the view.
func (v *View) TotalCostByClaim() map[string]int64 {
	device := DeviceCostByClaim(v.Lines)
	totals := make(map[string]int64, len(v.Claims))
	for i := range v.Claims {
		c := &v.Claims[i]
		totals[c.ClaimID] = c.HospitalValueCents + c.ProfessionalValueCents + device[c.ClaimID]
	}
	return totals
}
