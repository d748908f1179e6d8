package detect

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

// earlyReadmission flags a claim admitted less than 30 days after the
// patient's previous discharge. Negative gaps (overlapping stays) are not
// flagged; they indicate data problems, not readmission.
func earlyReadmission(v *dataset.View) *model.Table {
	var claims []*model.Claim
	for i := range v.Claims {
		if v.Claims[i].PatientID != nil {
			claims = append(claims, &v.Claims[i])
		}
	}

	sort.SliceStable(claims, func(i, j int) bool {
		a, b := claims[i], claims[j]
		if *a.PatientID != *b.PatientID {
			return *a.PatientID < *b.PatientID
		}
		// Missing admission dates sort last within a patient.
		switch {
		case a.AdmissionDate == nil:
			return false
		case b.AdmissionDate == nil:
			return true
		default:
			return a.AdmissionDate.Before(*b.AdmissionDate)
		}
	})

	tbl := model.NewTable(
		"SP_NAIH", "PACCNS", "NOME",
		"SP_DTINTER", "DATA_SAIDA_ANTERIOR", "DIAS_ENTRE_INTERNACOES",
	)
	for i := 1; i < len(claims); i++ {
		cur, prev := claims[i], claims[i-1]
		if *cur.PatientID != *prev.PatientID {
			continue
		}
		if cur.AdmissionDate == nil || prev.DischargeDate == nil {
			continue
		}
		gap := int(cur.AdmissionDate.Sub(*prev.DischargeDate).Hours() / 24)
		if gap < 0 || gap >= readmissionGapDays {
			continue
		}
		tbl.Append(
			cur.ClaimID,
			*cur.PatientID,
			str(cur.PatientName),
			normalize.FormatDate(cur.AdmissionDate),
			normalize.FormatDate(prev.DischargeDate),
			fmtInt(gap),
		)
	}
	return tbl
}
