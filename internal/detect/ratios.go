package detect

import (
	"sort"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// highProfessionalRatio flags claims where the professional services value
// is more than five times the hospital services value. Claims with a zero
// hospital value are excluded rather than treated as infinite ratios.
func highProfessionalRatio(v *dataset.View) *model.Table {
	type row struct {
		claim *model.Claim
		ratio float64
	}
	var rows []row
	for i := range v.Claims {
		c := &v.Claims[i]
		if c.HospitalValueCents == 0 {
			continue
		}
		ratio := float64(c.ProfessionalValueCents) / float64(c.HospitalValueCents)
		if ratio <= professionalRatioLimit {
			continue
		}
		rows = append(rows, row{c, ratio})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ratio > rows[j].ratio
	})

	tbl := model.NewTable("SP_NAIH", "NOME", "VAL_SH", "VAL_SP", "RATIO_SP_SH")
	for _, r := range rows {
		tbl.Append(
			r.claim.ClaimID,
			str(r.claim.PatientName),
			fmtMoney(r.claim.HospitalValueCents),
			fmtMoney(r.claim.ProfessionalValueCents),
			fmtDecimal(r.ratio),
		)
	}
	return tbl
}
