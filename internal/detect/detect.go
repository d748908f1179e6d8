// Package detect implements the audit rule catalog: independent, pure
// detectors over the canonical claim views, and the registry that runs
// them. Detectors never mutate the views and treat empty input as "no
// finding", so they may run in any order.
package detect

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

// Rule thresholds. All boundaries are exclusive unless noted.
const (
	readmissionGapDays        = 30   // flag gap in [0, 30)
	maxProceduresPerDay       = 3    // flag distinct principal procedures > 3
	maxProfessionalActs       = 2    // flag distinct professional acts > 2
	maxDevicesPerClaim        = 2    // flag distinct device codes > 2
	supplierSharePct          = 50.0 // flag device-spend share > 50%
	professionalRatioLimit    = 5.0  // flag SP/SH ratio > 5
	deviceShareLimit          = 0.7  // flag device share of total cost > 0.70
	facilitySharePct          = 50.0 // flag physician share of facility claims > 50%
	highCostActPercentile     = 0.90 // flag physicians at/above P90 of act counts
	physicianSupplierPct      = 70.0 // flag supplier share of physician spend > 70%
	weekendSharePct           = 30.0 // flag weekend share > 30% ...
	weekendAbsoluteCount      = 3    // ... AND weekend claim count > 3
	excessiveActsTopN         = 15   // cap on the excessive-acts listing
	iqrFenceMultiplier        = 1.5  // upper fence = Q3 + 1.5×IQR
	exampleListLimit          = 3    // example claim ids / physicians shown per group
)

// highCostActs is the fixed set of high-cost professional act descriptions
// used by the physician frequency rule. Taken from the program's audit
// guideline; ideally this would come from the SIGTAP procedure registry.
var highCostActs = map[string]struct{}{
	"ANGIOPLASTIA CORONARIANA COM IMPLANTE DE STENT":      {},
	"ANGIOPLASTIA CORONARIANA C/ IMPLANTE DE DOIS STENTS": {},
	"CATETERISMO CARDIACO":                                {},
}

// deviceProcedureKeywords maps a device-code prefix to the principal
// procedure keywords that justify its use. A device whose prefix is not
// mapped is treated as compatible (permissive default).
var deviceProcedureKeywords = map[string][]string{
	model.DeviceCodePrefix: {
		"ANGIOPLASTIA",
		"STENT",
		"CATETERISMO",
		"REVASCULARIZACAO",
		"IMPLANTE",
		"ENDOPROTES",
		"ABLAÇÃO",
		"MARCAPASSO",
	},
}

func fmtInt(n int) string {
	return strconv.Itoa(n)
}

func fmtMoney(cents int64) string {
	return normalize.FormatMoney(cents)
}

// fmtDecimal renders a float with two decimals and a comma separator,
// matching the money locale of the exports.
func fmtDecimal(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// round2 rounds to two decimal places. Shares are rounded before the
// threshold comparison, so 50.004% rounds down and is not flagged.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func str(s *string) string {
	return normalize.Deref(s)
}

// distinct accumulates string set membership while preserving first-seen
// order, the way the evidence lists are built.
type distinct struct {
	seen  map[string]struct{}
	order []string
}

func (d *distinct) add(s string) {
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[s]; ok {
		return
	}
	d.seen[s] = struct{}{}
	d.order = append(d.order, s)
}

func (d *distinct) len() int {
	return len(d.order)
}

// examples renders the first n distinct values (appearance order), sorted
// for display, with an ellipsis when more exist.
func (d *distinct) examples(n int) string {
	head := d.order
	if len(head) > n {
		head = head[:n]
	}
	sorted := append([]string(nil), head...)
	sort.Strings(sorted)
	out := strings.Join(sorted, ", ")
	if len(d.order) > n {
		out += "..."
	}
	return out
}

// sortedExamples renders the first n of the fully sorted distinct values,
// with an ellipsis when more exist.
func (d *distinct) sortedExamples(n int) string {
	sorted := append([]string(nil), d.order...)
	sort.Strings(sorted)
	more := len(sorted) > n
	if more {
		sorted = sorted[:n]
	}
	out := strings.Join(sorted, ", ")
	if more {
		out += "..."
	}
	return out
}
