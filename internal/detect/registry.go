package detect

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// A Detector pairs an alert kind with the rule that produces its evidence
// table. Run returns nil or an empty table when nothing is flagged.
type Detector struct {
	Kind model.AlertKind
	Run  func(v *dataset.View) *model.Table
}

var runners = map[string]func(v *dataset.View) *model.Table{
	"early_readmission":                 earlyReadmission,
	"multi_procedures_per_day":          multiProceduresPerDay,
	"patient_excessive_acts":            patientExcessiveActs,
	"physician_high_cost_acts":          physicianHighCostActs,
	"multi_devices_per_claim":           multiDevicesPerClaim,
	"supplier_concentration":            supplierConcentration,
	"device_cost_outliers":              deviceCostOutliers,
	"duplicate_device_invoices":         duplicateDeviceInvoices,
	"device_missing_invoice":            deviceMissingInvoice,
	"high_professional_ratio":           highProfessionalRatio,
	"high_device_share":                 highDeviceShare,
	"physician_facility_concentration":  physicianFacilityConcentration,
	"device_without_procedure":          deviceWithoutProcedure,
	"physician_supplier_concentration":  physicianSupplierConcentration,
	"weekend_procedures":                weekendProcedures,
	"patient_multiple_names":            patientMultipleNames,
	"patient_multiple_ids":              patientMultipleIDs,
}

// Catalog returns every detector in canonical order. The order is stable
// so reports and exports are reproducible across runs.
func Catalog() []Detector {
	out := make([]Detector, 0, len(model.AllAlertKinds))
	for _, kind := range model.AllAlertKinds {
		run, ok := runners[kind.Key]
		if !ok {
			panic(fmt.Sprintf("detect: alert kind %q has no detector", kind.Key))
		}
		out = append(out, Detector{Kind: kind, Run: run})
	}
	return out
}

// Select returns the detectors for the given keys, in canonical order.
// Unknown keys are reported as an error rather than silently skipped.
func Select(keys []string) ([]Detector, error) {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := runners[k]; !ok {
			return nil, fmt.Errorf("unknown alert key %q", k)
		}
		want[k] = struct{}{}
	}
	var out []Detector
	for _, d := range Catalog() {
		if _, ok := want[d.Kind.Key]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// RunAll executes the detectors against the view and returns the results
// that found something, preserving detector order. A panicking detector
// is logged and treated as no finding so one bad rule cannot sink a run.
func RunAll(detectors []Detector, v *dataset.View, log zerolog.Logger) []model.AlertResult {
	var results []model.AlertResult
	for _, d := range detectors {
		tbl := runSafe(d, v, log)
		if tbl.Empty() {
			continue
		}
		log.Info().
			Str("alert", d.Kind.Key).
			Int("rows", tbl.Len()).
			Msg("detector flagged rows")
		results = append(results, model.AlertResult{Kind: d.Kind, Table: tbl})
	}
	return results
}

func runSafe(d Detector, v *dataset.View, log zerolog.Logger) (tbl *model.Table) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().
				Str("alert", d.Kind.Key).
				Interface("panic", r).
				Msg("detector panicked, skipping")
			tbl = nil
		}
	}()
	return d.Run(v)
}
