package detect

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

func sp(s string) *string { return &s }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func claimLine(claim string, mut func(*model.ClaimLine)) model.ClaimLine {
	l := model.ClaimLine{
		ClaimID:     claim,
		PatientID:   sp("700000000000001"),
		PatientName: sp("MARIA SILVA"),
	}
	if mut != nil {
		mut(&l)
	}
	return l
}

func deviceLine(claim string, cents int64, mut func(*model.ClaimLine)) model.ClaimLine {
	return claimLine(claim, func(l *model.ClaimLine) {
		l.IsDevice = true
		l.ProcedureCode = sp("0702050017")
		l.ProcedureDescription = sp("STENT CORONARIO")
		l.LineValueCents = cents
		if mut != nil {
			mut(l)
		}
	})
}

func viewOf(lines ...model.ClaimLine) *dataset.View {
	return dataset.NewView(lines, nil)
}

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.9, 3.7},
		{1, 4},
	}
	for _, c := range cases {
		got := Quantile(values, c.q)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Quantile(%v) = %v, want %v", c.q, got, c.want)
		}
	}
	if !math.IsNaN(Quantile(nil, 0.5)) {
		t.Error("Quantile of empty input should be NaN")
	}
}

func TestEarlyReadmissionBoundary(t *testing.T) {
	mk := func(claim string, admit, discharge *time.Time) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.AdmissionDate = admit
			l.DischargeDate = discharge
		})
	}
	v := viewOf(
		mk("A1", day(2023, 1, 1), day(2023, 1, 5)),
		mk("A2", day(2023, 2, 3), day(2023, 2, 10)), // 29 days after A1 discharge
		mk("A3", day(2023, 3, 12), day(2023, 3, 20)), // 30 days after A2 discharge
	)
	tbl := earlyReadmission(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d claims, want 1", tbl.Len())
	}
	if tbl.Rows[0][0] != "A2" || tbl.Rows[0][5] != "29" {
		t.Errorf("unexpected row %v", tbl.Rows[0])
	}
}

func TestEarlyReadmissionIgnoresOverlap(t *testing.T) {
	v := viewOf(
		claimLine("B1", func(l *model.ClaimLine) {
			l.AdmissionDate = day(2023, 1, 1)
			l.DischargeDate = day(2023, 1, 20)
		}),
		claimLine("B2", func(l *model.ClaimLine) {
			l.AdmissionDate = day(2023, 1, 10) // before previous discharge
			l.DischargeDate = day(2023, 1, 25)
		}),
	)
	if tbl := earlyReadmission(v); !tbl.Empty() {
		t.Errorf("overlapping stays flagged: %v", tbl.Rows)
	}
}

func TestEarlyReadmissionSkipsUnknownPatient(t *testing.T) {
	v := viewOf(
		claimLine("C1", func(l *model.ClaimLine) {
			l.PatientID = nil
			l.AdmissionDate = day(2023, 1, 1)
			l.DischargeDate = day(2023, 1, 2)
		}),
		claimLine("C2", func(l *model.ClaimLine) {
			l.PatientID = nil
			l.AdmissionDate = day(2023, 1, 3)
			l.DischargeDate = day(2023, 1, 4)
		}),
	)
	if tbl := earlyReadmission(v); !tbl.Empty() {
		t.Errorf("claims without patient id flagged: %v", tbl.Rows)
	}
}

func TestMultiProceduresPerDay(t *testing.T) {
	mk := func(proc string) model.ClaimLine {
		return claimLine("D1", func(l *model.ClaimLine) {
			l.AdmissionDate = day(2023, 5, 1)
			l.PrincipalProcedure = sp(proc)
		})
	}
	v := viewOf(mk("P1"), mk("P2"), mk("P3"), mk("P1"))
	if tbl := multiProceduresPerDay(v); !tbl.Empty() {
		t.Errorf("three distinct procedures flagged: %v", tbl.Rows)
	}
	v = viewOf(mk("P1"), mk("P2"), mk("P3"), mk("P4"))
	tbl := multiProceduresPerDay(v)
	if tbl.Len() != 1 || tbl.Rows[0][4] != "4" {
		t.Fatalf("four distinct procedures: got %v", tbl.Rows)
	}
}

func TestPatientExcessiveActs(t *testing.T) {
	mk := func(code, desc string) model.ClaimLine {
		return claimLine("E1", func(l *model.ClaimLine) {
			l.ProcedureCode = sp(code)
			l.ProcedureDescription = sp(desc)
		})
	}
	v := viewOf(mk("0406", "CATETERISMO CARDIACO"), mk("0407", "ANGIOPLASTIA"))
	if tbl := patientExcessiveActs(v); !tbl.Empty() {
		t.Errorf("two acts flagged: %v", tbl.Rows)
	}
	v = viewOf(
		mk("0406", "CATETERISMO CARDIACO"),
		mk("0407", "ANGIOPLASTIA"),
		mk("0408", "ABLAÇÃO"),
	)
	tbl := patientExcessiveActs(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d patients, want 1", tbl.Len())
	}
	if tbl.Rows[0][2] != "3" {
		t.Errorf("act count = %s, want 3", tbl.Rows[0][2])
	}
	if tbl.Rows[0][3] != "ABLAÇÃO, ANGIOPLASTIA, CATETERISMO CARDIACO" {
		t.Errorf("act list not sorted: %s", tbl.Rows[0][3])
	}
}

func TestPatientExcessiveActsSkipsDevices(t *testing.T) {
	v := viewOf(
		deviceLine("E2", 100, func(l *model.ClaimLine) { l.ProcedureCode = sp("0702A") }),
		deviceLine("E2", 100, func(l *model.ClaimLine) { l.ProcedureCode = sp("0702B") }),
		deviceLine("E2", 100, func(l *model.ClaimLine) { l.ProcedureCode = sp("0702C") }),
	)
	if tbl := patientExcessiveActs(v); !tbl.Empty() {
		t.Errorf("device lines counted as acts: %v", tbl.Rows)
	}
}

func TestPhysicianHighCostActsPercentile(t *testing.T) {
	var lines []model.ClaimLine
	add := func(physician string, n int) {
		for i := 0; i < n; i++ {
			lines = append(lines, claimLine("F1", func(l *model.ClaimLine) {
				l.PhysicianName = sp(physician)
				l.ProcedureCode = sp("0406030030")
				l.ProcedureDescription = sp("CATETERISMO CARDIACO")
				l.LineValueCents = 50000
			}))
		}
	}
	add("DR A", 1)
	add("DR B", 1)
	add("DR C", 1)
	add("DR D", 1)
	add("DR E", 10)
	tbl := physicianHighCostActs(viewOf(lines...))
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d physicians, want 1: %v", tbl.Len(), tbl.Rows)
	}
	if tbl.Rows[0][0] != "DR E" || tbl.Rows[0][1] != "10" {
		t.Errorf("unexpected row %v", tbl.Rows[0])
	}
	if tbl.Rows[0][2] != "5.000,00" {
		t.Errorf("total = %s, want 5.000,00", tbl.Rows[0][2])
	}
}

func TestPhysicianHighCostActsExcludesPlaceholders(t *testing.T) {
	v := viewOf(claimLine("F2", func(l *model.ClaimLine) {
		l.PhysicianName = sp(model.PhysicianNotApplicable)
		l.ProcedureCode = sp("0406030030")
		l.ProcedureDescription = sp("CATETERISMO CARDIACO")
	}))
	if tbl := physicianHighCostActs(v); !tbl.Empty() {
		t.Errorf("placeholder physician flagged: %v", tbl.Rows)
	}
}

func TestMultiDevicesPerClaim(t *testing.T) {
	mk := func(code string) model.ClaimLine {
		return deviceLine("G1", 100, func(l *model.ClaimLine) { l.ProcedureCode = sp(code) })
	}
	if tbl := multiDevicesPerClaim(viewOf(mk("0702A"), mk("0702B"))); !tbl.Empty() {
		t.Errorf("two devices flagged: %v", tbl.Rows)
	}
	tbl := multiDevicesPerClaim(viewOf(mk("0702A"), mk("0702B"), mk("0702C")))
	if tbl.Len() != 1 || tbl.Rows[0][3] != "3" {
		t.Fatalf("three devices: got %v", tbl.Rows)
	}
}

func TestSupplierConcentrationRoundsBeforeComparing(t *testing.T) {
	mk := func(claim, cnpj string, cents int64) model.ClaimLine {
		return deviceLine(claim, cents, func(l *model.ClaimLine) { l.PayeeTaxID = sp(cnpj) })
	}
	// 5000/10000 rounds to exactly 50.00: not above the threshold.
	v := viewOf(mk("H1", "11111111000191", 5000), mk("H2", "22222222000191", 5000))
	if tbl := supplierConcentration(v); !tbl.Empty() {
		t.Errorf("exactly 50%% flagged: %v", tbl.Rows)
	}
	// 5001/10000 = 50.01%: flagged.
	v = viewOf(mk("H1", "11111111000191", 5001), mk("H2", "22222222000191", 4999))
	tbl := supplierConcentration(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d suppliers, want 1", tbl.Len())
	}
	if tbl.Rows[0][0] != "11111111000191" || tbl.Rows[0][5] != "50,01" {
		t.Errorf("unexpected row %v", tbl.Rows[0])
	}
}

func TestSupplierConcentrationJoinsRegistry(t *testing.T) {
	lines := []model.ClaimLine{
		deviceLine("H3", 1000, func(l *model.ClaimLine) { l.PayeeTaxID = sp("11111111000191") }),
	}
	suppliers := []model.Supplier{{CNPJ: "11111111000191", LegalName: sp("ACME MATERIAIS LTDA")}}
	tbl := supplierConcentration(dataset.NewView(lines, suppliers))
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d suppliers, want 1", tbl.Len())
	}
	if tbl.Rows[0][2] != "ACME MATERIAIS LTDA" {
		t.Errorf("legal name = %q", tbl.Rows[0][2])
	}
	if tbl.Rows[0][1] != "11.111.111/0001-91" {
		t.Errorf("formatted cnpj = %q", tbl.Rows[0][1])
	}
}

func TestDeviceCostOutliersIQR(t *testing.T) {
	values := []int64{1000, 1200, 1100, 1300, 100000}
	var lines []model.ClaimLine
	for i, v := range values {
		lines = append(lines, deviceLine("I1", v, func(l *model.ClaimLine) {
			l.InvoiceNumber = sp("NF" + string(rune('A'+i)))
		}))
	}
	// Zero and negative values stay out of the fence and the flags.
	lines = append(lines, deviceLine("I1", 0, nil), deviceLine("I1", -500, nil))
	tbl := deviceCostOutliers(viewOf(lines...))
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d lines, want 1: %v", tbl.Len(), tbl.Rows)
	}
	if tbl.Rows[0][4] != "1.000,00" {
		t.Errorf("value = %s, want 1.000,00", tbl.Rows[0][4])
	}
}

func TestDuplicateDeviceInvoices(t *testing.T) {
	mk := func(claim, cnpj, invoice string, cents int64) model.ClaimLine {
		return deviceLine(claim, cents, func(l *model.ClaimLine) {
			l.PayeeTaxID = sp(cnpj)
			l.InvoiceNumber = sp(invoice)
		})
	}
	v := viewOf(
		mk("J1", "11111111000191", "NF100", 300),
		mk("J2", "11111111000191", "NF100", 200),
		mk("J3", "22222222000191", "NF100", 500), // other supplier, same number: fine
		mk("J4", "22222222000191", "N/A", 100),   // placeholder never grouped
		mk("J5", "22222222000191", "N/A", 100),
	)
	tbl := duplicateDeviceInvoices(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d invoices, want 1: %v", tbl.Len(), tbl.Rows)
	}
	row := tbl.Rows[0]
	if row[2] != "NF100" || row[3] != "2" || row[4] != "5,00" {
		t.Errorf("unexpected row %v", row)
	}
	if row[5] != "2 AIHs (J1, J2)" {
		t.Errorf("claim list = %q", row[5])
	}
}

func TestDeviceMissingInvoice(t *testing.T) {
	v := viewOf(
		deviceLine("K1", 100, nil), // nil invoice
		deviceLine("K2", 200, func(l *model.ClaimLine) { l.InvoiceNumber = sp(model.MissingInvoice) }),
		deviceLine("K3", 300, func(l *model.ClaimLine) { l.InvoiceNumber = sp("NF1") }),
	)
	tbl := deviceMissingInvoice(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d lines, want 2", tbl.Len())
	}
	if tbl.Rows[0][0] != "K1" || tbl.Rows[1][0] != "K2" {
		t.Errorf("unexpected rows %v", tbl.Rows)
	}
}

func TestHighProfessionalRatio(t *testing.T) {
	mk := func(claim string, sh, spv int64) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.HospitalValueCents = sh
			l.ProfessionalValueCents = spv
		})
	}
	v := viewOf(
		mk("L1", 1000, 5000),  // ratio 5: not above
		mk("L2", 1000, 5001),  // ratio 5.001: flagged
		mk("L3", 0, 99999),    // zero hospital value: excluded
	)
	tbl := highProfessionalRatio(v)
	if tbl.Len() != 1 || tbl.Rows[0][0] != "L2" {
		t.Fatalf("unexpected result %v", tbl.Rows)
	}
}

func TestHighDeviceShare(t *testing.T) {
	v := viewOf(
		claimLine("M1", func(l *model.ClaimLine) {
			l.HospitalValueCents = 200
			l.ProfessionalValueCents = 100
		}),
		deviceLine("M1", 701, nil), // 701/1001 > 0.7
		claimLine("M2", func(l *model.ClaimLine) {
			l.HospitalValueCents = 300
			l.ProfessionalValueCents = 0
		}),
		deviceLine("M2", 700, nil), // 700/1000 = 0.7 exactly: not above
	)
	tbl := highDeviceShare(v)
	if tbl.Len() != 1 || tbl.Rows[0][0] != "M1" {
		t.Fatalf("unexpected result %v", tbl.Rows)
	}
}

func TestHighDeviceShareNoDevices(t *testing.T) {
	v := viewOf(claimLine("M3", func(l *model.ClaimLine) {
		l.HospitalValueCents = 100
	}))
	if tbl := highDeviceShare(v); !tbl.Empty() {
		t.Errorf("flagged without device lines: %v", tbl.Rows)
	}
}

func TestPhysicianFacilityConcentration(t *testing.T) {
	mk := func(claim, facility, physician string) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.FacilityID = sp(facility)
			l.PhysicianName = sp(physician)
		})
	}
	// DR A holds 2 of 4 claims: exactly 50%, not flagged.
	v := viewOf(
		mk("N1", "2077001", "DR A"), mk("N2", "2077001", "DR A"),
		mk("N3", "2077001", "DR B"), mk("N4", "2077001", "DR C"),
	)
	if tbl := physicianFacilityConcentration(v); !tbl.Empty() {
		t.Errorf("exactly 50%% flagged: %v", tbl.Rows)
	}
	// DR A holds 3 of 4: flagged.
	v = viewOf(
		mk("N1", "2077001", "DR A"), mk("N2", "2077001", "DR A"),
		mk("N3", "2077001", "DR A"), mk("N4", "2077001", "DR B"),
	)
	tbl := physicianFacilityConcentration(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d pairs, want 1: %v", tbl.Len(), tbl.Rows)
	}
	row := tbl.Rows[0]
	if row[1] != "DR A" || row[2] != "3" || row[3] != "4" || row[4] != "75,00" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestDeviceWithoutProcedure(t *testing.T) {
	proc := func(claim, desc string) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) { l.PrincipalProcedure = sp(desc) })
	}
	v := viewOf(
		proc("O1", "ANGIOPLASTIA CORONARIANA"),
		deviceLine("O1", 100, nil), // keyword match via ANGIOPLASTIA
		proc("O2", "PARTO NORMAL"),
		deviceLine("O2", 200, nil), // incompatible procedure
		deviceLine("O3", 300, nil), // claim has no principal procedure
	)
	tbl := deviceWithoutProcedure(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d lines, want 2: %v", tbl.Len(), tbl.Rows)
	}
	if tbl.Rows[0][0] != "O2" || tbl.Rows[1][0] != "O3" {
		t.Errorf("unexpected rows %v", tbl.Rows)
	}
}

func TestDeviceWithoutProcedureUnmappedPrefix(t *testing.T) {
	v := viewOf(
		claimLine("O4", func(l *model.ClaimLine) { l.PrincipalProcedure = sp("PARTO NORMAL") }),
		claimLine("O4", func(l *model.ClaimLine) {
			l.IsDevice = true
			l.ProcedureCode = sp("0801990099")
			l.LineValueCents = 100
		}),
	)
	if tbl := deviceWithoutProcedure(v); !tbl.Empty() {
		t.Errorf("unmapped prefix flagged: %v", tbl.Rows)
	}
}

func TestPhysicianSupplierConcentration(t *testing.T) {
	mk := func(claim, physician, cnpj string, cents int64) model.ClaimLine {
		return deviceLine(claim, cents, func(l *model.ClaimLine) {
			l.PhysicianName = sp(physician)
			l.PayeeTaxID = sp(cnpj)
		})
	}
	// DR A buys 90% from one supplier and well above the median pair value.
	// DR B is split and stays clean. DR C is concentrated but tiny.
	v := viewOf(
		mk("P1", "DR A", "11111111000191", 9000),
		mk("P2", "DR A", "22222222000191", 1000),
		mk("P3", "DR B", "11111111000191", 5000),
		mk("P4", "DR B", "22222222000191", 5000),
		mk("P5", "DR C", "33333333000191", 10),
	)
	tbl := physicianSupplierConcentration(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d pairs, want 1: %v", tbl.Len(), tbl.Rows)
	}
	row := tbl.Rows[0]
	if row[0] != "DR A" || row[1] != "11111111000191" || row[7] != "90,00" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestWeekendProcedures(t *testing.T) {
	mk := func(claim, proc string, d *time.Time) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.PrincipalProcedure = sp(proc)
			l.AdmissionDate = d
		})
	}
	sat1, sun1 := day(2023, 7, 1), day(2023, 7, 2)
	sat2, sun2 := day(2023, 7, 8), day(2023, 7, 9)
	mon := day(2023, 7, 3)

	// 4 weekend claims out of 5 (80%): flagged.
	v := viewOf(
		mk("Q1", "CATETERISMO", sat1), mk("Q2", "CATETERISMO", sun1),
		mk("Q3", "CATETERISMO", sat2), mk("Q4", "CATETERISMO", sun2),
		mk("Q5", "CATETERISMO", mon),
	)
	tbl := weekendProcedures(v)
	if tbl.Len() != 1 {
		t.Fatalf("flagged %d procedures, want 1: %v", tbl.Len(), tbl.Rows)
	}
	row := tbl.Rows[0]
	if row[0] != "CATETERISMO" || row[8] != "4" || row[9] != "5" || row[10] != "80,00" {
		t.Errorf("unexpected row %v", row)
	}

	// 2 of 4 on weekends is a 50% share but only 2 absolute: not flagged.
	v = viewOf(
		mk("Q1", "CATETERISMO", sat1), mk("Q2", "CATETERISMO", sun1),
		mk("Q3", "CATETERISMO", mon), mk("Q4", "CATETERISMO", day(2023, 7, 4)),
	)
	if tbl := weekendProcedures(v); !tbl.Empty() {
		t.Errorf("low absolute count flagged: %v", tbl.Rows)
	}
}

func TestWeekendProceduresRequiresBothDays(t *testing.T) {
	mk := func(claim string, d *time.Time) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.PrincipalProcedure = sp("CATETERISMO")
			l.AdmissionDate = d
		})
	}
	// Saturdays only: the rule stays silent.
	v := viewOf(
		mk("R1", day(2023, 7, 1)), mk("R2", day(2023, 7, 8)),
		mk("R3", day(2023, 7, 15)), mk("R4", day(2023, 7, 22)),
	)
	if tbl := weekendProcedures(v); !tbl.Empty() {
		t.Errorf("flagged without sunday admissions: %v", tbl.Rows)
	}
}

func TestPatientMultipleNames(t *testing.T) {
	mk := func(claim, id, name, physician string) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.PatientID = sp(id)
			l.PatientName = sp(name)
			l.PhysicianName = sp(physician)
		})
	}
	v := viewOf(
		mk("S1", "700000000000001", "MARIA SILVA", "DR A"),
		mk("S2", "700000000000001", "MARIA DA SILVA", "DR B"),
		mk("S3", "700000000000002", "JOSE SANTOS", "DR A"),
	)
	tbl := patientMultipleNames(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d pairs, want 2: %v", tbl.Len(), tbl.Rows)
	}
	for _, row := range tbl.Rows {
		if row[0] != "700000000000001" {
			t.Errorf("consistent patient flagged: %v", row)
		}
	}
}

func TestPatientMultipleIDs(t *testing.T) {
	mk := func(claim, id, name string) model.ClaimLine {
		return claimLine(claim, func(l *model.ClaimLine) {
			l.PatientID = sp(id)
			l.PatientName = sp(name)
		})
	}
	v := viewOf(
		mk("T1", "700000000000001", "MARIA SILVA"),
		mk("T2", "700000000000009", "MARIA SILVA"),
	)
	tbl := patientMultipleIDs(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d pairs, want 2: %v", tbl.Len(), tbl.Rows)
	}
	if tbl.Rows[0][0] != "MARIA SILVA" {
		t.Errorf("unexpected anchor %q", tbl.Rows[0][0])
	}
}

func TestPatientMultipleNamesMissingName(t *testing.T) {
	// Real extracts carry lines with a card id but no name; those must not
	// disturb the duplicates found elsewhere.
	v := viewOf(
		claimLine("U1", func(l *model.ClaimLine) {
			l.PatientID = sp("700000000000001")
			l.PatientName = sp("MARIA SILVA")
		}),
		claimLine("U2", func(l *model.ClaimLine) {
			l.PatientID = sp("700000000000001")
			l.PatientName = sp("MARIA DA SILVA")
		}),
		claimLine("U3", func(l *model.ClaimLine) {
			l.PatientID = sp("700000000000002")
			l.PatientName = nil
		}),
	)
	tbl := patientMultipleNames(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d pairs, want 2: %v", tbl.Len(), tbl.Rows)
	}
	for _, row := range tbl.Rows {
		if row[0] != "700000000000001" {
			t.Errorf("nameless patient flagged: %v", row)
		}
	}
}

func TestPatientMultipleIDsMissingID(t *testing.T) {
	v := viewOf(
		claimLine("V1", func(l *model.ClaimLine) {
			l.PatientID = sp("700000000000001")
			l.PatientName = sp("MARIA SILVA")
		}),
		claimLine("V2", func(l *model.ClaimLine) {
			l.PatientID = sp("700000000000009")
			l.PatientName = sp("MARIA SILVA")
		}),
		claimLine("V3", func(l *model.ClaimLine) {
			l.PatientID = nil
			l.PatientName = sp("JOSE SANTOS")
		}),
	)
	tbl := patientMultipleIDs(v)
	if tbl.Len() != 2 {
		t.Fatalf("flagged %d pairs, want 2: %v", tbl.Len(), tbl.Rows)
	}
	for _, row := range tbl.Rows {
		if row[0] != "MARIA SILVA" {
			t.Errorf("cardless patient flagged: %v", row)
		}
	}
}

func TestCatalogCoversEveryAlertKind(t *testing.T) {
	detectors := Catalog()
	if len(detectors) != len(model.AllAlertKinds) {
		t.Fatalf("catalog has %d detectors, want %d", len(detectors), len(model.AllAlertKinds))
	}
	for i, d := range detectors {
		if d.Kind.Key != model.AllAlertKinds[i].Key {
			t.Errorf("detector %d is %q, want %q", i, d.Kind.Key, model.AllAlertKinds[i].Key)
		}
		if d.Run == nil {
			t.Errorf("detector %q has no runner", d.Kind.Key)
		}
	}
}

func TestSelectRejectsUnknownKey(t *testing.T) {
	if _, err := Select([]string{"early_readmission", "nonsense"}); err == nil {
		t.Fatal("expected error for unknown key")
	}
	got, err := Select([]string{"weekend_procedures", "early_readmission"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Kind.Key != "early_readmission" {
		t.Errorf("selection not in canonical order: %v", got)
	}
}

func TestRunAllEmptyView(t *testing.T) {
	results := RunAll(Catalog(), viewOf(), zerolog.Nop())
	if len(results) != 0 {
		t.Errorf("empty view produced %d results", len(results))
	}
}

func TestRunAllRecoversPanickingDetector(t *testing.T) {
	boom := Detector{
		Kind: model.AllAlertKinds[0],
		Run:  func(*dataset.View) *model.Table { panic("boom") },
	}
	ok := Detector{
		Kind: model.AllAlertKinds[1],
		Run: func(*dataset.View) *model.Table {
			tbl := model.NewTable("A")
			tbl.Append("1")
			return tbl
		},
	}
	results := RunAll([]Detector{boom, ok}, viewOf(), zerolog.Nop())
	if len(results) != 1 || results[0].Kind.Key != ok.Kind.Key {
		t.Fatalf("unexpected results %v", results)
	}
}
