package model

import "time"

// Sentinel values carried verbatim from the upstream SUS extract.
const (
	// InstitutionDoc marks a line billed by the institution itself rather
	// than a named professional (SP_PF_DOC all zeros).
	InstitutionDoc = "000000000000000"
	// PhysicianNotApplicable and PhysicianUnknownDevice are placeholder
	// physician names excluded from every per-physician rule.
	PhysicianNotApplicable = "NÃO SE APLICA"
	PhysicianUnknownDevice = "DESCONHECIDO_OPME"
	// DeviceCodePrefix identifies implant/device (OPME) procedure codes.
	DeviceCodePrefix = "0702"
	// MissingInvoice is the placeholder some extracts use for an absent
	// invoice number.
	MissingInvoice = "N/A"
)

// ClaimLine is one billed service, procedure or material line within a
// hospital admission claim (AIH). Text fields are nil when missing; money
// values are int64 cents.
type ClaimLine struct {
	ClaimID string // SP_NAIH

	PatientID     *string // PACCNS (national health-card id)
	PatientName   *string // NOME
	PhysicianName *string // MEDICO

	ProcedureCode          *string // SP_ATOPROF
	ProcedureDescription   *string // DESC_ATO_PROF
	PrincipalProcedure     *string // DESC_PROC_REAL
	PrincipalProcedureCode *string // PROC_REA

	LineValueCents         int64 // SP_VALATO
	HospitalValueCents     int64 // VAL_SH
	ProfessionalValueCents int64 // VAL_SP

	AdmissionDate *time.Time // SP_DTINTER
	DischargeDate *time.Time // SP_DTSAIDA

	PayeeTaxID        *string // SP_PJ_DOC (supplier CNPJ)
	ProfessionalTaxID *string // SP_PF_DOC
	InvoiceNumber     *string // SP_NF
	FacilityID        *string // SP_CNES
	State             *string // SP_UF
	ManagerID         *string // SP_GESTOR
	RefYear           *string // SP_AA
	RefMonth          *string // SP_MM

	// Derived during normalization.
	IsDevice        bool
	AdmissionYear   int     // 0 when AdmissionDate is nil
	AdmissionPeriod *string // "YYYY-MM", nil when AdmissionDate is nil
}

// Claim is the canonical one-row-per-claim view. Hospital and professional
// service values come from the primary-payee line chosen by the aggregator.
type Claim struct {
	ClaimID     string
	PatientID   *string
	PatientName *string

	HospitalValueCents     int64
	ProfessionalValueCents int64

	AdmissionDate *time.Time
	DischargeDate *time.Time

	FacilityID *string
	State      *string

	AdmissionYear   int
	AdmissionPeriod *string
}

// ValidPhysician reports whether a physician name is usable for
// per-physician rules: present and not one of the placeholder values.
func ValidPhysician(name *string) bool {
	if name == nil {
		return false
	}
	return *name != PhysicianNotApplicable && *name != PhysicianUnknownDevice
}

// ClaimLineColumns returns the ordered column names for COPY into
// audit.claim_lines.
func ClaimLineColumns() []string {
	return []string{
		"audit_run_id",
		"source_row_number",
		"source_row_hash",
		"claim_id",
		"patient_id",
		"patient_name",
		"physician_name",
		"procedure_code",
		"procedure_description",
		"principal_procedure",
		"principal_procedure_code",
		"line_value_cents",
		"hospital_value_cents",
		"professional_value_cents",
		"admission_date",
		"discharge_date",
		"payee_tax_id",
		"professional_tax_id",
		"invoice_number",
		"facility_id",
		"state",
		"manager_id",
		"is_device",
		"admission_year",
		"admission_period",
	}
}

// StagedLine couples a ClaimLine with the per-run metadata required by the
// COPY protocol loader.
type StagedLine struct {
	RunID           string // audit-run uuid rendered as text
	SourceRowNumber int64
	SourceRowHash   []byte
	Line            ClaimLine
}

// CopyValues returns the row values in ClaimLineColumns order.
func (s *StagedLine) CopyValues() []any {
	l := &s.Line
	var year *int
	if l.AdmissionYear != 0 {
		y := l.AdmissionYear
		year = &y
	}
	return []any{
		s.RunID,
		s.SourceRowNumber,
		s.SourceRowHash,
		l.ClaimID,
		l.PatientID,
		l.PatientName,
		l.PhysicianName,
		l.ProcedureCode,
		l.ProcedureDescription,
		l.PrincipalProcedure,
		l.PrincipalProcedureCode,
		l.LineValueCents,
		l.HospitalValueCents,
		l.ProfessionalValueCents,
		l.AdmissionDate,
		l.DischargeDate,
		l.PayeeTaxID,
		l.ProfessionalTaxID,
		l.InvoiceNumber,
		l.FacilityID,
		l.State,
		l.ManagerID,
		l.IsDevice,
		year,
		l.AdmissionPeriod,
	}
}

// ClaimColumns returns the ordered column names for COPY into audit.claims.
func ClaimColumns() []string {
	return []string{
		"audit_run_id",
		"claim_id",
		"patient_id",
		"patient_name",
		"hospital_value_cents",
		"professional_value_cents",
		"admission_date",
		"discharge_date",
		"facility_id",
		"state",
		"admission_year",
		"admission_period",
	}
}

// StagedClaim couples a canonical Claim with its run id for COPY.
type StagedClaim struct {
	RunID string
	Claim Claim
}

// CopyValues returns the row values in ClaimColumns order.
func (s *StagedClaim) CopyValues() []any {
	c := &s.Claim
	var year *int
	if c.AdmissionYear != 0 {
		y := c.AdmissionYear
		year = &y
	}
	return []any{
		s.RunID,
		c.ClaimID,
		c.PatientID,
		c.PatientName,
		c.HospitalValueCents,
		c.ProfessionalValueCents,
		c.AdmissionDate,
		c.DischargeDate,
		c.FacilityID,
		c.State,
		year,
		c.AdmissionPeriod,
	}
}
