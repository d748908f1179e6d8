package model

import "time"

// ClaimLineParquetRow is the flat Parquet representation of a ClaimLine,
// used by the export writers. Money stays in int64 cents; dates are
// DD/MM/YYYY strings matching the CSV exports.
type ClaimLineParquetRow struct {
	ClaimID string `parquet:"claim_id"`

	PatientID     *string `parquet:"patient_id,optional"`
	PatientName   *string `parquet:"patient_name,optional"`
	PhysicianName *string `parquet:"physician_name,optional"`

	ProcedureCode          *string `parquet:"procedure_code,optional"`
	ProcedureDescription   *string `parquet:"procedure_description,optional"`
	PrincipalProcedure     *string `parquet:"principal_procedure,optional"`
	PrincipalProcedureCode *string `parquet:"principal_procedure_code,optional"`

	LineValueCents         int64 `parquet:"line_value_cents"`
	HospitalValueCents     int64 `parquet:"hospital_value_cents"`
	ProfessionalValueCents int64 `parquet:"professional_value_cents"`

	AdmissionDate *string `parquet:"admission_date,optional"`
	DischargeDate *string `parquet:"discharge_date,optional"`

	PayeeTaxID        *string `parquet:"payee_tax_id,optional"`
	ProfessionalTaxID *string `parquet:"professional_tax_id,optional"`
	InvoiceNumber     *string `parquet:"invoice_number,optional"`
	FacilityID        *string `parquet:"facility_id,optional"`
	State             *string `parquet:"state,optional"`

	IsDevice        bool    `parquet:"is_device"`
	AdmissionYear   int32   `parquet:"admission_year"`
	AdmissionPeriod *string `parquet:"admission_period,optional"`
}

// ClaimParquetRow is the flat Parquet representation of a canonical Claim.
type ClaimParquetRow struct {
	ClaimID     string  `parquet:"claim_id"`
	PatientID   *string `parquet:"patient_id,optional"`
	PatientName *string `parquet:"patient_name,optional"`

	HospitalValueCents     int64 `parquet:"hospital_value_cents"`
	ProfessionalValueCents int64 `parquet:"professional_value_cents"`

	AdmissionDate *string `parquet:"admission_date,optional"`
	DischargeDate *string `parquet:"discharge_date,optional"`

	FacilityID *string `parquet:"facility_id,optional"`
	State      *string `parquet:"state,optional"`

	AdmissionYear   int32   `parquet:"admission_year"`
	AdmissionPeriod *string `parquet:"admission_period,optional"`
}

const exportDateLayout = "02/01/2006"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(exportDateLayout)
	return &s
}

// ToParquetRow converts a ClaimLine for columnar export.
func (l *ClaimLine) ToParquetRow() ClaimLineParquetRow {
	return ClaimLineParquetRow{
		ClaimID:                l.ClaimID,
		PatientID:              l.PatientID,
		PatientName:            l.PatientName,
		PhysicianName:          l.PhysicianName,
		ProcedureCode:          l.ProcedureCode,
		ProcedureDescription:   l.ProcedureDescription,
		PrincipalProcedure:     l.PrincipalProcedure,
		PrincipalProcedureCode: l.PrincipalProcedureCode,
		LineValueCents:         l.LineValueCents,
		HospitalValueCents:     l.HospitalValueCents,
		ProfessionalValueCents: l.ProfessionalValueCents,
		AdmissionDate:          formatDate(l.AdmissionDate),
		DischargeDate:          formatDate(l.DischargeDate),
		PayeeTaxID:             l.PayeeTaxID,
		ProfessionalTaxID:      l.ProfessionalTaxID,
		InvoiceNumber:          l.InvoiceNumber,
		FacilityID:             l.FacilityID,
		State:                  l.State,
		IsDevice:               l.IsDevice,
		AdmissionYear:          int32(l.AdmissionYear),
		AdmissionPeriod:        l.AdmissionPeriod,
	}
}

// ToParquetRow converts a Claim for columnar export.
func (c *Claim) ToParquetRow() ClaimParquetRow {
	return ClaimParquetRow{
		ClaimID:                c.ClaimID,
		PatientID:              c.PatientID,
		PatientName:            c.PatientName,
		HospitalValueCents:     c.HospitalValueCents,
		ProfessionalValueCents: c.ProfessionalValueCents,
		AdmissionDate:          formatDate(c.AdmissionDate),
		DischargeDate:          formatDate(c.DischargeDate),
		FacilityID:             c.FacilityID,
		State:                  c.State,
		AdmissionYear:          int32(c.AdmissionYear),
		AdmissionPeriod:        c.AdmissionPeriod,
	}
}
