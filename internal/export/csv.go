// Package export writes the audit outputs: semicolon-separated CSV for
// alert tables and report tables, and CSV or Parquet for the canonical
// views. File layout mirrors the input convention so exports can be fed
// back into spreadsheet tooling unchanged.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gyeh/aihaudit/internal/model"
	"github.com/gyeh/aihaudit/internal/normalize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options control the CSV dialect of every written file.
type Options struct {
	OutDir string
	BOM    bool // prepend a UTF-8 BOM for Excel
}

// WriteTable writes one table as semicolon-separated CSV under the output
// directory. Returns the absolute path written.
func WriteTable(name string, tbl *model.Table, opts Options) (string, error) {
	if tbl.Empty() {
		return "", fmt.Errorf("write %s: empty table", name)
	}
	path := filepath.Join(opts.OutDir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if opts.BOM {
		if _, err := bw.Write(utf8BOM); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	w := csv.NewWriter(bw)
	w.Comma = ';'
	if err := w.Write(tbl.Columns); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(tbl.Rows); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// WriteAlerts writes one file per alert result, named alerta_<key>.
func WriteAlerts(results []model.AlertResult, opts Options) ([]string, error) {
	var paths []string
	for _, r := range results {
		path, err := WriteTable("alerta_"+r.Kind.Key, r.Table, opts)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ClaimLinesTable flattens claim lines into an exportable table using the
// original extract's column names.
func ClaimLinesTable(lines []model.ClaimLine) *model.Table {
	tbl := model.NewTable(
		"SP_NAIH", "PACCNS", "NOME", "MEDICO",
		"SP_ATOPROF", "DESC_ATO_PROF", "DESC_PROC_REAL", "PROC_REA",
		"SP_VALATO", "VAL_SH", "VAL_SP",
		"SP_DTINTER", "SP_DTSAIDA",
		"SP_PJ_DOC", "SP_PF_DOC", "SP_NF", "SP_CNES", "SP_UF",
		"IS_OPME", "ANO_INTERNACAO", "COMPETENCIA",
	)
	for i := range lines {
		l := &lines[i]
		isDevice := "false"
		if l.IsDevice {
			isDevice = "true"
		}
		year := ""
		if l.AdmissionYear != 0 {
			year = fmt.Sprintf("%d", l.AdmissionYear)
		}
		tbl.Append(
			l.ClaimID,
			normalize.Deref(l.PatientID),
			normalize.Deref(l.PatientName),
			normalize.Deref(l.PhysicianName),
			normalize.Deref(l.ProcedureCode),
			normalize.Deref(l.ProcedureDescription),
			normalize.Deref(l.PrincipalProcedure),
			normalize.Deref(l.PrincipalProcedureCode),
			normalize.FormatMoney(l.LineValueCents),
			normalize.FormatMoney(l.HospitalValueCents),
			normalize.FormatMoney(l.ProfessionalValueCents),
			normalize.FormatDate(l.AdmissionDate),
			normalize.FormatDate(l.DischargeDate),
			normalize.Deref(l.PayeeTaxID),
			normalize.Deref(l.ProfessionalTaxID),
			normalize.Deref(l.InvoiceNumber),
			normalize.Deref(l.FacilityID),
			normalize.Deref(l.State),
			isDevice,
			year,
			normalize.Deref(l.AdmissionPeriod),
		)
	}
	return tbl
}

// ClaimsTable flattens the canonical claim view into an exportable table.
func ClaimsTable(claims []model.Claim) *model.Table {
	tbl := model.NewTable(
		"SP_NAIH", "PACCNS", "NOME",
		"VAL_SH", "VAL_SP",
		"SP_DTINTER", "SP_DTSAIDA",
		"SP_CNES", "SP_UF", "ANO_INTERNACAO", "COMPETENCIA",
	)
	for i := range claims {
		c := &claims[i]
		year := ""
		if c.AdmissionYear != 0 {
			year = fmt.Sprintf("%d", c.AdmissionYear)
		}
		tbl.Append(
			c.ClaimID,
			normalize.Deref(c.PatientID),
			normalize.Deref(c.PatientName),
			normalize.FormatMoney(c.HospitalValueCents),
			normalize.FormatMoney(c.ProfessionalValueCents),
			normalize.FormatDate(c.AdmissionDate),
			normalize.FormatDate(c.DischargeDate),
			normalize.Deref(c.FacilityID),
			normalize.Deref(c.State),
			year,
			normalize.Deref(c.AdmissionPeriod),
		)
	}
	return tbl
}
