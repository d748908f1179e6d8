package csvread

import (
	"fmt"
	"strings"
)

// RequiredClaimColumns are the mandatory fields of the claim line-item
// extract. A load with any of them missing is rejected outright.
var RequiredClaimColumns = []string{
	"SP_NAIH",
	"NOME",
	"PACCNS",
	"DESC_ATO_PROF",
	"MEDICO",
	"VAL_SH",
	"VAL_SP",
	"SP_ATOPROF",
	"SP_VALATO",
	"PROC_REA",
	"DESC_PROC_REAL",
	"SP_DTINTER",
	"SP_DTSAIDA",
	"SP_PJ_DOC",
	"SP_NF",
	"SP_UF",
	"SP_CNES",
	"SP_GESTOR",
	"SP_AA",
	"SP_MM",
	"SP_PF_DOC",
}

// RequiredSupplierColumns are the minimum columns of the supplier registry.
var RequiredSupplierColumns = []string{"CNPJ", "RAZAO_SOCIAL"}

// SchemaError reports required columns absent from an input file. It is
// fatal for the load step; no partial dataset is produced.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

func validate(f *File, required []string) error {
	var missing []string
	for _, col := range required {
		if !f.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Path: f.Path, Missing: missing}
	}
	return nil
}

// ValidateClaims checks the claim extract against RequiredClaimColumns.
func ValidateClaims(f *File) error {
	return validate(f, RequiredClaimColumns)
}

// ValidateSuppliers checks the supplier registry header.
func ValidateSuppliers(f *File) error {
	return validate(f, RequiredSupplierColumns)
}
