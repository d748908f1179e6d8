package model

// Supplier is one entry of the external OPME supplier registry.
type Supplier struct {
	CNPJ      string // zero-padded to 14 digits at load time
	LegalName *string
}

// SupplierColumns returns the ordered column names for COPY into
// audit.suppliers.
func SupplierColumns() []string {
	return []string{"audit_run_id", "cnpj", "legal_name"}
}

// StagedSupplier couples a Supplier with its run id for COPY.
type StagedSupplier struct {
	RunID    string
	Supplier Supplier
}

// CopyValues returns the row values in SupplierColumns order.
func (s *StagedSupplier) CopyValues() []any {
	return []any{s.RunID, s.Supplier.CNPJ, s.Supplier.LegalName}
}
