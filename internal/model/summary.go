package model

import "time"

// AuditSummary captures metrics from one audit run.
type AuditSummary struct {
	RunID          string
	ClaimsFile     string
	SuppliersFile  string
	LinesRead      int
	LinesFiltered  int
	Claims         int
	ClaimsFiltered int
	Suppliers      int
	AlertsFound    int
	RowsFlagged    int
	FilesWritten   int
	DurationLoad   time.Duration
	DurationRun    time.Duration
	DurationTotal  time.Duration
}

// StoreSummary captures metrics from one warehouse load.
type StoreSummary struct {
	RunID           string
	ClaimsFile      string
	FileSHA256      string
	LinesCopied     int64
	ClaimsCopied    int64
	SuppliersCopied int64
	DurationCopy    time.Duration
	DurationTotal   time.Duration
}
