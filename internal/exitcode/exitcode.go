// Package exitcode defines the process exit codes of aihaudit commands.
package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CopyError       = 4
	AuditError      = 5
	ExportError     = 6
)
