// Package sql embeds the schema migrations and the statements used by the
// load pipeline.
package sql

import "embed"

// Migrations holds the DDL files applied by `aihaudit migrate`.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_audit_run.sql
var RegisterAuditRun string

//go:embed queries/finalize_audit_run.sql
var FinalizeAuditRun string

//go:embed queries/find_run_by_hash.sql
var FindRunByHash string

//go:embed queries/delete_audit_run.sql
var DeleteAuditRun string

//go:embed queries/analyze_tables.sql
var AnalyzeTables string
