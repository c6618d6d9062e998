package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/insert_discrepancy.sql
var InsertDiscrepancy string

//go:embed queries/insert_roster_snapshot.sql
var InsertRosterSnapshot string
