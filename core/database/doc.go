// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// based on the application's configuration. The database is optional: it only
// stores the history of reconciliation passes.
//
// # Connect
//
// Connect opens the configured dialect, applies pool settings and pings the
// server. SQLite is limited to a single connection so ":memory:" databases
// survive across queries.
//
// # Schema Inspection
//
// GetTableColumns reads column definitions (SHOW COLUMNS on MySQL, PRAGMA
// table_info on SQLite). MissingColumns compares a table against an expected
// column list and is used to verify the history table after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("History disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "driver_status_records", []string{"device_id", "status"})
package database
