package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []struct {
		name  string
		query string
	}{
		{"employees", `
		CREATE TABLE IF NOT EXISTS employees (
			code TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			entity TEXT NOT NULL DEFAULT '',
			nationality TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL DEFAULT '',
			band TEXT NOT NULL DEFAULT '',
			age INTEGER,
			joining_date TEXT NOT NULL DEFAULT '',
			annual_leaves REAL,
			basic_salary REAL,
			transportation REAL,
			bonus REAL,
			overtime REAL,
			deductions REAL,
			net_total REAL,
			social_security_no TEXT NOT NULL DEFAULT '',
			extra TEXT NOT NULL DEFAULT '{}',
			row_order INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_employees_entity ON employees(entity COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_employees_row_order ON employees(row_order);`},
		{"dataset_columns", `
		CREATE TABLE IF NOT EXISTS dataset_columns (
			ordinal INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);`},
		{"credentials", `
		CREATE TABLE IF NOT EXISTS credentials (
			code TEXT PRIMARY KEY,
			pin_hash TEXT NOT NULL
		);`},
		{"imports", `
		CREATE TABLE IF NOT EXISTS imports (
			dataset TEXT PRIMARY KEY,
			row_count INTEGER NOT NULL,
			imported_at INTEGER NOT NULL
		);`},
	}

	for _, s := range statements {
		if _, err := db.ExecContext(ctx, s.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", s.name, err)
		}
	}
	return nil
}
