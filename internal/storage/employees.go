package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/garyellow/askhr-go/internal/hr"
)

const (
	datasetEmployees   = "employees"
	datasetCredentials = "credentials"
)

const employeeColumns = `code, full_name, entity, nationality, gender, job_title, grade, band, age,
	joining_date, annual_leaves, basic_salary, transportation, bonus, overtime, deductions,
	net_total, social_security_no, extra, row_order`

// ReplaceEmployees swaps the whole employee table and schema column list in
// one transaction. Records are validated by building a Directory first so a
// bad import never replaces good data.
func (db *DB) ReplaceEmployees(ctx context.Context, columns []string, records []hr.Record) error {
	dir, err := hr.NewDirectory(records, columns)
	if err != nil {
		return fmt.Errorf("replace employees: %w", err)
	}
	columns = dir.Columns()

	err = db.withTx(ctx, "replace employees", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_columns`); err != nil {
			return err
		}

		colStmt, err := tx.PrepareContext(ctx, `INSERT INTO dataset_columns (ordinal, name) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = colStmt.Close() }()
		for i, c := range columns {
			if _, err := colStmt.ExecContext(ctx, i, c); err != nil {
				return fmt.Errorf("column %q: %w", c, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO employees (`+employeeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for i, r := range records {
			extra, err := json.Marshal(r.Extra)
			if err != nil {
				return fmt.Errorf("employee %s: encode extra: %w", r.Code, err)
			}
			if r.Extra == nil {
				extra = []byte("{}")
			}
			if _, err := stmt.ExecContext(ctx,
				hr.NormalizeCode(r.Code), r.FullName, r.Entity, r.Nationality, r.Gender,
				r.JobTitle, r.Grade, r.Band, nullInt(r.Age), r.JoiningDate,
				nullFloat(r.AnnualLeaves), nullFloat(r.BasicSalary), nullFloat(r.Transportation),
				nullFloat(r.Bonus), nullFloat(r.Overtime), nullFloat(r.Deductions),
				nullFloat(r.NetTotal), r.SocialSecurityNo, string(extra), i,
			); err != nil {
				return fmt.Errorf("employee %s: %w", r.Code, err)
			}
		}
		return recordImport(ctx, tx, datasetEmployees, len(records))
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "employees imported", "count", len(records), "columns", len(columns))
	return nil
}

// LoadEmployees returns the stored schema columns and records in import order.
func (db *DB) LoadEmployees(ctx context.Context) ([]string, []hr.Record, error) {
	columns, err := db.loadColumns(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY row_order`)
	if err != nil {
		return nil, nil, fmt.Errorf("query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []hr.Record
	for rows.Next() {
		var (
			r        hr.Record
			age      sql.NullInt64
			nums     [7]sql.NullFloat64
			extra    string
			rowOrder int
		)
		if err := rows.Scan(
			&r.Code, &r.FullName, &r.Entity, &r.Nationality, &r.Gender, &r.JobTitle,
			&r.Grade, &r.Band, &age, &r.JoiningDate,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4], &nums[5], &nums[6],
			&r.SocialSecurityNo, &extra, &rowOrder,
		); err != nil {
			return nil, nil, fmt.Errorf("scan employee: %w", err)
		}
		if age.Valid {
			v := int(age.Int64)
			r.Age = &v
		}
		targets := []**float64{&r.AnnualLeaves, &r.BasicSalary, &r.Transportation, &r.Bonus, &r.Overtime, &r.Deductions, &r.NetTotal}
		for i, n := range nums {
			if n.Valid {
				v := n.Float64
				*targets[i] = &v
			}
		}
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &r.Extra); err != nil {
				return nil, nil, fmt.Errorf("employee %s: decode extra: %w", r.Code, err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate employees: %w", err)
	}
	return columns, records, nil
}

func (db *DB) loadColumns(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM dataset_columns ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// ImportInfo describes the last import of a dataset.
type ImportInfo struct {
	Dataset    string
	RowCount   int
	ImportedAt time.Time
}

// Imports returns the last import of each dataset.
func (db *DB) Imports(ctx context.Context) ([]ImportInfo, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT dataset, row_count, imported_at FROM imports ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ImportInfo
	for rows.Next() {
		var (
			info ImportInfo
			ts   int64
		)
		if err := rows.Scan(&info.Dataset, &info.RowCount, &ts); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		info.ImportedAt = time.Unix(ts, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

func recordImport(ctx context.Context, tx *sql.Tx, dataset string, count int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO imports (dataset, row_count, imported_at) VALUES (?, ?, ?)
		ON CONFLICT(dataset) DO UPDATE SET
			row_count = excluded.row_count,
			imported_at = excluded.imported_at`,
		dataset, count, time.Now().Unix())
	return err
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
