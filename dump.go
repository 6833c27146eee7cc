package strictcsv

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// DumpQuery runs query against db and writes the result set through w as
// CSV: a header row from the result's column names followed by one row per
// result row. SQL NULL is written as an empty field. The caller flushes w.
func DumpQuery(ctx context.Context, db *sql.DB, query string, w *Writer) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	if err := w.WriteFields(columns); err != nil {
		return err
	}

	fields := make([]string, len(columns))
	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if v.Valid {
				fields[i] = v.String
			} else {
				fields[i] = ""
			}
		}
		if err := w.WriteFields(fields); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate rows: %w", err)
	}
	return nil
}

// LoadTable creates tableName in db and fills it from p. The first parsed
// row supplies the column names; every column is created as TEXT. Rows whose
// field count differs from the header are rejected. It returns the number of
// data rows inserted.
func LoadTable(ctx context.Context, db *sql.DB, tableName string, p *Parser) (int64, error) {
	headerRow, err := p.NextRow()
	if err == io.EOF {
		return 0, fmt.Errorf("failed to load table %s: empty input", tableName)
	}
	if err != nil {
		return 0, err
	}
	if headerRow.Len() == 0 {
		return 0, fmt.Errorf("failed to load table %s: header row has no columns", tableName)
	}

	header := headerRow.Fields()
	if _, err := db.ExecContext(ctx, buildCreateTableQuery(tableName, header)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	stmt, err := db.PrepareContext(ctx, buildInsertQuery(tableName, len(header)))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for table %s: %w", tableName, err)
	}
	defer stmt.Close()

	var inserted int64
	for {
		row, err := p.NextRow()
		if err == io.EOF {
			return inserted, nil
		}
		if err != nil {
			return inserted, err
		}
		if row.Len() != len(header) {
			return inserted, fmt.Errorf("failed to load table %s: row %d has %d fields, expected %d",
				tableName, inserted+2, row.Len(), len(header))
		}

		args := make([]any, row.Len())
		for i := range args {
			args[i] = row.Field(i)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("failed to insert into table %s: %w", tableName, err)
		}
		inserted++
	}
}

// buildCreateTableQuery constructs a CREATE TABLE query for the given columns
func buildCreateTableQuery(tableName string, header []string) string {
	columns := make([]string, 0, len(header))
	for _, col := range header {
		columns = append(columns, fmt.Sprintf(`[%s] TEXT`, col))
	}
	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS [%s] (%s)`,
		tableName,
		strings.Join(columns, ", "),
	)
}

// buildInsertQuery constructs an INSERT query with one placeholder per column
func buildInsertQuery(tableName string, count int) string {
	placeholders := "?"
	for i := 1; i < count; i++ {
		placeholders += ", ?"
	}
	return fmt.Sprintf(`INSERT INTO [%s] VALUES (%s)`, tableName, placeholders)
}
