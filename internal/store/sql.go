package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dialect selects the placeholder style for generated SQL.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// SQLBackend reads and writes rows through database/sql.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLBackend wraps an open connection.
func NewSQLBackend(db *sql.DB, dialect Dialect) *SQLBackend {
	return &SQLBackend{db: db, dialect: dialect}
}

// Read runs q and returns every matching row.
func (b *SQLBackend) Read(ctx context.Context, q Query) ([]Row, error) {
	query, args, err := buildSelect(b.dialect, q)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", q.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var res []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Table, err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// Insert writes one row.
func (b *SQLBackend) Insert(ctx context.Context, table string, row Row) error {
	query, args, err := buildInsert(b.dialect, table, row)
	if err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func buildSelect(d Dialect, q Query) (string, []any, error) {
	if err := q.validate(); err != nil {
		return "", nil, err
	}
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}
	query := "SELECT " + cols + " FROM " + q.Table
	args := []any{}
	clauses := []string{}
	for _, f := range q.Filters {
		clauses = append(clauses, f.Column+" = "+d.placeholder(len(args)+1))
		args = append(args, f.Value)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, o.Column+" "+dir)
		}
		query += " ORDER BY " + strings.Join(parts, ", ")
	}
	return query, args, nil
}

func buildInsert(d Dialect, table string, row Row) (string, []any, error) {
	if !validIdent(table) {
		return "", nil, ErrInvalidIdentifier
	}
	if len(row) == 0 {
		return "", nil, fmt.Errorf("insert %s: empty row", table)
	}
	cols := make([]string, 0, len(row))
	for c := range row {
		if !validIdent(c) {
			return "", nil, ErrInvalidIdentifier
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)

	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		marks[i] = d.placeholder(i + 1)
		args[i] = row[c]
	}
	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return query, args, nil
}
