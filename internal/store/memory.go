package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a map-backed Backend for development and tests.
type Memory struct {
	mu       sync.RWMutex
	tables   map[string][]Row
	defaults map[string]Row
}

// NewMemory creates an empty store. Tables must be defined before use.
func NewMemory() *Memory {
	return &Memory{
		tables:   make(map[string][]Row),
		defaults: make(map[string]Row),
	}
}

// Define registers a table along with column defaults applied on insert.
func (m *Memory) Define(table string, defaults Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = nil
	}
	m.defaults[table] = defaults
}

// Seed appends rows verbatim, defining the table if needed.
func (m *Memory) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], copyRow(r))
	}
}

// Read filters and sorts the table's rows.
func (m *Memory) Read(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	rows, ok := m.tables[q.Table]
	var res []Row
	for _, r := range rows {
		if matches(r, q.Filters) {
			res = append(res, project(r, q.Columns))
		}
	}
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("read %s: %w", q.Table, ErrUnknownTable)
	}

	sort.SliceStable(res, func(i, j int) bool {
		for _, o := range q.Order {
			c := compare(res[i][o.Column], res[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return res, nil
}

// Insert appends a row, filling id, created_at and table defaults when absent.
func (m *Memory) Insert(ctx context.Context, table string, row Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validIdent(table) {
		return ErrInvalidIdentifier
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		return fmt.Errorf("insert %s: %w", table, ErrUnknownTable)
	}
	r := copyRow(m.defaults[table])
	for k, v := range row {
		if !validIdent(k) {
			return ErrInvalidIdentifier
		}
		r[k] = v
	}
	if _, ok := r["id"]; !ok {
		r["id"] = uuid.NewString()
	}
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = time.Now().UTC()
	}
	m.tables[table] = append(m.tables[table], r)
	return nil
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func project(r Row, cols []string) Row {
	if len(cols) == 0 {
		return copyRow(r)
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		out[c] = r[c]
	}
	return out
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		if compare(r[f.Column], f.Value) != 0 || r[f.Column] == nil {
			return false
		}
	}
	return true
}

// compare orders values the way Postgres does for a single column: NULL sorts
// after every non-NULL value.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
