package store

import (
	"context"
	"errors"
	"regexp"
)

// ErrUnknownTable is returned when a query names a table the backend does not hold.
var ErrUnknownTable = errors.New("unknown table")

// ErrInvalidIdentifier is returned for table or column names that are not plain identifiers.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Row is a single record keyed by column name.
type Row map[string]any

// Filter restricts a read to rows whose column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Order sorts a read by Column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a full-collection read. There is no pagination.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Asc and Desc build sort clauses.
func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Backend is the data-access boundary the portal reads from and writes to.
// Row-level security, if any, is enforced behind it.
type Backend interface {
	Read(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) error
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validIdent(name string) bool {
	return identRe.MatchString(name)
}

func (q Query) validate() error {
	if !validIdent(q.Table) {
		return ErrInvalidIdentifier
	}
	for _, c := range q.Columns {
		if !validIdent(c) {
			return ErrInvalidIdentifier
		}
	}
	for _, f := range q.Filters {
		if !validIdent(f.Column) {
			return ErrInvalidIdentifier
		}
	}
	for _, o := range q.Order {
		if !validIdent(o.Column) {
			return ErrInvalidIdentifier
		}
	}
	return nil
}
