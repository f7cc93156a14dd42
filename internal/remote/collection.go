// Package remote turns a store query into view state: rows, a loading flag and the
// last error, refreshed on demand.
package remote

import (
	"context"
	"fmt"
	"time"

	"eduportal/internal/store"
)

// Spec describes one entity collection.
type Spec[T any] struct {
	Entity string
	Query  store.Query
	MapRow func(store.Row) (T, error)
}

// Observer is told about every completed read, successful or not.
type Observer func(entity string, took time.Duration, err error)

// Collection holds the rows of one Spec for a single view. It is not safe for
// concurrent use; each view owns its own.
type Collection[T any] struct {
	spec    Spec[T]
	backend store.Backend
	observe Observer

	rows    []T
	loading bool
	err     error
}

// New creates a collection in the loading state with no rows.
func New[T any](backend store.Backend, spec Spec[T], observe Observer) *Collection[T] {
	return &Collection[T]{spec: spec, backend: backend, observe: observe, loading: true}
}

// Rows returns the last successfully fetched rows.
func (c *Collection[T]) Rows() []T { return c.rows }

// Loading reports whether the first fetch is still outstanding.
func (c *Collection[T]) Loading() bool { return c.loading }

// Err returns the error of the last fetch, or nil.
func (c *Collection[T]) Err() error { return c.err }

// Refresh re-reads the collection. On failure the previous rows stay in place.
// If ctx ends before the read returns, the response is discarded and nothing
// but the loading flag changes.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	defer func() { c.loading = false }()

	start := time.Now()
	raw, err := c.backend.Read(ctx, c.spec.Query)
	if c.observe != nil {
		c.observe(c.spec.Entity, time.Since(start), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		c.err = err
		return err
	}

	rows := make([]T, 0, len(raw))
	for i, r := range raw {
		v, err := c.spec.MapRow(r)
		if err != nil {
			c.err = fmt.Errorf("%s row %d: %w", c.spec.Entity, i, err)
			return c.err
		}
		rows = append(rows, v)
	}
	c.rows = rows
	c.err = nil
	return nil
}
