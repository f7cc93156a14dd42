package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduportal/internal/store"
)

type book struct {
	ID    string
	Title string
}

func bookSpec() Spec[book] {
	return Spec[book]{
		Entity: "books",
		Query:  store.Query{Table: "library_books", Order: []store.Order{store.Asc("title")}},
		MapRow: func(r store.Row) (book, error) {
			if r.String("title") == "" {
				return book{}, errors.New("missing title")
			}
			return book{ID: r.String("id"), Title: r.String("title")}, nil
		},
	}
}

// flakyBackend fails reads while fail is set.
type flakyBackend struct {
	store.Backend
	fail  bool
	reads int
}

func (b *flakyBackend) Read(ctx context.Context, q store.Query) ([]store.Row, error) {
	b.reads++
	if b.fail {
		return nil, errors.New("network down")
	}
	return b.Backend.Read(ctx, q)
}

// slowBackend answers after its context is cancelled.
type slowBackend struct {
	store.Backend
	cancel context.CancelFunc
}

func (b *slowBackend) Read(ctx context.Context, q store.Query) ([]store.Row, error) {
	rows, err := b.Backend.Read(context.Background(), q)
	b.cancel()
	return rows, err
}

func seeded() *store.Memory {
	m := store.NewMemory()
	m.Seed("library_books",
		store.Row{"id": "2", "title": "Operating Systems"},
		store.Row{"id": "1", "title": "Algorithms"},
	)
	return m
}

func TestCollection_Refresh(t *testing.T) {
	c := New(seeded(), bookSpec(), nil)
	assert.True(t, c.Loading())
	assert.Empty(t, c.Rows())

	require.NoError(t, c.Refresh(context.Background()))
	assert.False(t, c.Loading())
	assert.NoError(t, c.Err())
	assert.Equal(t, []book{{"1", "Algorithms"}, {"2", "Operating Systems"}}, c.Rows())
}

func TestCollection_RefreshIsIdempotent(t *testing.T) {
	c := New(seeded(), bookSpec(), nil)
	require.NoError(t, c.Refresh(context.Background()))
	first := c.Rows()
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, first, c.Rows())
}

func TestCollection_FailureKeepsPriorRows(t *testing.T) {
	backend := &flakyBackend{Backend: seeded()}
	c := New[book](backend, bookSpec(), nil)
	require.NoError(t, c.Refresh(context.Background()))
	prior := c.Rows()

	backend.fail = true
	err := c.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, err, c.Err())
	assert.Equal(t, prior, c.Rows())
	assert.False(t, c.Loading())

	backend.fail = false
	require.NoError(t, c.Refresh(context.Background()))
	assert.NoError(t, c.Err())
}

func TestCollection_FirstFetchFailureClearsLoading(t *testing.T) {
	c := New[book](&flakyBackend{Backend: seeded(), fail: true}, bookSpec(), nil)
	assert.Error(t, c.Refresh(context.Background()))
	assert.False(t, c.Loading())
	assert.Empty(t, c.Rows())
}

func TestCollection_MapFailureKeepsPriorRows(t *testing.T) {
	m := seeded()
	c := New(m, bookSpec(), nil)
	require.NoError(t, c.Refresh(context.Background()))

	m.Seed("library_books", store.Row{"id": "3"})
	err := c.Refresh(context.Background())
	assert.ErrorContains(t, err, "books row")
	assert.Len(t, c.Rows(), 2)
}

func TestCollection_CancelledResponseDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New[book](&slowBackend{Backend: seeded(), cancel: cancel}, bookSpec(), nil)

	err := c.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Rows())
	assert.NoError(t, c.Err())
	assert.False(t, c.Loading())
}

func TestCollection_Observer(t *testing.T) {
	var seen []string
	var errs []error
	obs := func(entity string, took time.Duration, err error) {
		seen = append(seen, entity)
		errs = append(errs, err)
	}
	backend := &flakyBackend{Backend: seeded()}
	c := New[book](backend, bookSpec(), obs)

	require.NoError(t, c.Refresh(context.Background()))
	backend.fail = true
	_ = c.Refresh(context.Background())

	assert.Equal(t, []string{"books", "books"}, seen)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Equal(t, 2, backend.reads)
}
