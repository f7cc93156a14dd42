package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReadFiltersAndOrders(t *testing.T) {
	m := NewMemory()
	m.Seed("attendance",
		Row{"id": "1", "user_id": "u1", "date": "2026-01-02", "status": "present"},
		Row{"id": "2", "user_id": "u2", "date": "2026-01-05", "status": "absent"},
		Row{"id": "3", "user_id": "u1", "date": "2026-01-04", "status": "late"},
		Row{"id": "4", "user_id": "u1", "date": nil, "status": "late"},
	)

	rows, err := m.Read(context.Background(), Query{
		Table:   "attendance",
		Filters: []Filter{Eq("user_id", "u1")},
		Order:   []Order{Desc("date")},
	})
	require.NoError(t, err)

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.String("id"))
	}
	// NULL sorts last ascending, so first descending.
	assert.Equal(t, []string{"4", "3", "1"}, ids)
}

func TestMemory_ReadMixedNumbers(t *testing.T) {
	m := NewMemory()
	m.Seed("results",
		Row{"id": "a", "semester": int64(2)},
		Row{"id": "b", "semester": 3.0},
		Row{"id": "c", "semester": 1},
	)
	rows, err := m.Read(context.Background(), Query{Table: "results", Order: []Order{Desc("semester")}})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].String("id"))
	assert.Equal(t, "c", rows[2].String("id"))

	rows, err = m.Read(context.Background(), Query{Table: "results", Filters: []Filter{Eq("semester", 2)}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].String("id"))
}

func TestMemory_ReadReturnsCopies(t *testing.T) {
	m := NewMemory()
	m.Seed("library_books", Row{"id": "b1", "title": "Go"})

	rows, err := m.Read(context.Background(), Query{Table: "library_books"})
	require.NoError(t, err)
	rows[0]["title"] = "mutated"

	rows, err = m.Read(context.Background(), Query{Table: "library_books"})
	require.NoError(t, err)
	assert.Equal(t, "Go", rows[0].String("title"))
}

func TestMemory_UnknownTable(t *testing.T) {
	m := NewMemory()
	_, err := m.Read(context.Background(), Query{Table: "nope"})
	assert.ErrorIs(t, err, ErrUnknownTable)
	err = m.Insert(context.Background(), "nope", Row{"a": 1})
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestMemory_InsertAppliesDefaults(t *testing.T) {
	m := NewMemory()
	m.Define("feedback", Row{"status": "pending"})

	before := time.Now().UTC().Add(-time.Second)
	err := m.Insert(context.Background(), "feedback", Row{"user_id": "u1", "subject": "Wifi"})
	require.NoError(t, err)

	rows, err := m.Read(context.Background(), Query{Table: "feedback"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pending", rows[0].String("status"))
	assert.NotEmpty(t, rows[0].String("id"))
	created, err := rows[0].Time("created_at")
	require.NoError(t, err)
	assert.True(t, created.After(before))
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	m.Define("fees", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Read(ctx, Query{Table: "fees"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Insert(ctx, "fees", Row{"amount": 1}), context.Canceled)
}
