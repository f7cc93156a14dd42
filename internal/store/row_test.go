package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Conversions(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := Row{
		"amount":    "45000.50",
		"raw":       []byte("12"),
		"semester":  int64(4),
		"due_date":  due,
		"paid_date": "2026-02-14",
		"stamp":     "2026-01-03 10:15:00",
		"grade":     nil,
		"bad":       "n/a",
	}

	amount, err := r.Float("amount")
	require.NoError(t, err)
	assert.Equal(t, 45000.5, amount)

	n, err := r.Int("raw")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	sem, err := r.Int("semester")
	require.NoError(t, err)
	assert.Equal(t, 4, sem)

	got, err := r.Time("due_date")
	require.NoError(t, err)
	assert.True(t, got.Equal(due))

	paid, err := r.NullTime("paid_date")
	require.NoError(t, err)
	require.NotNil(t, paid)
	assert.Equal(t, 14, paid.Day())

	stamp, err := r.Time("stamp")
	require.NoError(t, err)
	assert.Equal(t, 10, stamp.Hour())

	assert.Nil(t, r.NullString("grade"))
	missing, err := r.NullTime("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = r.Float("bad")
	assert.Error(t, err)
	_, err = r.Time("bad")
	assert.Error(t, err)
}
