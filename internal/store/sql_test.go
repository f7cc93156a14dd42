package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    Query
		wantSQL  string
		wantArgs []any
		wantErr  error
	}{
		{
			name:     "all rows",
			query:    Query{Table: "timetable", Order: []Order{Asc("start_time")}},
			wantSQL:  "SELECT * FROM timetable ORDER BY start_time ASC",
			wantArgs: []any{},
		},
		{
			name:     "scoped postgres",
			query:    Query{Table: "attendance", Filters: []Filter{Eq("user_id", "u1")}, Order: []Order{Desc("date")}},
			wantSQL:  "SELECT * FROM attendance WHERE user_id = $1 ORDER BY date DESC",
			wantArgs: []any{"u1"},
		},
		{
			name:     "scoped sqlite with columns",
			dialect:  SQLite,
			query:    Query{Table: "fees", Columns: []string{"id", "amount"}, Filters: []Filter{Eq("user_id", "u1"), Eq("semester", 2)}},
			wantSQL:  "SELECT id, amount FROM fees WHERE user_id = ? AND semester = ?",
			wantArgs: []any{"u1", 2},
		},
		{
			name:    "injection in table",
			query:   Query{Table: "fees; DROP TABLE users"},
			wantErr: ErrInvalidIdentifier,
		},
		{
			name:    "injection in order",
			query:   Query{Table: "fees", Order: []Order{Asc("due_date desc, (select 1)")}},
			wantErr: ErrInvalidIdentifier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSelect(tt.dialect, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildInsert(t *testing.T) {
	sql, args, err := buildInsert(Postgres, "feedback", Row{
		"user_id":  "u1",
		"category": "library",
		"subject":  "Hours",
		"message":  "Open later please",
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO feedback (category, message, subject, user_id) VALUES ($1, $2, $3, $4)", sql)
	assert.Equal(t, []any{"library", "Open later please", "Hours", "u1"}, args)

	_, _, err = buildInsert(SQLite, "feedback", Row{})
	assert.Error(t, err)

	_, _, err = buildInsert(SQLite, "feedback", Row{"bad column": 1})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}
