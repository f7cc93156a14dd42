package portal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduportal/internal/remote"
	"eduportal/internal/store"
)

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	DefineTables(m)
	m.Seed(TableAttendance,
		store.Row{"id": "a1", "user_id": "u1", "subject": "Maths", "date": "2026-01-02", "status": "present"},
		store.Row{"id": "a2", "user_id": "u1", "subject": "Physics", "date": "2026-01-05", "status": "late"},
		store.Row{"id": "a3", "user_id": "u2", "subject": "Maths", "date": "2026-01-03", "status": "absent"},
	)
	m.Seed(TableResults,
		store.Row{"id": "r1", "user_id": "u1", "subject": "Maths", "exam_type": "Midterm", "marks_obtained": "80.00", "max_marks": int64(100), "grade": "A", "semester": int64(3), "academic_year": "2025-26"},
		store.Row{"id": "r2", "user_id": "u1", "subject": "Physics", "exam_type": "Final", "marks_obtained": 40.0, "max_marks": 50.0, "grade": nil, "semester": int64(4), "academic_year": "2025-26"},
	)
	m.Seed(TableProfiles, store.Row{"id": "u1", "full_name": "Asha Rao", "student_id": "STU001", "semester": int64(4)})
	return m
}

func TestAttendanceSpec_ScopedAndSorted(t *testing.T) {
	c := remote.New(seededStore(t), AttendanceSpec("u1"), nil)
	require.NoError(t, c.Refresh(context.Background()))

	rows := c.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a2", rows[0].ID)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, AttendanceLate, rows[0].Status)
	for _, r := range rows {
		assert.Equal(t, "u1", r.UserID)
	}
}

func TestResultSpec_MapsMixedNumericTypes(t *testing.T) {
	c := remote.New(seededStore(t), ResultSpec("u1"), nil)
	require.NoError(t, c.Refresh(context.Background()))

	rows := c.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[0].Semester)
	assert.Nil(t, rows[0].Grade)
	require.NotNil(t, rows[1].Grade)
	assert.Equal(t, "A", *rows[1].Grade)
	assert.Equal(t, 80, OverallPercentage(rows))
}

func TestProfileSpec(t *testing.T) {
	m := seededStore(t)
	c := remote.New(m, ProfileSpec("u1"), nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.Len(t, c.Rows(), 1)

	p := c.Rows()[0]
	assert.Equal(t, "Asha Rao", p.DisplayName())
	require.NotNil(t, p.Semester)
	assert.Equal(t, 4, *p.Semester)

	var missing *Profile
	assert.Equal(t, "Student", missing.DisplayName())
}

func TestSpecs_Queries(t *testing.T) {
	assert.Equal(t, []store.Order{store.Desc("due_date")}, FeeSpec("u").Query.Order)
	assert.Equal(t, []store.Order{store.Desc("semester")}, ResultSpec("u").Query.Order)
	assert.Equal(t, []store.Order{store.Asc("title")}, BookSpec().Query.Order)
	assert.Equal(t, []store.Order{store.Desc("borrowed_date")}, BorrowingSpec("u").Query.Order)
	assert.Equal(t, []store.Order{store.Asc("start_time")}, TimetableSpec().Query.Order)
	assert.Equal(t, []store.Order{store.Desc("created_at")}, FeedbackSpec("u").Query.Order)

	assert.Empty(t, BookSpec().Query.Filters)
	assert.Empty(t, TimetableSpec().Query.Filters)
	assert.Equal(t, []store.Filter{store.Eq("user_id", "u")}, BorrowingSpec("u").Query.Filters)
	assert.Equal(t, []store.Filter{store.Eq("user_id", "u")}, FeeSpec("u").Query.Filters)
}
