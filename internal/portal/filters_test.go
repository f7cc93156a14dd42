package portal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var catalogue = []LibraryBook{
	{ID: "1", Title: "Introduction to Algorithms", Author: "Cormen", Category: "Computer Science"},
	{ID: "2", Title: "Principles of Economics", Author: "Mankiw", Category: "Economics"},
	{ID: "3", Title: "Organic Chemistry", Author: "Clayden", Category: "Science"},
}

func TestSearchBooks(t *testing.T) {
	assert.Equal(t, catalogue, SearchBooks(catalogue, ""))

	tests := []struct {
		q    string
		want []string
	}{
		{"ALGO", []string{"1"}},
		{"mankiw", []string{"2"}},
		{"science", []string{"1", "3"}},
		{"c", []string{"1", "2", "3"}},
		{"physics", nil},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			var ids []string
			for _, b := range SearchBooks(catalogue, tt.q) {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchBooks_ExactSubset(t *testing.T) {
	for _, q := range []string{"o", "Eco", "zz", "IN"} {
		got := SearchBooks(catalogue, q)
		kept := map[string]bool{}
		for _, b := range got {
			kept[b.ID] = true
		}
		for _, b := range catalogue {
			hay := strings.ToLower(b.Title + "\x00" + b.Author + "\x00" + b.Category)
			assert.Equal(t, strings.Contains(hay, strings.ToLower(q)), kept[b.ID], "query %q book %s", q, b.ID)
		}
	}
}

func TestFilterByDay(t *testing.T) {
	entries := []TimetableEntry{
		{ID: "a", DayOfWeek: "Monday"},
		{ID: "b", DayOfWeek: "Tuesday"},
		{ID: "c", DayOfWeek: "Monday"},
		{ID: "d", DayOfWeek: "monday"},
	}
	got := FilterByDay(entries, "Monday")
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Empty(t, FilterByDay(entries, "Sunday"))
}

func TestNormalizeDay(t *testing.T) {
	assert.Equal(t, "Friday", NormalizeDay("Friday"))
	assert.Equal(t, DefaultDay, NormalizeDay(""))
	assert.Equal(t, DefaultDay, NormalizeDay("Sunday"))
	assert.Equal(t, DefaultDay, NormalizeDay("friday"))
}

func TestAttachBooks(t *testing.T) {
	loans := []LibraryBorrowing{{ID: "l1", BookID: "2"}, {ID: "l2", BookID: "missing"}}
	got := AttachBooks(loans, catalogue)

	if assert.NotNil(t, got[0].Book) {
		assert.Equal(t, "Principles of Economics", got[0].Book.Title)
	}
	assert.Nil(t, got[1].Book)
	assert.Nil(t, loans[0].Book)
}

func TestNoticesFor(t *testing.T) {
	assert.Equal(t, "Assessment Notices", NoticesFor("assessment").Label)
	assert.Len(t, NoticesFor("assessment").Notices, 2)
	assert.Equal(t, DefaultNoticeTab, NoticesFor("Assessment").ID)
	assert.Equal(t, DefaultNoticeTab, NoticesFor("").ID)
	assert.Len(t, NoticeCategories(), 5)
}

func TestTimetableSlot(t *testing.T) {
	assert.Equal(t, "09:00 - 10:30", TimetableEntry{StartTime: "09:00:00", EndTime: "10:30:00"}.Slot())
}
