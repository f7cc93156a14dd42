package portal

import (
	"strings"
)

// Weekdays lists the timetable days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultDay is selected when no day is given.
const DefaultDay = "Monday"

// SearchBooks keeps the books whose title, author or category contains q,
// ignoring case. An empty query keeps everything.
func SearchBooks(books []LibraryBook, q string) []LibraryBook {
	if q == "" {
		return books
	}
	needle := strings.ToLower(q)
	out := make([]LibraryBook, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Category), needle) {
			out = append(out, b)
		}
	}
	return out
}

// NormalizeDay returns day when it is a timetable day and DefaultDay otherwise.
func NormalizeDay(day string) string {
	for _, d := range Weekdays {
		if d == day {
			return d
		}
	}
	return DefaultDay
}

// FilterByDay keeps the entries scheduled on day.
func FilterByDay(entries []TimetableEntry, day string) []TimetableEntry {
	out := make([]TimetableEntry, 0, len(entries))
	for _, e := range entries {
		if e.DayOfWeek == day {
			out = append(out, e)
		}
	}
	return out
}

// AttachBooks points each borrowing at its catalogue entry. Borrowings whose
// book is not in the catalogue keep a nil Book.
func AttachBooks(borrowings []LibraryBorrowing, books []LibraryBook) []LibraryBorrowing {
	byID := make(map[string]*LibraryBook, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}
	out := make([]LibraryBorrowing, len(borrowings))
	for i, b := range borrowings {
		b.Book = byID[b.BookID]
		out[i] = b
	}
	return out
}
