package portal

import (
	"fmt"

	"eduportal/internal/remote"
	"eduportal/internal/store"
)

// Table names in the external store.
const (
	TableAttendance = "attendance"
	TableFees       = "fees"
	TableResults    = "results"
	TableBooks      = "library_books"
	TableBorrowings = "library_borrowings"
	TableTimetable  = "timetable"
	TableFeedback   = "feedback"
	TableProfiles   = "profiles"
)

// Entity labels used in logs and metrics.
const (
	EntityAttendance = "attendance"
	EntityFees       = "fees"
	EntityResults    = "results"
	EntityBooks      = "library_books"
	EntityBorrowings = "library_borrowings"
	EntityTimetable  = "timetable"
	EntityFeedback   = "feedback"
	EntityProfile    = "profile"
)

// DefineTables registers every portal table on an in-memory store.
func DefineTables(m *store.Memory) {
	for _, t := range []string{TableAttendance, TableFees, TableResults, TableBooks, TableBorrowings, TableTimetable, TableProfiles} {
		m.Define(t, nil)
	}
	m.Define(TableFeedback, store.Row{"status": string(FeedbackPending)})
	m.Define("users", nil)
}

func ownedBy(userID string) []store.Filter {
	return []store.Filter{store.Eq("user_id", userID)}
}

// AttendanceSpec reads the student's attendance, newest first.
func AttendanceSpec(userID string) remote.Spec[AttendanceRecord] {
	return remote.Spec[AttendanceRecord]{
		Entity: EntityAttendance,
		Query:  store.Query{Table: TableAttendance, Filters: ownedBy(userID), Order: []store.Order{store.Desc("date")}},
		MapRow: mapAttendance,
	}
}

// FeeSpec reads the student's fees by due date, latest first.
func FeeSpec(userID string) remote.Spec[FeeRecord] {
	return remote.Spec[FeeRecord]{
		Entity: EntityFees,
		Query:  store.Query{Table: TableFees, Filters: ownedBy(userID), Order: []store.Order{store.Desc("due_date")}},
		MapRow: mapFee,
	}
}

// ResultSpec reads the student's exam results, latest semester first.
func ResultSpec(userID string) remote.Spec[ResultRecord] {
	return remote.Spec[ResultRecord]{
		Entity: EntityResults,
		Query:  store.Query{Table: TableResults, Filters: ownedBy(userID), Order: []store.Order{store.Desc("semester")}},
		MapRow: mapResult,
	}
}

// BookSpec reads the whole catalogue by title.
func BookSpec() remote.Spec[LibraryBook] {
	return remote.Spec[LibraryBook]{
		Entity: EntityBooks,
		Query:  store.Query{Table: TableBooks, Order: []store.Order{store.Asc("title")}},
		MapRow: mapBook,
	}
}

// BorrowingSpec reads the student's loans, most recent first.
func BorrowingSpec(userID string) remote.Spec[LibraryBorrowing] {
	return remote.Spec[LibraryBorrowing]{
		Entity: EntityBorrowings,
		Query:  store.Query{Table: TableBorrowings, Filters: ownedBy(userID), Order: []store.Order{store.Desc("borrowed_date")}},
		MapRow: mapBorrowing,
	}
}

// TimetableSpec reads the weekly timetable by start time.
func TimetableSpec() remote.Spec[TimetableEntry] {
	return remote.Spec[TimetableEntry]{
		Entity: EntityTimetable,
		Query:  store.Query{Table: TableTimetable, Order: []store.Order{store.Asc("start_time")}},
		MapRow: mapTimetable,
	}
}

// FeedbackSpec reads the student's submissions, newest first.
func FeedbackSpec(userID string) remote.Spec[FeedbackItem] {
	return remote.Spec[FeedbackItem]{
		Entity: EntityFeedback,
		Query:  store.Query{Table: TableFeedback, Filters: ownedBy(userID), Order: []store.Order{store.Desc("created_at")}},
		MapRow: mapFeedback,
	}
}

// ProfileSpec reads the single profile row for userID.
func ProfileSpec(userID string) remote.Spec[Profile] {
	return remote.Spec[Profile]{
		Entity: EntityProfile,
		Query:  store.Query{Table: TableProfiles, Filters: []store.Filter{store.Eq("id", userID)}},
		MapRow: mapProfile,
	}
}

func mapAttendance(r store.Row) (AttendanceRecord, error) {
	date, err := r.Time("date")
	if err != nil {
		return AttendanceRecord{}, err
	}
	created, err := r.NullTime("created_at")
	if err != nil {
		return AttendanceRecord{}, err
	}
	return AttendanceRecord{
		ID:        r.String("id"),
		UserID:    r.String("user_id"),
		Subject:   r.String("subject"),
		Date:      date,
		Status:    AttendanceStatus(r.String("status")),
		CreatedAt: created,
	}, nil
}

func mapFee(r store.Row) (FeeRecord, error) {
	amount, err := r.Float("amount")
	if err != nil {
		return FeeRecord{}, err
	}
	due, err := r.Time("due_date")
	if err != nil {
		return FeeRecord{}, err
	}
	paid, err := r.NullTime("paid_date")
	if err != nil {
		return FeeRecord{}, err
	}
	sem, err := r.Int("semester")
	if err != nil {
		return FeeRecord{}, err
	}
	return FeeRecord{
		ID:           r.String("id"),
		UserID:       r.String("user_id"),
		FeeType:      r.String("fee_type"),
		Amount:       amount,
		DueDate:      due,
		PaidDate:     paid,
		Status:       FeeStatus(r.String("status")),
		Semester:     sem,
		AcademicYear: r.String("academic_year"),
	}, nil
}

func mapResult(r store.Row) (ResultRecord, error) {
	obtained, err := r.Float("marks_obtained")
	if err != nil {
		return ResultRecord{}, err
	}
	maxMarks, err := r.Float("max_marks")
	if err != nil {
		return ResultRecord{}, err
	}
	sem, err := r.Int("semester")
	if err != nil {
		return ResultRecord{}, err
	}
	return ResultRecord{
		ID:            r.String("id"),
		UserID:        r.String("user_id"),
		Subject:       r.String("subject"),
		ExamType:      r.String("exam_type"),
		MarksObtained: obtained,
		MaxMarks:      maxMarks,
		Grade:         r.NullString("grade"),
		Semester:      sem,
		AcademicYear:  r.String("academic_year"),
	}, nil
}

func mapBook(r store.Row) (LibraryBook, error) {
	avail, err := r.Int("available_copies")
	if err != nil {
		return LibraryBook{}, err
	}
	total, err := r.Int("total_copies")
	if err != nil {
		return LibraryBook{}, err
	}
	return LibraryBook{
		ID:              r.String("id"),
		Title:           r.String("title"),
		Author:          r.String("author"),
		ISBN:            r.NullString("isbn"),
		Category:        r.String("category"),
		AvailableCopies: avail,
		TotalCopies:     total,
	}, nil
}

func mapBorrowing(r store.Row) (LibraryBorrowing, error) {
	borrowed, err := r.NullTime("borrowed_date")
	if err != nil {
		return LibraryBorrowing{}, err
	}
	due, err := r.Time("due_date")
	if err != nil {
		return LibraryBorrowing{}, err
	}
	returned, err := r.NullTime("returned_date")
	if err != nil {
		return LibraryBorrowing{}, err
	}
	return LibraryBorrowing{
		ID:           r.String("id"),
		UserID:       r.String("user_id"),
		BookID:       r.String("book_id"),
		BorrowedDate: borrowed,
		DueDate:      due,
		ReturnedDate: returned,
		Status:       BorrowingStatus(r.String("status")),
	}, nil
}

func mapTimetable(r store.Row) (TimetableEntry, error) {
	sem, err := r.Int("semester")
	if err != nil {
		return TimetableEntry{}, err
	}
	return TimetableEntry{
		ID:         r.String("id"),
		DayOfWeek:  r.String("day_of_week"),
		StartTime:  r.String("start_time"),
		EndTime:    r.String("end_time"),
		Subject:    r.String("subject"),
		Teacher:    r.String("teacher"),
		Room:       r.String("room"),
		Semester:   sem,
		Department: r.String("department"),
	}, nil
}

func mapFeedback(r store.Row) (FeedbackItem, error) {
	created, err := r.Time("created_at")
	if err != nil {
		return FeedbackItem{}, err
	}
	return FeedbackItem{
		ID:        r.String("id"),
		UserID:    r.String("user_id"),
		Category:  r.String("category"),
		Subject:   r.String("subject"),
		Message:   r.String("message"),
		Status:    FeedbackStatus(r.String("status")),
		CreatedAt: created,
	}, nil
}

func mapProfile(r store.Row) (Profile, error) {
	p := Profile{
		ID:         r.String("id"),
		FullName:   r.String("full_name"),
		StudentID:  r.String("student_id"),
		Email:      r.NullString("email"),
		Department: r.NullString("department"),
		Phone:      r.NullString("phone"),
		AvatarURL:  r.NullString("avatar_url"),
	}
	if r["semester"] != nil {
		sem, err := r.Int("semester")
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", p.ID, err)
		}
		p.Semester = &sem
	}
	return p, nil
}
