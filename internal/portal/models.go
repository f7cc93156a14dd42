// Package portal holds the student-facing records, their derived figures and the
// feedback form.
package portal

import (
	"time"
)

// AttendanceRecord is one class the student was marked for.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Subject   string           `json:"subject"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

// FeeRecord is a fee line for a semester.
type FeeRecord struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	FeeType      string     `json:"fee_type"`
	Amount       float64    `json:"amount"`
	DueDate      time.Time  `json:"due_date"`
	PaidDate     *time.Time `json:"paid_date,omitempty"`
	Status       FeeStatus  `json:"status"`
	Semester     int        `json:"semester"`
	AcademicYear string     `json:"academic_year"`
}

// ResultRecord is the mark for one exam.
type ResultRecord struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Subject       string  `json:"subject"`
	ExamType      string  `json:"exam_type"`
	MarksObtained float64 `json:"marks_obtained"`
	MaxMarks      float64 `json:"max_marks"`
	Grade         *string `json:"grade,omitempty"`
	Semester      int     `json:"semester"`
	AcademicYear  string  `json:"academic_year"`
}

// Percentage is the rounded score for this exam.
func (r ResultRecord) Percentage() int {
	return ResultPercentage(r)
}

// LibraryBook is a catalogue entry.
type LibraryBook struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ISBN            *string `json:"isbn,omitempty"`
	Category        string  `json:"category"`
	AvailableCopies int     `json:"available_copies"`
	TotalCopies     int     `json:"total_copies"`
}

// Available reports whether at least one copy is on the shelf.
func (b LibraryBook) Available() bool {
	return b.AvailableCopies > 0
}

// LibraryBorrowing is a loan of one book. Book is filled by AttachBooks.
type LibraryBorrowing struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	BookID       string          `json:"book_id"`
	BorrowedDate *time.Time      `json:"borrowed_date,omitempty"`
	DueDate      time.Time       `json:"due_date"`
	ReturnedDate *time.Time      `json:"returned_date,omitempty"`
	Status       BorrowingStatus `json:"status"`
	Book         *LibraryBook    `json:"book,omitempty"`
}

// TimetableEntry is a weekly class slot.
type TimetableEntry struct {
	ID         string `json:"id"`
	DayOfWeek  string `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Subject    string `json:"subject"`
	Teacher    string `json:"teacher"`
	Room       string `json:"room"`
	Semester   int    `json:"semester"`
	Department string `json:"department"`
}

// Slot formats the entry as "HH:MM - HH:MM".
func (e TimetableEntry) Slot() string {
	return clock(e.StartTime) + " - " + clock(e.EndTime)
}

func clock(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// FeedbackItem is a submission made through the feedback form.
type FeedbackItem struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Category  string         `json:"category"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// Profile is the student's directory entry.
type Profile struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	StudentID  string  `json:"student_id"`
	Email      *string `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
	Semester   *int    `json:"semester,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
}

// DisplayName returns the name used in greetings.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == "" {
		return "Student"
	}
	return p.FullName
}
