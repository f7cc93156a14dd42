package main

import (
	"time"

	"eduportal/internal/auth"
	"eduportal/internal/portal"
	"eduportal/internal/store"
)

const (
	demoEmail    = "demo@eduportal.local"
	demoPassword = "demo-password"
	demoUserID   = "00000000-0000-4000-8000-000000000001"
)

// seedDemo fills an in-memory store with one student and a term of records.
func seedDemo(m *store.Memory) error {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	m.Seed(auth.UsersTable, store.Row{"id": demoUserID, "email": demoEmail, "password_hash": hash})
	m.Seed(portal.TableProfiles, store.Row{
		"id": demoUserID, "full_name": "Demo Student", "student_id": "STU0001",
		"email": demoEmail, "department": "Computer Science", "semester": int64(4),
	})

	day := func(offset int) string {
		return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	}
	m.Seed(portal.TableAttendance,
		store.Row{"id": "att-1", "user_id": demoUserID, "subject": "Data Structures", "date": day(-1), "status": "present"},
		store.Row{"id": "att-2", "user_id": demoUserID, "subject": "Operating Systems", "date": day(-2), "status": "late"},
		store.Row{"id": "att-3", "user_id": demoUserID, "subject": "Discrete Mathematics", "date": day(-3), "status": "absent"},
	)
	m.Seed(portal.TableFees,
		store.Row{"id": "fee-1", "user_id": demoUserID, "fee_type": "Tuition Fee", "amount": 45000.0, "due_date": day(20), "status": "pending", "semester": int64(4), "academic_year": "2025-26"},
		store.Row{"id": "fee-2", "user_id": demoUserID, "fee_type": "Library Fee", "amount": 1500.0, "due_date": day(-40), "paid_date": day(-45), "status": "paid", "semester": int64(4), "academic_year": "2025-26"},
	)
	m.Seed(portal.TableResults,
		store.Row{"id": "res-1", "user_id": demoUserID, "subject": "Data Structures", "exam_type": "Midterm", "marks_obtained": 42.0, "max_marks": 50.0, "grade": "A", "semester": int64(4), "academic_year": "2025-26"},
		store.Row{"id": "res-2", "user_id": demoUserID, "subject": "Computer Networks", "exam_type": "Final", "marks_obtained": 68.0, "max_marks": 100.0, "grade": "B", "semester": int64(3), "academic_year": "2024-25"},
	)
	m.Seed(portal.TableBooks,
		store.Row{"id": "book-1", "title": "Introduction to Algorithms", "author": "Thomas H. Cormen", "isbn": "9780262046305", "category": "Computer Science", "available_copies": int64(2), "total_copies": int64(5)},
		store.Row{"id": "book-2", "title": "Operating System Concepts", "author": "Abraham Silberschatz", "category": "Computer Science", "available_copies": int64(0), "total_copies": int64(3)},
	)
	m.Seed(portal.TableBorrowings,
		store.Row{"id": "loan-1", "user_id": demoUserID, "book_id": "book-2", "borrowed_date": day(-10), "due_date": day(4), "status": "borrowed"},
	)
	m.Seed(portal.TableTimetable,
		store.Row{"id": "tt-1", "day_of_week": "Monday", "start_time": "09:00:00", "end_time": "10:00:00", "subject": "Data Structures", "teacher": "Dr. Mehta", "room": "CS-101", "semester": int64(4), "department": "Computer Science"},
		store.Row{"id": "tt-2", "day_of_week": "Monday", "start_time": "10:15:00", "end_time": "11:15:00", "subject": "Operating Systems", "teacher": "Prof. Rao", "room": "CS-204", "semester": int64(4), "department": "Computer Science"},
		store.Row{"id": "tt-3", "day_of_week": "Wednesday", "start_time": "14:00:00", "end_time": "15:30:00", "subject": "Computer Networks Lab", "teacher": "Dr. Iyer", "room": "Lab-3", "semester": int64(4), "department": "Computer Science"},
	)
	return nil
}
