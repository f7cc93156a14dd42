package portal

import "math"

// AttendanceSummary is the headline of the attendance page.
type AttendanceSummary struct {
	Total      int `json:"total"`
	Attended   int `json:"attended"`
	Late       int `json:"late"`
	Missed     int `json:"missed"`
	Percentage int `json:"percentage"`
}

// SummarizeAttendance counts rows by status. Late classes count toward the
// percentage but not toward Attended.
func SummarizeAttendance(rows []AttendanceRecord) AttendanceSummary {
	s := AttendanceSummary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case AttendancePresent:
			s.Attended++
		case AttendanceLate:
			s.Late++
		case AttendanceAbsent:
			s.Missed++
		}
	}
	s.Percentage = percent(float64(s.Attended+s.Late), float64(s.Total))
	return s
}

// AttendancePercentage is the share of classes marked present or late, 0..100.
func AttendancePercentage(rows []AttendanceRecord) int {
	return SummarizeAttendance(rows).Percentage
}

// FeeTotals splits fee amounts into outstanding and settled.
type FeeTotals struct {
	Pending float64 `json:"pending"`
	Paid    float64 `json:"paid"`
}

// SumFees adds pending and overdue amounts into Pending, and paid amounts into
// Paid. Other statuses are left out of both.
func SumFees(rows []FeeRecord) FeeTotals {
	var t FeeTotals
	for _, r := range rows {
		switch r.Status {
		case FeePending, FeeOverdue:
			t.Pending += r.Amount
		case FeePaid:
			t.Paid += r.Amount
		}
	}
	return t
}

// ResultPercentage is the rounded score of one exam, 0 when MaxMarks is 0.
func ResultPercentage(r ResultRecord) int {
	return percent(r.MarksObtained, r.MaxMarks)
}

// OverallPercentage is the rounded score over all exams, 0 when no marks are
// available.
func OverallPercentage(rows []ResultRecord) int {
	var obtained, total float64
	for _, r := range rows {
		obtained += r.MarksObtained
		total += r.MaxMarks
	}
	return percent(obtained, total)
}

func percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * part / whole))
}
