package portal

// Badge is a short styled status indicator. Unknown badges carry the raw value
// with no styling.
type Badge struct {
	Label   string
	Class   string
	Icon    string
	Unknown bool
}

const (
	classGreen       = "bg-green-500"
	classYellow      = "bg-yellow-500"
	classBlue        = "bg-blue-500"
	classDestructive = "bg-destructive"
)

func unknownBadge(raw string) Badge {
	return Badge{Label: raw, Unknown: true}
}

// AttendanceStatus is the mark recorded for a class.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Badge maps the status to its indicator.
func (s AttendanceStatus) Badge() Badge {
	switch s {
	case AttendancePresent:
		return Badge{Label: "Present", Class: classGreen, Icon: "check-circle"}
	case AttendanceAbsent:
		return Badge{Label: "Absent", Class: classDestructive, Icon: "x-circle"}
	case AttendanceLate:
		return Badge{Label: "Late", Class: classYellow, Icon: "clock"}
	default:
		return unknownBadge(string(s))
	}
}

// FeeStatus is the payment state of a fee.
type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeePending FeeStatus = "pending"
	FeeOverdue FeeStatus = "overdue"
)

// Badge maps the status to its indicator.
func (s FeeStatus) Badge() Badge {
	switch s {
	case FeePaid:
		return Badge{Label: "Paid", Class: classGreen}
	case FeePending:
		return Badge{Label: "Pending", Class: classYellow}
	case FeeOverdue:
		return Badge{Label: "Overdue", Class: classDestructive}
	default:
		return unknownBadge(string(s))
	}
}

// BorrowingStatus is the state of a library loan.
type BorrowingStatus string

const (
	BorrowingBorrowed BorrowingStatus = "borrowed"
	BorrowingReturned BorrowingStatus = "returned"
	BorrowingOverdue  BorrowingStatus = "overdue"
)

// Badge maps the status to its indicator.
func (s BorrowingStatus) Badge() Badge {
	switch s {
	case BorrowingBorrowed:
		return Badge{Label: "Borrowed", Class: classBlue}
	case BorrowingReturned:
		return Badge{Label: "Returned", Class: classGreen}
	case BorrowingOverdue:
		return Badge{Label: "Overdue", Class: classDestructive}
	default:
		return unknownBadge(string(s))
	}
}

// FeedbackStatus is the review state of a feedback item.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackInReview FeedbackStatus = "in_review"
	FeedbackResolved FeedbackStatus = "resolved"
)

// Badge maps the status to its indicator.
func (s FeedbackStatus) Badge() Badge {
	switch s {
	case FeedbackPending:
		return Badge{Label: "Pending", Class: classYellow}
	case FeedbackInReview:
		return Badge{Label: "In Review", Class: classBlue}
	case FeedbackResolved:
		return Badge{Label: "Resolved", Class: classGreen}
	default:
		return unknownBadge(string(s))
	}
}

var gradeClasses = map[string]string{
	"A+": "bg-green-600",
	"A":  "bg-green-500",
	"B+": "bg-blue-600",
	"B":  "bg-blue-500",
	"C+": "bg-yellow-600",
	"C":  "bg-yellow-500",
	"D":  "bg-orange-500",
	"F":  "bg-red-500",
}

// GradeBadge returns the badge for a letter grade. ok is false when no grade
// was recorded. Unlisted grades get a gray badge.
func GradeBadge(grade *string) (b Badge, ok bool) {
	if grade == nil || *grade == "" {
		return Badge{}, false
	}
	class, known := gradeClasses[*grade]
	if !known {
		class = "bg-gray-500"
	}
	return Badge{Label: *grade, Class: class}, true
}
