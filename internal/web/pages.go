package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduportal/internal/portal"
)

type quickAction struct {
	Href  string
	Label string
	Icon  string
}

var quickActions = []quickAction{
	{"/attendance", "Attendance", "calendar-check"},
	{"/timetable", "Timetable", "clock"},
	{"/results", "Results", "award"},
	{"/library", "Library", "book-open"},
	{"/fees", "Fees", "credit-card"},
	{"/feedback", "Feedback", "message-square"},
	{"/auth", "Access Panel", "key"},
}

func (s *Server) home(c *gin.Context) {
	var profile *portal.Profile
	if id, ok := identityFrom(c); ok {
		if rows := load(s, c, portal.ProfileSpec(id.ID)).Rows(); len(rows) > 0 {
			profile = &rows[0]
		}
	}
	tab := c.DefaultQuery("tab", portal.DefaultNoticeTab)
	s.render(c, http.StatusOK, "home.html", "Home", gin.H{
		"Name":       profile.DisplayName(),
		"Actions":    quickActions,
		"Categories": portal.NoticeCategories(),
		"Active":     portal.NoticesFor(tab),
	})
}

func (s *Server) attendancePage(c *gin.Context) {
	id, _ := identityFrom(c)
	rows := load(s, c, portal.AttendanceSpec(id.ID)).Rows()
	s.render(c, http.StatusOK, "attendance.html", "Attendance", gin.H{
		"Records": rows,
		"Summary": portal.SummarizeAttendance(rows),
	})
}

func (s *Server) timetablePage(c *gin.Context) {
	day := portal.NormalizeDay(c.Query("day"))
	rows := load(s, c, portal.TimetableSpec()).Rows()
	s.render(c, http.StatusOK, "timetable.html", "Timetable", gin.H{
		"Days":    portal.Weekdays,
		"Day":     day,
		"Entries": portal.FilterByDay(rows, day),
	})
}

func (s *Server) resultsPage(c *gin.Context) {
	id, _ := identityFrom(c)
	rows := load(s, c, portal.ResultSpec(id.ID)).Rows()
	s.render(c, http.StatusOK, "results.html", "Results", gin.H{
		"Results": rows,
		"Overall": portal.OverallPercentage(rows),
	})
}

func (s *Server) libraryPage(c *gin.Context) {
	id, _ := identityFrom(c)
	q := c.Query("q")
	tab := c.DefaultQuery("tab", "books")
	if tab != "borrowings" {
		tab = "books"
	}
	books := load(s, c, portal.BookSpec()).Rows()
	loans := load(s, c, portal.BorrowingSpec(id.ID)).Rows()
	s.render(c, http.StatusOK, "library.html", "Library", gin.H{
		"Query":      q,
		"Tab":        tab,
		"Books":      portal.SearchBooks(books, q),
		"Borrowings": portal.AttachBooks(loans, books),
	})
}

func (s *Server) feesPage(c *gin.Context) {
	id, _ := identityFrom(c)
	rows := load(s, c, portal.FeeSpec(id.ID)).Rows()
	s.render(c, http.StatusOK, "fees.html", "Fees", gin.H{
		"Fees":   rows,
		"Totals": portal.SumFees(rows),
	})
}

func (s *Server) feedbackPage(c *gin.Context) {
	s.renderFeedback(c, http.StatusOK, &portal.FeedbackForm{}, "")
}

func (s *Server) submitFeedback(c *gin.Context) {
	id, _ := identityFrom(c)
	form := &portal.FeedbackForm{}
	if err := c.ShouldBind(&form.Input); err != nil {
		s.renderFeedback(c, http.StatusBadRequest, form, "Failed to submit feedback. Please try again.")
		return
	}

	err := s.feedback.Submit(c.Request.Context(), id.ID, form)
	var ve *portal.ValidationError
	switch {
	case err == nil:
		s.flash(c, flashNotice, "Feedback submitted successfully!")
		c.Redirect(http.StatusSeeOther, "/feedback")
	case errors.Is(err, portal.ErrSubmitting):
		s.renderFeedback(c, http.StatusConflict, form, "Your previous feedback is still being submitted.")
	case errors.As(err, &ve):
		s.renderFeedback(c, http.StatusUnprocessableEntity, form, "Please check the highlighted fields.")
	default:
		s.renderFeedback(c, http.StatusInternalServerError, form, "Failed to submit feedback. Please try again.")
	}
}

// renderFeedback shows the form and the student's submissions. alert is shown
// once, on this response only.
func (s *Server) renderFeedback(c *gin.Context, status int, form *portal.FeedbackForm, alert string) {
	id, _ := identityFrom(c)
	items := load(s, c, portal.FeedbackSpec(id.ID)).Rows()
	s.render(c, status, "feedback.html", "Feedback", gin.H{
		"Form":       form,
		"Categories": portal.FeedbackCategories,
		"Items":      items,
		"Alert":      alert,
	})
}
