package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal/internal/auth"
	"eduportal/internal/portal"
	"eduportal/internal/remote"
)

func (s *Server) apiToken(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrBadCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("token lookup failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authentication unavailable"})
		return
	}
	pair, err := s.sessions.SignIn(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

func apiIdentity(c *gin.Context) string {
	claims, _ := auth.ClaimsFrom(c)
	return claims.Subject
}

// fetchJSON loads a collection for an API call. Unlike pages, read failures are
// reported; ok is false once the error response is written.
func fetchJSON[T any](s *Server, c *gin.Context, spec remote.Spec[T]) (rows []T, ok bool) {
	col := load(s, c, spec)
	if err := col.Err(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load " + spec.Entity})
		return nil, false
	}
	if c.Request.Context().Err() != nil {
		c.Status(http.StatusServiceUnavailable)
		return nil, false
	}
	rows = col.Rows()
	if rows == nil {
		rows = []T{}
	}
	return rows, true
}

func (s *Server) apiAttendance(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.AttendanceSpec(apiIdentity(c)))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": rows, "summary": portal.SummarizeAttendance(rows)})
}

func (s *Server) apiTimetable(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.TimetableSpec())
	if !ok {
		return
	}
	if day := c.Query("day"); day != "" {
		rows = portal.FilterByDay(rows, day)
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

func (s *Server) apiResults(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.ResultSpec(apiIdentity(c)))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rows, "overall_percentage": portal.OverallPercentage(rows)})
}

func (s *Server) apiBooks(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.BookSpec())
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": portal.SearchBooks(rows, c.Query("q"))})
}

func (s *Server) apiBorrowings(c *gin.Context) {
	books, ok := fetchJSON(s, c, portal.BookSpec())
	if !ok {
		return
	}
	loans, ok := fetchJSON(s, c, portal.BorrowingSpec(apiIdentity(c)))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowings": portal.AttachBooks(loans, books)})
}

func (s *Server) apiFees(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.FeeSpec(apiIdentity(c)))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"fees": rows, "totals": portal.SumFees(rows)})
}

func (s *Server) apiFeedback(c *gin.Context) {
	rows, ok := fetchJSON(s, c, portal.FeedbackSpec(apiIdentity(c)))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": rows})
}

func (s *Server) apiSubmitFeedback(c *gin.Context) {
	form := &portal.FeedbackForm{}
	if err := c.ShouldBindJSON(&form.Input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.feedback.Submit(c.Request.Context(), apiIdentity(c), form)
	var ve *portal.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"status": "submitted"})
	case errors.Is(err, portal.ErrSubmitting):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid feedback", "fields": ve.Map()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feedback not saved"})
	}
}
