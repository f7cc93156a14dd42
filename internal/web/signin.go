package web

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal/internal/auth"
	"eduportal/internal/session"
)

type credentials struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (s *Server) signInForm(c *gin.Context) {
	if _, ok := identityFrom(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.render(c, http.StatusOK, "auth.html", "Sign in", gin.H{})
}

func (s *Server) signIn(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		s.render(c, http.StatusBadRequest, "auth.html", "Sign in", gin.H{
			"Email": req.Email,
			"Alert": "Enter a valid email address and your password.",
		})
		return
	}

	id, err := s.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := http.StatusUnauthorized, "Invalid email or password."
		if !errors.Is(err, auth.ErrBadCredentials) {
			s.log.Error("sign-in lookup failed", zap.Error(err))
			status, msg = http.StatusServiceUnavailable, "Sign-in is unavailable right now. Please try again later."
		}
		s.render(c, status, "auth.html", "Sign in", gin.H{"Email": req.Email, "Alert": msg})
		return
	}

	pair, err := s.sessions.SignIn(c.Request.Context(), id)
	if err != nil {
		s.log.Error("token issue failed", zap.Error(err))
		s.render(c, http.StatusInternalServerError, "auth.html", "Sign in", gin.H{"Email": req.Email, "Alert": "Could not start your session."})
		return
	}
	sess := sessions.Default(c)
	storeTokens(sess, pair)
	sess.AddFlash("Signed in successfully.", flashNotice)
	s.save(sess)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) signOut(c *gin.Context) {
	sess := sessions.Default(c)
	err := s.sessions.SignOut(c.Request.Context(), tokensOf(sess))
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		s.log.Warn("sign-out failed", zap.Error(err))
	}
	sess.Clear()
	s.save(sess)
	c.Redirect(http.StatusSeeOther, "/")
}
