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

const (
	identityKey = "identity"

	keyAccess  = "access"
	keyRefresh = "refresh"

	flashNotice = "notice"
	flashAlert  = "alert"
)

// identify resolves the cookie tokens to an identity once the session provider
// is ready. Refreshed tokens are written back to the cookie; dead ones are dropped.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		select {
		case <-s.sessions.Ready():
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		sess := sessions.Default(c)
		toks := tokensOf(sess)
		if toks.Empty() {
			c.Next()
			return
		}

		id, refreshed, err := s.sessions.GetSession(c.Request.Context(), toks)
		switch {
		case err != nil:
			if !errors.Is(err, session.ErrNoSession) {
				s.log.Warn("session lookup failed", zap.Error(err))
			}
			sess.Delete(keyAccess)
			sess.Delete(keyRefresh)
			s.save(sess)
		case refreshed != nil:
			storeTokens(sess, *refreshed)
			s.save(sess)
			c.Set(identityKey, id)
		default:
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// requireIdentity sends anonymous visitors to the sign-in page. Nothing after it
// in the chain runs for them.
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identityFrom(c); !ok {
			c.Redirect(http.StatusFound, "/auth")
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}, false
	}
	id, ok := v.(session.Identity)
	return id, ok
}

func tokensOf(sess sessions.Session) session.Tokens {
	access, _ := sess.Get(keyAccess).(string)
	refresh, _ := sess.Get(keyRefresh).(string)
	return session.Tokens{Access: access, Refresh: refresh}
}

func storeTokens(sess sessions.Session, pair auth.TokenPair) {
	sess.Set(keyAccess, pair.AccessToken)
	sess.Set(keyRefresh, pair.RefreshToken)
}

func (s *Server) save(sess sessions.Session) {
	if err := sess.Save(); err != nil {
		s.log.Error("session cookie not saved", zap.Error(err))
	}
}

// flashes pops pending notifications.
type flashes struct {
	Notices []string
	Alerts  []string
}

func (s *Server) popFlashes(c *gin.Context) flashes {
	sess := sessions.Default(c)
	var f flashes
	for _, v := range sess.Flashes(flashNotice) {
		if msg, ok := v.(string); ok {
			f.Notices = append(f.Notices, msg)
		}
	}
	for _, v := range sess.Flashes(flashAlert) {
		if msg, ok := v.(string); ok {
			f.Alerts = append(f.Alerts, msg)
		}
	}
	if len(f.Notices)+len(f.Alerts) > 0 {
		s.save(sess)
	}
	return f
}

func (s *Server) flash(c *gin.Context, kind, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg, kind)
	s.save(sess)
}
