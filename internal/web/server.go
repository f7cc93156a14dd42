// Package web serves the student portal pages and its JSON API.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal/internal/auth"
	"eduportal/internal/config"
	"eduportal/internal/httpmiddleware"
	"eduportal/internal/portal"
	"eduportal/internal/remote"
	"eduportal/internal/session"
	"eduportal/internal/store"
	"eduportal/internal/telemetry"
)

const cookieName = "eduportal_session"

// Deps are the collaborators a Server needs. Metrics and Log may be nil.
type Deps struct {
	Backend  store.Backend
	Sessions *session.Provider
	Auth     *auth.Authenticator
	Feedback *portal.FeedbackService
	Metrics  *telemetry.Metrics
	Log      *zap.Logger
}

// Server renders the portal.
type Server struct {
	cfg      config.App
	backend  store.Backend
	sessions *session.Provider
	auth     *auth.Authenticator
	feedback *portal.FeedbackService
	metrics  *telemetry.Metrics
	log      *zap.Logger
	tmpl     *template.Template
	stop     func()
}

// New creates a server and subscribes it to session changes.
func New(cfg config.App, d Deps) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Feedback == nil {
		d.Feedback = portal.NewFeedbackService(d.Backend, d.Log, nil)
	}
	s := &Server{
		cfg:      cfg,
		backend:  d.Backend,
		sessions: d.Sessions,
		auth:     d.Auth,
		feedback: d.Feedback,
		metrics:  d.Metrics,
		log:      d.Log,
		tmpl:     tmpl,
	}
	s.stop = d.Sessions.OnChange(func(evt session.Event) {
		s.log.Info("session change", zap.String("kind", string(evt.Kind)), zap.String("subject", evt.Subject))
	})
	return s, nil
}

// Close stops listening for session changes.
func (s *Server) Close() {
	s.stop()
}

// Engine builds the gin engine with every portal route. Callers add ops routes.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.RequestLogger(s.log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.SecurityHeaders(s.cfg.Production()))
	r.SetHTMLTemplate(s.tmpl)

	limit := httpmiddleware.NewTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin, s.rateLimited).
		Middleware(httpmiddleware.ByClientIP)

	pages := r.Group("/", sessions.Sessions(cookieName, s.cookieStore()), s.identify())
	pages.GET("/", s.home)
	pages.GET("/auth", s.signInForm)
	pages.POST("/auth", limit, s.signIn)
	pages.POST("/auth/signout", s.signOut)

	member := pages.Group("/", requireIdentity())
	member.GET("/attendance", s.attendancePage)
	member.GET("/timetable", s.timetablePage)
	member.GET("/results", s.resultsPage)
	member.GET("/library", s.libraryPage)
	member.GET("/fees", s.feesPage)
	member.GET("/feedback", s.feedbackPage)
	member.POST("/feedback", limit, s.submitFeedback)

	api := r.Group("/api/v1")
	if len(s.cfg.CORSOrigins) > 0 {
		api.Use(cors.New(s.corsConfig()))
	}
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.Use(limit)
	api.POST("/auth/token", s.apiToken)

	authed := api.Group("", auth.BearerAuth(s.sessions))
	authed.GET("/attendance", s.apiAttendance)
	authed.GET("/timetable", s.apiTimetable)
	authed.GET("/results", s.apiResults)
	authed.GET("/library/books", s.apiBooks)
	authed.GET("/library/borrowings", s.apiBorrowings)
	authed.GET("/fees", s.apiFees)
	authed.GET("/feedback", s.apiFeedback)
	authed.POST("/feedback", s.apiSubmitFeedback)

	return r
}

func (s *Server) cookieStore() sessions.Store {
	st := cookie.NewStore([]byte(s.cfg.SessionSecret))
	st.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.cfg.RefreshTTL / time.Second),
		Secure:   s.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range s.cfg.CORSOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.cfg.CORSOrigins
	return cfg
}

func (s *Server) rateLimited() {
	if s.metrics != nil {
		s.metrics.ObserveRateLimited()
	}
}

func (s *Server) observeFetch(entity string, took time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.ObserveFetch(entity, took, err)
	}
}

// load fetches one collection for the request. Read failures are logged and
// leave the collection empty.
func load[T any](s *Server, c *gin.Context, spec remote.Spec[T]) *remote.Collection[T] {
	col := remote.New(s.backend, spec, s.observeFetch)
	if err := col.Refresh(c.Request.Context()); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("fetch failed",
			zap.String("entity", spec.Entity),
			zap.String("request_id", httpmiddleware.RequestIDFrom(c)),
			zap.Error(err))
	}
	return col
}
