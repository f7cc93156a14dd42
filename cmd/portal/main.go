package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"eduportal/internal/auth"
	"eduportal/internal/config"
	"eduportal/internal/logging"
	"eduportal/internal/portal"
	"eduportal/internal/session"
	"eduportal/internal/store"
	"eduportal/internal/telemetry"
	"eduportal/internal/web"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.New(cfg.Production())
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := runHTTP(cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

// healthFunc reports whether a dependency is reachable.
type healthFunc func(ctx context.Context) bool

func alwaysHealthy(context.Context) bool { return true }

func openBackend(cfg config.App, logger *zap.Logger) (store.Backend, healthFunc, func(), error) {
	switch cfg.DataBackend {
	case "memory":
		mem := store.NewMemory()
		portal.DefineTables(mem)
		if err := seedDemo(mem); err != nil {
			return nil, nil, nil, fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info("using in-memory data store with demo account", zap.String("email", demoEmail))
		return mem, alwaysHealthy, func() {}, nil
	case "sqlite":
		db, err := store.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.Backend(), db.Healthy, func() { _ = db.Close() }, nil
	case "postgres":
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			logger.Warn("db not reachable", zap.Error(err))
		}
		if db == nil {
			return nil, nil, nil, err
		}
		return db.Backend(), db.Healthy, func() { _ = db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown DATA_BACKEND %q", cfg.DataBackend)
	}
}

func openBus(cfg config.App) (session.Bus, healthFunc, func()) {
	if cfg.SessionBus == "memory" {
		return session.NewInMemory(64), alwaysHealthy, func() {}
	}
	rb := session.NewRedisBus(cfg.RedisAddr, "")
	return rb, rb.Healthy, func() { _ = rb.Close() }
}

func runHTTP(cfg config.App, logger *zap.Logger) error {
	backend, dbHealthy, closeDB, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	bus, busHealthy, closeBus := openBus(cfg)
	defer closeBus()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.New(reg)

	signer := auth.Signer{
		Issuer:     cfg.JWTIssuer,
		Key:        []byte(cfg.JWTSigningKey),
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	provider := session.NewProvider(signer, bus,
		session.WithLogger(logger.Named("session")),
		session.WithObserver(func(k session.EventKind) { metrics.ObserveSessionEvent(string(k)) }),
	)
	if err := provider.Start(context.Background()); err != nil {
		logger.Warn("session bus unavailable, sign-outs stay local to this process", zap.Error(err))
	}
	defer provider.Close()

	srv, err := web.New(cfg, web.Deps{
		Backend:  backend,
		Sessions: provider,
		Auth:     auth.NewAuthenticator(backend),
		Feedback: portal.NewFeedbackService(backend, logger.Named("feedback"), metrics.ObserveSubmission),
		Metrics:  metrics,
		Log:      logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	r := srv.Engine()
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		db, bus := dbHealthy(ctx), busHealthy(ctx)
		status := http.StatusOK
		if !db || !bus {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "db": db, "session_bus": bus})
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", httpSrv.Addr), zap.String("data_backend", cfg.DataBackend))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}
