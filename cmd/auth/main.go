package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vaticano/paroquia-auth/internal/audit"
	"github.com/vaticano/paroquia-auth/internal/config"
	"github.com/vaticano/paroquia-auth/internal/httpserver"
	"github.com/vaticano/paroquia-auth/internal/logging"
	"github.com/vaticano/paroquia-auth/internal/middleware"
	"github.com/vaticano/paroquia-auth/internal/repo"
	"github.com/vaticano/paroquia-auth/internal/service"
	"github.com/vaticano/paroquia-auth/internal/tokens"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	issuer := &tokens.Issuer{Secret: cfg.JWTSecret}

	var sink audit.Sink
	switch cfg.AuditSink {
	case "kafka":
		sink = audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
	case "elastic":
		sink, err = audit.NewElasticSink(cfg.ESAddresses, cfg.ESUsername, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("audit sink init error: %v", err)
		}
	default:
		sink = &audit.SlogSink{Log: logger}
	}
	auditLog := audit.NewLogger(sink, logger, cfg.AuditQueueSize)

	authSvc := &service.AuthService{
		Repo:       gormRepo,
		Issuer:     issuer,
		Audit:      auditLog,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	userSvc := &service.UserService{Repo: gormRepo, Audit: auditLog}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler: &httpserver.UserHTTP{Svc: userSvc},
		Bearer:      middleware.NewBearerAuth(issuer),
	})

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go sweepLoop(sweepCtx, gormRepo, cfg.SweepInterval, logger)

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sweepCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := auditLog.Close(); err != nil {
		logger.Error("audit shutdown", "error", err)
	}
}

// sweepLoop periodically deletes expired and revoked refresh tokens. Pure
// storage hygiene; a missed run changes nothing about token validity.
func sweepLoop(ctx context.Context, r *repo.GormRepo, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := r.SweepRefreshTokens(ctx, time.Now())
			if err != nil {
				logger.Error("refresh token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("refresh token sweep", "removed", removed)
			}
		}
	}
}
