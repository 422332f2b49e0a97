package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lenscal/backend/internal/config"
	"lenscal/backend/internal/events"
	"lenscal/backend/internal/service/availability"
	"lenscal/backend/internal/service/review"
	"lenscal/backend/internal/service/scheduling"
	"lenscal/backend/internal/store/postgres"
	httpTransport "lenscal/backend/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("config load failed", zap.Error(err))
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("app_env", cfg.AppEnv),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("connecting to database", zap.String("database", redactDatabaseURL(cfg.DatabaseURL)))
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", zap.Error(err))
		}
	}()

	publisher := events.NewPublisher(cfg.KafkaBrokers, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("kafka writer close failed", zap.Error(err))
		}
	}()

	scheduleRepo := postgres.NewScheduleRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	schedulingSvc := scheduling.NewService(scheduleRepo, publisher, log)
	availabilitySvc := availability.NewService(scheduleRepo, log)
	reviewSvc := review.NewService(reviewRepo, log)

	router := httpTransport.NewRouter(
		httpTransport.RouterConfig{JWTSecret: []byte(cfg.JWTSecret), AppEnv: cfg.AppEnv},
		httpTransport.NewBookingHandler(schedulingSvc, log),
		httpTransport.NewAvailabilityHandler(availabilitySvc, log),
		httpTransport.NewReviewHandler(reviewSvc, log),
		log,
	)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("http server started", zap.String("http_addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server stopped with error", zap.Error(err))
		}
	}

	log.Info("stopped")
}

func newLogger(cfg config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}

	var zcfg zap.Config
	if cfg.AppEnv == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zcfg.Build(zap.Fields(zap.String("service", "lenscal-server")))
	if err != nil {
		panic(err)
	}
	return log
}

// redactDatabaseURL strips credentials before the URL hits the logs.
func redactDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid database url"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	return u.Redacted()
}
