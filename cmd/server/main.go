package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/app"
	"github.com/iliyamo/studio-site/internal/config"
	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/logging"
	"github.com/iliyamo/studio-site/internal/mail"
	"github.com/iliyamo/studio-site/internal/queue"
	"github.com/iliyamo/studio-site/internal/repository"
	"github.com/iliyamo/studio-site/internal/service"
	"github.com/iliyamo/studio-site/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx, repository.Schema(db.Dialect)); err != nil {
		return err
	}

	uploader, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	if !uploader.Configured() {
		log.Warn("object storage not configured; uploads answer 503")
	}

	deps := app.Deps{
		Config:    cfg,
		DB:        db,
		Redis:     config.NewRedisClient(config.LoadRedisConfig()),
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Storage:   uploader,
		Mail:      mail.New(cfg.Mail),
		Events:    service.NewPublisher(cfg.RabbitURL, cfg.EventsEnabled, log),
		Log:       log,
	}
	if deps.Redis == nil {
		log.Info("redis not configured; cache and rate limit disabled")
	} else {
		defer deps.Redis.Close()
	}

	e, err := app.New(deps)
	if err != nil {
		return err
	}

	if cfg.EventsEnabled {
		consumer := &queue.Consumer{
			URL:    cfg.RabbitURL,
			LogDir: cfg.SubmissionLogDir,
			Purge:  deps.Purge,
			Log:    log,
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", db.Dialect.Name))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
