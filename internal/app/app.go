// Package app assembles the HTTP server from its collaborators.  The server
// binary and the end-to-end tests build the same echo instance through New.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/config"
	"github.com/iliyamo/studio-site/internal/database"
	"github.com/iliyamo/studio-site/internal/handler"
	"github.com/iliyamo/studio-site/internal/metrics"
	"github.com/iliyamo/studio-site/internal/middleware"
	"github.com/iliyamo/studio-site/internal/pages"
	"github.com/iliyamo/studio-site/internal/queue"
	"github.com/iliyamo/studio-site/internal/repository"
	"github.com/iliyamo/studio-site/internal/router"
	"github.com/iliyamo/studio-site/internal/service"
	"github.com/iliyamo/studio-site/internal/view"
)

// Deps are the collaborators the server is built from.  Redis, Storage,
// Mail and Events may be nil; the features behind them degrade instead of
// failing.
type Deps struct {
	Config    config.Config
	DB        *database.DB
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Storage   handler.Uploader
	Mail      handler.Mailer
	Events    *service.Publisher
	Log       *zap.Logger
}

// New builds the echo instance with every route registered.
func New(d Deps) (*echo.Echo, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	col := metrics.NewCollector()
	reg, err := metrics.NewRegistry(col)
	if err != nil {
		return nil, fmt.Errorf("app: metrics: %w", err)
	}
	defaults, err := pages.LoadDefaults()
	if err != nil {
		return nil, fmt.Errorf("app: defaults: %w", err)
	}
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("app: templates: %w", err)
	}

	content := repository.NewContentRepo(d.DB)
	admins := repository.NewAdminRepo(d.DB)
	tokens := repository.NewTokenRepo(d.DB)
	notify := d.notifier()

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics(col))

	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)

	authH := handler.NewAuthHandler(d.Config, admins, tokens, d.Log)
	contentH := handler.NewContentHandler(content, notify, d.Log)
	sectionH := &handler.SectionHandler{Store: content, Notify: notify, Metrics: col, Log: d.Log}
	uploadH := &handler.UploadHandler{Storage: d.Storage, MaxBytes: d.Config.UploadMaxBytes, Metrics: col, Log: d.Log}
	submitH := &handler.SubmissionHandler{
		Mail:      d.Mail,
		PitchTo:   d.Config.Mail.PitchTo,
		ContactTo: d.Config.Mail.ContactTo,
		Metrics:   col,
		Log:       d.Log,
	}
	if d.Events != nil {
		submitH.Events = d.Events
	}
	pageH := &handler.PageHandler{Pages: pages.NewAssembler(content, defaults, d.Log)}

	router.RegisterRoutes(e, d.DB, metrics.Handler(reg))
	router.RegisterAuth(e, authH, limit)
	router.RegisterPublic(e, contentH, submitH, cache, limit)
	router.RegisterPages(e, pageH, cache)
	router.RegisterAdmin(e, authH, contentH, sectionH, uploadH, d.Config.JWTSecret)
	return e, nil
}

// Purge drops every cached public response.  It is a no-op without redis
// or with caching disabled.
func (d Deps) Purge(ctx context.Context) (int, error) {
	if d.Redis == nil || !d.Cache.Enabled {
		return 0, nil
	}
	return middleware.PurgeCache(ctx, d.Redis, d.Cache.Prefix)
}

// notifier publishes content.changed after every admin write.  The consumer
// purges the cache when it receives the event; when events are off, or the
// publish fails, the cache is purged here instead.
func (d Deps) notifier() handler.NotifyFunc {
	return func(_ context.Context, ev queue.ContentChangedEvent) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if d.Config.EventsEnabled && d.Events != nil {
				if err := d.Events.ContentChanged(ctx, ev); err == nil {
					return
				}
			}
			if _, err := d.Purge(ctx); err != nil {
				d.Log.Warn("cache purge failed", zap.String("table", ev.Table), zap.Error(err))
			}
		}()
	}
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
