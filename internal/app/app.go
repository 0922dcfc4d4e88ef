// Package app wires configuration, adapters and services into the HTTP
// server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/config"
	"github.com/zachrizzo/hens-travel/internal/media"
	"github.com/zachrizzo/hens-travel/internal/metrics"
	"github.com/zachrizzo/hens-travel/internal/repository/minio"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
	"github.com/zachrizzo/hens-travel/internal/repository/rediscache"
	"github.com/zachrizzo/hens-travel/internal/service"
	transporthttp "github.com/zachrizzo/hens-travel/internal/transport/http"
	"github.com/zachrizzo/hens-travel/internal/transport/mail"
	"github.com/zachrizzo/hens-travel/internal/transport/queue"
	"github.com/zachrizzo/hens-travel/internal/transport/telegram"
	"github.com/zachrizzo/hens-travel/internal/util"
)

type App struct {
	Echo       *echo.Echo
	Sessions   *service.SessionManager
	Workspaces *service.Workspaces

	bookings *service.BookingService
	cfg     config.Config
	logger  zerolog.Logger
	closers []func() error
}

// New builds the application. Optional backends (redis, MinIO, SMTP,
// Telegram, RabbitMQ) are only wired when configured.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	stores, closeStores, err := OpenStores(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStores)

	var cache ports.Cache
	if cfg.RedisAddr != "" {
		rc := rediscache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; cache errors will be logged")
		}
		cache = rc
		a.closers = append(a.closers, rc.Close)
	}

	gateway, err := a.mediaGateway(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	tours := service.NewTourService(stores.Tours, gateway, cache, logger)
	content := service.NewSiteContentService(stores.SiteContent, gateway, cache, logger)
	bookings := service.NewBookingService(stores.Bookings, logger, a.notifiers()...)
	bookings.SetNotifyTimeout(cfg.NotifyTimeout)
	a.bookings = bookings
	public := service.NewPublicSiteService(tours, content, bookings, cache, service.PublicSiteConfig{
		CacheTTL:       cfg.CacheTTL,
		SectionTimeout: 5 * time.Second,
	}, logger)

	a.Sessions = service.NewSessionManager(stores.AdminUsers, stores.Sessions, util.NewJWTManager(cfg.JWTSecret), cfg.SessionTTL)
	a.Workspaces = service.NewWorkspaces(tours, content, bookings)
	a.Sessions.Subscribe(a.Workspaces.HandleSessionEvent)
	a.Sessions.Subscribe(logSessionEvent(logger))
	a.Sessions.Subscribe(countSessions)

	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = metrics.InitRegistry()
	}

	e := transporthttp.NewRouter(transporthttp.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Logger:       logger,
		Registry:     reg,
	})
	e.Server.ReadTimeout = cfg.HTTPReadTimeout
	e.Server.WriteTimeout = cfg.HTTPWriteTimeout

	transporthttp.RegisterPublic(e, a.Sessions, public)
	transporthttp.RegisterAuth(e, a.Sessions, cfg.SessionCookieSecure)
	transporthttp.RegisterTours(e, a.Sessions, tours)
	transporthttp.RegisterSiteContent(e, a.Sessions, content)
	transporthttp.RegisterBookings(e, a.Sessions, bookings)
	transporthttp.RegisterAdminPages(e, a.Sessions, a.Workspaces)
	transporthttp.RegisterSwagger(e)
	a.Echo = e
	return a, nil
}

func (a *App) mediaGateway(ctx context.Context) (*service.MediaGateway, error) {
	if !a.cfg.MediaEnabled() {
		a.logger.Warn().Msg("MINIO_ENDPOINT not set; image uploads are disabled")
		return nil, nil
	}
	client, err := minio.NewClient(a.cfg.MinIOEndpoint, a.cfg.MinIOAccessKey, a.cfg.MinIOSecretKey, a.cfg.MinIOUseSSL)
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	storage := minio.NewStorage(client)
	if err := storage.EnsureBucket(ctx, a.cfg.MinIOBucketMedia); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", a.cfg.MinIOBucketMedia, err)
	}
	return service.NewMediaGateway(storage, service.MediaGatewayConfig{
		Bucket:            a.cfg.MinIOBucketMedia,
		PublicBaseURL:     a.cfg.MinIOPublicURL,
		EndpointURL:       client.EndpointURL().String(),
		ImageMaxDimension: a.cfg.ImageMaxDimension,
		ImageProcessor:    media.NewResizer(a.cfg.ImageMaxDimension),
		Logger:            a.logger,
	}), nil
}

func (a *App) notifiers() []ports.BookingNotifier {
	var out []ports.BookingNotifier
	if a.cfg.SMTPHost != "" && a.cfg.BookingNotifyEmail != "" {
		out = append(out, mail.NewBookingMailer(mail.Config{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPUsername,
			Password: a.cfg.SMTPPassword,
			From:     a.cfg.SMTPFrom,
			To:       a.cfg.BookingNotifyEmail,
			UseTLS:   a.cfg.SMTPUseTLS,
		}))
	}
	if a.cfg.TelegramBotToken != "" && a.cfg.TelegramChatID != 0 {
		n, err := telegram.New(a.cfg.TelegramBotToken, a.cfg.TelegramChatID)
		if err != nil {
			a.logger.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			out = append(out, n)
		}
	}
	if a.cfg.RabbitMQURL != "" {
		p := queue.NewPublisher(a.cfg.RabbitMQURL, a.cfg.BookingQueue)
		a.closers = append(a.closers, p.Close)
		out = append(out, p)
	}
	a.logger.Info().Int("count", len(out)).Msg("booking notifiers configured")
	return out
}

func (a *App) Start() error {
	addr := ":" + a.cfg.Port
	a.logger.Info().Str("addr", addr).Msg("API listening")
	if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, lets pending booking notifications finish, then
// releases the backends.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if werr := a.bookings.Wait(ctx); werr != nil {
		a.logger.Warn().Err(werr).Msg("booking notifications still pending at shutdown")
	}
	return errors.Join(err, a.Close())
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func logSessionEvent(logger zerolog.Logger) func(service.SessionEvent) {
	return func(e service.SessionEvent) {
		logger.Info().
			Str("event", string(e.Kind)).
			Str("session_id", e.Session.ID).
			Str("email", e.Session.Email).
			Msg("admin session")
	}
}

func countSessions(e service.SessionEvent) {
	switch e.Kind {
	case service.SessionStarted:
		metrics.ActiveSessions.Inc()
	case service.SessionEnded, service.SessionExpired:
		metrics.ActiveSessions.Dec()
	}
}
