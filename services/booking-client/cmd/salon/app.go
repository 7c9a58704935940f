package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/db"
	otelx "github.com/md-rashed-zaman/salonbook/libs/otel"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/booking"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/events"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/session"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/store"
)

// app is everything a command needs once configuration is known.
type app struct {
	cfg       cliConfig
	logger    *slog.Logger
	errOut    io.Writer
	api       *gateway.Client
	session   *session.Manager
	publisher events.Publisher
	closers   []func()
}

var routeHints = map[string]string{
	nav.Login:          "Your session has ended. Sign in again with: salon login",
	nav.Dashboard:      "See your upcoming visits with: salon dashboard",
	nav.MyAppointments: "List your appointments with: salon appointments",
}

// Navigate turns navigation requests into hints on stderr.
func (a *app) Navigate(path string) {
	a.logger.Debug("navigate", "path", path)
	if hint, ok := routeHints[path]; ok {
		fmt.Fprintln(a.errOut, hint)
	}
}

func newGateway(cfg cliConfig, logger *slog.Logger) (*gateway.Client, error) {
	return gateway.New(gateway.Config{
		BaseURL:   cfg.APIURL,
		Lang:      cfg.Lang,
		Timeout:   cfg.HTTPTimeout,
		Retries:   cfg.HTTPRetries,
		UserAgent: serviceName + "/" + version,
	}, logger)
}

func newApp(ctx context.Context, cfg cliConfig, logger *slog.Logger, errOut io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: logger, errOut: errOut}

	shutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(serviceName, version))
	if err != nil {
		logger.Warn("otel setup failed", "err", err)
	} else {
		a.closers = append(a.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		})
	}

	api, err := newGateway(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.api = api

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}
	a.closers = append(a.closers, closeStore)

	a.publisher = openPublisher(cfg, logger)
	a.closers = append(a.closers, func() { _ = a.publisher.Close() })

	a.session = session.NewManager(api, st, session.Options{
		Navigator: a,
		Publisher: a.publisher,
		Logger:    logger,
	})
	api.Attach(a.session)
	a.session.Restore(ctx)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) bookingOptions() booking.Options {
	return booking.Options{
		Navigator: a,
		Publisher: a.publisher,
		Logger:    a.logger,
		Lang:      a.cfg.Lang,
	}
}

func openStore(ctx context.Context, cfg cliConfig) (store.Store, func(), error) {
	switch cfg.SessionBackend {
	case "memory":
		return store.NewMemory(), func() {}, nil
	case "", "file":
		key, err := store.ParseKey(cfg.SessionKey)
		if err != nil {
			return nil, nil, err
		}
		f, err := store.NewFile(cfg.SessionFile, key)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	case "redis":
		r, err := store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.SessionPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL required for the postgres session backend")
		}
		pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: 2})
		if err != nil {
			return nil, nil, err
		}
		pg, err := store.NewPostgres(ctx, pool, cfg.SessionPrefix)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

func openPublisher(cfg cliConfig, logger *slog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewLogPublisher(logger)
	}
	p, err := events.NewKafka(events.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.EventsTopic,
		Source:  serviceName,
	})
	if err != nil {
		logger.Warn("kafka publisher unavailable", "err", err)
		return events.NewLogPublisher(logger)
	}
	return p
}
