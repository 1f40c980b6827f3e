package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api"
	"github.com/99minutos/referral-dashboard/internal/api/handler"
	"github.com/99minutos/referral-dashboard/internal/api/middleware"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
	"github.com/99minutos/referral-dashboard/internal/core/service"
	"github.com/99minutos/referral-dashboard/internal/core/session"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/backend"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/referral-dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/referral-dashboard/internal/infrastructure/db/redis"
	"github.com/99minutos/referral-dashboard/internal/infrastructure/queue"
	"github.com/99minutos/referral-dashboard/internal/pkg/config"
	"github.com/99minutos/referral-dashboard/internal/pkg/validation"
	"github.com/99minutos/referral-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Referral Dashboard API
// @version      1.0
// @description  Session-backed gateway for the admin, sub-admin and employee referral dashboards.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "referral-dashboard",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	kv, ready, closeKV, err := openKV(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeKV()

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger.Component("backend"))
	ready = append([]handler.Dependency{{Name: "backend", Pinger: client}}, ready...)

	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, logger.Component("dispatcher"))
	dispatcher.Start()
	defer dispatcher.Stop()

	validate := validation.New()
	authService := service.NewAuthService(client, validate, logger.Component("auth"))
	userService := service.NewUserService(client, dispatcher, validate, logger.Component("users"))
	staffService := service.NewStaffService(client, authService, logger.Component("staff"))

	e := api.NewRouter(api.Deps{
		Log: logger.Component("http"),
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		OpenSession: func(sid string) ports.SessionStore {
			return session.New(kv, sid, cfg.Session.TTL)
		},
		Auth:  authService,
		Users: userService,
		Staff: staffService,
		Ready: ready,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().
			Str("addr", addr).
			Str("backend", cfg.Backend.BaseURL).
			Str("session_store", cfg.Session.Store).
			Msg("listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	dispatcher.Stop()
	return err
}

// openKV selects the session KV backend. The returned dependencies are
// checked by the readiness probe.
func openKV(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KVStore, []handler.Dependency, func(), error) {
	switch cfg.Session.Store {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		kv := redisdb.NewKV(client)
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}
		return kv, []handler.Dependency{{Name: "redis", Pinger: kv}}, closeFn, nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			Timeout:     cfg.Mongo.Timeout,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongodb.NewKVRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("disconnect mongo")
			}
		}
		return repo, []handler.Dependency{{Name: "mongodb", Pinger: repo}}, closeFn, nil

	default:
		log.Warn().Msg("sessions are kept in memory and will not survive a restart")
		return memory.NewKV(), nil, func() {}, nil
	}
}
