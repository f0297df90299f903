package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habittracker/config"
	"habittracker/internal/api"
	"habittracker/internal/auth"
	"habittracker/internal/graph"
	"habittracker/internal/httpserver"
	"habittracker/internal/mq"
	"habittracker/internal/ratelimit"
	"habittracker/internal/service"
	"habittracker/pkg/circuitbreaker"
	"habittracker/pkg/logger"
	pkgmq "habittracker/pkg/mq"
	"habittracker/pkg/otel"
	pkgredis "habittracker/pkg/redis"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load config
	cfg, err := config.Load(configPath, configDir)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()
	logger.Log = log

	// 2. Tracing
	shutdownTracing, err := otel.Init(ctx, otel.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		Enabled:        cfg.Tracing.Enabled,
	}, log)
	if err != nil {
		log.Warn("Tracing disabled", zap.Error(err))
	} else {
		defer shutdownTracing()
	}

	// 3. Storage
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("Storage initialization failed", zap.Error(err))
		return err
	}
	defer store.Close()

	// 4. Optional collaborators
	limiter, closeLimiter := newLoginLimiter(ctx, cfg, log)
	defer closeLimiter()

	events, closeEvents := newEventPublisher(cfg, log)
	defer closeEvents()

	// 5. Services
	hasher := auth.NewHasher(cfg.Server.BcryptCost)
	codec := auth.NewTokenCodec(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	credentials := auth.NewCredentials(store.Users, log)

	services := graph.Services{
		Auth:    service.NewAuthService(store.Users, hasher, codec, credentials, limiter, events, log),
		Users:   service.NewUserService(store.Users, hasher, credentials, events, log),
		Habits:  service.NewHabitService(store.Users, store.Habits, events, log),
		Entries: service.NewEntryService(store.Entries, events, log),
	}

	// 6. GraphQL + HTTP
	cookies := auth.Cookies{
		Domain:     cfg.Cookie.Domain,
		Path:       cfg.Cookie.Path,
		Secure:     cfg.Cookie.Secure,
		SameSite:   auth.ParseSameSite(cfg.Cookie.SameSite),
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}
	schema, err := graph.NewSchema(graph.NewResolver(services, cookies, log), log)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(
		api.NewGraphQLHandler(schema, log),
		api.NewHealthHandler(store.Ping),
		auth.NewSession(codec, store.Users, cookies, log),
		log,
	)

	log.Info("Starting habitsd",
		zap.String("version", version),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)
	return httpserver.NewServer(cfg.Server.Port, router, log).Run(ctx)
}

// newLoginLimiter 未配置 redis 或连接失败时不限流
func newLoginLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.LoginLimiter, func()) {
	if cfg.Redis.Addr == "" {
		return service.NopLimiter{}, func() {}
	}

	rdb, err := pkgredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, login throttle disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return service.NopLimiter{}, func() {}
	}

	limiter := ratelimit.NewLoginLimiter(rdb, cfg.LoginLimit.MaxAttempts, cfg.LoginLimit.Window, log)
	return limiter, func() { _ = rdb.Close() }
}

// newEventPublisher 未配置 MQ 或连接失败时丢弃事件
func newEventPublisher(cfg *config.Config, log *zap.Logger) (mq.EventPublisher, func()) {
	if cfg.MQ.URL == "" {
		return mq.NopPublisher{}, func() {}
	}

	broker, err := pkgmq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Warn("RabbitMQ unavailable, domain events disabled", zap.Error(err))
		return mq.NopPublisher{}, func() {}
	}

	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig())
	return mq.NewBrokerPublisher(broker, breaker, log), broker.Close
}
