// Package main - точка входа портала College of Health Sciences (UDST).
//
// Портал превращает витрину учебных ресурсов в движок вовлечённости:
// очки, серии входов, значки и награды поверх обычного каталога.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Sagas)
// - Infrastructure: хранилища (memory/redis/postgres), event bus
// - Interface: REST API для веб-фронтенда
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	// Application layer
	"github.com/KunafaIceCream/udst-healthpage/internal/application/command"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/eventhandler"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/query"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/saga"

	// Domain layer
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"

	// Infrastructure layer
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/messaging"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/memory"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/postgres"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/KunafaIceCream/udst-healthpage/internal/interface/http"
	"github.com/KunafaIceCream/udst-healthpage/internal/interface/http/handlers"

	// Packages
	"github.com/KunafaIceCream/udst-healthpage/config"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// eventBus объединяет публикацию и подписку. Оба транспорта (in-memory и
// redis) реализуют его.
type eventBus interface {
	shared.EventBus
	Close() error
}

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	appLog := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddCaller: cfg.Logging.AddCaller,
	})

	// slog для инфраструктурных компонентов (event bus).
	slogLevel := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}
	busLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))

	appLog.Info("starting UDST health sciences portal",
		logger.String("env", string(cfg.App.Environment)),
		logger.Bool("debug", cfg.App.Debug),
		logger.String("timezone", cfg.App.Timezone),
		logger.String("storage", string(cfg.Storage.Backend)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ИНИЦИАЛИЗАЦИЯ ХРАНИЛИЩА (memory / redis / postgres)
	// ─────────────────────────────────────────────────────────────────────────
	var store progression.Store
	var redisClient *redis.Client
	health := handlers.HealthChecker(handlers.NewNoopHealthChecker())

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		appLog.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			appLog.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		appLog.Info("database connection established")

		// Миграции
		appLog.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if status, err := migrator.Status(ctx); err == nil {
			applied := 0
			for _, m := range status {
				if m.IsApplied {
					applied++
				}
			}
			appLog.Info("migrations complete",
				logger.Int("applied", applied),
				logger.Int("total", len(status)),
			)
		}

		store = postgres.NewStore(dbConn)

		checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
		checker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
		health = checker

	case config.StorageRedis:
		appLog.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisClient, err = redis.NewClient(redisCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			appLog.Info("closing redis connection...")
			_ = redisClient.Close()
		}()
		appLog.Info("redis connection established")

		store = redis.NewStore(redisClient)

		checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
		checker.AddCheck("cache", handlers.NewCacheCheck(redisClient))
		health = checker

	default:
		appLog.Info("using in-memory storage")
		store = memory.NewStore()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("initializing event bus...")
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = busLog
	busConfig.WorkerPoolSize = cfg.Engagement.EventWorkers

	fanout := cfg.Redis.PublishEvents ||
		cfg.Features.IsEnabled(config.FeatureExperimentalRedisFanout, &config.FeatureContext{})

	var bus eventBus
	if fanout && redisClient != nil {
		appLog.Info("enabling redis event fan-out")
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         redis.NewPubSubAdapter(redisClient),
			LocalBusConfig: busConfig,
			Logger:         busLog,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis event bus: %w", err)
		}
		bus = redisBus
	} else {
		bus = messaging.NewInMemoryEventBus(busConfig)
	}
	defer func() {
		appLog.Info("closing event bus...")
		_ = bus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("registering event handlers...")

	badgeCounter := eventhandler.NewOnBadgeUnlockedHandler(appLog)
	if err := bus.Subscribe(shared.EventBadgeUnlocked, badgeCounter.Handle); err != nil {
		return fmt.Errorf("failed to subscribe badge handler: %w", err)
	}

	feed := eventhandler.NewActivityFeed(cfg.Engagement.ActivityFeedCapacity)
	if err := bus.SubscribeAll(feed.Handle); err != nil {
		return fmt.Errorf("failed to subscribe activity feed: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries, Saga)
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("initializing application layer...")

	badges := progression.NewBadgeChecker()
	badges.EarlyBirdEnabled = cfg.Features.IsEnabled(config.FeatureBadgeEarlyBird, &config.FeatureContext{})

	signupCmd := command.NewSignupHandler(store, bus, appLog)
	loginCmd := command.NewLoginHandler(store, bus, appLog)
	resumeCmd := command.NewResumeSessionHandler(store, bus, badges, appLog)
	logoutCmd := command.NewLogoutHandler(store, bus, appLog)
	accessCmd := command.NewAccessResourceHandler(store, bus, badges, appLog)
	collabCmd := command.NewAddCollaborationHandler(store, bus, badges, appLog)
	redeemCmd := command.NewRedeemRewardHandler(store, bus, appLog)
	bonusCmd := command.NewClaimDailyBonusHandler(store, bus, appLog)
	pinCmd := command.NewTogglePinHandler(store, bus, appLog)

	leaderboardQuery := query.NewGetLeaderboardHandler(store)
	rewardsQuery := query.NewGetRewardsHandler(store)
	progressQuery := query.NewGetProgressHandler(store)
	resourcesQuery := query.NewGetResourcesHandler(store)
	dashboardQuery := query.NewGetDashboardHandler(store)

	sessionSaga := saga.NewSessionStartSaga(loginCmd, signupCmd, resumeCmd, dashboardQuery, store, appLog)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.CurationAPIKeys = cfg.HTTP.CurationAPIKeys

	httpDeps := httpserver.Dependencies{
		SignupHandler:           signupCmd,
		LoginHandler:            loginCmd,
		ResumeSessionHandler:    resumeCmd,
		LogoutHandler:           logoutCmd,
		AccessResourceHandler:   accessCmd,
		AddCollaborationHandler: collabCmd,
		RedeemRewardHandler:     redeemCmd,
		ClaimDailyBonusHandler:  bonusCmd,
		TogglePinHandler:        pinCmd,

		GetLeaderboardHandler: leaderboardQuery,
		GetRewardsHandler:     rewardsQuery,
		GetProgressHandler:    progressQuery,
		GetResourcesHandler:   resourcesQuery,
		GetDashboardHandler:   dashboardQuery,

		SessionStartSaga: sessionSaga,
		ActivityFeed:     feed,
		Logger:           appLog,
		HealthChecker:    health,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("starting services...")

	errCh := httpServer.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	appLog.Info("portal is running",
		logger.String("http_address", httpServer.Address()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		appLog.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			appLog.Error("http server failed", logger.Err(err))
		}
	case <-ctx.Done():
		appLog.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http server shutdown failed", logger.Err(err))
	}

	appLog.Info("shutdown complete")
	return nil
}
