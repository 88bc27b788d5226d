package di

import (
	"context"
	"fmt"
	"log/slog"

	rediscache "github.com/GoArmGo/ExerciseTracker/internal/adapter/cache/redis"
	"github.com/GoArmGo/ExerciseTracker/internal/adapter/storage/minio"
	"github.com/GoArmGo/ExerciseTracker/internal/app"
	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/database/client"
	"github.com/GoArmGo/ExerciseTracker/internal/database/storage"
	"github.com/GoArmGo/ExerciseTracker/internal/logger"
	"github.com/GoArmGo/ExerciseTracker/internal/rabbitmq"
	"github.com/GoArmGo/ExerciseTracker/internal/retry"
	"github.com/GoArmGo/ExerciseTracker/internal/session"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

// BuildApp инициализирует все зависимости для режима mode и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if mode == app.ModeWorker {
		if err := cfg.ValidateWorker(); err != nil {
			return nil, err
		}
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var deps app.Deps
	// при ошибке закрываем то, что уже успели открыть
	fail := func(err error) (*app.App, error) {
		for i := len(deps.Closers) - 1; i >= 0; i-- {
			_ = deps.Closers[i]()
		}
		return nil, err
	}

	// 2. Трекер: постоянный или в памяти
	if cfg.Persistent() {
		tracker, sess, err := buildPersistent(ctx, cfg, slogger, &deps)
		if err != nil {
			return fail(err)
		}
		deps.Tracker = tracker
		deps.Session = sess
	} else {
		slogger.Warn("using in-memory store, data is lost on restart")
		deps.Tracker = usecase.NewMemoryTracker(slogger)
	}

	// 3. RabbitMQ: публикация событий в режиме server, потребление в режиме worker
	var rabbitMQClient *rabbitmq.Client
	if cfg.RabbitMQ.RabbitMQURL != "" {
		rabbitMQClient, err = rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		deps.Closers = append(deps.Closers, func() error {
			rabbitMQClient.Close()
			return nil
		})
	}

	switch mode {
	case app.ModeWorker:
		// 4. Архив журналов в MinIO
		fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		deps.Archiver = usecase.NewLogArchiver(deps.Tracker, fileStorage, cfg.AppID, slogger)
		deps.Consumer = rabbitMQClient
	default:
		if rabbitMQClient != nil {
			deps.Tracker = usecase.NewPublishingTracker(deps.Tracker, rabbitMQClient, cfg.AppID, slogger)
		}
	}

	application := app.NewApp(cfg, slogger, deps)

	slogger.Info("all dependencies initialized", "mode", mode)
	return application, nil
}

// buildPersistent открывает БД, выполняет вход сессии и собирает постоянный трекер.
// Открытые ресурсы регистрируются в deps.Closers.
func buildPersistent(
	ctx context.Context,
	cfg *config.Config,
	slogger *slog.Logger,
	deps *app.Deps,
) (usecase.ExerciseTracker, *session.Session, error) {
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, nil, err
	}
	deps.Closers = append(deps.Closers, dbClient.Close)

	gormDB, err := dbClient.Gorm()
	if err != nil {
		return nil, nil, err
	}

	auth := session.NewAuthenticator(storage.NewGormPrincipalStorage(gormDB, slogger), cfg.AuthTokenSecret, slogger)
	sess, err := session.Bootstrap(ctx, auth, cfg.InitialAuthToken)
	if err != nil {
		return nil, nil, fmt.Errorf("вход при старте: %w", err)
	}

	var cache ports.UserCache
	if cfg.Redis.Addr != "" {
		redisClient, err := rediscache.NewClient(ctx, cfg, slogger)
		if err != nil {
			return nil, nil, err
		}
		deps.Closers = append(deps.Closers, redisClient.Close)
		cache = rediscache.NewUserCache(redisClient, cfg.AppID, cfg.Redis.UserTTL, slogger)
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		Logger:      slogger,
	}
	docs := storage.NewDocumentStore(dbClient.DB, dbClient.Driver, slogger)

	return usecase.NewDocumentTracker(docs, cache, cfg.AppID, policy, slogger), sess, nil
}
