// Package redis кэширует неизменяемых пользователей трекера в Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// UserCache реализует ports.UserCache поверх Redis
type UserCache struct {
	client *redis.Client
	appID  string
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient подключается к Redis и проверяет соединение
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info("redis connected", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return client, nil
}

func NewUserCache(client *redis.Client, appID string, ttl time.Duration, logger *slog.Logger) *UserCache {
	return &UserCache{client: client, appID: appID, ttl: ttl, logger: logger}
}

// userKey ключ пользователя в пространстве имен развертывания
func userKey(appID, id string) string {
	return fmt.Sprintf("exercisetracker:%s:user:%s", appID, id)
}

func (c *UserCache) GetUser(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(c.appID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при обращении к Redis: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("cached user %s: %w", id, err)
	}
	c.logger.Debug("user cache hit", "user_id", id)
	return &user, nil
}

func (c *UserCache) SetUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", user.ID, err)
	}
	if err := c.client.Set(ctx, userKey(c.appID, user.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}
	return nil
}
