package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// Policy описывает экспоненциальный backoff для одного удаленного вызова:
// задержка удваивается начиная с BaseDelay, без джиттера и без потолка.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep ожидает d или отмену контекста. По умолчанию используется таймер.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// DefaultPolicy 5 попыток, начальная задержка 1s.
func DefaultPolicy(logger *slog.Logger) Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Logger:      logger,
	}
}

// Do выполняет fn, повторяя ее только при временных ошибках (domain.KindTransient).
// Любая другая ошибка и исчерпание попыток возвращаются вызывающему сразу.
func Do[T any](ctx context.Context, p Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = DefaultBaseDelay
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !domain.IsTransient(err) || attempt >= attempts {
			return zero, err
		}

		if p.Logger != nil {
			p.Logger.Warn("transient failure, retrying",
				"op", op,
				"attempt", attempt,
				"delay_ms", delay.Milliseconds(),
				"error", err,
			)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
