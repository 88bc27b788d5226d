package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

// publishingTracker после успешного добавления упражнения публикует событие.
// Ошибка публикации только логируется: запись уже сохранена.
type publishingTracker struct {
	ExerciseTracker
	publisher ports.ExerciseEventPublisher
	appID     string
	now       func() time.Time
	logger    *slog.Logger
}

// NewPublishingTracker оборачивает inner публикацией событий ExerciseAdded
func NewPublishingTracker(
	inner ExerciseTracker,
	publisher ports.ExerciseEventPublisher,
	appID string,
	logger *slog.Logger,
	opts ...Option,
) ExerciseTracker {
	o := buildOptions(opts)
	return &publishingTracker{
		ExerciseTracker: inner,
		publisher:       publisher,
		appID:           appID,
		now:             o.now,
		logger:          logger,
	}
}

func (t *publishingTracker) AddExercise(ctx context.Context, req AddExerciseRequest) (*domain.ExerciseEntry, error) {
	entry, err := t.ExerciseTracker.AddExercise(ctx, req)
	if err != nil {
		return nil, err
	}

	payload := payloads.ExerciseAddedPayload{
		AppID:       t.appID,
		UserID:      entry.ID,
		Username:    entry.Username,
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        entry.Date.String(),
		AddedAt:     t.now().UTC(),
	}
	if err := t.publisher.PublishExerciseAdded(ctx, payload); err != nil {
		t.logger.Error("failed to publish exercise added event", "user_id", entry.ID, "error", err)
	}
	return entry, nil
}
