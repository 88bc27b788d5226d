package ports

import (
	"context"

	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

// ExerciseEventPublisher публикует события о добавленных упражнениях
type ExerciseEventPublisher interface {
	PublishExerciseAdded(ctx context.Context, payload payloads.ExerciseAddedPayload) error
}

// ExerciseEventConsumer потребляет события о добавленных упражнениях.
// Используется воркером архивации журналов.
type ExerciseEventConsumer interface {
	// StartConsumingExerciseAdded начинает прослушивание очереди и вызывает handler
	// для каждого сообщения
	StartConsumingExerciseAdded(ctx context.Context, handler func(context.Context, payloads.ExerciseAddedPayload) error) error
}
