package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

// runWorker запускает потребителя RabbitMQ и архивирует журналы до отмены ctx
func runWorker(
	ctx context.Context,
	consumer ports.ExerciseEventConsumer,
	archiver *usecase.LogArchiver,
	logger *slog.Logger,
) error {
	logger.Info("worker started, waiting for exercise events")

	if err := consumer.StartConsumingExerciseAdded(ctx, archiver.HandleExerciseAdded); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}
