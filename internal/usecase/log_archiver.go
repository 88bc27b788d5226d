package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

// LogArchiver сохраняет полный журнал пользователя в файловое хранилище
// после каждого добавленного упражнения.
type LogArchiver struct {
	tracker ExerciseTracker
	files   ports.FileStorage
	appID   string
	logger  *slog.Logger
}

func NewLogArchiver(tracker ExerciseTracker, files ports.FileStorage, appID string, logger *slog.Logger) *LogArchiver {
	return &LogArchiver{tracker: tracker, files: files, appID: appID, logger: logger}
}

// ArchiveKey ключ снимка журнала в хранилище
func ArchiveKey(appID, userID string) string {
	return fmt.Sprintf("logs/%s/%s.json", appID, userID)
}

// HandleExerciseAdded обрабатывает одно событие. Возвращенная ошибка
// означает, что сообщение нужно вернуть в очередь.
func (a *LogArchiver) HandleExerciseAdded(ctx context.Context, payload payloads.ExerciseAddedPayload) error {
	if payload.AppID != a.appID {
		a.logger.Warn("skipping event from another namespace", "app_id", payload.AppID, "user_id", payload.UserID)
		return nil
	}

	log, err := a.tracker.GetLog(ctx, LogRequest{UserID: payload.UserID})
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindNotFound, domain.KindValidation:
			a.logger.Warn("dropping event for unknown user", "user_id", payload.UserID, "error", err)
			return nil
		}
		return fmt.Errorf("usecase: журнал для архива %s: %w", payload.UserID, err)
	}

	body, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("usecase: сериализация журнала %s: %w", payload.UserID, err)
	}

	url, err := a.files.UploadFile(ctx, ArchiveKey(a.appID, payload.UserID), body, "application/json")
	if err != nil {
		return fmt.Errorf("usecase: загрузка архива %s: %w", payload.UserID, err)
	}

	a.logger.Info("exercise log archived", "user_id", payload.UserID, "count", log.Count, "url", url)
	return nil
}
