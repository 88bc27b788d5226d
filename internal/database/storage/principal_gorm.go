package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// GormPrincipalStorage реализует интерфейс ports.PrincipalStorage с использованием GORM
type GormPrincipalStorage struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewGormPrincipalStorage создает новый экземпляр GormPrincipalStorage
func NewGormPrincipalStorage(db *gorm.DB, logger *slog.Logger) *GormPrincipalStorage {
	return &GormPrincipalStorage{db: db, logger: logger, now: time.Now}
}

// GetOrCreatePrincipal получает или создает учетную запись сессии в бд
// и отмечает время последнего входа.
func (s *GormPrincipalStorage) GetOrCreatePrincipal(ctx context.Context, uid string, anonymous bool) (*domain.Principal, error) {
	now := s.now().UTC()

	var principal domain.Principal
	result := s.db.WithContext(ctx).Where("uid = ?", uid).First(&principal)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		s.logger.Info("principal not found, creating new one", "uid", uid, "anonymous", anonymous)
		principal = domain.Principal{
			UID:        uid,
			Anonymous:  anonymous,
			CreatedAt:  now,
			LastSeenAt: now,
		}

		if err := s.db.WithContext(ctx).Create(&principal).Error; err != nil {
			return nil, classify(fmt.Errorf("ошибка при создании учетной записи с GORM: %w", err))
		}
		return &principal, nil
	} else if result.Error != nil {
		return nil, classify(fmt.Errorf("ошибка при поиске учетной записи с GORM: %w", result.Error))
	}

	if err := s.db.WithContext(ctx).Model(&principal).Update("last_seen_at", now).Error; err != nil {
		return nil, classify(fmt.Errorf("ошибка при обновлении учетной записи с GORM: %w", err))
	}
	principal.LastSeenAt = now

	s.logger.Info("principal found", "uid", principal.UID)
	return &principal, nil
}
