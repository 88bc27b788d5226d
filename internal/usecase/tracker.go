package usecase

import (
	"context"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// ExerciseTracker определяет бизнес-логику трекера упражнений.
// Реализации: постоянная поверх документного хранилища и симуляция в памяти.
type ExerciseTracker interface {
	// CreateUser создает пользователя с уникальным именем
	CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error)

	// ListUsers возвращает всех пользователей в порядке создания
	ListUsers(ctx context.Context) ([]domain.User, error)

	// AddExercise добавляет запись в журнал пользователя
	AddExercise(ctx context.Context, req AddExerciseRequest) (*domain.ExerciseEntry, error)

	// GetLog возвращает журнал пользователя с фильтром по датам и лимитом
	GetLog(ctx context.Context, req LogRequest) (*domain.ExerciseLog, error)
}

// CreateUserRequest поля формы создания пользователя
type CreateUserRequest struct {
	Username string
}

// AddExerciseRequest поля формы добавления упражнения, как их ввел пользователь
type AddExerciseRequest struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// LogRequest параметры запроса журнала
type LogRequest struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// Option настраивает реализацию ExerciseTracker
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock подменяет источник текущего времени (дата по умолчанию для упражнений)
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
