package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// memoryTracker симулирует тот же контракт на данных в памяти процесса.
// Данные теряются при перезапуске, повторы не нужны.
type memoryTracker struct {
	mu        sync.Mutex
	users     []domain.User
	exercises map[string][]domain.Exercise
	now       func() time.Time
	logger    *slog.Logger
}

// NewMemoryTracker создает трекер без внешнего хранилища
func NewMemoryTracker(logger *slog.Logger, opts ...Option) ExerciseTracker {
	o := buildOptions(opts)
	return &memoryTracker{
		exercises: make(map[string][]domain.Exercise),
		now:       o.now,
		logger:    logger,
	}
}

func (t *memoryTracker) CreateUser(_ context.Context, req CreateUserRequest) (*domain.User, error) {
	username, err := parseUsername(req.Username)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, u := range t.users {
		if u.Username == username {
			return nil, domain.NewConflictError(domain.MsgUsernameTaken)
		}
	}

	user := domain.User{ID: uuid.NewString(), Username: username}
	t.users = append(t.users, user)
	t.exercises[user.ID] = []domain.Exercise{}

	t.logger.Info("user created", "user_id", user.ID, "username", username)
	return &user, nil
}

func (t *memoryTracker) ListUsers(_ context.Context) ([]domain.User, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]domain.User{}, t.users...), nil
}

func (t *memoryTracker) AddExercise(_ context.Context, req AddExerciseRequest) (*domain.ExerciseEntry, error) {
	userID, exercise, err := parseAddExercise(req, domain.DateOf(t.now()))
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, ok := t.findUser(userID)
	if !ok {
		return nil, domain.NewNotFoundError(domain.MsgUserNotFound)
	}
	t.exercises[user.ID] = append(t.exercises[user.ID], exercise)

	t.logger.Info("exercise added",
		"user_id", user.ID,
		"duration", exercise.Duration,
		"date", exercise.Date.String(),
	)
	return &domain.ExerciseEntry{ID: user.ID, Username: user.Username, Exercise: exercise}, nil
}

func (t *memoryTracker) GetLog(_ context.Context, req LogRequest) (*domain.ExerciseLog, error) {
	userID, filter, err := parseLogRequest(req)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, ok := t.findUser(userID)
	if !ok {
		return nil, domain.NewNotFoundError(domain.MsgUserNotFound)
	}

	log := filter.Apply(t.exercises[user.ID])
	return &domain.ExerciseLog{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}

func (t *memoryTracker) findUser(id string) (domain.User, bool) {
	for _, u := range t.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}
