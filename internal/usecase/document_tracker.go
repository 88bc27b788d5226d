package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/retry"
)

// documentTracker постоянная реализация ExerciseTracker.
// Каждый вызов хранилища обернут в retry.Do.
type documentTracker struct {
	docs   ports.DocumentStore
	cache  ports.UserCache
	appID  string
	policy retry.Policy
	now    func() time.Time
	logger *slog.Logger
}

// NewDocumentTracker создает постоянный трекер.
// cache может быть nil, тогда пользователи всегда читаются из хранилища.
func NewDocumentTracker(
	docs ports.DocumentStore,
	cache ports.UserCache,
	appID string,
	policy retry.Policy,
	logger *slog.Logger,
	opts ...Option,
) ExerciseTracker {
	o := buildOptions(opts)
	return &documentTracker{
		docs:   docs,
		cache:  cache,
		appID:  appID,
		policy: policy,
		now:    o.now,
		logger: logger,
	}
}

// CreateUser проверяет уникальность имени запросом и затем вставляет документ.
// Проверка и вставка не атомарны: одновременные запросы с одним именем могут оба пройти.
func (t *documentTracker) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	username, err := parseUsername(req.Username)
	if err != nil {
		return nil, err
	}

	coll := domain.UsersCollection(t.appID)
	byName := domain.DocumentQuery{Collection: coll, Limit: 1}.Where("username", domain.OpEqual, username)

	existing, err := retry.Do(ctx, t.policy, "find user by username", func(ctx context.Context) ([]domain.Document, error) {
		return t.docs.QueryDocuments(ctx, byName)
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: проверка имени пользователя %q: %w", username, err)
	}
	if len(existing) > 0 {
		return nil, domain.NewConflictError(domain.MsgUsernameTaken)
	}

	id, err := retry.Do(ctx, t.policy, "insert user", func(ctx context.Context) (string, error) {
		return t.docs.InsertDocument(ctx, coll, map[string]any{"username": username})
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: создание пользователя %q: %w", username, err)
	}

	user := domain.User{ID: id, Username: username}
	t.cacheUser(ctx, user)

	t.logger.Info("user created", "user_id", id, "username", username)
	return &user, nil
}

// ListUsers возвращает всех пользователей пространства имен
func (t *documentTracker) ListUsers(ctx context.Context) ([]domain.User, error) {
	q := domain.DocumentQuery{Collection: domain.UsersCollection(t.appID)}

	docs, err := retry.Do(ctx, t.policy, "list users", func(ctx context.Context) ([]domain.Document, error) {
		return t.docs.QueryDocuments(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: список пользователей: %w", err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		u, err := userFromDocument(d)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// AddExercise добавляет запись в коллекцию журнала пользователя
func (t *documentTracker) AddExercise(ctx context.Context, req AddExerciseRequest) (*domain.ExerciseEntry, error) {
	userID, exercise, err := parseAddExercise(req, domain.DateOf(t.now()))
	if err != nil {
		return nil, err
	}

	user, err := t.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	coll := domain.LogsCollection(t.appID, user.ID)
	if _, err := retry.Do(ctx, t.policy, "insert exercise", func(ctx context.Context) (string, error) {
		return t.docs.InsertDocument(ctx, coll, exerciseToDocument(exercise))
	}); err != nil {
		return nil, fmt.Errorf("usecase: добавление упражнения пользователю %s: %w", user.ID, err)
	}

	t.logger.Info("exercise added",
		"user_id", user.ID,
		"duration", exercise.Duration,
		"date", exercise.Date.String(),
	)
	return &domain.ExerciseEntry{ID: user.ID, Username: user.Username, Exercise: exercise}, nil
}

// GetLog выполняет один запрос к журналу с фильтрами по дате и лимитом
func (t *documentTracker) GetLog(ctx context.Context, req LogRequest) (*domain.ExerciseLog, error) {
	userID, filter, err := parseLogRequest(req)
	if err != nil {
		return nil, err
	}

	user, err := t.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := domain.DocumentQuery{Collection: domain.LogsCollection(t.appID, user.ID), Limit: filter.Limit}
	if filter.From != nil {
		q = q.Where("date", domain.OpGreaterEqual, filter.From.String())
	}
	if filter.To != nil {
		q = q.Where("date", domain.OpLessEqual, filter.To.String())
	}

	docs, err := retry.Do(ctx, t.policy, "query exercise log", func(ctx context.Context) ([]domain.Document, error) {
		return t.docs.QueryDocuments(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: журнал пользователя %s: %w", user.ID, err)
	}

	exercises := make([]domain.Exercise, 0, len(docs))
	for _, d := range docs {
		e, err := exerciseFromDocument(d)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}

	return &domain.ExerciseLog{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(exercises),
		Log:      exercises,
	}, nil
}

// lookupUser читает пользователя из кэша или хранилища
func (t *documentTracker) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	if t.cache != nil {
		cached, err := t.cache.GetUser(ctx, id)
		if err != nil {
			t.logger.Warn("user cache read failed", "user_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	coll := domain.UsersCollection(t.appID)
	doc, err := retry.Do(ctx, t.policy, "get user", func(ctx context.Context) (*domain.Document, error) {
		return t.docs.GetDocument(ctx, coll, id)
	})
	if err != nil {
		return nil, fmt.Errorf("usecase: получение пользователя %s: %w", id, err)
	}
	if doc == nil {
		return nil, domain.NewNotFoundError(domain.MsgUserNotFound)
	}

	user, err := userFromDocument(*doc)
	if err != nil {
		return nil, err
	}
	t.cacheUser(ctx, user)
	return &user, nil
}

func (t *documentTracker) cacheUser(ctx context.Context, user domain.User) {
	if t.cache == nil {
		return
	}
	if err := t.cache.SetUser(ctx, user); err != nil {
		t.logger.Warn("user cache write failed", "user_id", user.ID, "error", err)
	}
}

func userFromDocument(d domain.Document) (domain.User, error) {
	username, ok := d.Data["username"].(string)
	if !ok {
		return domain.User{}, fmt.Errorf("user document %s: missing username", d.ID)
	}
	return domain.User{ID: d.ID, Username: username}, nil
}

func exerciseToDocument(e domain.Exercise) map[string]any {
	return map[string]any{
		"description": e.Description,
		"duration":    e.Duration,
		"date":        e.Date.String(),
	}
}

func exerciseFromDocument(d domain.Document) (domain.Exercise, error) {
	description, _ := d.Data["description"].(string)

	duration, err := intValue(d.Data["duration"])
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("exercise document %s: duration: %w", d.ID, err)
	}

	rawDate, _ := d.Data["date"].(string)
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("exercise document %s: %w", d.ID, err)
	}

	return domain.Exercise{Description: description, Duration: duration, Date: date}, nil
}

func intValue(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
