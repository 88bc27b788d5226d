package ports

import (
	"context"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// DocumentStore определяет методы клиента документного хранилища.
// Отсутствующий документ возвращается как nil без ошибки.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (*domain.Document, error)
	QueryDocuments(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error)
	InsertDocument(ctx context.Context, collection string, data map[string]any) (string, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
}

// PrincipalStorage хранит учетные записи сессий
type PrincipalStorage interface {
	GetOrCreatePrincipal(ctx context.Context, uid string, anonymous bool) (*domain.Principal, error)
}

// UserCache кэш неизменяемых пользователей по ID.
// Промах возвращается как nil без ошибки.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetUser(ctx context.Context, user domain.User) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его URL.
	UploadFile(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
