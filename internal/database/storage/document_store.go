package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/ExerciseTracker/internal/database/client"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

var fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DocumentStore реализует ports.DocumentStore поверх таблицы documents.
// Данные документа хранятся как JSON (jsonb в PostgreSQL, TEXT в SQLite).
type DocumentStore struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

func NewDocumentStore(db *sqlx.DB, driver string, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{db: db, driver: driver, logger: logger}
}

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (r documentRow) toDomain() (domain.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(r.Data))
	dec.UseNumber()

	data := map[string]any{}
	if err := dec.Decode(&data); err != nil {
		return domain.Document{}, fmt.Errorf("decode document %s: %w", r.ID, err)
	}
	return domain.Document{ID: r.ID, Data: data}, nil
}

// GetDocument получает документ по ID
func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	start := time.Now()

	var row documentRow
	q := s.db.Rebind(`SELECT id, data FROM documents WHERE collection = ? AND id = ? LIMIT 1`)

	err := s.db.GetContext(ctx, &row, q, collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("document not found", "collection", collection, "id", id)
			return nil, nil
		}
		s.logger.Error("failed to get document", "collection", collection, "id", id, "error", err)
		return nil, classify(fmt.Errorf("ошибка при получении документа %s: %w", id, err))
	}

	doc, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("document retrieved",
		"collection", collection,
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &doc, nil
}

// QueryDocuments выбирает документы коллекции по фильтрам в порядке вставки
func (s *DocumentStore) QueryDocuments(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	args := []any{query.Collection}

	for _, f := range query.Filters {
		cond, err := s.condition(f)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" AND ")
		sb.WriteString(cond)
		args = append(args, f.Value)
	}
	sb.WriteString(" ORDER BY seq")
	if query.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, query.Limit)
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(sb.String()), args...); err != nil {
		s.logger.Error("failed to query documents",
			"collection", query.Collection,
			"filters", len(query.Filters),
			"error", err,
		)
		return nil, classify(fmt.Errorf("ошибка при выборке документов: %w", err))
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	s.logger.Debug("documents query completed",
		"collection", query.Collection,
		"found", len(docs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return docs, nil
}

// InsertDocument сохраняет новый документ и возвращает присвоенный ID
func (s *DocumentStore) InsertDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	start := time.Now()

	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := uuid.NewString()
	q := s.db.Rebind(fmt.Sprintf(`INSERT INTO documents (id, collection, data) VALUES (?, ?, %s)`, s.jsonParam()))

	if _, err := s.db.ExecContext(ctx, q, id, collection, string(body)); err != nil {
		s.logger.Error("failed to insert document", "collection", collection, "error", err)
		return "", classify(fmt.Errorf("ошибка при сохранении документа: %w", err))
	}

	s.logger.Info("document inserted",
		"collection", collection,
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return id, nil
}

// UpdateDocument сливает поля в существующий документ
func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	start := time.Now()

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document fields: %w", err)
	}

	var q string
	if s.driver == client.DriverPostgres {
		q = `UPDATE documents SET data = data || ?::jsonb, updated_at = now() WHERE collection = ? AND id = ?`
	} else {
		q = `UPDATE documents SET data = json_patch(data, ?), updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), string(body), collection, id)
	if err != nil {
		s.logger.Error("failed to update document", "collection", collection, "id", id, "error", err)
		return classify(fmt.Errorf("ошибка при обновлении документа %s: %w", id, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return domain.NewNotFoundError("document not found")
	}

	s.logger.Info("document updated",
		"collection", collection,
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// condition строит SQL-условие для фильтра по полю JSON-документа
func (s *DocumentStore) condition(f domain.Filter) (string, error) {
	if !fieldNameRe.MatchString(f.Field) {
		return "", fmt.Errorf("недопустимое имя поля: %q", f.Field)
	}

	var op string
	switch f.Op {
	case domain.OpEqual:
		op = "="
	case domain.OpLess, domain.OpLessEqual, domain.OpGreater, domain.OpGreaterEqual:
		op = string(f.Op)
	default:
		return "", fmt.Errorf("неподдерживаемый оператор: %q", f.Op)
	}

	var expr string
	if s.driver == client.DriverPostgres {
		expr = fmt.Sprintf("data->>'%s'", f.Field)
		if isNumeric(f.Value) {
			expr = fmt.Sprintf("(%s)::numeric", expr)
		}
	} else {
		expr = fmt.Sprintf("json_extract(data, '$.%s')", f.Field)
	}
	return fmt.Sprintf("%s %s ?", expr, op), nil
}

func (s *DocumentStore) jsonParam() string {
	if s.driver == client.DriverPostgres {
		return "?::jsonb"
	}
	return "?"
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	}
	return false
}
