package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeDocs документное хранилище в памяти с внедрением ошибок
type fakeDocs struct {
	mu       sync.Mutex
	colls    map[string][]domain.Document
	nextID   int
	failures []error
	calls    map[string]int
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{colls: map[string][]domain.Document{}, calls: map[string]int{}}
}

func (f *fakeDocs) failNext(errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, errs...)
}

func (f *fakeDocs) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeDocs) enter(op string) error {
	f.calls[op]++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return err
	}
	return nil
}

func (f *fakeDocs) GetDocument(_ context.Context, collection, id string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("get"); err != nil {
		return nil, err
	}
	for _, d := range f.colls[collection] {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDocs) QueryDocuments(_ context.Context, q domain.DocumentQuery) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("query"); err != nil {
		return nil, err
	}

	var out []domain.Document
	for _, d := range f.colls[q.Collection] {
		if !matchesAll(d, q.Filters) {
			continue
		}
		out = append(out, d)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeDocs) InsertDocument(_ context.Context, collection string, data map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("insert"); err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.colls[collection] = append(f.colls[collection], domain.Document{ID: id, Data: data})
	return id, nil
}

func (f *fakeDocs) UpdateDocument(_ context.Context, collection, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("update"); err != nil {
		return err
	}
	for _, d := range f.colls[collection] {
		if d.ID == id {
			for k, v := range fields {
				d.Data[k] = v
			}
			return nil
		}
	}
	return domain.NewNotFoundError("document not found")
}

func matchesAll(d domain.Document, filters []domain.Filter) bool {
	for _, flt := range filters {
		if !matches(d.Data[flt.Field], flt) {
			return false
		}
	}
	return true
}

func matches(v any, flt domain.Filter) bool {
	var cmp int
	switch want := flt.Value.(type) {
	case string:
		got, ok := v.(string)
		if !ok {
			return false
		}
		cmp = strings.Compare(got, want)
	default:
		got, err1 := intValue(v)
		w, err2 := intValue(want)
		if err1 != nil || err2 != nil {
			return false
		}
		cmp = got - w
	}

	switch flt.Op {
	case domain.OpEqual:
		return cmp == 0
	case domain.OpLess:
		return cmp < 0
	case domain.OpLessEqual:
		return cmp <= 0
	case domain.OpGreater:
		return cmp > 0
	case domain.OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

// fakeCache кэш пользователей в памяти
type fakeCache struct {
	users  map[string]domain.User
	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{users: map[string]domain.User{}}
}

func (c *fakeCache) GetUser(_ context.Context, id string) (*domain.User, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *fakeCache) SetUser(_ context.Context, user domain.User) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.users[user.ID] = user
	return nil
}

type fakePublisher struct {
	published []payloads.ExerciseAddedPayload
	err       error
}

func (p *fakePublisher) PublishExerciseAdded(_ context.Context, payload payloads.ExerciseAddedPayload) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

type uploadedFile struct {
	key         string
	body        []byte
	contentType string
}

type fakeFiles struct {
	uploads []uploadedFile
	err     error
}

func (f *fakeFiles) UploadFile(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, uploadedFile{key: key, body: body, contentType: contentType})
	return "http://files/" + key, nil
}
