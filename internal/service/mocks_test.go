package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/bigkaa/casedesk/internal/domain/model"
	"github.com/bigkaa/casedesk/internal/repository"
)

// --- Mock repositories ---

// memCaseRepo — CaseRepository в памяти для unit-тестов.
// Хранит карточки «как в базе», без нормализации.
type memCaseRepo struct {
	mu    sync.Mutex
	cases map[string]*model.Case
	// listFn — подмена List (например, для ошибки хранилища)
	listFn func(ctx context.Context, ownerID string) ([]*model.Case, error)
	// beforeReplace вызывается в Replace до записи (конкурирующие изменения)
	beforeReplace func()
	gets          int
}

func newMemCaseRepo(cases ...*model.Case) *memCaseRepo {
	r := &memCaseRepo{cases: make(map[string]*model.Case)}
	for _, c := range cases {
		r.cases[c.ID] = c.Clone()
	}
	return r
}

func (r *memCaseRepo) List(ctx context.Context, ownerID string) ([]*model.Case, error) {
	if r.listFn != nil {
		return r.listFn(ctx, ownerID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Case
	for _, c := range r.cases {
		if ownerID == "" || c.CreatedBy.ID == ownerID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCaseRepo) GetByID(_ context.Context, id string) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	c, ok := r.cases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *memCaseRepo) Create(_ context.Context, c *model.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[c.ID]; ok {
		return repository.ErrConflict
	}
	r.cases[c.ID] = c.Clone()
	return nil
}

func (r *memCaseRepo) Replace(_ context.Context, c *model.Case, isActive *bool) error {
	if r.beforeReplace != nil {
		r.beforeReplace()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.cases[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c.IsActive = cur.IsActive
	if isActive != nil {
		c.IsActive = *isActive
	}
	c.CreatedBy = cur.CreatedBy
	c.CreatedAt = cur.CreatedAt
	r.cases[c.ID] = c.Clone()
	return nil
}

func (r *memCaseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cases, id)
	return nil
}

func (r *memCaseRepo) ToggleActive(_ context.Context, id string) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.IsActive = !c.IsActive
	return c.Clone(), nil
}

// memMessageRepo — MessageRepository в памяти.
type memMessageRepo struct {
	mu       sync.Mutex
	messages []*model.Message
}

func (r *memMessageRepo) ListByCase(_ context.Context, caseID string) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Message, 0)
	for _, m := range r.messages {
		if m.CaseID == caseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memMessageRepo) Create(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memMessageRepo) DeleteByAuthor(_ context.Context, id, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id && m.AuthorID == authorID {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memMessageRepo) MarkRead(_ context.Context, caseID, readerID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.CaseID != caseID || m.IsReadBy(readerID) {
			continue
		}
		if ids != nil && !contains(ids, m.ID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, readerID)
		n++
	}
	return n, nil
}

func (r *memMessageRepo) UnreadCount(_ context.Context, caseID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*model.Message
	for _, m := range r.messages {
		if m.CaseID == caseID {
			list = append(list, m)
		}
	}
	return model.UnreadCount(list, readerID), nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
