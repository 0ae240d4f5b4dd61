// form.go — форма карточки дела: загрузка, новая карточка, сохранение.
package casestore

import (
	"context"
	"sync"

	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

// Mode — режим формы.
type Mode string

const (
	ModeNew  Mode = "new"
	ModeEdit Mode = "edit"
)

// Form — состояние формы одной карточки.
// Значения дат в форме хранятся в виде для чтения (YYYY-MM-DD или служебные значения).
type Form struct {
	client *Client

	mu      sync.Mutex
	mode    Mode
	current *model.Case
}

// NewForm создаёт форму в режиме новой карточки.
func NewForm(client *Client) *Form {
	f := &Form{client: client}
	f.New()
	return f
}

// New сбрасывает форму в режим новой карточки и возвращает её копию.
func (f *Form) New() *model.Case {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeNew
	f.current = &model.Case{IsActive: true}
	return f.current.Clone()
}

// Load загружает карточку в режим редактирования.
// При ошибке состояние формы не меняется.
func (f *Form) Load(ctx context.Context, id string) (*model.Case, error) {
	c, err := f.client.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	c.MapDates(datefmt.NormalizeRead)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEdit
	f.current = c
	return c.Clone(), nil
}

// Mode возвращает режим формы.
func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Current возвращает копию текущего состояния формы.
func (f *Form) Current() *model.Case {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Clone()
}

// Save отправляет изменённую карточку: создание в режиме new, замену в режиме edit.
// Даты приводятся к виду для записи до отправки. При замене isActive
// не отправляется: признак меняется только через ToggleActive. При ошибке состояние формы
// не меняется, текст для пользователя — UserMessage(err).
func (f *Form) Save(ctx context.Context, edited *model.Case) (*model.Case, error) {
	f.mu.Lock()
	mode, id := f.mode, f.current.ID
	f.mu.Unlock()

	d := DraftFromCase(edited)
	if mode == ModeEdit {
		d.IsActive = nil
	}

	var (
		saved *model.Case
		err   error
	)
	if mode == ModeEdit {
		saved, err = f.client.ReplaceCase(ctx, id, d)
	} else {
		saved, err = f.client.CreateCase(ctx, d)
	}
	if err != nil {
		return nil, err
	}
	saved.MapDates(datefmt.NormalizeRead)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEdit
	f.current = saved
	return saved.Clone(), nil
}

// DraftFromCase строит тело запроса из карточки с нормализацией дат для записи.
func DraftFromCase(c *model.Case) *Draft {
	fields := c.CaseFields
	fields.MapDates(datefmt.NormalizeWrite)

	active := c.IsActive
	d := &Draft{
		CaseFields: fields,
		IsActive:   &active,
		Comments:   c.Comments,
	}
	if len(c.Colors) > 0 {
		d.Colors = make(map[string]string, len(c.Colors))
		for k, v := range c.Colors {
			d.Colors[string(k)] = v
		}
	}
	return d
}
