// thread.go — лента сообщений дела.
package casestore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

// Thread — открытая лента сообщений одного дела.
type Thread struct {
	client *Client
	caseID string

	mu       sync.Mutex
	messages []*model.Message
}

// OpenThread загружает ленту и отмечает загруженные сообщения прочитанными.
func OpenThread(ctx context.Context, client *Client, caseID string) (*Thread, error) {
	t := &Thread{client: client, caseID: caseID}
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// CaseID возвращает ID дела.
func (t *Thread) CaseID() string {
	return t.caseID
}

// Messages возвращает копию загруженной ленты.
func (t *Thread) Messages() []*model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.messages)
}

// Refresh перечитывает ленту и отмечает загруженные сообщения прочитанными.
// При ошибке чтения прежняя лента сохраняется.
func (t *Thread) Refresh(ctx context.Context) error {
	msgs, err := t.client.ListMessages(ctx, t.caseID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.messages = msgs
	t.mu.Unlock()

	if len(msgs) == 0 {
		return nil
	}
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	_, err = t.client.MarkRead(ctx, t.caseID, ids)
	return err
}

// Send отправляет сообщение. Пустое после обрезки пробелов сообщение
// не отправляется: (nil, nil).
func (t *Thread) Send(ctx context.Context, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	m, err := t.client.AppendMessage(ctx, t.caseID, content)
	if err != nil || m == nil {
		return nil, err
	}

	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
	return m, nil
}

// Delete удаляет сообщение. Отказ сервера (не автор) оставляет ленту без изменений.
func (t *Thread) Delete(ctx context.Context, messageID string) error {
	if err := t.client.DeleteMessage(ctx, t.caseID, messageID); err != nil {
		return err
	}

	t.mu.Lock()
	t.messages = slices.DeleteFunc(t.messages, func(m *model.Message) bool { return m.ID == messageID })
	t.mu.Unlock()
	return nil
}
