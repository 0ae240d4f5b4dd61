package model

import (
	"slices"
	"time"
)

// Message — сообщение в ленте дела.
// Лента только дополняется; удалить сообщение может лишь его автор.
type Message struct {
	// ID — UUID сообщения
	ID string `json:"id"`
	// CaseID — карточка, к которой относится сообщение
	CaseID string `json:"caseId"`
	// AuthorID — идентификатор автора (sub из JWT)
	AuthorID string `json:"authorId"`
	// Author — username автора
	Author string `json:"author"`
	// Content — текст сообщения
	Content string `json:"content"`
	// CreatedAt — время создания
	CreatedAt time.Time `json:"createdAt"`
	// ReadBy — идентификаторы прочитавших пользователей
	ReadBy []string `json:"readBy"`
}

// IsReadBy проверяет, прочитано ли сообщение пользователем.
func (m *Message) IsReadBy(viewerID string) bool {
	return slices.Contains(m.ReadBy, viewerID)
}

// UnreadCount возвращает количество сообщений, не прочитанных пользователем.
func UnreadCount(messages []*Message, viewerID string) int {
	n := 0
	for _, m := range messages {
		if !m.IsReadBy(viewerID) {
			n++
		}
	}
	return n
}

// Identity — профиль текущего пользователя, полученный из учётных данных.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Ref возвращает ссылку на пользователя для поля CreatedBy.
func (i *Identity) Ref() UserRef {
	return UserRef{ID: i.ID, Username: i.Username}
}
