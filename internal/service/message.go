// message.go — лента сообщений дела.
// Удаление разрешено только автору и проверяется здесь, на стороне сервиса.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/casedesk/internal/domain/model"
	"github.com/bigkaa/casedesk/internal/repository"
)

// MaxMessageLength — максимальная длина сообщения в символах.
const MaxMessageLength = 4000

var messageOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cd_message_operations_total",
	Help: "Количество операций с сообщениями.",
}, []string{"operation", "result"})

// CaseChecker — проверка существования карточки. Реализуется CaseService.
type CaseChecker interface {
	Exists(ctx context.Context, id string) error
}

// MessageService — операции с лентой сообщений.
type MessageService struct {
	repo   repository.MessageRepository
	cases  CaseChecker
	logger *slog.Logger
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo repository.MessageRepository, cases CaseChecker, logger *slog.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		cases:  cases,
		logger: logger.With(slog.String("component", "message_service")),
	}
}

// List возвращает сообщения дела по возрастанию времени создания.
func (s *MessageService) List(ctx context.Context, caseID string) ([]*model.Message, error) {
	if err := s.cases.Exists(ctx, caseID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("получение сообщений: %w", err)
	}
	return msgs, nil
}

// Append добавляет сообщение от имени author.
// Пустое после обрезки пробелов сообщение молча игнорируется: (nil, nil).
func (s *MessageService) Append(ctx context.Context, author *model.Identity, caseID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		s.count("append", "ignored")
		return nil, nil
	}
	if n := len([]rune(content)); n > MaxMessageLength {
		s.count("append", "error")
		return nil, fmt.Errorf("%w: сообщение длиннее %d символов (%d)", ErrValidation, MaxMessageLength, n)
	}
	if err := s.cases.Exists(ctx, caseID); err != nil {
		s.count("append", "error")
		return nil, err
	}

	m := &model.Message{
		ID:       uuid.New().String(),
		CaseID:   caseID,
		AuthorID: author.ID,
		Author:   author.Username,
		Content:  content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.count("append", "error")
		return nil, mapRepoError(err, "карточка "+caseID)
	}
	s.count("append", "ok")

	s.logger.Debug("Сообщение добавлено",
		slog.String("case_id", caseID),
		slog.String("message_id", m.ID),
		slog.String("author", m.Author),
	)
	return m, nil
}

// Delete удаляет сообщение. Разрешено только автору, иначе ErrForbidden
// и сообщение остаётся в ленте.
func (s *MessageService) Delete(ctx context.Context, caller *model.Identity, caseID, messageID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return fmt.Errorf("%w: сообщение %s", ErrNotFound, messageID)
	}

	m, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		s.count("delete", "error")
		return mapRepoError(err, "сообщение "+messageID)
	}
	if m.CaseID != caseID {
		s.count("delete", "error")
		return fmt.Errorf("%w: сообщение %s", ErrNotFound, messageID)
	}
	if m.AuthorID != caller.ID {
		s.count("delete", "forbidden")
		s.logger.Warn("Отклонено удаление чужого сообщения",
			slog.String("message_id", messageID),
			slog.String("caller", caller.Username),
		)
		return fmt.Errorf("%w: удалить сообщение может только его автор", ErrForbidden)
	}

	// Условие по автору повторяется в запросе: между чтением и удалением
	// запись могла смениться.
	if err := s.repo.DeleteByAuthor(ctx, messageID, caller.ID); err != nil {
		s.count("delete", "error")
		return mapRepoError(err, "сообщение "+messageID)
	}
	s.count("delete", "ok")
	return nil
}

// UnreadCount возвращает число непрочитанных viewer сообщений дела.
func (s *MessageService) UnreadCount(ctx context.Context, viewer *model.Identity, caseID string) (int, error) {
	if err := s.cases.Exists(ctx, caseID); err != nil {
		return 0, err
	}
	n, err := s.repo.UnreadCount(ctx, caseID, viewer.ID)
	if err != nil {
		return 0, fmt.Errorf("подсчёт непрочитанных: %w", err)
	}
	return n, nil
}

// MarkRead отмечает сообщения прочитанными viewer. ids == nil — все сообщения дела.
// Повторная отметка не считается ошибкой.
func (s *MessageService) MarkRead(ctx context.Context, viewer *model.Identity, caseID string, ids []string) (int64, error) {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, fmt.Errorf("%w: некорректный идентификатор сообщения %q", ErrValidation, id)
		}
	}
	if err := s.cases.Exists(ctx, caseID); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkRead(ctx, caseID, viewer.ID, ids)
	if err != nil {
		return 0, fmt.Errorf("отметка о прочтении: %w", err)
	}
	return n, nil
}

func (s *MessageService) count(op, result string) {
	messageOperationsTotal.WithLabelValues(op, result).Inc()
}
