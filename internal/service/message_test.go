package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

var (
	alice = &model.Identity{ID: "user-1", Username: "alice"}
	bob   = &model.Identity{ID: "user-2", Username: "bob"}
)

func newMessageFixture(t *testing.T) (*MessageService, *memMessageRepo, string) {
	t.Helper()
	c := storedCase("A-001", alice.ID, alice.Username)
	cases := newCaseService(newMemCaseRepo(c))
	repo := &memMessageRepo{}
	return NewMessageService(repo, cases, testLogger()), repo, c.ID
}

func TestMessageService_AppendAndList(t *testing.T) {
	svc, _, caseID := newMessageFixture(t)
	ctx := context.Background()

	m, err := svc.Append(ctx, alice, caseID, "  документы получены \n")
	if err != nil {
		t.Fatalf("Append() ошибка: %v", err)
	}
	if m.Content != "документы получены" {
		t.Errorf("Content = %q, ожидался обрезанный текст", m.Content)
	}
	if m.AuthorID != alice.ID || m.Author != alice.Username {
		t.Errorf("автор = (%q, %q)", m.AuthorID, m.Author)
	}

	list, err := svc.List(ctx, caseID)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 1 || list[0].ID != m.ID {
		t.Errorf("List() = %d сообщений", len(list))
	}
}

func TestMessageService_AppendEmptyIgnored(t *testing.T) {
	svc, repo, caseID := newMessageFixture(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		m, err := svc.Append(context.Background(), alice, caseID, content)
		if err != nil || m != nil {
			t.Errorf("Append(%q) = (%v, %v), ожидалось (nil, nil)", content, m, err)
		}
	}
	if len(repo.messages) != 0 {
		t.Errorf("пустые сообщения записаны: %d", len(repo.messages))
	}
}

func TestMessageService_AppendValidation(t *testing.T) {
	svc, _, caseID := newMessageFixture(t)
	ctx := context.Background()

	long := strings.Repeat("я", MaxMessageLength+1)
	if _, err := svc.Append(ctx, alice, caseID, long); !errors.Is(err, ErrValidation) {
		t.Errorf("длинное сообщение: ожидалась ErrValidation, получено %v", err)
	}
	if _, err := svc.Append(ctx, alice, uuid.New().String(), "текст"); !errors.Is(err, ErrNotFound) {
		t.Errorf("несуществующее дело: ожидалась ErrNotFound, получено %v", err)
	}
}

func TestMessageService_DeleteByNonAuthorRejected(t *testing.T) {
	svc, _, caseID := newMessageFixture(t)
	ctx := context.Background()

	m, err := svc.Append(ctx, alice, caseID, "только для автора")
	if err != nil {
		t.Fatalf("Append() ошибка: %v", err)
	}

	if err := svc.Delete(ctx, bob, caseID, m.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete() не автором: ожидалась ErrForbidden, получено %v", err)
	}

	list, _ := svc.List(ctx, caseID)
	if len(list) != 1 || list[0].ID != m.ID {
		t.Fatal("сообщение исчезло после отклонённого удаления")
	}

	if err := svc.Delete(ctx, alice, caseID, m.ID); err != nil {
		t.Fatalf("Delete() автором: %v", err)
	}
	if list, _ = svc.List(ctx, caseID); len(list) != 0 {
		t.Errorf("после удаления автором осталось %d сообщений", len(list))
	}
}

func TestMessageService_DeleteNotFound(t *testing.T) {
	svc, _, caseID := newMessageFixture(t)
	ctx := context.Background()

	m, _ := svc.Append(ctx, alice, caseID, "текст")

	tests := []struct {
		name      string
		caseID    string
		messageID string
	}{
		{"не UUID", caseID, "123"},
		{"нет сообщения", caseID, uuid.New().String()},
		{"сообщение другого дела", uuid.New().String(), m.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Delete(ctx, alice, tt.caseID, tt.messageID); !errors.Is(err, ErrNotFound) {
				t.Errorf("ожидалась ErrNotFound, получено %v", err)
			}
		})
	}
}

func TestMessageService_UnreadAndMarkRead(t *testing.T) {
	svc, _, caseID := newMessageFixture(t)
	ctx := context.Background()

	first, _ := svc.Append(ctx, alice, caseID, "первое")
	if _, err := svc.Append(ctx, alice, caseID, "второе"); err != nil {
		t.Fatalf("Append() ошибка: %v", err)
	}

	n, err := svc.UnreadCount(ctx, bob, caseID)
	if err != nil || n != 2 {
		t.Fatalf("UnreadCount() = (%d, %v), ожидалось 2", n, err)
	}

	marked, err := svc.MarkRead(ctx, bob, caseID, []string{first.ID})
	if err != nil || marked != 1 {
		t.Fatalf("MarkRead() = (%d, %v), ожидалось 1", marked, err)
	}
	if marked, _ = svc.MarkRead(ctx, bob, caseID, []string{first.ID}); marked != 0 {
		t.Errorf("повторный MarkRead() = %d, ожидалось 0", marked)
	}
	if n, _ = svc.UnreadCount(ctx, bob, caseID); n != 1 {
		t.Errorf("UnreadCount() = %d, ожидалось 1", n)
	}

	if _, err := svc.MarkRead(ctx, bob, caseID, []string{"bad"}); !errors.Is(err, ErrValidation) {
		t.Errorf("MarkRead(bad): ожидалась ErrValidation, получено %v", err)
	}
}
