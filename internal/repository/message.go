package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

// MessageRepository — интерфейс доступа к ленте сообщений.
type MessageRepository interface {
	// ListByCase возвращает сообщения дела по возрастанию времени создания.
	ListByCase(ctx context.Context, caseID string) ([]*model.Message, error)
	// GetByID возвращает сообщение по UUID.
	GetByID(ctx context.Context, id string) (*model.Message, error)
	// Create добавляет сообщение в ленту.
	Create(ctx context.Context, m *model.Message) error
	// DeleteByAuthor удаляет сообщение, только если его автор — authorID.
	DeleteByAuthor(ctx context.Context, id, authorID string) error
	// MarkRead отмечает сообщения дела прочитанными пользователем.
	// ids == nil — все сообщения дела. Возвращает число новых отметок.
	MarkRead(ctx context.Context, caseID, readerID string, ids []string) (int64, error)
	// UnreadCount возвращает число непрочитанных пользователем сообщений дела.
	UnreadCount(ctx context.Context, caseID, readerID string) (int, error)
}

// messageRepo — реализация MessageRepository.
type messageRepo struct {
	db DBTX
}

// NewMessageRepository создаёт репозиторий сообщений.
func NewMessageRepository(db DBTX) MessageRepository {
	return &messageRepo{db: db}
}

const messageSelect = `
	SELECT m.id, m.case_id, m.author_id, m.author, m.content, m.created_at,
		COALESCE(array_agg(r.reader_id ORDER BY r.read_at) FILTER (WHERE r.reader_id IS NOT NULL), '{}')
	FROM messages m
	LEFT JOIN message_reads r ON r.message_id = m.id`

func (r *messageRepo) ListByCase(ctx context.Context, caseID string) ([]*model.Message, error) {
	query := messageSelect + `
		WHERE m.case_id = $1
		GROUP BY m.id
		ORDER BY m.created_at, m.id`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сообщений: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	query := messageSelect + `
		WHERE m.id = $1
		GROUP BY m.id`

	m, err := scanMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сообщения: %w", err)
	}
	return m, nil
}

func (r *messageRepo) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (id, case_id, author_id, author, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, m.ID, m.CaseID, m.AuthorID, m.Author, m.Content).
		Scan(&m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: карточка %s", ErrNotFound, m.CaseID)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: сообщение %s уже существует", ErrConflict, m.ID)
		}
		return fmt.Errorf("ошибка создания сообщения: %w", err)
	}
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	return nil
}

func (r *messageRepo) DeleteByAuthor(ctx context.Context, id, authorID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM messages WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("ошибка удаления сообщения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepo) MarkRead(ctx context.Context, caseID, readerID string, ids []string) (int64, error) {
	query := `
		INSERT INTO message_reads (message_id, reader_id)
		SELECT id, $2 FROM messages
		WHERE case_id = $1 AND ($3::text[] IS NULL OR id::text = ANY($3::text[]))
		ON CONFLICT (message_id, reader_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, caseID, readerID, ids)
	if err != nil {
		return 0, fmt.Errorf("ошибка отметки о прочтении: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *messageRepo) UnreadCount(ctx context.Context, caseID, readerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages m
		WHERE m.case_id = $1
			AND NOT EXISTS (
				SELECT 1 FROM message_reads r
				WHERE r.message_id = m.id AND r.reader_id = $2
			)`

	var count int
	if err := r.db.QueryRow(ctx, query, caseID, readerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта непрочитанных: %w", err)
	}
	return count, nil
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	m := &model.Message{}
	if err := row.Scan(
		&m.ID, &m.CaseID, &m.AuthorID, &m.Author, &m.Content, &m.CreatedAt, &m.ReadBy,
	); err != nil {
		return nil, err
	}
	return m, nil
}
