package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

// CaseRepository — интерфейс CRUD для таблицы cases.
type CaseRepository interface {
	// List возвращает все карточки. ownerID != "" — только карточки владельца.
	List(ctx context.Context, ownerID string) ([]*model.Case, error)
	// GetByID возвращает карточку по UUID.
	GetByID(ctx context.Context, id string) (*model.Case, error)
	// Create сохраняет новую карточку (ID и CreatedBy заполнены вызывающим).
	Create(ctx context.Context, c *model.Case) error
	// Replace полностью заменяет редактируемые поля карточки.
	// ID, CreatedBy и CreatedAt не меняются. isActive == nil оставляет
	// хранимый признак активности; итоговое значение записывается в c.IsActive.
	Replace(ctx context.Context, c *model.Case, isActive *bool) error
	// Delete удаляет карточку безвозвратно (вместе с лентой сообщений).
	Delete(ctx context.Context, id string) error
	// ToggleActive инвертирует is_active и возвращает обновлённую карточку.
	ToggleActive(ctx context.Context, id string) (*model.Case, error)
}

// caseRepo — реализация CaseRepository.
type caseRepo struct {
	db DBTX
}

// NewCaseRepository создаёт репозиторий карточек.
func NewCaseRepository(db DBTX) CaseRepository {
	return &caseRepo{db: db}
}

const caseColumns = `id, is_active, comments, data, colors,
	created_by_id, created_by_username, created_at, updated_at`

func (r *caseRepo) List(ctx context.Context, ownerID string) ([]*model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var args []any
	if ownerID != "" {
		query += ` WHERE created_by_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY reference, created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка карточек: %w", err)
	}
	defer rows.Close()

	var result []*model.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования карточки: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *caseRepo) GetByID(ctx context.Context, id string) (*model.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	c, err := scanCase(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения карточки: %w", err)
	}
	return c, nil
}

func (r *caseRepo) Create(ctx context.Context, c *model.Case) error {
	data, colors, err := encodeCase(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cases (id, reference, is_active, comments, data, colors,
			created_by_id, created_by_username)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		c.ID, c.Reference, c.IsActive, c.Comments, data, colors,
		c.CreatedBy.ID, c.CreatedBy.Username,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: карточка %s уже существует", ErrConflict, c.ID)
		}
		return fmt.Errorf("ошибка создания карточки: %w", err)
	}
	return nil
}

func (r *caseRepo) Replace(ctx context.Context, c *model.Case, isActive *bool) error {
	data, colors, err := encodeCase(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE cases
		SET reference = $2, is_active = COALESCE($3::boolean, is_active),
			comments = $4, data = $5, colors = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active, created_by_id, created_by_username, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		c.ID, c.Reference, isActive, c.Comments, data, colors,
	).Scan(&c.IsActive, &c.CreatedBy.ID, &c.CreatedBy.Username, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления карточки: %w", err)
	}
	return nil
}

func (r *caseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления карточки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *caseRepo) ToggleActive(ctx context.Context, id string) (*model.Case, error) {
	query := `
		UPDATE cases
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + caseColumns

	c, err := scanCase(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка переключения активности: %w", err)
	}
	return c, nil
}

// encodeCase сериализует jsonb-столбцы data и colors.
func encodeCase(c *model.Case) (data, colors []byte, err error) {
	data, err = json.Marshal(c.CaseFields)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка сериализации полей карточки: %w", err)
	}
	if c.Colors == nil {
		colors = []byte("{}")
	} else if colors, err = json.Marshal(c.Colors); err != nil {
		return nil, nil, fmt.Errorf("ошибка сериализации подсветки: %w", err)
	}
	return data, colors, nil
}

// scanCase читает строку в порядке caseColumns.
func scanCase(row pgx.Row) (*model.Case, error) {
	c := &model.Case{}
	var data, colors []byte
	if err := row.Scan(
		&c.ID, &c.IsActive, &c.Comments, &data, &colors,
		&c.CreatedBy.ID, &c.CreatedBy.Username, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &c.CaseFields); err != nil {
		return nil, fmt.Errorf("повреждён столбец data карточки %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(colors, &c.Colors); err != nil {
		return nil, fmt.Errorf("повреждён столбец colors карточки %s: %w", c.ID, err)
	}
	return c, nil
}
