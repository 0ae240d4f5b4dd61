// case.go — бизнес-логика карточек дел.
// На границе записи даты нормализуются (datefmt.NormalizeWrite),
// подсветка проверяется строго; на границе чтения даты приводятся
// к форме YYYY-MM-DD, а подсветка очищается от неизвестных полей.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/casedesk/internal/domain/caselist"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
	"github.com/bigkaa/casedesk/internal/repository"
)

var caseOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cd_case_operations_total",
	Help: "Количество операций с карточками.",
}, []string{"operation", "result"})

// CaseInput — данные карточки от клиента (создание и полная замена).
type CaseInput struct {
	model.CaseFields
	// IsActive — nil: при создании true, при замене хранимое значение не меняется
	IsActive *bool `json:"isActive"`
	Comments string `json:"comments"`
	// Colors — произвольная карта из запроса, проверяется ParseColors
	Colors map[string]string `json:"colors"`
}

// CaseService — операции с карточками.
type CaseService struct {
	repo   repository.CaseRepository
	cache  *CaseCache
	clock  datefmt.Clock
	logger *slog.Logger
}

// NewCaseService создаёт сервис карточек.
func NewCaseService(repo repository.CaseRepository, cache *CaseCache, clock datefmt.Clock, logger *slog.Logger) *CaseService {
	return &CaseService{
		repo:   repo,
		cache:  cache,
		clock:  clock,
		logger: logger.With(slog.String("component", "case_service")),
	}
}

// List возвращает карточки, отобранные и отсортированные по запросу.
// ownerID != "" — только карточки владельца («Мои сделки»).
func (s *CaseService) List(ctx context.Context, ownerID string, q caselist.Query) ([]*model.Case, error) {
	cases, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение списка карточек: %w", err)
	}
	for i, c := range cases {
		cases[i] = s.normalizeRead(c)
	}
	return caselist.Apply(cases, q), nil
}

// Get возвращает карточку по ID.
func (s *CaseService) Get(ctx context.Context, id string) (*model.Case, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: карточка %s", ErrNotFound, id)
	}
	if c, ok := s.cache.Get(id); ok {
		return c, nil
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "карточка "+id)
	}
	c = s.normalizeRead(c)
	s.cache.Set(c)
	return c, nil
}

// Create создаёт карточку от имени owner.
// ID, владелец и время создания назначаются здесь, а не клиентом.
func (s *CaseService) Create(ctx context.Context, owner *model.Identity, in *CaseInput) (*model.Case, error) {
	c := &model.Case{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedBy: owner.Ref(),
	}
	if err := s.applyInput(c, in); err != nil {
		s.count("create", err)
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.count("create", err)
		return nil, mapRepoError(err, "карточка "+c.ID)
	}
	s.count("create", nil)

	s.logger.Info("Карточка создана",
		slog.String("case_id", c.ID),
		slog.String("reference", c.Reference),
		slog.String("owner", c.CreatedBy.Username),
	)

	c = s.normalizeRead(c)
	s.cache.Set(c)
	return c, nil
}

// Replace полностью заменяет редактируемые поля карточки.
// Без isActive признак активности остаётся тем, что хранится на момент записи:
// его меняет только ToggleActive.
func (s *CaseService) Replace(ctx context.Context, id string, in *CaseInput) (*model.Case, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: карточка %s", ErrNotFound, id)
	}

	c := &model.Case{ID: id}
	if err := s.applyInput(c, in); err != nil {
		s.count("replace", err)
		return nil, err
	}

	if err := s.repo.Replace(ctx, c, in.IsActive); err != nil {
		s.count("replace", err)
		s.cache.Delete(id)
		return nil, mapRepoError(err, "карточка "+id)
	}
	s.count("replace", nil)

	c = s.normalizeRead(c)
	s.cache.Set(c)
	return c, nil
}

// Delete удаляет карточку безвозвратно.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: карточка %s", ErrNotFound, id)
	}
	s.cache.Delete(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		s.count("delete", err)
		return mapRepoError(err, "карточка "+id)
	}
	s.count("delete", nil)
	s.logger.Info("Карточка удалена", slog.String("case_id", id))
	return nil
}

// ToggleActive инвертирует признак активности независимо от полной замены.
func (s *CaseService) ToggleActive(ctx context.Context, id string) (*model.Case, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: карточка %s", ErrNotFound, id)
	}
	c, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		s.count("toggle", err)
		s.cache.Delete(id)
		return nil, mapRepoError(err, "карточка "+id)
	}
	s.count("toggle", nil)

	c = s.normalizeRead(c)
	s.cache.Set(c)
	return c, nil
}

// Exists проверяет существование карточки.
func (s *CaseService) Exists(ctx context.Context, id string) error {
	_, err := s.Get(ctx, id)
	return err
}

// Clock возвращает часы сервиса (для отчётов и «дней с момента»).
func (s *CaseService) Clock() datefmt.Clock {
	return s.clock
}

// applyInput переносит данные запроса в карточку с нормализацией записи.
func (s *CaseService) applyInput(c *model.Case, in *CaseInput) error {
	if in == nil {
		return fmt.Errorf("%w: пустое тело запроса", ErrValidation)
	}

	fields := in.CaseFields
	fields.Reference = strings.TrimSpace(fields.Reference)
	if fields.Reference == "" {
		return fmt.Errorf("%w: поле reference обязательно", ErrValidation)
	}
	fields.MapDates(datefmt.NormalizeWrite)

	colors, err := model.ParseColors(in.Colors)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	c.CaseFields = fields
	c.Comments = in.Comments
	c.Colors = colors
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

// normalizeRead приводит хранимую карточку к форме для клиента.
func (s *CaseService) normalizeRead(c *model.Case) *model.Case {
	out := c.Clone()
	out.MapDates(datefmt.NormalizeRead)

	colors, dropped := model.SanitizeColors(out.Colors)
	if len(dropped) > 0 {
		s.logger.Warn("Отброшена некорректная подсветка полей",
			slog.String("case_id", out.ID),
			slog.Any("fields", dropped),
		)
	}
	out.Colors = colors
	return out
}

func (s *CaseService) count(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	caseOperationsTotal.WithLabelValues(op, result).Inc()
}

// mapRepoError переводит ошибки репозитория в ошибки сервиса.
func mapRepoError(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	default:
		return err
	}
}
