// Пакет casestore — клиент сервиса casedesk для клиентских приложений.
// Client выполняет HTTP-запросы с токеном из сохранённой сессии,
// Form, Loader и Thread реализуют поведение формы, списков и ленты сообщений.
package casestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/bigkaa/casedesk/internal/api/errors"
	"github.com/bigkaa/casedesk/internal/domain/caselist"
	"github.com/bigkaa/casedesk/internal/domain/fees"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

// ErrUnauthenticated — учётные данные отсутствуют или отвергнуты сервером.
// После 401 сохранённый токен уже удалён.
var ErrUnauthenticated = errors.New("требуется вход: выполните login")

// genericFailure — сообщение для пользователя, если сервер не прислал своего.
const genericFailure = "Не удалось выполнить операцию, попробуйте позже"

// Credentials — источник токена. Токен читается заново для каждого запроса.
type Credentials interface {
	Token() string
	// Clear удаляет сохранённый токен после отказа сервера.
	Clear() error
}

// APIError — ответ сервера с кодом, отличным от 2xx (кроме 401).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("сервер вернул %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("сервер вернул %d", e.Status)
}

// UserMessage — текст для пользователя: сообщение сервера или общее сообщение.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return genericFailure
}

// UserMessage возвращает текст ошибки для показа пользователю.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.UserMessage()
	case errors.Is(err, ErrUnauthenticated):
		return ErrUnauthenticated.Error()
	}
	return genericFailure
}

// Draft — тело запроса создания или замены карточки.
type Draft struct {
	model.CaseFields
	IsActive *bool             `json:"isActive,omitempty"`
	Comments string            `json:"comments"`
	Colors   map[string]string `json:"colors,omitempty"`
}

// ListOptions — параметры запроса списка карточек.
type ListOptions struct {
	// Mine — только карточки текущего пользователя
	Mine  bool
	Query caselist.Query
	// GroupByOwner — вернуть также группы по владельцу
	GroupByOwner bool
}

// CaseList — ответ списка карточек.
type CaseList struct {
	Items  []*model.Case    `json:"items"`
	Groups []caselist.Group `json:"groups,omitempty"`
	Total  int              `json:"total"`
}

// Quote — ответ калькулятора расходов.
type Quote struct {
	fees.Quote
	Display map[string]string `json:"display"`
}

// Client — HTTP-клиент сервиса casedesk.
// Повторов и собственных таймаутов, кроме таймаута http.Client, нет.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logger     *slog.Logger
}

// New создаёт клиента. baseURL — адрес сервиса без завершающего слэша.
func New(baseURL string, timeout time.Duration, creds Credentials, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		logger:     logger.With(slog.String("component", "casestore_client")),
	}
}

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var id model.Identity
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// ListCases возвращает отфильтрованный и отсортированный список карточек.
func (c *Client) ListCases(ctx context.Context, opts ListOptions) (*CaseList, error) {
	path := "/api/v1/cases"
	if opts.Mine {
		path += "/mine"
	}
	q := url.Values{}
	if opts.Query.Text != "" {
		q.Set("q", opts.Query.Text)
	}
	if opts.Query.Filter != caselist.FilterNone {
		q.Set("filter", string(opts.Query.Filter))
	}
	if opts.GroupByOwner && !opts.Mine {
		q.Set("group", "owner")
	}

	var list CaseList
	if err := c.do(ctx, http.MethodGet, path, q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetCase возвращает карточку по ID.
func (c *Client) GetCase(ctx context.Context, id string) (*model.Case, error) {
	var cs model.Case
	if err := c.do(ctx, http.MethodGet, casePath(id), nil, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// CreateCase создаёт карточку.
func (c *Client) CreateCase(ctx context.Context, d *Draft) (*model.Case, error) {
	var cs model.Case
	if err := c.do(ctx, http.MethodPost, "/api/v1/cases", nil, d, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ReplaceCase полностью заменяет редактируемые поля карточки.
func (c *Client) ReplaceCase(ctx context.Context, id string, d *Draft) (*model.Case, error) {
	var cs model.Case
	if err := c.do(ctx, http.MethodPut, casePath(id), nil, d, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// DeleteCase удаляет карточку безвозвратно.
func (c *Client) DeleteCase(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, casePath(id), nil, nil, nil)
}

// ToggleActive инвертирует признак активности карточки.
func (c *Client) ToggleActive(ctx context.Context, id string) (*model.Case, error) {
	var cs model.Case
	if err := c.do(ctx, http.MethodPost, casePath(id)+"/toggle-active", nil, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListMessages возвращает ленту дела по возрастанию времени.
func (c *Client) ListMessages(ctx context.Context, caseID string) ([]*model.Message, error) {
	var resp struct {
		Items []*model.Message `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, casePath(caseID)+"/messages", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AppendMessage отправляет сообщение. (nil, nil) — сервер проигнорировал пустое сообщение.
func (c *Client) AppendMessage(ctx context.Context, caseID, content string) (*model.Message, error) {
	var m model.Message
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, casePath(caseID)+"/messages", nil, body, &m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		return nil, nil
	}
	return &m, nil
}

// DeleteMessage удаляет сообщение (разрешено только автору).
func (c *Client) DeleteMessage(ctx context.Context, caseID, messageID string) error {
	return c.do(ctx, http.MethodDelete, casePath(caseID)+"/messages/"+url.PathEscape(messageID), nil, nil, nil)
}

// UnreadCount возвращает число непрочитанных сообщений дела.
func (c *Client) UnreadCount(ctx context.Context, caseID string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, casePath(caseID)+"/messages/unread-count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead отмечает сообщения прочитанными. ids == nil — все сообщения дела.
func (c *Client) MarkRead(ctx context.Context, caseID string, ids []string) (int64, error) {
	var body any
	if ids != nil {
		body = map[string][]string{"ids": ids}
	}
	var resp struct {
		Marked int64 `json:"marked"`
	}
	if err := c.do(ctx, http.MethodPost, casePath(caseID)+"/messages/read", nil, body, &resp); err != nil {
		return 0, err
	}
	return resp.Marked, nil
}

// TransferCost запрашивает расчёт расходов по цене в свободной форме.
func (c *Client) TransferCost(ctx context.Context, price string) (*Quote, error) {
	var q Quote
	if err := c.do(ctx, http.MethodGet, "/api/v1/calculator/transfer-cost", url.Values{"price": {price}}, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// do выполняет запрос и разбирает ответ в out (nil — тело не читается).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := c.creds.Token()
	if token == "" {
		return ErrUnauthenticated
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("Сервер отверг учётные данные, токен удалён",
			slog.String("method", method),
			slog.String("path", path),
		)
		if err := c.creds.Clear(); err != nil {
			c.logger.Error("Ошибка удаления токена", slog.String("error", err.Error()))
		}
		return ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body apierrors.Body
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = "HTTP_" + strconv.Itoa(resp.StatusCode)
	}
	return apiErr
}

func casePath(id string) string {
	return "/api/v1/cases/" + url.PathEscape(id)
}
