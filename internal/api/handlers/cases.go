// cases.go — обработчики карточек дел.
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/casedesk/internal/api/errors"
	"github.com/bigkaa/casedesk/internal/domain/caselist"
	"github.com/bigkaa/casedesk/internal/domain/model"
	"github.com/bigkaa/casedesk/internal/service"
)

// groupByOwner — значение параметра group для группировки по владельцу.
const groupByOwner = "owner"

// caseListResponse — ответ списка карточек.
// Groups заполняется только при group=owner.
type caseListResponse struct {
	Items  []*model.Case    `json:"items"`
	Groups []caselist.Group `json:"groups,omitempty"`
	Total  int              `json:"total"`
}

// ListCases — GET /api/v1/cases: все карточки (Dashboard).
func (h *APIHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	h.listCases(w, r, "")
}

// ListMyCases — GET /api/v1/cases/mine: карточки текущего пользователя.
func (h *APIHandler) ListMyCases(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	h.listCases(w, r, id.ID)
}

func (h *APIHandler) listCases(w http.ResponseWriter, r *http.Request, ownerID string) {
	params := r.URL.Query()

	filter, err := caselist.ParseFilter(params.Get("filter"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	group := strings.ToLower(strings.TrimSpace(params.Get("group")))
	if group != "" && group != groupByOwner {
		apierrors.ValidationError(w, "Параметр group поддерживает только значение owner")
		return
	}

	cases, err := h.cases.List(r.Context(), ownerID, caselist.Query{
		Text:   params.Get("q"),
		Filter: filter,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка получения списка карточек")
		return
	}

	resp := caseListResponse{Items: cases, Total: len(cases)}
	if resp.Items == nil {
		resp.Items = []*model.Case{}
	}
	if group == groupByOwner {
		resp.Groups = caselist.GroupByOwner(cases)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCase — POST /api/v1/cases.
func (h *APIHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in service.CaseInput
	if err := decodeJSON(w, r, &in); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	c, err := h.cases.Create(r.Context(), id, &in)
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка создания карточки")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetCase — GET /api/v1/cases/{caseID}.
func (h *APIHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.cases.Get(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка получения карточки")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ReplaceCase — PUT /api/v1/cases/{caseID}: полная замена редактируемых полей.
func (h *APIHandler) ReplaceCase(w http.ResponseWriter, r *http.Request) {
	var in service.CaseInput
	if err := decodeJSON(w, r, &in); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	c, err := h.cases.Replace(r.Context(), chi.URLParam(r, "caseID"), &in)
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка сохранения карточки")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCase — DELETE /api/v1/cases/{caseID}: безвозвратное удаление.
func (h *APIHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := h.cases.Delete(r.Context(), chi.URLParam(r, "caseID")); err != nil {
		h.writeServiceError(w, r, err, "Ошибка удаления карточки")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleCaseActive — POST /api/v1/cases/{caseID}/toggle-active.
func (h *APIHandler) ToggleCaseActive(w http.ResponseWriter, r *http.Request) {
	c, err := h.cases.ToggleActive(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка смены статуса карточки")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
