// messages.go — обработчики ленты сообщений дела.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/casedesk/internal/api/errors"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

type messageListResponse struct {
	Items       []*model.Message `json:"items"`
	UnreadCount int              `json:"unreadCount"`
}

type appendMessageRequest struct {
	Content string `json:"content"`
}

type markReadRequest struct {
	// IDs — отмечаемые сообщения; отсутствие поля — все сообщения дела
	IDs []string `json:"ids"`
}

type markReadResponse struct {
	Marked int64 `json:"marked"`
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

// ListMessages — GET /api/v1/cases/{caseID}/messages.
func (h *APIHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	msgs, err := h.messages.List(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка получения сообщений")
		return
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	writeJSON(w, http.StatusOK, messageListResponse{
		Items:       msgs,
		UnreadCount: model.UnreadCount(msgs, id.ID),
	})
}

// AppendMessage — POST /api/v1/cases/{caseID}/messages.
// Пустое сообщение не сохраняется: 204 без тела.
func (h *APIHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req appendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	m, err := h.messages.Append(r.Context(), id, chi.URLParam(r, "caseID"), req.Content)
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка отправки сообщения")
		return
	}
	if m == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// DeleteMessage — DELETE /api/v1/cases/{caseID}/messages/{messageID}.
// Удалить может только автор, иначе 403.
func (h *APIHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	err := h.messages.Delete(r.Context(), id, chi.URLParam(r, "caseID"), chi.URLParam(r, "messageID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка удаления сообщения")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount — GET /api/v1/cases/{caseID}/messages/unread-count.
func (h *APIHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	n, err := h.messages.UnreadCount(r.Context(), id, chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка подсчёта непрочитанных")
		return
	}
	writeJSON(w, http.StatusOK, unreadCountResponse{Count: n})
}

// MarkRead — POST /api/v1/cases/{caseID}/messages/read.
// Тело необязательно: без него отмечаются все сообщения дела.
func (h *APIHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req markReadRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			apierrors.ValidationError(w, err.Error())
			return
		}
	}

	n, err := h.messages.MarkRead(r.Context(), id, chi.URLParam(r, "caseID"), req.IDs)
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка отметки о прочтении")
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{Marked: n})
}
