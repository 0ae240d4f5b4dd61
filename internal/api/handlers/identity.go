// identity.go — GET /api/v1/me: профиль текущего пользователя.
package handlers

import "net/http"

// GetMe — GET /api/v1/me.
// Профиль строится JWT middleware; отсутствие или отказ токена — 401 на уровне middleware.
func (h *APIHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, id)
}
