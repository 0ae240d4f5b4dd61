// Пакет errors — ответы API casedesk с ошибкой.
// Формат тела: {"error": {"code": "...", "message": "..."}}; HTTP-статус
// однозначно определяется кодом.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidationError: http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeConflict:        http.StatusConflict,
	CodeInternalError:   http.StatusInternalServerError,
}

// Body — тело ответа с ошибкой. Его же разбирает клиент casestore.
type Body struct {
	Error Detail `json:"error"`
}

// Detail — код и текст ошибки для пользователя.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status возвращает HTTP-статус для кода ошибки; неизвестный код — 500.
func Status(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Write отправляет ошибку с кодом code и текстом message.
func Write(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = json.NewEncoder(w).Encode(Body{Error: Detail{Code: code, Message: message}})
}

// ValidationError — 400: некорректный запрос или данные карточки.
func ValidationError(w http.ResponseWriter, message string) { Write(w, CodeValidationError, message) }

// NotFound — 404: карточка или сообщение не найдены.
func NotFound(w http.ResponseWriter, message string) { Write(w, CodeNotFound, message) }

// Unauthorized — 401: нет токена или токен отвергнут.
func Unauthorized(w http.ResponseWriter, message string) { Write(w, CodeUnauthorized, message) }

// Forbidden — 403: например, удаление чужого сообщения.
func Forbidden(w http.ResponseWriter, message string) { Write(w, CodeForbidden, message) }

// Conflict — 409.
func Conflict(w http.ResponseWriter, message string) { Write(w, CodeConflict, message) }

// InternalError — 500.
func InternalError(w http.ResponseWriter, message string) { Write(w, CodeInternalError, message) }
