package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const testCaseID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newObservedRouter(logs io.Writer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(MetricsMiddleware())
	r.Use(RequestLogger(slog.New(slog.NewJSONHandler(logs, nil))))
	r.Get("/cases/{caseID}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "карточка не найдена", http.StatusNotFound)
	})
	r.Get("/silent", func(http.ResponseWriter, *http.Request) {})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	router := newObservedRouter(&logs)

	tests := []struct {
		path, route, level string
		status             int
	}{
		{"/cases/" + testCaseID, "/cases/{caseID}", "WARN", http.StatusNotFound},
		{"/silent", "/silent", "INFO", http.StatusOK},
		{"/boom", "/boom", "ERROR", http.StatusInternalServerError},
		{"/missing", "unmatched", "WARN", http.StatusNotFound},
	}

	for _, tt := range tests {
		logs.Reset()
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

		var entry map[string]any
		if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
			t.Fatalf("%s: запись журнала не JSON: %v (%q)", tt.path, err, logs.String())
		}
		if entry["route"] != tt.route {
			t.Errorf("%s: route = %v, ожидалось %q", tt.path, entry["route"], tt.route)
		}
		if entry["level"] != tt.level {
			t.Errorf("%s: level = %v, ожидалось %q", tt.path, entry["level"], tt.level)
		}
		if status, _ := entry["status"].(float64); int(status) != tt.status {
			t.Errorf("%s: status = %v, ожидалось %d", tt.path, entry["status"], tt.status)
		}
		if id, _ := entry["request_id"].(string); id == "" {
			t.Errorf("%s: пустой request_id", tt.path)
		}
	}
}

func TestMetricsMiddleware_RouteLabel(t *testing.T) {
	router := newObservedRouter(io.Discard)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cases/"+testCaseID, nil))

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	want := `cd_http_requests_total{method="GET",path="/cases/{caseID}",status="404"}`
	if !strings.Contains(body, want) {
		t.Errorf("в /metrics нет %s", want)
	}
	if strings.Contains(body, testCaseID) {
		t.Error("идентификатор карточки попал в метки метрик")
	}
}
