// report.go — GET /api/v1/cases/{caseID}/report: печатная версия и PDF.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/casedesk/internal/api/errors"
	"github.com/bigkaa/casedesk/internal/report"
)

// GetCaseReport — отчёт по карточке. format=html (по умолчанию) или pdf.
func (h *APIHandler) GetCaseReport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "html"
	}
	if format != "html" && format != string(report.FormatPDF) {
		apierrors.ValidationError(w, fmt.Sprintf("Неподдерживаемый формат отчёта: %q", format))
		return
	}

	c, err := h.cases.Get(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка получения карточки")
		return
	}
	layout := report.Build(c, h.cases.Clock())

	if format == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := report.HTML(layout).Render(r.Context(), w); err != nil {
			h.logger.Error("Ошибка вывода отчёта",
				slog.String("case_id", c.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	files, err := report.Export(layout, report.FormatPDF, report.BaseName(c.Reference, c.ID))
	if err != nil {
		h.writeServiceError(w, r, err, "Ошибка формирования отчёта")
		return
	}
	f := files[0]
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}
