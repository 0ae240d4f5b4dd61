// calculator.go — GET /api/v1/calculator/transfer-cost: расходы покупателя по цене.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/casedesk/internal/api/errors"
	"github.com/bigkaa/casedesk/internal/domain/fees"
)

type transferCostResponse struct {
	fees.Quote
	// Display — суммы в формате «R 1 250 000.00»
	Display map[string]string `json:"display"`
}

// GetTransferCost — расчёт по параметру price (свободный ввод суммы).
func (h *APIHandler) GetTransferCost(w http.ResponseWriter, r *http.Request) {
	price, err := fees.ParseAmount(r.URL.Query().Get("price"))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	q, err := fees.NewQuote(price)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, transferCostResponse{
		Quote: q,
		Display: map[string]string{
			"price":           fees.FormatAmount(q.Price),
			"transferDuty":    fees.FormatAmount(q.TransferDuty),
			"deedsOfficeFee":  fees.FormatAmount(q.DeedsOfficeFee),
			"conveyancingFee": fees.FormatAmount(q.ConveyancingFee),
			"vat":             fees.FormatAmount(q.VAT),
			"total":           fees.FormatAmount(q.Total),
		},
	})
}
