// routes.go — таблица маршрутов API casedesk.
package handlers

import "github.com/go-chi/chi/v5"

// Mount регистрирует все маршруты API на роутере r.
func Mount(r chi.Router, h *APIHandler) {
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Get("/metrics", h.GetMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", h.GetMe)
		r.Get("/calculator/transfer-cost", h.GetTransferCost)

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", h.ListCases)
			r.Post("/", h.CreateCase)
			r.Get("/mine", h.ListMyCases)

			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", h.GetCase)
				r.Put("/", h.ReplaceCase)
				r.Delete("/", h.DeleteCase)
				r.Post("/toggle-active", h.ToggleCaseActive)
				r.Get("/report", h.GetCaseReport)

				r.Route("/messages", func(r chi.Router) {
					r.Get("/", h.ListMessages)
					r.Post("/", h.AppendMessage)
					r.Get("/unread-count", h.UnreadCount)
					r.Post("/read", h.MarkRead)
					r.Delete("/{messageID}", h.DeleteMessage)
				})
			})
		})
	})
}
