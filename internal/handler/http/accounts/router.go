package accounts_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
)

func RegisterRoutes(r chi.Router, l *ledger.Ledger, logger *zap.Logger) {
	handler := NewAccountHandler(l, logger.With(zap.String("component", "AccountHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", handler.CreateAccount)
		r.Get("/", handler.ListAccounts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetAccount)
			r.Get("/summary", handler.GetSummary)
			r.Post("/deposit", handler.Deposit)
			r.Post("/withdraw", handler.Withdraw)
		})
	})

	r.Post("/transfers", handler.Transfer)
}
