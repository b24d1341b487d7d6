package accounts_http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

type AccountHandler struct {
	ledger *ledger.Ledger
	logger *zap.Logger
}

func NewAccountHandler(l *ledger.Ledger, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{ledger: l, logger: logger}
}

type CreateAccountRequest struct {
	Name           string          `json:"name"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccount int64           `json:"from_account"`
	ToAccount   int64           `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	From models.Account `json:"from"`
	To   models.Account `json:"to"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.ledger.CreateAccount(req.Name, req.InitialDeposit)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	account, err := h.ledger.FindAccount(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.logger.Info("account created", zap.Int64("account_id", id))
	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Accounts())
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	account, err := h.ledger.FindAccount(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	summary, err := h.ledger.Summary(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(summary))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.changeBalance(w, r, h.ledger.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.changeBalance(w, r, h.ledger.Withdraw)
}

// changeBalance runs a single-account operation and answers with the
// account as it is afterwards.
func (h *AccountHandler) changeBalance(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64, amount decimal.Decimal) error) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req AmountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := op(r.Context(), id, req.Amount); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	account, err := h.ledger.FindAccount(id)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.ledger.Transfer(r.Context(), req.FromAccount, req.ToAccount, req.Amount); err != nil {
		h.writeLedgerError(w, err)
		return
	}

	from, err := h.ledger.FindAccount(req.FromAccount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	to, err := h.ledger.FindAccount(req.ToAccount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.logger.Info("transfer completed",
		zap.Int64("from_account", req.FromAccount),
		zap.Int64("to_account", req.ToAccount),
		zap.String("amount", req.Amount.String()),
	)
	writeJSON(w, http.StatusOK, TransferResponse{From: from, To: to})
}

func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeLedgerError maps ledger errors onto HTTP statuses. Anything that is
// not a rejected precondition is reported as an internal error.
func (h *AccountHandler) writeLedgerError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNegativeAmount):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("ledger operation failed", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	h.logger.Debug("ledger operation rejected", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid account number %q", raw)})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
