package accounts_http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
	"github.com/sheikh-saqib/bank-ledger/internal/storage/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, ledger.NewLedger(memory.NewMemoryAccountStore()), zap.NewNop())
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// doJSON sends body as JSON, checks the status and decodes the answer into out.
func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantCode, resp.StatusCode, "%s %s", method, path)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "got %s want %s", got, want)
}

func TestAccountFlow(t *testing.T) {
	ts := newServer(t)

	var alice, charlie, bob models.Account
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": "Alice Wonderland", "initial_deposit": 1000}, http.StatusCreated, &alice)
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": "Charlie Chaplin", "initial_deposit": "0"}, http.StatusCreated, &charlie)
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": "Bob Builder", "initial_deposit": 500}, http.StatusCreated, &bob)
	assert.Equal(t, []int64{1, 2, 3}, []int64{alice.ID, charlie.ID, bob.ID})

	var failed errorResponse
	doJSON(t, ts, http.MethodPost, "/transfers", map[string]any{"from_account": 1, "to_account": 2, "amount": 1500}, http.StatusConflict, &failed)
	assert.Contains(t, failed.Error, "insufficient funds")

	var tr TransferResponse
	doJSON(t, ts, http.MethodPost, "/transfers", map[string]any{"from_account": 3, "to_account": 2, "amount": 200}, http.StatusOK, &tr)
	assertDecimal(t, "300", tr.From.Balance)
	assertDecimal(t, "200", tr.To.Balance)

	var got models.Account
	doJSON(t, ts, http.MethodPost, "/accounts/1/deposit", map[string]any{"amount": "0.10"}, http.StatusOK, &got)
	assertDecimal(t, "1000.1", got.Balance)
	doJSON(t, ts, http.MethodPost, "/accounts/1/withdraw", map[string]any{"amount": "0.10"}, http.StatusOK, &got)
	assertDecimal(t, "1000", got.Balance)

	doJSON(t, ts, http.MethodGet, "/accounts/2", nil, http.StatusOK, &got)
	assert.Equal(t, "Charlie Chaplin", got.Name)
	assertDecimal(t, "200", got.Balance)

	var list []models.Account
	doJSON(t, ts, http.MethodGet, "/accounts", nil, http.StatusOK, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "Bob Builder", list[2].Name)
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newServer(t)
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": "Bob Builder", "initial_deposit": 300}, http.StatusCreated, nil)

	resp, err := ts.Client().Get(ts.URL + "/accounts/1/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account Number: 1\nAccount Name: Bob Builder\nBalance: $300.00", string(body))
}

func TestErrorMapping(t *testing.T) {
	ts := newServer(t)
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": "A", "initial_deposit": 10}, http.StatusCreated, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"negative initial deposit", http.MethodPost, "/accounts", map[string]any{"name": "John Doe", "initial_deposit": -500}, http.StatusBadRequest},
		{"negative deposit", http.MethodPost, "/accounts/1/deposit", map[string]any{"amount": -1}, http.StatusBadRequest},
		{"overdraw", http.MethodPost, "/accounts/1/withdraw", map[string]any{"amount": 11}, http.StatusConflict},
		{"unknown account", http.MethodGet, "/accounts/9", nil, http.StatusNotFound},
		{"unknown summary", http.MethodGet, "/accounts/9/summary", nil, http.StatusNotFound},
		{"deposit to unknown account", http.MethodPost, "/accounts/9/deposit", map[string]any{"amount": 1}, http.StatusNotFound},
		{"transfer from unknown account", http.MethodPost, "/transfers", map[string]any{"from_account": 9, "to_account": 1, "amount": 1}, http.StatusNotFound},
		{"negative transfer", http.MethodPost, "/transfers", map[string]any{"from_account": 1, "to_account": 1, "amount": -1}, http.StatusBadRequest},
		{"bad account number", http.MethodGet, "/accounts/abc", nil, http.StatusBadRequest},
		{"bad amount", http.MethodPost, "/accounts/1/deposit", map[string]any{"amount": "ten"}, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/transfers", nil, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doJSON(t, ts, tt.method, tt.path, tt.body, tt.want, nil)
		})
	}

	var acc models.Account
	doJSON(t, ts, http.MethodGet, "/accounts/1", nil, http.StatusOK, &acc)
	assertDecimal(t, "10", acc.Balance)
}

func TestMalformedBody(t *testing.T) {
	ts := newServer(t)

	resp, err := ts.Client().Post(ts.URL+"/accounts", "application/json", bytes.NewBufferString("{bad json}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOversizedBodyRejected(t *testing.T) {
	ts := newServer(t)

	name := strings.Repeat("x", maxBodyBytes)
	doJSON(t, ts, http.MethodPost, "/accounts", map[string]any{"name": name, "initial_deposit": 1}, http.StatusBadRequest, nil)

	var list []models.Account
	doJSON(t, ts, http.MethodGet, "/accounts", nil, http.StatusOK, &list)
	assert.Empty(t, list)
}

func TestHealth(t *testing.T) {
	ts := newServer(t)

	var body map[string]string
	doJSON(t, ts, http.MethodGet, "/health", nil, http.StatusOK, &body)
	assert.Equal(t, "ok", body["status"])
}
