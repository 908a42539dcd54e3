package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"creditjack/internal/app/account"
	"creditjack/internal/app/arcade"
	"creditjack/internal/app/table"
	"creditjack/internal/config"
	"creditjack/internal/ledger"
	"creditjack/internal/store"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	st := store.NewMemory()
	led := ledger.New(st)
	games := config.DefaultGames()
	accounts := account.NewService(st, led, games)
	return NewRouter(st, config.ServerConfig{AdminAPIKey: "admin-key"}, Services{
		Accounts: accounts,
		Arcade:   arcade.NewService(accounts, led),
		Tables:   table.NewCoordinator(accounts, led, games),
	})
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected /healthz 200, got %d", w.Code)
	}
}

func TestAccountAndBankEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/accounts/u1?name=alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var view account.AccountView
	decode(t, w, &view)
	if view.Balance != "1000" || view.Name != "alice" {
		t.Fatalf("unexpected new account: %+v", view)
	}

	w = do(t, router, http.MethodPost, "/api/accounts/u1/bank", `{"mode":"deposit","amount":"all"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("deposit: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var bank account.BankResponse
	decode(t, w, &bank)
	if bank.Account.Balance != "0" || bank.Account.Bank != "1000" {
		t.Fatalf("deposit all should move everything, got %+v", bank.Account)
	}

	w = do(t, router, http.MethodPost, "/api/accounts/u1/bank", `{"mode":"withdraw"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "missing_parameter") {
		t.Fatalf("expected missing_parameter 400, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/api/accounts/u1/bank", `{"mode":"withdraw","amount":"5k"}`)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "Insufficient funds for transaction") {
		t.Fatalf("expected insufficient funds, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/accounts/u1/ledger?limit=5", "")
	var entries account.LedgerResponse
	decode(t, w, &entries)
	if len(entries.Items) != 2 {
		t.Fatalf("deposit should write balance and bank entries, got %d", len(entries.Items))
	}
}

func TestTransferEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/transfers", `{"from_id":"u1","to_id":"u2","amount":"25%"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp account.TransferResponse
	decode(t, w, &resp)
	if resp.Amount != "250" || resp.From.Balance != "750" || resp.To.Balance != "1250" {
		t.Fatalf("unexpected transfer: %+v", resp)
	}

	w = do(t, router, http.MethodPost, "/api/transfers", `{"from_id":"u1","to_id":"u1","amount":"1"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "self_transfer") {
		t.Fatalf("expected self_transfer, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/leaderboard", "")
	var board account.LeaderboardResponse
	decode(t, w, &board)
	if len(board.Items) != 2 || board.Items[0].AccountID != "u2" {
		t.Fatalf("u2 should lead, got %+v", board.Items)
	}
}

func TestRewardEndpoints(t *testing.T) {
	router := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/accounts/u1/daily", "")
	if w.Code != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/api/accounts/u1/daily", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second daily: expected 429, got %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/accounts/u1/weekly", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("weekly: expected 409, got %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/accounts/u1/search", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", w.Code)
	}
}

func TestGameEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/games/coinflip", `{"account_id":"u1","bet":"2k","choice":"heads"}`)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), "insufficient_funds") {
		t.Fatalf("expected insufficient_funds, got %d body=%s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/api/games/coinflip", `{"account_id":"u1","bet":"10","choice":"edge"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected invalid choice 400, got %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/games/guess", `{"account_id":"u1","bet":"10","guess":"odd"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("guess: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/api/games/blackjack", `{"account_id":"u2","bet":"10"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("blackjack: expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var tbl struct {
		TableID string `json:"table_id"`
		State   string `json:"state"`
	}
	decode(t, w, &tbl)
	w = do(t, router, http.MethodGet, "/api/games/blackjack/"+tbl.TableID+"?account_id=u2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get table: expected 200, got %d", w.Code)
	}
	if tbl.State == "player_turn" {
		w = do(t, router, http.MethodPost, "/api/games/blackjack/"+tbl.TableID+"/actions", `{"account_id":"u3","action":"stand"}`)
		if w.Code != http.StatusForbidden {
			t.Fatalf("foreign action: expected 403, got %d", w.Code)
		}
		w = do(t, router, http.MethodPost, "/api/games/blackjack/"+tbl.TableID+"/actions", `{"action":"stand"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("action without account: expected 400, got %d", w.Code)
		}
		w = do(t, router, http.MethodPost, "/api/games/blackjack/"+tbl.TableID+"/actions", `{"account_id":"u2","action":"stand"}`)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"state":"resolved"`) {
			t.Fatalf("stand: expected resolved table, got %d body=%s", w.Code, w.Body.String())
		}
	}
	w = do(t, router, http.MethodGet, "/api/games/blackjack/tbl_missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAdminInterest(t *testing.T) {
	router := newTestRouter(t)
	do(t, router, http.MethodPost, "/api/accounts/u1/bank", `{"mode":"deposit","amount":"100"}`)

	w := do(t, router, http.MethodPost, "/api/admin/interest", `{"rate":"1.5"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}
	w = do(t, router, http.MethodPost, "/api/admin/interest", `{"rate":"1.5"}`, "X-Admin-Key", "admin-key")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/interest", "")
	var rate account.InterestResponse
	decode(t, w, &rate)
	if rate.Display != "50.00%" {
		t.Fatalf("expected 50.00%%, got %+v", rate)
	}
	w = do(t, router, http.MethodGet, "/api/accounts/u1", "")
	var view account.AccountView
	decode(t, w, &view)
	if view.Bank != "150" {
		t.Fatalf("expected bank 150 after interest, got %s", view.Bank)
	}

	w = do(t, router, http.MethodPost, "/api/admin/interest", `{"rate":"0.5"}`, "X-Admin-Key", "admin-key")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("rate below 1 should be rejected, got %d", w.Code)
	}
}
