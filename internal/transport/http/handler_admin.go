package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"creditjack/internal/app/account"
	"creditjack/internal/store"

	"github.com/shopspring/decimal"
)

type AdminHandlers struct {
	store    store.Store
	accounts *account.Service
}

func NewAdminHandlers(st store.Store, accounts *account.Service) *AdminHandlers {
	return &AdminHandlers{store: st, accounts: accounts}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "store": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "store": "up"})
	}
}

// ApplyInterest runs the interest job. Without a rate in the body a random
// daily rate is drawn.
func (h *AdminHandlers) ApplyInterest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Rate string `json:"rate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		var (
			resp *account.ApplyInterestResponse
			err  error
		)
		if body.Rate == "" {
			resp, err = h.accounts.ApplyDailyInterest(r.Context())
		} else {
			rate, perr := decimal.NewFromString(body.Rate)
			if perr != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_rate")
				return
			}
			resp, err = h.accounts.ApplyInterest(r.Context(), rate)
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		metricInterestApplied.Add(1)
		writeJSON(w, http.StatusOK, resp)
	}
}
