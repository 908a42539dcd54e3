package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"creditjack/internal/app/account"

	"github.com/go-chi/chi/v5"
)

const ledgerMaxLimit = 500

type AccountHandlers struct {
	svc *account.Service
}

func NewAccountHandlers(svc *account.Service) *AccountHandlers {
	return &AccountHandlers{svc: svc}
}

func (h *AccountHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Balance(r.Context(), chi.URLParam(r, "account_id"), r.URL.Query().Get("name"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Ledger(r.Context(), chi.URLParam(r, "account_id"), ParseLimit(r, ledgerMaxLimit))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Bank() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name   string `json:"name"`
			Mode   string `json:"mode"`
			Amount string `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Bank(r.Context(), chi.URLParam(r, "account_id"), body.Name, body.Mode, body.Amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Transfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body account.TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricTransfersTotal.Add(1)
		resp, err := h.svc.Transfer(r.Context(), body)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Daily() http.HandlerFunc {
	return h.reward(h.svc.Daily)
}

func (h *AccountHandlers) Weekly() http.HandlerFunc {
	return h.reward(h.svc.Weekly)
}

func (h *AccountHandlers) Search() http.HandlerFunc {
	return h.reward(h.svc.Search)
}

type rewardFunc func(ctx context.Context, id, name string) (*account.RewardResponse, error)

func (h *AccountHandlers) reward(fn rewardFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r.Context(), chi.URLParam(r, "account_id"), r.URL.Query().Get("name"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Leaderboard(r.Context(), ParseLimit(r, 100))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AccountHandlers) Interest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Interest(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
