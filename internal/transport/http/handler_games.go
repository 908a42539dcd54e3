package httptransport

import (
	"encoding/json"
	"net/http"

	"creditjack/internal/app/arcade"
	"creditjack/internal/app/table"

	"github.com/go-chi/chi/v5"
)

type GameHandlers struct {
	arcade *arcade.Service
	tables *table.Coordinator
}

func NewGameHandlers(arc *arcade.Service, tables *table.Coordinator) *GameHandlers {
	return &GameHandlers{arcade: arc, tables: tables}
}

func (h *GameHandlers) CoinFlip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body arcade.CoinFlipRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricBetsTotal.Add(1)
		resp, err := h.arcade.CoinFlip(r.Context(), body)
		if err != nil {
			metricBetErrorsTotal.Add(1)
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *GameHandlers) Guess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body arcade.GuessRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricBetsTotal.Add(1)
		resp, err := h.arcade.Guess(r.Context(), body)
		if err != nil {
			metricBetErrorsTotal.Add(1)
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *GameHandlers) StartBlackjack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body table.StartRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricBetsTotal.Add(1)
		resp, err := h.tables.Start(r.Context(), body)
		if err != nil {
			metricBetErrorsTotal.Add(1)
			writeServiceError(w, r, err)
			return
		}
		metricTablesStarted.Add(1)
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (h *GameHandlers) GetBlackjack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.tables.Get(chi.URLParam(r, "table_id"), r.URL.Query().Get("account_id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *GameHandlers) ActBlackjack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body table.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		metricTableActions.Add(1)
		resp, err := h.tables.Act(r.Context(), chi.URLParam(r, "table_id"), body)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
