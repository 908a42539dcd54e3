package httptransport

import (
	"errors"
	"net/http"

	"creditjack/internal/app/account"
	"creditjack/internal/app/arcade"
	"creditjack/internal/app/table"
	"creditjack/internal/credit"
	"creditjack/internal/game"
	"creditjack/internal/ledger"
	"creditjack/internal/store"

	"github.com/rs/zerolog/log"
)

// writeServiceError maps service and domain errors onto status codes.
// Amount failures carry the validator's message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *credit.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		code := "invalid_amount"
		if verr.Result == credit.InsufficientFunds {
			status = http.StatusUnprocessableEntity
			code = "insufficient_funds"
		}
		WriteHTTPErrorMessage(w, status, code, verr.Error())
		return
	}
	switch {
	case errors.Is(err, account.ErrInvalidRequest),
		errors.Is(err, arcade.ErrInvalidRequest),
		errors.Is(err, table.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, account.ErrMissingParameter):
		WriteHTTPErrorMessage(w, http.StatusBadRequest, "missing_parameter", "missing one of two parameters")
	case errors.Is(err, ledger.ErrUnknownBankOperation):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_operation")
	case errors.Is(err, ledger.ErrSelfTransfer):
		WriteHTTPError(w, http.StatusBadRequest, "self_transfer")
	case errors.Is(err, arcade.ErrInvalidChoice), errors.Is(err, game.ErrInvalidGuess):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_choice")
	case errors.Is(err, table.ErrInvalidAction), errors.Is(err, game.ErrUnknownAction):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_action")
	case errors.Is(err, credit.ErrInsufficientFunds):
		WriteHTTPError(w, http.StatusUnprocessableEntity, "insufficient_funds")
	case errors.Is(err, credit.ErrInvalidAmount):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, account.ErrDailyNotReady):
		WriteHTTPError(w, http.StatusTooManyRequests, "daily_not_ready")
	case errors.Is(err, account.ErrWeeklyNotReady):
		WriteHTTPError(w, http.StatusConflict, "weekly_not_ready")
	case errors.Is(err, table.ErrTableOpen):
		WriteHTTPError(w, http.StatusConflict, "table_already_open")
	case errors.Is(err, table.ErrTableClosed), errors.Is(err, game.ErrRoundResolved):
		WriteHTTPError(w, http.StatusConflict, "table_closed")
	case errors.Is(err, table.ErrNotYourTable):
		WriteHTTPError(w, http.StatusForbidden, "not_your_table")
	case errors.Is(err, table.ErrTableNotFound):
		WriteHTTPError(w, http.StatusNotFound, "table_not_found")
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrConflict):
		WriteHTTPError(w, http.StatusConflict, "conflict")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
