package viewmodel

import (
	"time"

	"creditjack/internal/game"
)

type HandView struct {
	Cards string `json:"cards"`
	Value *int   `json:"value,omitempty"`
}

type TableView struct {
	TableID         string   `json:"table_id"`
	AccountID       string   `json:"account_id"`
	State           string   `json:"state"`
	Outcome         string   `json:"outcome"`
	Message         string   `json:"message,omitempty"`
	Bet             string   `json:"bet"`
	Payout          string   `json:"payout,omitempty"`
	Player          HandView `json:"player"`
	Dealer          HandView `json:"dealer"`
	DeckRemaining   int      `json:"deck_remaining"`
	ActionTimeoutMS int64    `json:"action_timeout_ms"`
}

// BuildTableView renders a round for its player. The dealer total stays
// hidden while the hole cards are covered.
func BuildTableView(tableID string, r *game.Round, bet, payout string, timeout time.Duration) TableView {
	playerValue := r.PlayerValue()
	view := TableView{
		TableID:       tableID,
		AccountID:     r.Player().ID,
		State:         r.State().String(),
		Outcome:       r.Outcome().String(),
		Message:       r.Message(),
		Bet:           bet,
		Payout:        payout,
		Player:        HandView{Cards: r.PlayerCards(), Value: &playerValue},
		Dealer:        HandView{Cards: r.DealerCards()},
		DeckRemaining: r.Session().Remaining(),
	}
	if r.Resolved() {
		dealerValue := r.DealerValue()
		view.Dealer.Value = &dealerValue
	} else {
		view.ActionTimeoutMS = timeout.Milliseconds()
	}
	return view
}
