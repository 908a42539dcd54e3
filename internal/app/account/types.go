package account

import (
	"time"

	"creditjack/internal/store"
)

type AccountView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Balance          string    `json:"balance"`
	Bank             string    `json:"bank"`
	BalanceDisplay   string    `json:"balance_display"`
	BankDisplay      string    `json:"bank_display"`
	Level            float64   `json:"level"`
	Luck             float64   `json:"luck"`
	DailiesCollected int       `json:"dailies_collected"`
	NextDailyAt      time.Time `json:"next_daily_at"`
}

type BankResponse struct {
	Operation string      `json:"operation"`
	Amount    string      `json:"amount"`
	Account   AccountView `json:"account"`
}

type TransferRequest struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   string `json:"amount"`
}

type TransferResponse struct {
	Amount        string      `json:"amount"`
	AmountDisplay string      `json:"amount_display"`
	From          AccountView `json:"from"`
	To            AccountView `json:"to"`
}

type RewardResponse struct {
	Kind          string      `json:"kind"`
	Amount        string      `json:"amount"`
	AmountDisplay string      `json:"amount_display"`
	Message       string      `json:"message"`
	Account       AccountView `json:"account"`
}

type LedgerResponse struct {
	Items []store.LedgerEntry `json:"items"`
}

type LeaderboardItem struct {
	Rank         int    `json:"rank"`
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	Worth        string `json:"worth"`
	WorthDisplay string `json:"worth_display"`
}

type LeaderboardResponse struct {
	Items []LeaderboardItem `json:"items"`
}

type InterestResponse struct {
	Rate    string `json:"rate"`
	Display string `json:"display"`
}

type ApplyInterestResponse struct {
	Rate     string `json:"rate"`
	Accounts int64  `json:"accounts"`
}
