package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Balance          decimal.Decimal `json:"balance"`
	Bank             decimal.Decimal `json:"bank"`
	Level            float64         `json:"level"`
	Luck             float64         `json:"luck"`
	CollectDaily     time.Time       `json:"collect_daily"`
	DailiesCollected int             `json:"dailies_collected"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewAccount is the default account for a first-time player.
func NewAccount(id, name string, initial decimal.Decimal, now time.Time) *Account {
	return &Account{
		ID:           id,
		Name:         name,
		Balance:      initial,
		Bank:         decimal.Zero,
		Level:        1,
		Luck:         1,
		CollectDaily: time.Unix(0, 0).UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Worth is what the leaderboard ranks by.
func (a *Account) Worth() decimal.Decimal {
	return a.Balance.Add(a.Bank)
}

func (a *Account) Clone() *Account {
	c := *a
	return &c
}

const (
	FieldBalance = "balance"
	FieldBank    = "bank"
)

// LedgerEntry records one signed change to one field of one account.
type LedgerEntry struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Type      string          `json:"type"`
	Field     string          `json:"field"`
	Amount    decimal.Decimal `json:"amount"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     string          `json:"ref_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank      int             `json:"rank"`
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Worth     decimal.Decimal `json:"worth"`
}

// Mutation labels the ledger entries written by one Update.
type Mutation struct {
	Type    string
	RefType string
	RefID   string
}
