package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrNegativeBalance = errors.New("negative_balance")
	ErrDuplicateID     = errors.New("duplicate_account_id")
)

const (
	SettingInterestRate = "interest_rate"

	defaultLedgerLimit = 50
)

// Store persists accounts. Update is the only way to change balances: it
// loads the named accounts under a per-account write lock, lets fn mutate
// copies, and commits the copies together with one ledger entry per changed
// field. If fn fails nothing is written.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	EnsureAccount(ctx context.Context, id, name string, initial decimal.Decimal) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, m Mutation, ids []string, fn func([]*Account) error) ([]*Account, error)

	ListLedgerEntries(ctx context.Context, accountID string, limit int) ([]LedgerEntry, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// ApplyInterest multiplies every positive bank by rate and returns how
	// many accounts changed.
	ApplyInterest(ctx context.Context, rate decimal.Decimal) (int64, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// commit runs fn on copies of before and returns the new snapshots with the
// ledger entries describing the difference.
func commit(m Mutation, before []*Account, fn func([]*Account) error, now time.Time) ([]*Account, []LedgerEntry, error) {
	after := make([]*Account, len(before))
	for i, a := range before {
		after[i] = a.Clone()
	}
	if err := fn(after); err != nil {
		return nil, nil, err
	}
	var entries []LedgerEntry
	for i, a := range after {
		prev := before[i]
		if a.ID != prev.ID {
			return nil, nil, fmt.Errorf("account id changed from %s to %s", prev.ID, a.ID)
		}
		if a.Balance.IsNegative() || a.Bank.IsNegative() {
			return nil, nil, ErrNegativeBalance
		}
		if d := a.Balance.Sub(prev.Balance); !d.IsZero() {
			entries = append(entries, newEntry(m, a.ID, FieldBalance, d, now))
		}
		if d := a.Bank.Sub(prev.Bank); !d.IsZero() {
			entries = append(entries, newEntry(m, a.ID, FieldBank, d, now))
		}
		a.Version = prev.Version + 1
		a.UpdatedAt = now
	}
	return after, entries, nil
}

func newEntry(m Mutation, accountID, field string, amount decimal.Decimal, now time.Time) LedgerEntry {
	return LedgerEntry{
		ID:        NewID(),
		AccountID: accountID,
		Type:      m.Type,
		Field:     field,
		Amount:    amount,
		RefType:   m.RefType,
		RefID:     m.RefID,
		CreatedAt: now,
	}
}

func checkIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrNotFound
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return ErrDuplicateID
		}
		seen[id] = struct{}{}
	}
	return nil
}

func interestFn(rate decimal.Decimal) func([]*Account) error {
	return func(accts []*Account) error {
		for _, a := range accts {
			a.Bank = a.Bank.Mul(rate).Round(8)
		}
		return nil
	}
}
