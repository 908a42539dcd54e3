package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps everything in process. One mutex serializes all writes.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	ledger   map[string][]LedgerEntry
	settings map[string]string
	now      func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		accounts: map[string]*Account{},
		ledger:   map[string][]LedgerEntry{},
		settings: map[string]string{},
		now:      time.Now,
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close()                     {}

func (s *MemoryStore) EnsureAccount(_ context.Context, id, name string, initial decimal.Decimal) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		a = NewAccount(id, name, initial, s.now().UTC())
		s.accounts[id] = a
	}
	return a.Clone(), nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, m Mutation, ids []string, fn func([]*Account) error) ([]*Account, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := make([]*Account, len(ids))
	for i, id := range ids {
		a, ok := s.accounts[id]
		if !ok {
			return nil, ErrNotFound
		}
		before[i] = a
	}
	after, entries, err := commit(m, before, fn, s.now().UTC())
	if err != nil {
		return nil, err
	}
	out := make([]*Account, len(after))
	for i, a := range after {
		s.accounts[a.ID] = a
		out[i] = a.Clone()
	}
	for _, e := range entries {
		s.ledger[e.AccountID] = append(s.ledger[e.AccountID], e)
	}
	return out, nil
}

func (s *MemoryStore) ListLedgerEntries(_ context.Context, accountID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.ledger[accountID]
	out := make([]LedgerEntry, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	accts := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accts = append(accts, a)
	}
	s.mu.Unlock()
	sort.Slice(accts, func(i, j int) bool {
		wi, wj := accts[i].Worth(), accts[j].Worth()
		if !wi.Equal(wj) {
			return wi.GreaterThan(wj)
		}
		return accts[i].ID < accts[j].ID
	})
	return rank(accts, limit), nil
}

func rank(sorted []*Account, limit int) []LeaderboardEntry {
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]LeaderboardEntry, 0, len(sorted))
	for i, a := range sorted {
		out = append(out, LeaderboardEntry{Rank: i + 1, AccountID: a.ID, Name: a.Name, Worth: a.Worth()})
	}
	return out
}

func (s *MemoryStore) ApplyInterest(ctx context.Context, rate decimal.Decimal) (int64, error) {
	s.mu.Lock()
	var ids []string
	for id, a := range s.accounts {
		if a.Bank.IsPositive() {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()
	if len(ids) == 0 {
		return 0, nil
	}
	sort.Strings(ids)
	if _, err := s.Update(ctx, Mutation{Type: "interest"}, ids, interestFn(rate)); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}
