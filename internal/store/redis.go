package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	accountKeyPrefix = "account:"
	ledgerKeyPrefix  = "ledger:"
	worthKey         = "accounts:worth"
	settingsKey      = "settings"

	ledgerCap       = 1000
	maxWatchRetries = 8
)

// RedisStore keeps each account as a JSON document and guards updates with
// WATCH/MULTI. A sorted set mirrors balance+bank for the leaderboard.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func accountKey(id string) string { return accountKeyPrefix + id }
func ledgerKey(id string) string  { return ledgerKeyPrefix + id }

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() {
	_ = s.client.Close()
}

// EnsureAccount writes the account document and its leaderboard entry in one
// MULTI. An existing account whose leaderboard entry went missing is re-added
// with its current worth.
func (s *RedisStore) EnsureAccount(ctx context.Context, id, name string, initial decimal.Decimal) (*Account, error) {
	key := accountKey(id)
	var out *Account
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			a := NewAccount(id, name, initial, time.Now().UTC())
			raw, err := json.Marshal(a)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, raw, 0)
				pipe.ZAdd(ctx, worthKey, redis.Z{Score: a.Worth().InexactFloat64(), Member: id})
				return nil
			})
			if err == nil {
				out = a
			}
			return err
		case err != nil:
			return err
		}
		var a Account
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		if err := tx.ZAddNX(ctx, worthKey, redis.Z{Score: a.Worth().InexactFloat64(), Member: id}).Err(); err != nil {
			return err
		}
		out = &a
		return nil
	}
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (s *RedisStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var a Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *RedisStore) Update(ctx context.Context, m Mutation, ids []string, fn func([]*Account) error) ([]*Account, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(id)
	}
	var out []*Account
	txf := func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		before := make([]*Account, len(ids))
		for i, v := range vals {
			raw, ok := v.(string)
			if !ok {
				return ErrNotFound
			}
			var a Account
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				return err
			}
			before[i] = &a
		}
		after, entries, err := commit(m, before, fn, time.Now().UTC())
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, a := range after {
				data, err := json.Marshal(a)
				if err != nil {
					return err
				}
				pipe.Set(ctx, accountKey(a.ID), data, 0)
				pipe.ZAdd(ctx, worthKey, redis.Z{Score: a.Worth().InexactFloat64(), Member: a.ID})
			}
			for _, e := range entries {
				data, err := json.Marshal(e)
				if err != nil {
					return err
				}
				pipe.LPush(ctx, ledgerKey(e.AccountID), data)
				pipe.LTrim(ctx, ledgerKey(e.AccountID), 0, ledgerCap-1)
			}
			return nil
		})
		if err == nil {
			out = after
		}
		return err
	}
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, keys...)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (s *RedisStore) ListLedgerEntries(ctx context.Context, accountID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	raws, err := s.client.LRange(ctx, ledgerKey(accountID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntry, 0, len(raws))
	for _, raw := range raws {
		var e LedgerEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Leaderboard takes the order from the sorted set and the exact worth from
// the account documents.
func (s *RedisStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := s.client.ZRevRange(ctx, worthKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	accts := make([]*Account, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetAccount(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		accts = append(accts, a)
	}
	return rank(accts, limit), nil
}

// ApplyInterest updates accounts one at a time; each update is atomic on its
// own.
func (s *RedisStore) ApplyInterest(ctx context.Context, rate decimal.Decimal) (int64, error) {
	ids, err := s.client.ZRange(ctx, worthKey, 0, -1).Result()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		applied := false
		_, err := s.Update(ctx, Mutation{Type: "interest"}, []string{id}, func(accts []*Account) error {
			if !accts[0].Bank.IsPositive() {
				return nil
			}
			applied = true
			return interestFn(rate)(accts)
		})
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, err
		}
		if applied {
			n++
		}
	}
	return n, nil
}

func (s *RedisStore) GetSetting(ctx context.Context, key string) (string, error) {
	v, err := s.client.HGet(ctx, settingsKey, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetSetting(ctx context.Context, key, value string) error {
	return s.client.HSet(ctx, settingsKey, key, value).Err()
}
