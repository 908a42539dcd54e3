package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore keeps NUMERIC columns as text on the wire so no precision is
// lost between decimal.Decimal and the database.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{Pool: pool}, nil
}

func (s *PostgresStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

const accountColumns = `id, name, balance::text, bank::text, level, luck, collect_daily, dailies_collected, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		a             Account
		balance, bank string
	)
	if err := row.Scan(&a.ID, &a.Name, &balance, &bank, &a.Level, &a.Luck, &a.CollectDaily,
		&a.DailiesCollected, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	if a.Bank, err = decimal.NewFromString(bank); err != nil {
		return nil, err
	}
	return &a, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) EnsureAccount(ctx context.Context, id, name string, initial decimal.Decimal) (*Account, error) {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO accounts (id, name, balance, bank, level, luck, collect_daily)
		VALUES ($1, $2, $3::numeric, 0, 1, 1, to_timestamp(0))
		ON CONFLICT (id) DO NOTHING
	`, id, name, initial.String())
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, id)
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*Account, error) {
	return scanAccount(s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *PostgresStore) Update(ctx context.Context, m Mutation, ids []string, fn func([]*Account) error) ([]*Account, error) {
	if err := checkIDs(ids); err != nil {
		return nil, err
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Row locks are taken in id order so two-account updates cannot deadlock.
	rows, err := tx.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	locked := map[string]*Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		locked[a.ID] = a
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	before := make([]*Account, len(ids))
	for i, id := range ids {
		a, ok := locked[id]
		if !ok {
			return nil, ErrNotFound
		}
		before[i] = a
	}

	after, entries, err := commit(m, before, fn, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	batch := &pgx.Batch{}
	for _, a := range after {
		batch.Queue(`
			UPDATE accounts
			SET name = $2, balance = $3::numeric, bank = $4::numeric, level = $5, luck = $6,
			    collect_daily = $7, dailies_collected = $8, version = $9, updated_at = $10
			WHERE id = $1
		`, a.ID, a.Name, a.Balance.String(), a.Bank.String(), a.Level, a.Luck,
			a.CollectDaily, a.DailiesCollected, a.Version, a.UpdatedAt)
	}
	queueEntries(batch, entries)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return after, nil
}

func queueEntries(batch *pgx.Batch, entries []LedgerEntry) {
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO ledger_entries (id, account_id, type, field, amount, ref_type, ref_id, created_at)
			VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
		`, e.ID, e.AccountID, e.Type, e.Field, e.Amount.String(), e.RefType, e.RefID, e.CreatedAt)
	}
}

func (s *PostgresStore) ListLedgerEntries(ctx context.Context, accountID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, account_id, type, field, amount::text, ref_type, ref_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var (
			e      LedgerEntry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Field, &amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, (balance + bank)::text AS worth
		FROM accounts
		ORDER BY balance + bank DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var (
			e     LeaderboardEntry
			worth string
		)
		if err := rows.Scan(&e.AccountID, &e.Name, &worth); err != nil {
			return nil, err
		}
		if e.Worth, err = decimal.NewFromString(worth); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ApplyInterest(ctx context.Context, rate decimal.Decimal) (int64, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		WITH old AS (
			SELECT id, bank FROM accounts WHERE bank > 0 ORDER BY id FOR UPDATE
		)
		UPDATE accounts a
		SET bank = round(a.bank * $1::numeric, 8), version = a.version + 1, updated_at = now()
		FROM old
		WHERE a.id = old.id
		RETURNING a.id, (a.bank - old.bank)::text
	`, rate.String())
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	m := Mutation{Type: "interest"}
	var entries []LedgerEntry
	var n int64
	for rows.Next() {
		var id, delta string
		if err := rows.Scan(&id, &delta); err != nil {
			rows.Close()
			return 0, err
		}
		n++
		d, err := decimal.NewFromString(delta)
		if err != nil {
			rows.Close()
			return 0, err
		}
		if !d.IsZero() {
			entries = append(entries, newEntry(m, id, FieldBank, d, now))
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(entries) > 0 {
		batch := &pgx.Batch{}
		queueEntries(batch, entries)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	if err := s.Pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&v); err != nil {
		return "", mapNotFound(err)
	}
	return v, nil
}

func (s *PostgresStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}
