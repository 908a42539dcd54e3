package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"creditjack/internal/store"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// runStoreContract checks the behaviour every backend must share.
func runStoreContract(t *testing.T, st store.Store) {
	ctx := context.Background()

	t.Run("ensure is idempotent", func(t *testing.T) {
		a, err := st.EnsureAccount(ctx, "alice", "Alice", d("1000"))
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if !a.Balance.Equal(d("1000")) || !a.Bank.IsZero() || a.Level != 1 || a.Luck != 1 {
			t.Fatalf("unexpected default account %+v", a)
		}
		again, err := st.EnsureAccount(ctx, "alice", "Other", d("5"))
		if err != nil {
			t.Fatalf("ensure again: %v", err)
		}
		if again.Name != "Alice" || !again.Balance.Equal(d("1000")) {
			t.Fatalf("second ensure must not reset account: %+v", again)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if _, err := st.GetAccount(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("update writes ledger", func(t *testing.T) {
		if _, err := st.EnsureAccount(ctx, "bob", "Bob", d("200")); err != nil {
			t.Fatalf("ensure: %v", err)
		}
		out, err := st.Update(ctx, store.Mutation{Type: "transfer", RefType: "transfer", RefID: "t1"}, []string{"alice", "bob"}, func(accts []*store.Account) error {
			accts[0].Balance = accts[0].Balance.Sub(d("150.5"))
			accts[1].Balance = accts[1].Balance.Add(d("150.5"))
			return nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if !out[0].Balance.Equal(d("849.5")) || !out[1].Balance.Equal(d("350.5")) {
			t.Fatalf("unexpected balances %s %s", out[0].Balance, out[1].Balance)
		}
		if out[0].Version != 1 {
			t.Fatalf("expected version 1, got %d", out[0].Version)
		}
		entries, err := st.ListLedgerEntries(ctx, "bob", 10)
		if err != nil {
			t.Fatalf("ledger: %v", err)
		}
		if len(entries) != 1 || !entries[0].Amount.Equal(d("150.5")) || entries[0].RefID != "t1" || entries[0].Field != store.FieldBalance {
			t.Fatalf("unexpected ledger %+v", entries)
		}
	})

	t.Run("failed update changes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := st.Update(ctx, store.Mutation{Type: "bet"}, []string{"alice"}, func(accts []*store.Account) error {
			accts[0].Balance = decimal.Zero
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		a, _ := st.GetAccount(ctx, "alice")
		if !a.Balance.Equal(d("849.5")) {
			t.Fatalf("balance changed after failed update: %s", a.Balance)
		}
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		_, err := st.Update(ctx, store.Mutation{Type: "bet"}, []string{"bob"}, func(accts []*store.Account) error {
			accts[0].Balance = accts[0].Balance.Sub(d("10000"))
			return nil
		})
		if !errors.Is(err, store.ErrNegativeBalance) {
			t.Fatalf("expected negative balance, got %v", err)
		}
	})

	t.Run("duplicate and missing ids", func(t *testing.T) {
		noop := func([]*store.Account) error { return nil }
		if _, err := st.Update(ctx, store.Mutation{}, []string{"alice", "alice"}, noop); !errors.Is(err, store.ErrDuplicateID) {
			t.Fatalf("expected duplicate id, got %v", err)
		}
		if _, err := st.Update(ctx, store.Mutation{}, []string{"alice", "ghost"}, noop); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("concurrent updates serialize", func(t *testing.T) {
		if _, err := st.EnsureAccount(ctx, "carol", "Carol", d("0")); err != nil {
			t.Fatalf("ensure: %v", err)
		}
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					_, err := st.Update(ctx, store.Mutation{Type: "grant"}, []string{"carol"}, func(accts []*store.Account) error {
						accts[0].Balance = accts[0].Balance.Add(d("1"))
						return nil
					})
					if errors.Is(err, store.ErrConflict) {
						continue
					}
					if err != nil {
						t.Errorf("update: %v", err)
					}
					return
				}
			}()
		}
		wg.Wait()
		a, _ := st.GetAccount(ctx, "carol")
		if !a.Balance.Equal(d("20")) {
			t.Fatalf("expected 20 after concurrent grants, got %s", a.Balance)
		}
	})

	t.Run("interest and leaderboard", func(t *testing.T) {
		_, err := st.Update(ctx, store.Mutation{Type: "deposit"}, []string{"bob"}, func(accts []*store.Account) error {
			accts[0].Balance = accts[0].Balance.Sub(d("100"))
			accts[0].Bank = accts[0].Bank.Add(d("100"))
			return nil
		})
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		n, err := st.ApplyInterest(ctx, d("1.5"))
		if err != nil {
			t.Fatalf("interest: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 account with interest, got %d", n)
		}
		bob, _ := st.GetAccount(ctx, "bob")
		if !bob.Bank.Equal(d("150")) {
			t.Fatalf("expected bank 150, got %s", bob.Bank)
		}
		board, err := st.Leaderboard(ctx, 2)
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(board) != 2 || board[0].AccountID != "alice" || board[1].AccountID != "bob" || board[0].Rank != 1 {
			t.Fatalf("unexpected leaderboard %+v", board)
		}
		if !board[1].Worth.Equal(d("400.5")) {
			t.Fatalf("expected bob worth 400.5, got %s", board[1].Worth)
		}
	})

	t.Run("settings", func(t *testing.T) {
		if _, err := st.GetSetting(ctx, store.SettingInterestRate); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if err := st.SetSetting(ctx, store.SettingInterestRate, "1.00005"); err != nil {
			t.Fatalf("set: %v", err)
		}
		v, err := st.GetSetting(ctx, store.SettingInterestRate)
		if err != nil || v != "1.00005" {
			t.Fatalf("unexpected setting %q err=%v", v, err)
		}
	})
}
