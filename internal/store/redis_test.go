package store_test

import (
	"context"
	"testing"

	"creditjack/internal/store"
	"creditjack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	st, _ := testutil.OpenRedisStore(t)
	runStoreContract(t, st)
}

func TestRedisStore_Keys(t *testing.T) {
	st, mr := testutil.OpenRedisStore(t)
	ctx := context.Background()

	_, err := st.EnsureAccount(ctx, "u1", "User", d("250"))
	require.NoError(t, err)

	assert.True(t, mr.Exists("account:u1"))
	score, err := mr.ZScore("accounts:worth", "u1")
	require.NoError(t, err)
	assert.Equal(t, 250.0, score)

	_, err = st.Update(ctx, store.Mutation{Type: "bet_debit"}, []string{"u1"}, func(accts []*store.Account) error {
		accts[0].Balance = accts[0].Balance.Sub(d("50"))
		return nil
	})
	require.NoError(t, err)

	score, err = mr.ZScore("accounts:worth", "u1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, score)

	items, err := mr.List("ledger:u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRedisStore_LedgerNewestFirst(t *testing.T) {
	st, _ := testutil.OpenRedisStore(t)
	ctx := context.Background()

	_, err := st.EnsureAccount(ctx, "u1", "User", d("100"))
	require.NoError(t, err)
	for _, typ := range []string{"first", "second", "third"} {
		_, err := st.Update(ctx, store.Mutation{Type: typ}, []string{"u1"}, func(accts []*store.Account) error {
			accts[0].Balance = accts[0].Balance.Add(d("1"))
			return nil
		})
		require.NoError(t, err)
	}

	entries, err := st.ListLedgerEntries(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Type)
	assert.Equal(t, "second", entries[1].Type)
}

func TestRedisStore_EnsureRestoresLeaderboardEntry(t *testing.T) {
	st, mr := testutil.OpenRedisStore(t)
	ctx := context.Background()

	_, err := st.EnsureAccount(ctx, "u1", "User", d("300"))
	require.NoError(t, err)
	_, err = mr.ZRem("accounts:worth", "u1")
	require.NoError(t, err)

	a, err := st.EnsureAccount(ctx, "u1", "User", d("999"))
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(d("300")), "existing account must keep its balance")

	score, err := mr.ZScore("accounts:worth", "u1")
	require.NoError(t, err)
	assert.Equal(t, 300.0, score)

	board, err := st.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "u1", board[0].AccountID)
}
