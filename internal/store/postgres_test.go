package store_test

import (
	"testing"

	"creditjack/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	runStoreContract(t, st)
}
