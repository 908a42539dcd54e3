package ledger

import (
	"context"
	"errors"
	"strings"

	"creditjack/internal/credit"
	"creditjack/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	EntryBetDebit  = "bet_debit"
	EntryBetPayout = "bet_payout"
	EntryBetRefund = "bet_refund"
	EntryDeposit   = "deposit"
	EntryWithdraw  = "withdraw"
	EntryTransfer  = "transfer"
)

var (
	ErrSelfTransfer         = errors.New("self_transfer")
	ErrUnknownBankOperation = errors.New("unknown_bank_operation")
)

// Ref ties ledger entries to the game or request that caused them.
type Ref struct {
	Type string
	ID   string
}

type BankOperation int

const (
	BankDisplay BankOperation = iota
	BankDeposit
	BankWithdraw
)

func (o BankOperation) String() string {
	switch o {
	case BankDisplay:
		return "display"
	case BankDeposit:
		return "deposit"
	case BankWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

func ParseBankOperation(s string) (BankOperation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return BankDeposit, nil
	case "withdraw":
		return BankWithdraw, nil
	case "display", "":
		return BankDisplay, nil
	default:
		return 0, ErrUnknownBankOperation
	}
}

// Ledger applies every credit movement as parse, validate, then one atomic
// store update. Parsing and validation run against the locked snapshot.
type Ledger struct {
	Store store.Store
}

func New(s store.Store) *Ledger {
	return &Ledger{Store: s}
}

// PlaceBet takes the stake out of the balance before any card is dealt.
func (l *Ledger) PlaceBet(ctx context.Context, accountID, input string, ref Ref) (decimal.Decimal, *store.Account, error) {
	var amount decimal.Decimal
	out, err := l.Store.Update(ctx, store.Mutation{Type: EntryBetDebit, RefType: ref.Type, RefID: ref.ID}, []string{accountID}, func(accts []*store.Account) error {
		a := accts[0]
		v, err := credit.Check(input, a.Balance)
		amount = v
		if err != nil {
			return err
		}
		a.Balance = a.Balance.Sub(v)
		return nil
	})
	if err != nil {
		return amount, nil, err
	}
	log.Info().Str("account_id", accountID).Str("amount", amount.String()).Str("ref_type", ref.Type).Str("ref_id", ref.ID).Msg("bet placed")
	return amount, out[0], nil
}

// Payout credits a settled stake. Zero payouts leave the account untouched.
func (l *Ledger) Payout(ctx context.Context, accountID string, amount decimal.Decimal, entryType string, ref Ref) (*store.Account, error) {
	if amount.IsNegative() {
		return nil, credit.ErrInvalidAmount
	}
	if amount.IsZero() {
		return l.Store.GetAccount(ctx, accountID)
	}
	if entryType == "" {
		entryType = EntryBetPayout
	}
	out, err := l.Store.Update(ctx, store.Mutation{Type: entryType, RefType: ref.Type, RefID: ref.ID}, []string{accountID}, func(accts []*store.Account) error {
		accts[0].Balance = accts[0].Balance.Add(amount)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("account_id", accountID).Str("amount", amount.String()).Str("ref_id", ref.ID).Msg("payout failed")
		return nil, err
	}
	log.Info().Str("account_id", accountID).Str("amount", amount.String()).Str("type", entryType).Str("ref_id", ref.ID).Msg("payout credited")
	return out[0], nil
}

// Grant applies a reward or other account change decided by fn. fn sees the
// locked account and may refuse by returning an error.
func (l *Ledger) Grant(ctx context.Context, accountID, entryType string, fn func(*store.Account) error) (*store.Account, error) {
	out, err := l.Store.Update(ctx, store.Mutation{Type: entryType}, []string{accountID}, func(accts []*store.Account) error {
		return fn(accts[0])
	})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Bank moves credits between balance and bank. Deposit parses and checks
// against the balance, withdraw against the bank. Display changes nothing.
func (l *Ledger) Bank(ctx context.Context, accountID string, op BankOperation, input string) (decimal.Decimal, *store.Account, error) {
	if op == BankDisplay {
		a, err := l.Store.GetAccount(ctx, accountID)
		return decimal.Zero, a, err
	}
	entryType := EntryDeposit
	if op == BankWithdraw {
		entryType = EntryWithdraw
	}
	var amount decimal.Decimal
	out, err := l.Store.Update(ctx, store.Mutation{Type: entryType}, []string{accountID}, func(accts []*store.Account) error {
		a := accts[0]
		from, to := &a.Balance, &a.Bank
		if op == BankWithdraw {
			from, to = &a.Bank, &a.Balance
		}
		v, err := credit.Check(input, *from)
		amount = v
		if err != nil {
			return err
		}
		*from = from.Sub(v)
		*to = to.Add(v)
		return nil
	})
	if err != nil {
		return amount, nil, err
	}
	log.Info().Str("account_id", accountID).Str("op", op.String()).Str("amount", amount.String()).Msg("bank updated")
	return amount, out[0], nil
}

// Transfer moves credits from one balance to another in a single update.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID, input string) (decimal.Decimal, *store.Account, *store.Account, error) {
	if fromID == toID {
		return decimal.Zero, nil, nil, ErrSelfTransfer
	}
	var amount decimal.Decimal
	ref := store.NewPrefixedID("trf")
	out, err := l.Store.Update(ctx, store.Mutation{Type: EntryTransfer, RefType: "transfer", RefID: ref}, []string{fromID, toID}, func(accts []*store.Account) error {
		from, to := accts[0], accts[1]
		v, err := credit.Check(input, from.Balance)
		amount = v
		if err != nil {
			return err
		}
		from.Balance = from.Balance.Sub(v)
		to.Balance = to.Balance.Add(v)
		return nil
	})
	if err != nil {
		return amount, nil, nil, err
	}
	log.Info().Str("from", fromID).Str("to", toID).Str("amount", amount.String()).Str("ref_id", ref).Msg("transfer completed")
	return amount, out[0], out[1], nil
}
