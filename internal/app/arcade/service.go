package arcade

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"creditjack/internal/app/account"
	"creditjack/internal/credit"
	"creditjack/internal/game"
	"creditjack/internal/ledger"
	"creditjack/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Service runs the single-step chance games. The stake is taken first and
// the payout, stake included, is credited once the result is known.
type Service struct {
	accounts *account.Service
	ledger   *ledger.Ledger

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewService(accounts *account.Service, led *ledger.Ledger) *Service {
	return &Service{
		accounts: accounts,
		ledger:   led,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) CoinFlip(ctx context.Context, req CoinFlipRequest) (*PlayResponse, error) {
	if req.AccountID == "" || req.Bet == "" {
		return nil, ErrInvalidRequest
	}
	choice, ok := game.ParseCoinSide(req.Choice)
	if !ok {
		return nil, ErrInvalidChoice
	}
	if _, err := s.accounts.Ensure(ctx, req.AccountID, req.Name); err != nil {
		return nil, err
	}
	ref := ledger.Ref{Type: "coinflip", ID: store.NewPrefixedID("cf")}
	bet, _, err := s.ledger.PlaceBet(ctx, req.AccountID, req.Bet, ref)
	if err != nil {
		return nil, err
	}

	s.rndMu.Lock()
	landed := game.FlipCoin(s.rnd)
	s.rndMu.Unlock()
	outcome, msg := game.ResolveCoinFlip(choice, landed)
	payout := bet.Mul(decimal.NewFromInt(outcome.PayoutMultiplier()))

	return s.settle(ctx, "coinflip", ref, req.AccountID, bet, payout, outcome, msg, landed.String(), 0)
}

// Guess pays stake × 2 on an exact number and stake × m on a parity call,
// where m is drawn from 1..10.
func (s *Service) Guess(ctx context.Context, req GuessRequest) (*PlayResponse, error) {
	if req.AccountID == "" || req.Bet == "" {
		return nil, ErrInvalidRequest
	}
	g, err := game.ParseGuess(req.Guess)
	if err != nil {
		return nil, ErrInvalidChoice
	}
	if _, err := s.accounts.Ensure(ctx, req.AccountID, req.Name); err != nil {
		return nil, err
	}
	ref := ledger.Ref{Type: "guess", ID: store.NewPrefixedID("gs")}
	bet, _, err := s.ledger.PlaceBet(ctx, req.AccountID, req.Bet, ref)
	if err != nil {
		return nil, err
	}

	s.rndMu.Lock()
	rolled := game.RollNumber(s.rnd, game.GuessMax)
	outcome, mult, msg := game.ResolveGuess(s.rnd, g, rolled)
	s.rndMu.Unlock()
	payout := decimal.Zero
	if outcome == game.OutcomeWin {
		payout = bet.Mul(decimal.NewFromInt(mult + 1))
	}

	return s.settle(ctx, "guess", ref, req.AccountID, bet, payout, outcome, msg, strconv.Itoa(rolled), mult)
}

func (s *Service) settle(ctx context.Context, name string, ref ledger.Ref, accountID string, bet, payout decimal.Decimal, outcome game.Outcome, msg, result string, mult int64) (*PlayResponse, error) {
	a, err := s.ledger.Payout(ctx, accountID, payout, ledger.EntryBetPayout, ref)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("account_id", accountID).
		Str("game", name).
		Str("game_id", ref.ID).
		Str("bet", bet.String()).
		Str("payout", payout.String()).
		Str("outcome", outcome.String()).
		Msg("game resolved")
	return &PlayResponse{
		Game:           name,
		GameID:         ref.ID,
		Outcome:        outcome.String(),
		Message:        msg,
		Bet:            bet.String(),
		Payout:         payout.String(),
		Result:         result,
		Multiplier:     mult,
		Balance:        a.Balance.String(),
		BalanceDisplay: credit.Format(a.Balance),
	}, nil
}
