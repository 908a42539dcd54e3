package table

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"creditjack/internal/app/account"
	"creditjack/internal/config"
	"creditjack/internal/game"
	"creditjack/internal/game/viewmodel"
	"creditjack/internal/ledger"
	"creditjack/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	refType                  = "blackjack"
	resolvedRetention        = 5 * time.Minute
	coordinatorSweepInterval = 500 * time.Millisecond
)

type tableRuntime struct {
	mu           sync.Mutex
	id           string
	accountID    string
	round        *game.Round
	bet          decimal.Decimal
	payout       decimal.Decimal
	settled      bool
	turnDeadline time.Time
	resolvedAt   time.Time
}

// Coordinator owns the open blackjack tables. A table takes the stake when
// it deals, waits turn_timeout for each player action and refunds the stake
// if the player never answers.
type Coordinator struct {
	accounts *account.Service
	ledger   *ledger.Ledger
	cfg      config.GamesConfig
	now      func() time.Time
	// deck, when set, supplies a prearranged deck that is dealt unshuffled.
	deck func() *game.Deck

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu        sync.Mutex
	tables    map[string]*tableRuntime
	byAccount map[string]string
}

func NewCoordinator(accounts *account.Service, led *ledger.Ledger, cfg config.GamesConfig) *Coordinator {
	return &Coordinator{
		accounts:  accounts,
		ledger:    led,
		cfg:       cfg,
		now:       time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		tables:    map[string]*tableRuntime{},
		byAccount: map[string]string{},
	}
}

// StartJanitor expires idle turns and forgets settled tables until ctx ends.
func (c *Coordinator) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(coordinatorSweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.sweep(ctx, now)
			}
		}
	}()
}

func (c *Coordinator) Start(ctx context.Context, req StartRequest) (*viewmodel.TableView, error) {
	if req.AccountID == "" || req.Bet == "" {
		return nil, ErrInvalidRequest
	}
	acct, err := c.accounts.Ensure(ctx, req.AccountID, req.Name)
	if err != nil {
		return nil, err
	}

	tableID := store.NewPrefixedID("tbl")
	c.mu.Lock()
	if _, busy := c.byAccount[req.AccountID]; busy {
		c.mu.Unlock()
		return nil, ErrTableOpen
	}
	c.byAccount[req.AccountID] = tableID
	c.mu.Unlock()

	bet, _, err := c.ledger.PlaceBet(ctx, req.AccountID, req.Bet, ledger.Ref{Type: refType, ID: tableID})
	if err != nil {
		c.release(req.AccountID, tableID)
		return nil, err
	}

	bias := game.NoBias
	if req.Biased {
		bias = game.NewAceBias(acct.Luck, acct.Level)
	}
	c.rndMu.Lock()
	seed := c.rnd.Int63()
	c.rndMu.Unlock()
	var deck *game.Deck
	if c.deck != nil {
		deck = c.deck()
	}
	rt := &tableRuntime{
		id:        tableID,
		accountID: req.AccountID,
		bet:       bet,
		round: game.NewRound(game.Participant{ID: req.AccountID, Name: acct.Name}, game.RoundOptions{
			Rand:        rand.New(rand.NewSource(seed)),
			Bias:        bias,
			DealerStand: c.cfg.DealerStand,
			Deck:        deck,
		}),
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	c.mu.Lock()
	c.tables[tableID] = rt
	c.mu.Unlock()

	if err := rt.round.Deal(deck == nil); err != nil {
		return nil, err
	}
	log.Info().Str("table_id", tableID).Str("account_id", req.AccountID).Str("bet", bet.String()).Bool("biased", req.Biased).Msg("blackjack dealt")
	c.afterMoveLocked(ctx, rt)
	view := c.viewLocked(rt)
	return &view, nil
}

func (c *Coordinator) Act(ctx context.Context, tableID string, req ActionRequest) (*viewmodel.TableView, error) {
	if req.AccountID == "" {
		return nil, ErrInvalidRequest
	}
	action, ok := game.ParseAction(req.Action)
	if !ok {
		return nil, ErrInvalidAction
	}
	rt, err := c.lookup(tableID, req.AccountID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.round.Resolved() {
		return nil, ErrTableClosed
	}
	if !rt.turnDeadline.IsZero() && c.now().After(rt.turnDeadline) {
		action = game.ActionTimeout
	}
	if err := rt.round.Apply(action); err != nil {
		return nil, err
	}
	log.Debug().Str("table_id", rt.id).Str("action", action.String()).Int("player_value", rt.round.PlayerValue()).Msg("blackjack action")
	c.afterMoveLocked(ctx, rt)
	view := c.viewLocked(rt)
	return &view, nil
}

func (c *Coordinator) Get(tableID, accountID string) (*viewmodel.TableView, error) {
	rt, err := c.lookup(tableID, accountID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	view := c.viewLocked(rt)
	return &view, nil
}

// OpenTable returns the id of the account's unresolved table, if any.
func (c *Coordinator) OpenTable(accountID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byAccount[accountID]
	return id, ok
}

func (c *Coordinator) lookup(tableID, accountID string) (*tableRuntime, error) {
	c.mu.Lock()
	rt := c.tables[tableID]
	c.mu.Unlock()
	if rt == nil {
		return nil, ErrTableNotFound
	}
	if accountID != "" && rt.accountID != accountID {
		return nil, ErrNotYourTable
	}
	return rt, nil
}

func (c *Coordinator) release(accountID, tableID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byAccount[accountID] == tableID {
		delete(c.byAccount, accountID)
	}
}

// afterMoveLocked settles a finished round or re-arms the turn clock.
func (c *Coordinator) afterMoveLocked(ctx context.Context, rt *tableRuntime) {
	if !rt.round.Resolved() {
		rt.turnDeadline = c.now().Add(c.cfg.TurnTimeout)
		return
	}
	rt.turnDeadline = time.Time{}
	if rt.resolvedAt.IsZero() {
		rt.resolvedAt = c.now()
	}
	c.settleLocked(ctx, rt)
}

// settleLocked pays out once. A failed payout leaves the table unsettled so
// the janitor retries it.
func (c *Coordinator) settleLocked(ctx context.Context, rt *tableRuntime) {
	if rt.settled {
		return
	}
	outcome := rt.round.Outcome()
	payout := rt.bet.Mul(decimal.NewFromInt(outcome.PayoutMultiplier()))
	entryType := ledger.EntryBetPayout
	if outcome == game.OutcomeRefund || outcome == game.OutcomeTie {
		entryType = ledger.EntryBetRefund
	}
	if _, err := c.ledger.Payout(ctx, rt.accountID, payout, entryType, ledger.Ref{Type: refType, ID: rt.id}); err != nil {
		log.Error().Err(err).Str("table_id", rt.id).Msg("blackjack settlement failed")
		return
	}
	rt.payout = payout
	rt.settled = true
	c.release(rt.accountID, rt.id)
	log.Info().
		Str("table_id", rt.id).
		Str("account_id", rt.accountID).
		Str("outcome", outcome.String()).
		Str("bet", rt.bet.String()).
		Str("payout", payout.String()).
		Int("player_value", rt.round.PlayerValue()).
		Int("dealer_value", rt.round.DealerValue()).
		Msg("blackjack resolved")
}

func (c *Coordinator) viewLocked(rt *tableRuntime) viewmodel.TableView {
	payout := ""
	if rt.settled {
		payout = rt.payout.String()
	}
	return viewmodel.BuildTableView(rt.id, rt.round, rt.bet.String(), payout, c.cfg.TurnTimeout)
}

// sweep times out idle turns, retries failed settlements and drops tables
// resolved longer than the retention window. It returns how many turns timed
// out.
func (c *Coordinator) sweep(ctx context.Context, now time.Time) int {
	c.mu.Lock()
	tables := make([]*tableRuntime, 0, len(c.tables))
	for _, rt := range c.tables {
		tables = append(tables, rt)
	}
	c.mu.Unlock()

	expired := 0
	for _, rt := range tables {
		rt.mu.Lock()
		switch {
		case !rt.round.Resolved() && !rt.turnDeadline.IsZero() && now.After(rt.turnDeadline):
			if err := rt.round.Apply(game.ActionTimeout); err == nil {
				expired++
				log.Info().Str("table_id", rt.id).Str("account_id", rt.accountID).Msg("blackjack turn timed out")
				c.afterMoveLocked(ctx, rt)
			}
		case rt.round.Resolved() && !rt.settled:
			c.settleLocked(ctx, rt)
		case rt.settled && now.Sub(rt.resolvedAt) > resolvedRetention:
			c.mu.Lock()
			delete(c.tables, rt.id)
			c.mu.Unlock()
		}
		rt.mu.Unlock()
	}
	return expired
}
