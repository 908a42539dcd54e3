package account

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"creditjack/internal/config"
	"creditjack/internal/credit"
	"creditjack/internal/ledger"
	"creditjack/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	EntryDaily  = "daily"
	EntryWeekly = "weekly"
	EntrySearch = "search"

	searchMin          = 10
	searchCapPerLevel  = 1000
	searchLevelBonus   = 0.1
	leaderboardMaxRows = 100
)

type Service struct {
	store  store.Store
	ledger *ledger.Ledger
	cfg    config.GamesConfig
	now    func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewService(st store.Store, led *ledger.Ledger, cfg config.GamesConfig) *Service {
	return &Service{
		store:  st,
		ledger: led,
		cfg:    cfg,
		now:    time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Ensure loads an account, creating it with the starting balance on first use.
func (s *Service) Ensure(ctx context.Context, id, name string) (*store.Account, error) {
	if id == "" {
		return nil, ErrInvalidRequest
	}
	return s.store.EnsureAccount(ctx, id, name, decimal.NewFromFloat(s.cfg.StartBalance))
}

func (s *Service) Balance(ctx context.Context, id, name string) (*AccountView, error) {
	a, err := s.Ensure(ctx, id, name)
	if err != nil {
		return nil, err
	}
	v := s.view(a)
	return &v, nil
}

func (s *Service) Ledger(ctx context.Context, id string, limit int) (*LedgerResponse, error) {
	if id == "" {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.ListLedgerEntries(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return &LedgerResponse{Items: items}, nil
}

// Bank takes both mode and amount, or neither to display the account.
func (s *Service) Bank(ctx context.Context, id, name, mode, amount string) (*BankResponse, error) {
	if (mode == "") != (amount == "") {
		return nil, ErrMissingParameter
	}
	op, err := ledger.ParseBankOperation(mode)
	if err != nil {
		return nil, err
	}
	if _, err := s.Ensure(ctx, id, name); err != nil {
		return nil, err
	}
	moved, a, err := s.ledger.Bank(ctx, id, op, amount)
	if err != nil {
		return nil, err
	}
	return &BankResponse{Operation: op.String(), Amount: moved.String(), Account: s.view(a)}, nil
}

func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.FromID == "" || req.ToID == "" || req.Amount == "" {
		return nil, ErrInvalidRequest
	}
	if req.FromID == req.ToID {
		return nil, ledger.ErrSelfTransfer
	}
	if _, err := s.Ensure(ctx, req.FromID, req.FromName); err != nil {
		return nil, err
	}
	if _, err := s.Ensure(ctx, req.ToID, req.ToName); err != nil {
		return nil, err
	}
	amount, from, to, err := s.ledger.Transfer(ctx, req.FromID, req.ToID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &TransferResponse{
		Amount:        amount.String(),
		AmountDisplay: credit.Format(amount),
		From:          s.view(from),
		To:            s.view(to),
	}, nil
}

// Daily pays daily_reward × level once per cooldown and counts toward the
// weekly reward.
func (s *Service) Daily(ctx context.Context, id, name string) (*RewardResponse, error) {
	if _, err := s.Ensure(ctx, id, name); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var reward decimal.Decimal
	a, err := s.ledger.Grant(ctx, id, EntryDaily, func(a *store.Account) error {
		if next := a.CollectDaily.Add(s.cfg.DailyCooldown); now.Before(next) {
			return fmt.Errorf("%w: next daily in %s", ErrDailyNotReady, next.Sub(now).Round(time.Second))
		}
		reward = decimal.NewFromFloat(s.cfg.DailyReward * a.Level)
		a.CollectDaily = now
		a.DailiesCollected++
		a.Balance = a.Balance.Add(reward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("account_id", id).Str("amount", reward.String()).Msg("daily collected")
	return s.reward("daily", reward, "Daily collected. Next available in 24 hours", a), nil
}

func (s *Service) Weekly(ctx context.Context, id, name string) (*RewardResponse, error) {
	if _, err := s.Ensure(ctx, id, name); err != nil {
		return nil, err
	}
	var reward decimal.Decimal
	a, err := s.ledger.Grant(ctx, id, EntryWeekly, func(a *store.Account) error {
		if a.DailiesCollected < s.cfg.RequiredDailies {
			return fmt.Errorf("%w: need %d more daily redemptions", ErrWeeklyNotReady, s.cfg.RequiredDailies-a.DailiesCollected)
		}
		reward = decimal.NewFromFloat(s.cfg.WeeklyReward * a.Level)
		a.DailiesCollected = 0
		a.Balance = a.Balance.Add(reward)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("account_id", id).Str("amount", reward.String()).Msg("weekly collected")
	return s.reward("weekly", reward, "You have collected your weekly reward!", a), nil
}

// Search finds floor(base × (1 + level/10) × luck) credits, kept within
// [10, 1000 × level].
func (s *Service) Search(ctx context.Context, id, name string) (*RewardResponse, error) {
	if _, err := s.Ensure(ctx, id, name); err != nil {
		return nil, err
	}
	var found decimal.Decimal
	a, err := s.ledger.Grant(ctx, id, EntrySearch, func(a *store.Account) error {
		found = decimal.NewFromFloat(SearchAmount(s.cfg.SearchBase, a.Level, a.Luck))
		a.Balance = a.Balance.Add(found)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reward("search", found, searchMessage(found), a), nil
}

func SearchAmount(base, level, luck float64) float64 {
	amount := math.Floor(base * (1 + level*searchLevelBonus) * luck)
	return math.Max(searchMin, math.Min(amount, searchCapPerLevel*level))
}

func searchMessage(found decimal.Decimal) string {
	switch {
	case found.LessThan(decimal.NewFromInt(50)):
		return "Better luck next time!"
	case found.LessThan(decimal.NewFromInt(200)):
		return "Not bad! Keep searching!"
	default:
		return "Nice!"
	}
}

func (s *Service) Leaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	if limit <= 0 {
		limit = s.cfg.LeaderboardSize
	}
	if limit > leaderboardMaxRows {
		limit = leaderboardMaxRows
	}
	rows, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, LeaderboardItem{
			Rank:         r.Rank,
			AccountID:    r.AccountID,
			Name:         r.Name,
			Worth:        r.Worth.String(),
			WorthDisplay: credit.Format(r.Worth),
		})
	}
	return &LeaderboardResponse{Items: out}, nil
}

// Interest reports the last applied daily rate. Before the first run the
// rate is 1.
func (s *Service) Interest(ctx context.Context) (*InterestResponse, error) {
	rate := decimal.NewFromInt(1)
	raw, err := s.store.GetSetting(ctx, store.SettingInterestRate)
	switch {
	case err == nil:
		if parsed, perr := decimal.NewFromString(raw); perr == nil {
			rate = parsed
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	pct := rate.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return &InterestResponse{Rate: rate.String(), Display: credit.Percent(pct)}, nil
}

// ApplyDailyInterest draws a rate in [1, 1+interest_max_rate), applies it
// to every bank and records it.
func (s *Service) ApplyDailyInterest(ctx context.Context) (*ApplyInterestResponse, error) {
	s.rndMu.Lock()
	f := s.rnd.Float64()
	s.rndMu.Unlock()
	rate := decimal.NewFromFloat(1 + f*s.cfg.InterestMaxRate)
	return s.ApplyInterest(ctx, rate)
}

func (s *Service) ApplyInterest(ctx context.Context, rate decimal.Decimal) (*ApplyInterestResponse, error) {
	if rate.LessThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidRequest
	}
	n, err := s.store.ApplyInterest(ctx, rate)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetSetting(ctx, store.SettingInterestRate, rate.String()); err != nil {
		return nil, err
	}
	log.Info().Str("rate", rate.String()).Int64("accounts", n).Msg("daily interest applied")
	return &ApplyInterestResponse{Rate: rate.String(), Accounts: n}, nil
}

func (s *Service) reward(kind string, amount decimal.Decimal, msg string, a *store.Account) *RewardResponse {
	return &RewardResponse{
		Kind:          kind,
		Amount:        amount.String(),
		AmountDisplay: credit.Format(amount),
		Message:       msg,
		Account:       s.view(a),
	}
}

func (s *Service) view(a *store.Account) AccountView {
	return AccountView{
		ID:               a.ID,
		Name:             a.Name,
		Balance:          a.Balance.String(),
		Bank:             a.Bank.String(),
		BalanceDisplay:   credit.Format(a.Balance),
		BankDisplay:      credit.Format(a.Bank),
		Level:            a.Level,
		Luck:             a.Luck,
		DailiesCollected: a.DailiesCollected,
		NextDailyAt:      a.CollectDaily.Add(s.cfg.DailyCooldown),
	}
}
