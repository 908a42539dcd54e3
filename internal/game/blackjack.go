package game

import (
	"errors"
	"math/rand"
)

var (
	ErrRoundResolved = errors.New("round_resolved")
	ErrNotDealt      = errors.New("round_not_dealt")
	ErrUnknownAction = errors.New("unknown_action")
)

type RoundState int

const (
	StateAwaitingBet RoundState = iota
	StateDealt
	StatePlayerTurn
	StateDealerTurn
	StateResolved
)

func (s RoundState) String() string {
	switch s {
	case StateAwaitingBet:
		return "awaiting_bet"
	case StateDealt:
		return "dealt"
	case StatePlayerTurn:
		return "player_turn"
	case StateDealerTurn:
		return "dealer_turn"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type Action int

const (
	ActionHit Action = iota + 1
	ActionStand
	ActionTimeout
)

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ParseAction accepts the player-issued actions. Timeouts are raised by the
// table clock, never by the player.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "hit":
		return ActionHit, true
	case "stand":
		return ActionStand, true
	default:
		return 0, false
	}
}

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeTie
	OutcomeRefund
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeTie:
		return "tie"
	case OutcomeRefund:
		return "refund"
	default:
		return "unknown"
	}
}

// PayoutMultiplier is how many stakes return to a player whose stake was
// already collected.
func (o Outcome) PayoutMultiplier() int64 {
	switch o {
	case OutcomeWin:
		return 2
	case OutcomeTie, OutcomeRefund:
		return 1
	default:
		return 0
	}
}

type RoundOptions struct {
	Rand        *rand.Rand
	Bias        AceBias
	DealerStand int
	Deck        *Deck
}

// Round is one blackjack hand between a player and the dealer.
type Round struct {
	session     *Session
	player      Participant
	rnd         *rand.Rand
	bias        AceBias
	dealerStand int
	state       RoundState
	outcome     Outcome
	message     string
}

func NewRound(player Participant, opts RoundOptions) *Round {
	if opts.Rand == nil {
		opts.Rand = NewRand()
	}
	if opts.DealerStand <= 0 {
		opts.DealerStand = DefaultDealerStand
	}
	s := NewSessionWithDeck(opts.Deck)
	s.InitGame([]Participant{player, Dealer()})
	return &Round{
		session:     s,
		player:      player,
		rnd:         opts.Rand,
		bias:        opts.Bias,
		dealerStand: opts.DealerStand,
		state:       StateAwaitingBet,
	}
}

// Deal shuffles when the round owns a fresh deck, deals two cards each and
// opens the player's turn. A natural 21 or an immediate bust resolves the
// round without waiting for input.
func (r *Round) Deal(shuffle bool) error {
	if r.state != StateAwaitingBet {
		return ErrRoundResolved
	}
	if shuffle {
		r.session.Shuffle(r.rnd, r.bias)
	}
	r.session.DealHands(2)
	r.state = StatePlayerTurn
	r.checkPlayer()
	return nil
}

func (r *Round) Apply(a Action) error {
	switch r.state {
	case StateAwaitingBet, StateDealt:
		return ErrNotDealt
	case StateResolved, StateDealerTurn:
		return ErrRoundResolved
	}
	switch a {
	case ActionHit:
		r.session.Hit(r.player.ID)
		r.checkPlayer()
	case ActionStand:
		r.playDealer()
		r.resolve()
	case ActionTimeout:
		r.playDealer()
		r.state = StateResolved
		r.outcome = OutcomeRefund
		r.message = "Time's up! Bet refunded."
	default:
		return ErrUnknownAction
	}
	return nil
}

func (r *Round) checkPlayer() {
	v := r.PlayerValue()
	switch {
	case v == BlackjackTarget:
		r.finish(OutcomeWin, "Blackjack! You win!")
	case v > BlackjackTarget:
		r.finish(OutcomeLoss, "Bust! You lose.")
	}
}

func (r *Round) playDealer() {
	r.state = StateDealerTurn
	for r.DealerValue() < r.dealerStand {
		if _, ok := r.session.Hit(DealerID); !ok {
			break
		}
	}
}

func (r *Round) resolve() {
	player := r.PlayerValue()
	dealer := r.DealerValue()
	switch {
	case dealer > BlackjackTarget:
		r.finish(OutcomeWin, "Dealer busts! You win!")
	case player > dealer:
		r.finish(OutcomeWin, "You win!")
	case player < dealer:
		r.finish(OutcomeLoss, "Dealer wins. You lose!")
	default:
		r.finish(OutcomeTie, "It's a tie!")
	}
}

func (r *Round) finish(o Outcome, msg string) {
	r.state = StateResolved
	r.outcome = o
	r.message = msg
}

func (r *Round) State() RoundState { return r.state }
func (r *Round) Outcome() Outcome { return r.outcome }
func (r *Round) Message() string { return r.message }
func (r *Round) Player() Participant { return r.player }
func (r *Round) Session() *Session { return r.session }
func (r *Round) Resolved() bool { return r.state == StateResolved }

func (r *Round) PlayerValue() int {
	return r.session.BlackjackValue(r.player.ID)
}

func (r *Round) DealerValue() int {
	return r.session.BlackjackValue(DealerID)
}

func (r *Round) PlayerCards() string {
	return r.session.CardsString(r.player.ID, "")
}

// DealerCards hides the hole cards until the round resolves.
func (r *Round) DealerCards() string {
	if r.Resolved() {
		return r.session.CardsString(DealerID, "")
	}
	return r.session.CardsString(DealerID, CoverToken)
}
