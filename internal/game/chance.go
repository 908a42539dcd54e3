package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var ErrInvalidGuess = errors.New("invalid_guess")

type CoinSide int

const (
	Heads CoinSide = iota + 1
	Tails
)

func (c CoinSide) String() string {
	switch c {
	case Heads:
		return "heads"
	case Tails:
		return "tails"
	default:
		return "unknown"
	}
}

func ParseCoinSide(s string) (CoinSide, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heads":
		return Heads, true
	case "tails":
		return Tails, true
	default:
		return 0, false
	}
}

func FlipCoin(rnd *rand.Rand) CoinSide {
	if rnd.Float64() < 0.5 {
		return Heads
	}
	return Tails
}

func ResolveCoinFlip(choice, landed CoinSide) (Outcome, string) {
	if choice == landed {
		return OutcomeWin, fmt.Sprintf("The coin landed on %s. You win!", landed)
	}
	return OutcomeLoss, fmt.Sprintf("The coin landed on %s. You lose.", landed)
}

const (
	GuessMax              = 10
	numberGuessMultiplier = 2
)

type Parity int

const (
	NoParity Parity = iota
	Odd
	Even
)

func (p Parity) String() string {
	switch p {
	case Odd:
		return "odd"
	case Even:
		return "even"
	default:
		return ""
	}
}

// Guess is either a number in [1, GuessMax] or a parity call.
type Guess struct {
	Number int
	Parity Parity
}

func ParseGuess(s string) (Guess, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return Guess{}, ErrInvalidGuess
	case "odd":
		return Guess{Parity: Odd}, nil
	case "even":
		return Guess{Parity: Even}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > GuessMax {
		return Guess{}, ErrInvalidGuess
	}
	return Guess{Number: n}, nil
}

func (g Guess) String() string {
	if g.Parity != NoParity {
		return g.Parity.String()
	}
	return strconv.Itoa(g.Number)
}

func RollNumber(rnd *rand.Rand, limit int) int {
	return rnd.Intn(limit) + 1
}

// ResolveGuess compares a guess with the rolled number. Parity calls win a
// random multiplier in [1, GuessMax]; exact numbers pay a fixed 2x.
func ResolveGuess(rnd *rand.Rand, g Guess, rolled int) (Outcome, int64, string) {
	if g.Parity != NoParity {
		even := rolled%2 == 0
		mult := int64(RollNumber(rnd, GuessMax))
		if (g.Parity == Even) == even {
			return OutcomeWin, mult, fmt.Sprintf("The number was %d. You guessed %s correctly! You win!", rolled, g.Parity)
		}
		return OutcomeLoss, mult, fmt.Sprintf("The number was %d. You guessed %s, which is incorrect. You lose.", rolled, g.Parity)
	}
	if g.Number == rolled {
		return OutcomeWin, numberGuessMultiplier, fmt.Sprintf("The number was %d. You guessed correctly! You win!", rolled)
	}
	return OutcomeLoss, numberGuessMultiplier, fmt.Sprintf("The number was %d. You guessed incorrectly. You lose.", rolled)
}
