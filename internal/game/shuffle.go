package game

import (
	"math"
	"math/rand"
	"time"
)

// AceBias describes the luck-driven shuffle variant. Budget is the number of
// aces the shuffle may steer; it is carried by value so every call starts
// from the same allowance.
type AceBias struct {
	Luck   float64
	Level  float64
	Budget int
}

// NoBias shuffles uniformly.
var NoBias = AceBias{}

func NewAceBias(luck, level float64) AceBias {
	b := AceBias{Luck: luck, Level: level}
	if b.eligible() {
		b.Budget = int(math.Ceil(level/10)) + 1
	}
	return b
}

func (b AceBias) eligible() bool {
	return b.Luck >= 1 && b.Level >= 1
}

func (b AceBias) Active() bool {
	return b.eligible() && b.Budget > 0
}

// window is the exclusive upper bound for a biased swap target, clamped to
// the deck size. ok is false when luck and level do not yield a usable
// positive bound.
func (b AceBias) window(deckLen int) (float64, bool) {
	divisor := b.Luck / (b.Level / 2)
	if divisor <= 0 || math.IsNaN(divisor) || math.IsInf(divisor, 0) {
		return 0, false
	}
	w := float64(deckLen) / divisor
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, false
	}
	if w > float64(deckLen) {
		w = float64(deckLen)
	}
	return w, true
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle runs Fisher-Yates from the last index down. With an active bias,
// an ace met at index i is swapped into a narrower window at the low end of
// the deck instead of anywhere in [0, i].
//
// The budget is checked but never spent, matching the long-standing
// behaviour of the luck perk.
func (d *Deck) Shuffle(rnd *rand.Rand, bias AceBias) {
	if rnd == nil {
		rnd = NewRand()
	}
	n := len(d.cards)
	active := bias.Active()
	for i := n - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		if active && d.cards[i].IsAce() && bias.Budget > 0 {
			if w, ok := bias.window(n); ok {
				if k := int(math.Floor(rnd.Float64() * w)); k >= 0 && k < n {
					j = k
				}
			}
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}
