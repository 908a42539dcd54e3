package game

import (
	"math"
	"math/rand"
	"testing"
)

func sameMultiset(t *testing.T, got []Card) {
	t.Helper()
	want := map[Card]int{}
	for _, c := range StandardCards() {
		want[c]++
	}
	for _, c := range got {
		want[c]--
	}
	for c, n := range want {
		if n != 0 {
			t.Fatalf("card %s count off by %d", c, n)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		d := NewDeck()
		d.Shuffle(rnd, NoBias)
		if d.Len() != StandardDeckSize {
			t.Fatalf("expected %d cards, got %d", StandardDeckSize, d.Len())
		}
		sameMultiset(t, d.Cards())
	}
}

func TestBiasedShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	bias := NewAceBias(1.5, 20)
	if !bias.Active() {
		t.Fatalf("expected active bias, got %+v", bias)
	}
	for i := 0; i < 20; i++ {
		d := NewDeck()
		d.Shuffle(rnd, bias)
		sameMultiset(t, d.Cards())
	}
}

func TestAceBiasEligibility(t *testing.T) {
	if NewAceBias(0.5, 10).Active() {
		t.Fatal("luck below 1 must not bias")
	}
	if NewAceBias(1, 0).Active() {
		t.Fatal("level below 1 must not bias")
	}
	b := NewAceBias(1, 25)
	if b.Budget != 4 {
		t.Fatalf("expected budget 4, got %d", b.Budget)
	}
}

func TestAceBiasWindowClamped(t *testing.T) {
	w, ok := AceBias{Luck: 1, Level: 100, Budget: 1}.window(52)
	if !ok || w != 52 {
		t.Fatalf("expected clamp to deck size, got %v ok=%v", w, ok)
	}
	w, ok = AceBias{Luck: 10, Level: 1, Budget: 1}.window(52)
	if !ok || w != 2.6 {
		t.Fatalf("unexpected window %v ok=%v", w, ok)
	}
	w, ok = AceBias{Luck: 1, Level: 1, Budget: 1}.window(52)
	if !ok || w != 26 {
		t.Fatalf("unexpected window %v ok=%v", w, ok)
	}
	if _, ok := (AceBias{Luck: 0, Level: 1}).window(52); ok {
		t.Fatal("zero luck should not produce a window")
	}
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	empty := NewDeckFrom(nil)
	empty.Shuffle(rnd, NoBias)
	if empty.Len() != 0 {
		t.Fatalf("expected empty deck, got %d", empty.Len())
	}
	one := NewDeckFrom([]Card{NewCard(Ace, Spades)})
	one.Shuffle(rnd, NewAceBias(2, 2))
	if c, _ := one.Draw(); c != NewCard(Ace, Spades) {
		t.Fatalf("unexpected card %v", c)
	}
}

func TestBiasedShuffleSteersAceIntoWindow(t *testing.T) {
	// Luck 10 at level 1 on a two card deck gives a window of 0.1, so the
	// tail ace can only be swapped into slot 0.
	bias := AceBias{Luck: 10, Level: 1, Budget: 1}
	stayed := 0
	for seed := int64(0); seed < 200; seed++ {
		biased := NewDeckFrom([]Card{NewCard(Two, Clubs), NewCard(Ace, Spades)})
		biased.Shuffle(rand.New(rand.NewSource(seed)), bias)
		if got := biased.Cards()[0]; !got.IsAce() {
			t.Fatalf("seed %d: biased shuffle left %v at the bottom", seed, got)
		}

		plain := NewDeckFrom([]Card{NewCard(Two, Clubs), NewCard(Ace, Spades)})
		plain.Shuffle(rand.New(rand.NewSource(seed)), NoBias)
		if plain.Cards()[1].IsAce() {
			stayed++
		}
	}
	if stayed == 0 {
		t.Fatal("uniform shuffle never left the ace in place")
	}
}

func TestBiasedShuffleSkipsSpentBudget(t *testing.T) {
	bias := AceBias{Luck: 10, Level: 1}
	for seed := int64(0); seed < 50; seed++ {
		a := NewDeck()
		a.Shuffle(rand.New(rand.NewSource(seed)), bias)
		b := NewDeck()
		b.Shuffle(rand.New(rand.NewSource(seed)), NoBias)
		assertSameOrder(t, a.Cards(), b.Cards())
	}
}

func TestBiasedShuffleFallsBackOnUnusableWindow(t *testing.T) {
	bias := AceBias{Luck: math.Inf(1), Level: 1, Budget: 1}
	if !bias.Active() {
		t.Fatalf("expected active bias, got %+v", bias)
	}
	for seed := int64(0); seed < 50; seed++ {
		a := NewDeck()
		a.Shuffle(rand.New(rand.NewSource(seed)), bias)
		b := NewDeck()
		b.Shuffle(rand.New(rand.NewSource(seed)), NoBias)
		assertSameOrder(t, a.Cards(), b.Cards())
	}
}

func assertSameOrder(t *testing.T, got, want []Card) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d != %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("slot %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
