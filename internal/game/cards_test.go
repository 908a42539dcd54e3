package game

import "testing"

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	d := NewDeck()
	if d.Len() != StandardDeckSize {
		t.Fatalf("expected %d cards, got %d", StandardDeckSize, d.Len())
	}
	seen := map[string]int{}
	for _, c := range d.Cards() {
		seen[c.String()]++
	}
	if len(seen) != StandardDeckSize {
		t.Fatalf("expected %d distinct cards, got %d", StandardDeckSize, len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Fatalf("card %s appears %d times", k, n)
		}
	}
}

func TestCardValues(t *testing.T) {
	cases := []struct {
		rank  Rank
		value int
		alt   int
	}{
		{Ace, 1, 14},
		{Two, 2, 2},
		{Ten, 10, 10},
		{Jack, 10, 11},
		{Queen, 10, 12},
		{King, 10, 13},
	}
	for _, tc := range cases {
		c := NewCard(tc.rank, Spades)
		if c.Value() != tc.value || c.AltValue() != tc.alt {
			t.Fatalf("%s: expected %d/%d, got %d/%d", c, tc.value, tc.alt, c.Value(), c.AltValue())
		}
	}
}

func TestCardString(t *testing.T) {
	if got := NewCard(Ace, Hearts).String(); got != "♥Ace" {
		t.Fatalf("unexpected card string %q", got)
	}
	if got := NewCard(Ten, Clubs).String(); got != "♣10" {
		t.Fatalf("unexpected card string %q", got)
	}
}

func TestDrawPopsTailUntilEmpty(t *testing.T) {
	d := NewDeckFrom([]Card{NewCard(Two, Hearts), NewCard(King, Spades)})
	c, ok := d.Draw()
	if !ok || c.Rank() != King {
		t.Fatalf("expected king first, got %v ok=%v", c, ok)
	}
	c, ok = d.Draw()
	if !ok || c.Rank() != Two {
		t.Fatalf("expected two second, got %v ok=%v", c, ok)
	}
	if _, ok := d.Draw(); ok {
		t.Fatal("expected empty deck")
	}
}

func TestDeckCardsIsCopy(t *testing.T) {
	d := NewDeck()
	cards := d.Cards()
	cards[0] = NewCard(King, Clubs)
	if d.Cards()[0] != NewCard(Ace, Hearts) {
		t.Fatal("mutating the copy changed the deck")
	}
}
