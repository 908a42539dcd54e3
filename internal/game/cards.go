package game

type Suit int

type Rank int

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

const StandardDeckSize = 52

func (s Suit) String() string {
	return map[Suit]string{Hearts: "♥", Diamonds: "♦", Spades: "♠", Clubs: "♣"}[s]
}

func (r Rank) String() string {
	return map[Rank]string{
		Ace: "Ace", Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
		Eight: "8", Nine: "9", Ten: "10", Jack: "Jack", Queen: "Queen", King: "King",
	}[r]
}

// Card is an immutable playing card. Value is the blackjack score (Ace counts
// 1 here, promotion to 11 happens in BlackjackValue) and AltValue is the
// high-card ordering used by war-style comparisons.
type Card struct {
	rank  Rank
	suit  Suit
	value int
	alt   int
}

func NewCard(r Rank, s Suit) Card {
	value, alt := rankValues(r)
	return Card{rank: r, suit: s, value: value, alt: alt}
}

func (c Card) Rank() Rank { return c.rank }
func (c Card) Suit() Suit { return c.suit }
func (c Card) Value() int { return c.value }
func (c Card) AltValue() int { return c.alt }
func (c Card) IsAce() bool { return c.rank == Ace }

func (c Card) String() string {
	return c.suit.String() + c.rank.String()
}

func rankValues(r Rank) (int, int) {
	switch r {
	case Ace:
		return 1, 14
	case Jack:
		return 10, 11
	case Queen:
		return 10, 12
	case King:
		return 10, 13
	default:
		return int(r), int(r)
	}
}

// Deck draws from the tail of its slice.
type Deck struct {
	cards []Card
}

func NewDeck() *Deck {
	d := &Deck{}
	d.Init()
	return d
}

// NewDeckFrom builds a deck whose tail is drawn first.
func NewDeckFrom(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

func StandardCards() []Card {
	cards := make([]Card, 0, StandardDeckSize)
	for s := Hearts; s <= Clubs; s++ {
		for r := Ace; r <= King; r++ {
			cards = append(cards, NewCard(r, s))
		}
	}
	return cards
}

// Init restores the ordered 52 card deck.
func (d *Deck) Init() {
	d.cards = StandardCards()
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Draw pops the tail card. ok is false once the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, false
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, true
}
