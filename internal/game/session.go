package game

import (
	"math/rand"
	"strings"
)

const (
	DealerID   = "dealer"
	DealerName = "Dealer"
	CoverToken = "🂠"
)

type Participant struct {
	ID        string
	Name      string
	Automated bool
}

func Dealer() Participant {
	return Participant{ID: DealerID, Name: DealerName, Automated: true}
}

type seat struct {
	player Participant
	hand   []Card
}

// Session seats participants around one deck. Seating order is the order
// participants were passed to InitGame.
type Session struct {
	deck  *Deck
	order []string
	seats map[string]*seat
}

func NewSession() *Session {
	return NewSessionWithDeck(NewDeck())
}

func NewSessionWithDeck(d *Deck) *Session {
	if d == nil {
		d = NewDeck()
	}
	return &Session{deck: d, seats: map[string]*seat{}}
}

func (s *Session) Deck() *Deck {
	return s.deck
}

func (s *Session) Shuffle(rnd *rand.Rand, bias AceBias) {
	s.deck.Shuffle(rnd, bias)
}

// InitGame clears all hands and seats players. A synthetic dealer joins when
// fewer than two distinct participants are seated. It returns the number of
// cards left in the deck.
func (s *Session) InitGame(players []Participant) int {
	s.order = nil
	s.seats = map[string]*seat{}
	for _, p := range players {
		if p.ID == "" {
			continue
		}
		if _, ok := s.seats[p.ID]; ok {
			s.seats[p.ID].player = p
			continue
		}
		s.order = append(s.order, p.ID)
		s.seats[p.ID] = &seat{player: p}
	}
	if len(s.seats) <= 1 {
		if _, ok := s.seats[DealerID]; !ok {
			s.order = append(s.order, DealerID)
			s.seats[DealerID] = &seat{player: Dealer()}
		}
	}
	return s.deck.Len()
}

// DealHands gives every seat up to n cards round-robin. An exhausted deck
// simply leaves the remaining hands short.
func (s *Session) DealHands(n int) {
	for i := 0; i < n; i++ {
		for _, id := range s.order {
			c, ok := s.deck.Draw()
			if !ok {
				continue
			}
			s.seats[id].hand = append(s.seats[id].hand, c)
		}
	}
}

// Hit draws one card for the participant. ok is false for an unseated id or
// an empty deck.
func (s *Session) Hit(id string) (Card, bool) {
	st, ok := s.seats[id]
	if !ok {
		return Card{}, false
	}
	c, ok := s.deck.Draw()
	if !ok {
		return Card{}, false
	}
	st.hand = append(st.hand, c)
	return c, true
}

func (s *Session) Hand(id string) []Card {
	st, ok := s.seats[id]
	if !ok {
		return []Card{}
	}
	return append([]Card{}, st.hand...)
}

// CardsString renders a hand left to right. A non-empty cover replaces every
// card after the first.
func (s *Session) CardsString(id, cover string) string {
	hand := s.Hand(id)
	parts := make([]string, len(hand))
	for i, c := range hand {
		if i > 0 && cover != "" {
			parts[i] = cover
			continue
		}
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func (s *Session) CoveredCardsString(id, cover string) string {
	hand := s.Hand(id)
	parts := make([]string, len(hand))
	for i := range hand {
		parts[i] = cover
	}
	return strings.Join(parts, " ")
}

func (s *Session) BlackjackValue(id string) int {
	return BlackjackValue(s.Hand(id))
}

func (s *Session) Players() []Participant {
	out := make([]Participant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.seats[id].player)
	}
	return out
}

func (s *Session) Player(id string) (Participant, bool) {
	st, ok := s.seats[id]
	if !ok {
		return Participant{}, false
	}
	return st.player, true
}

func (s *Session) Remaining() int {
	return s.deck.Len()
}

// ResetDeck restores a full ordered deck without touching hands.
func (s *Session) ResetDeck() {
	s.deck.Init()
}
