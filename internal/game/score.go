package game

const (
	BlackjackTarget    = 21
	DefaultDealerStand = 17
	acePromotionBonus  = 10
)

// BlackjackValue scores a hand with aces counted as 1 and then promoted to
// 11 one at a time while the total stays at or below 21.
func BlackjackValue(hand []Card) int {
	sum := 0
	aces := 0
	for _, c := range hand {
		if c.IsAce() {
			aces++
		}
		sum += c.Value()
	}
	for aces > 0 && sum+acePromotionBonus <= BlackjackTarget {
		sum += acePromotionBonus
		aces--
	}
	return sum
}
