package game

import "sort"

// CompareCards orders cards for display. It returns a positive number when a
// sorts before b: higher suit priority first, then higher rank.
func CompareCards(a, b Card) int {
	if d := a.Suit.priority() - b.Suit.priority(); d != 0 {
		return d
	}
	return int(a.Rank - b.Rank)
}

// SortHand reorders hand in place: Spades, Hearts, Diamonds, Clubs, each
// suit from Ace down to Two.
func SortHand(hand []Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		return CompareCards(hand[i], hand[j]) > 0
	})
}

// SortedHand returns a sorted copy and leaves hand untouched.
func SortedHand(hand []Card) []Card {
	out := make([]Card, len(hand))
	copy(out, hand)
	SortHand(out)
	return out
}
