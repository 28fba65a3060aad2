package game

// TrickResult identifies the winning entry of a trick.
type TrickResult struct {
	Index  int        `json:"index"` // position within the trick, not the seat
	Winner PlayedCard `json:"winner"`
}

// TrickWinner returns the highest trump in the trick, or the highest card of
// the lead suit when no trump was played. Cards of any other suit cannot win.
// ok is false when the trick holds neither, which only happens for an empty
// or malformed trick.
func TrickWinner(trick []PlayedCard, leadSuit, trumpSuit Suit) (TrickResult, bool) {
	best := -1
	for i, pc := range trick {
		if best < 0 {
			if pc.Suit == trumpSuit || pc.Suit == leadSuit {
				best = i
			}
			continue
		}
		if beats(pc.Card, trick[best].Card, trumpSuit) {
			best = i
		}
	}

	if best < 0 {
		return TrickResult{Index: -1}, false
	}
	return TrickResult{Index: best, Winner: trick[best]}, true
}

// beats reports whether a takes the trick over the current winner cur, which
// is always a trump or lead-suit card.
func beats(a, cur Card, trump Suit) bool {
	aTrump, curTrump := a.Suit == trump, cur.Suit == trump
	switch {
	case aTrump && !curTrump:
		return true
	case !aTrump && curTrump:
		return false
	}
	// same class: only a higher card of the same suit wins
	return a.Suit == cur.Suit && a.Rank > cur.Rank
}
