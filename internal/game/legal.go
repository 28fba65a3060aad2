package game

import (
	"fmt"
	"strings"
)

// Policy selects how strictly a player must beat the cards already played
// when following suit or trumping.
type Policy string

const (
	// PolicyFollow allows any card of the required suit.
	PolicyFollow Policy = "follow"
	// PolicyBeat requires a card that beats the best card of the required
	// suit already played, when the player holds one.
	PolicyBeat Policy = "beat"
	// PolicyBeatLowest is PolicyBeat narrowed to the single lowest beating card.
	PolicyBeatLowest Policy = "beat-lowest"
)

// ParsePolicy accepts the policy names used in configuration and requests.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyFollow, PolicyBeat, PolicyBeatLowest:
		return p, nil
	}
	return "", fmt.Errorf("unknown legality policy %q", s)
}

// PlayedCard is a card in a trick together with the seat that played it.
type PlayedCard struct {
	Card
	Seat Seat `json:"seat"`
}

// LegalMoves returns the indices of hand that may be played into trick.
// With enforceHigh set the player must beat the best card of the suit they
// are obliged to play whenever they can.
func LegalMoves(hand []Card, trick []PlayedCard, leadSuit, trumpSuit Suit, enforceHigh bool) []int {
	policy := PolicyFollow
	if enforceHigh {
		policy = PolicyBeat
	}
	return LegalMovesWithPolicy(hand, trick, leadSuit, trumpSuit, policy)
}

// LegalMovesWithPolicy applies the rules in order and returns the first
// non-empty candidate set: lead the trick with anything, follow the lead
// suit, trump when void, otherwise discard anything.
func LegalMovesWithPolicy(hand []Card, trick []PlayedCard, leadSuit, trumpSuit Suit, policy Policy) []int {
	if len(trick) == 0 {
		return allIndices(hand)
	}

	if follow := indicesOfSuit(hand, leadSuit); len(follow) > 0 {
		return mustBeat(hand, follow, highestOfSuit(trick, leadSuit), policy)
	}

	if trumps := indicesOfSuit(hand, trumpSuit); len(trumps) > 0 {
		return mustBeat(hand, trumps, highestOfSuit(trick, trumpSuit), policy)
	}

	return allIndices(hand)
}

// mustBeat narrows candidates to the ones ranked above best. When none of
// them beats it every candidate stays legal. A zero best means nothing of the
// suit has been played yet.
func mustBeat(hand []Card, candidates []int, best Rank, policy Policy) []int {
	if policy == PolicyFollow {
		return candidates
	}

	var higher []int
	for _, i := range candidates {
		if hand[i].Rank > best {
			higher = append(higher, i)
		}
	}
	if len(higher) == 0 {
		return candidates
	}

	if policy == PolicyBeatLowest && best > 0 {
		lowest := higher[0]
		for _, i := range higher[1:] {
			if hand[i].Rank < hand[lowest].Rank {
				lowest = i
			}
		}
		return []int{lowest}
	}
	return higher
}

func allIndices(hand []Card) []int {
	out := make([]int, len(hand))
	for i := range hand {
		out[i] = i
	}
	return out
}

func indicesOfSuit(hand []Card, s Suit) []int {
	var out []int
	for i, c := range hand {
		if c.Suit == s {
			out = append(out, i)
		}
	}
	return out
}

// highestOfSuit returns the best rank of suit s in the trick, or 0.
func highestOfSuit(trick []PlayedCard, s Suit) Rank {
	var best Rank
	for _, pc := range trick {
		if pc.Suit == s && pc.Rank > best {
			best = pc.Rank
		}
	}
	return best
}
