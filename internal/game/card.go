package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Suit string
type Rank int

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

const (
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
	Ace   Rank = 14
)

var (
	ErrInvalidSuit = errors.New("invalid suit")
	ErrInvalidCard = errors.New("invalid card")
)

// Suits lists the suits from highest to lowest display priority.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	return s.priority() >= 0
}

// priority orders suits for display: Spades > Hearts > Diamonds > Clubs.
func (s Suit) priority() int {
	switch s {
	case Spades:
		return 3
	case Hearts:
		return 2
	case Diamonds:
		return 1
	case Clubs:
		return 0
	default:
		return -1
	}
}

// ParseSuit accepts a single-letter suit code in either case.
func ParseSuit(s string) (Suit, error) {
	suit := Suit(strings.ToUpper(strings.TrimSpace(s)))
	if !suit.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuit, s)
	}
	return suit, nil
}

func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// String renders face cards as a letter and everything else as the number.
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns the card as rank followed by suit code, e.g. "AS" or "10H".
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit)
}

// ParseCard is the inverse of Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}

	var rank Rank
	switch head := s[:len(s)-1]; head {
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		n, err := strconv.Atoi(head)
		if err != nil {
			return Card{}, fmt.Errorf("%w: %q: bad rank", ErrInvalidCard, s)
		}
		rank = Rank(n)
	}
	if !rank.Valid() {
		return Card{}, fmt.Errorf("%w: %q: rank out of range", ErrInvalidCard, s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseHand parses a comma separated list such as "10H,QH,5S".
func ParseHand(s string) ([]Card, error) {
	if strings.TrimSpace(s) == "" {
		return []Card{}, nil
	}
	parts := strings.Split(s, ",")
	hand := make([]Card, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCard(p)
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

// FormatHand joins the display strings of a hand with single spaces.
func FormatHand(hand []Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
