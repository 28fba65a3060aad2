package game

import (
	"math/rand"
)

type Deck struct {
	Cards []Card
}

// NewDeck creates the standard 52-card deck in suit-priority order,
// each suit running from Ace down to Two. No randomness is involved.
func NewDeck() *Deck {
	deck := &Deck{Cards: make([]Card, 0, len(Suits)*13)}

	for _, suit := range Suits {
		for rank := Ace; rank >= Two; rank-- {
			deck.Cards = append(deck.Cards, Card{Suit: suit, Rank: rank})
		}
	}

	return deck
}

// Shuffle randomizes the order of cards in the deck using r.
func (d *Deck) Shuffle(r *rand.Rand) {
	// Fisher-Yates shuffle algorithm
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// DrawCard removes and returns the top card from the deck
func (d *Deck) DrawCard() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card, true
}

// Deal splits the deck round-robin into one hand per seat, starting at
// seat 0. Cards that do not divide evenly stay in the deck.
func (d *Deck) Deal() [NumSeats][]Card {
	var hands [NumSeats][]Card
	per := len(d.Cards) / NumSeats

	for i := 0; i < per*NumSeats; i++ {
		card, _ := d.DrawCard()
		hands[i%NumSeats] = append(hands[i%NumSeats], card)
	}

	return hands
}

// RemainingCards returns the number of cards left in the deck
func (d *Deck) RemainingCards() int {
	return len(d.Cards)
}
