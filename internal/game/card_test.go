package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_String(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{Suit: Spades, Rank: Ace}, "AS"},
		{Card{Suit: Hearts, Rank: Ten}, "10H"},
		{Card{Suit: Diamonds, Rank: Two}, "2D"},
		{Card{Suit: Clubs, Rank: Jack}, "JC"},
		{Card{Suit: Hearts, Rank: Queen}, "QH"},
		{Card{Suit: Spades, Rank: King}, "KS"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.String())
		})
	}
}

func TestParseCard(t *testing.T) {
	for _, c := range NewDeck().Cards {
		got, err := ParseCard(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c, got)
	}

	got, err := ParseCard(" qh ")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Hearts, Rank: Queen}, got)

	for _, bad := range []string{"", "H", "1H", "15S", "AX", "ZZ", "0D"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseCard(bad)
			assert.ErrorIs(t, err, ErrInvalidCard)
		})
	}
}

func TestParseHand(t *testing.T) {
	hand, err := ParseHand("10H,QH,5S")
	require.NoError(t, err)
	assert.Equal(t, []Card{{Hearts, Ten}, {Hearts, Queen}, {Spades, Five}}, hand)
	assert.Equal(t, "10H QH 5S", FormatHand(hand))

	hand, err = ParseHand("")
	require.NoError(t, err)
	assert.Empty(t, hand)

	_, err = ParseHand("10H,XX")
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestParseSuit(t *testing.T) {
	s, err := ParseSuit("d")
	require.NoError(t, err)
	assert.Equal(t, Diamonds, s)

	_, err = ParseSuit("X")
	assert.ErrorIs(t, err, ErrInvalidSuit)
}
