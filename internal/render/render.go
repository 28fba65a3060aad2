// Package render draws cards and hands for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/charmbracelet/lipgloss"
)

var (
	clrSubtle = lipgloss.Color("#8b949e")
	clrGold   = lipgloss.Color("#e3b341")

	suitColors = map[game.Suit]lipgloss.Color{
		game.Spades:   lipgloss.Color("#e6edf3"),
		game.Hearts:   lipgloss.Color("#f85149"),
		game.Diamonds: lipgloss.Color("#ff9e64"),
		game.Clubs:    lipgloss.Color("#58a6ff"),
	}

	labelStyle = lipgloss.NewStyle().Foreground(clrSubtle)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(clrGold)
)

// Renderer styles card text. A plain Renderer emits the bare display form,
// which keeps output stable for pipes and tests.
type Renderer struct {
	Plain bool
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Card renders a single card in its suit colour.
func (r Renderer) Card(c game.Card) string {
	if r.Plain {
		return c.String()
	}
	return fg(suitColors[c.Suit]).Render(c.String())
}

// Hand renders cards separated by spaces.
func (r Renderer) Hand(hand []game.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = r.Card(c)
	}
	return strings.Join(parts, " ")
}

// Highlight renders hand with the cards at the given indices marked. Marked
// cards are bracketed in plain mode and bold in colour mode.
func (r Renderer) Highlight(hand []game.Card, indices []int) string {
	marked := make(map[int]bool, len(indices))
	for _, i := range indices {
		marked[i] = true
	}

	parts := make([]string, len(hand))
	for i, c := range hand {
		switch {
		case !marked[i]:
			if r.Plain {
				parts[i] = c.String()
			} else {
				parts[i] = labelStyle.Render(c.String())
			}
		case r.Plain:
			parts[i] = "[" + c.String() + "]"
		default:
			parts[i] = fg(suitColors[c.Suit]).Bold(true).Underline(true).Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

// Seat renders a labelled line for one seat's hand.
func (r Renderer) Seat(s game.Seat, hand []game.Card) string {
	label := fmt.Sprintf("seat %d:", s)
	if !r.Plain {
		label = labelStyle.Render(label)
	}
	return label + " " + r.Hand(hand)
}

// Title renders a heading line.
func (r Renderer) Title(s string) string {
	if r.Plain {
		return s
	}
	return titleStyle.Render(s)
}

// Trick renders played cards with the seat that played each one.
func (r Renderer) Trick(trick []game.PlayedCard) string {
	parts := make([]string, len(trick))
	for i, pc := range trick {
		parts[i] = fmt.Sprintf("%s@%d", r.Card(pc.Card), pc.Seat)
	}
	return strings.Join(parts, " ")
}
