// Package render turns engine messages into styled terminal text. The
// engine itself never formats anything beyond plain sentences; the
// transports decide how a card composite actually looks.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harlowe/cardroom/internal/deck"
	"github.com/harlowe/cardroom/internal/table"
)

// Styles holds the lipgloss styles for message elements
type Styles struct {
	Header    lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Body      lipgloss.Style
}

// NewStyles creates the default style set
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
	}
}

// Renderer formats engine output for a terminal
type Renderer struct {
	styles *Styles
}

// New creates a renderer with the default styles
func New() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Cards renders a card composite, red suits in red, separated by spaces
func (r *Renderer) Cards(cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		label := fmt.Sprintf("[%s]", c)
		if c.IsRed() {
			parts = append(parts, r.styles.CardRed.Render(label))
		} else {
			parts = append(parts, r.styles.CardBlack.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// Message renders a full outbound message: optional header line, body
// text, then the card composite when present.
func (r *Renderer) Message(out table.Outbound) string {
	var lines []string
	if out.Title != "" {
		lines = append(lines, r.styles.Header.Render(" "+out.Title+" "))
	}
	if out.Text != "" {
		lines = append(lines, r.styles.Body.Render(out.Text))
	}
	if len(out.Cards) > 0 {
		lines = append(lines, r.Cards(out.Cards))
	}
	return strings.Join(lines, "\n")
}

// PlainCards renders a card composite without any styling, for
// transports that cannot carry ANSI sequences.
func PlainCards(cards []deck.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, fmt.Sprintf("[%s]", c))
	}
	return strings.Join(parts, " ")
}

// PlainMessage renders a full outbound message without styling
func PlainMessage(out table.Outbound) string {
	var lines []string
	if out.Title != "" {
		lines = append(lines, "*** "+out.Title+" ***")
	}
	if out.Text != "" {
		lines = append(lines, out.Text)
	}
	if len(out.Cards) > 0 {
		lines = append(lines, PlainCards(out.Cards))
	}
	return strings.Join(lines, "\n")
}
