package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

// AnswerGrid shows the candidate answers as a 2x2 grid of tiles. Keys 1-4
// pick a tile directly; arrows move the cursor and Enter picks it.
type AnswerGrid struct {
	Index    int
	Options  []int
	Selected int

	// Revealed is set once the round closed; Answer and Chosen color the
	// tiles. Chosen is -1 after a timeout.
	Revealed bool
	Answer   int
	Chosen   int
}

// NewAnswerGrid creates a grid for question index with the cursor on the
// first tile.
func NewAnswerGrid(index int, options []int) AnswerGrid {
	return AnswerGrid{Index: index, Options: options, Chosen: -1}
}

// PickedMsg carries the value chosen on the grid and the question it was
// shown for.
type PickedMsg struct {
	Index int
	Value int
}

// Update handles keyboard navigation and selection.
func (g AnswerGrid) Update(msg tea.Msg) (AnswerGrid, tea.Cmd) {
	if g.Revealed || len(g.Options) == 0 {
		return g, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	switch key := kmsg.String(); key {
	case "1", "2", "3", "4":
		i := int(key[0] - '1')
		if i < len(g.Options) {
			g.Selected = i
			return g, g.pick()
		}
	case "left", "h":
		if g.Selected%2 == 1 {
			g.Selected--
		}
	case "right", "l":
		if g.Selected%2 == 0 && g.Selected+1 < len(g.Options) {
			g.Selected++
		}
	case "up", "k":
		if g.Selected >= 2 {
			g.Selected -= 2
		}
	case "down", "j":
		if g.Selected+2 < len(g.Options) {
			g.Selected += 2
		}
	case "enter", "space":
		return g, g.pick()
	}
	return g, nil
}

func (g AnswerGrid) pick() tea.Cmd {
	idx, v := g.Index, g.Options[g.Selected]
	return func() tea.Msg { return PickedMsg{Index: idx, Value: v} }
}

// Reveal marks the grid as closed. A revealed grid ignores keys.
func (g *AnswerGrid) Reveal(answer, chosen int) {
	g.Revealed = true
	g.Answer = answer
	g.Chosen = chosen
}

// View renders the grid with tiles of the given width.
func (g AnswerGrid) View(tileWidth int) string {
	tiles := make([]string, len(g.Options))
	for i, opt := range g.Options {
		tiles[i] = g.tile(i, opt, tileWidth)
	}

	var rows []string
	for i := 0; i < len(tiles); i += 2 {
		if i+1 < len(tiles) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[i], " ", tiles[i+1]))
		} else {
			rows = append(rows, tiles[i])
		}
	}
	return strings.Join(rows, "\n")
}

func (g AnswerGrid) tile(i, value, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	label := fmt.Sprintf("%d) %d", i+1, value)
	switch {
	case g.Revealed && value == g.Answer:
		style = style.Foreground(theme.BgDark).Background(theme.Success).BorderForeground(theme.Success)
	case g.Revealed && value == g.Chosen:
		style = style.Foreground(theme.Text).Background(theme.Error).BorderForeground(theme.Error)
	case g.Revealed:
		style = style.Foreground(theme.TextDim).BorderForeground(theme.Border)
	case i == g.Selected:
		style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).BorderForeground(theme.ArcadeYellow)
	default:
		style = style.Foreground(theme.Text).BorderForeground(theme.Primary)
	}
	return style.Render(label)
}
