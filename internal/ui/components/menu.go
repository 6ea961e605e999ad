package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. When Height is set only that many
// items are shown and the window scrolls with the selection.
type Menu struct {
	Items    []MenuItem
	Selected int
	Height   int
	offset   int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// NewMenuFromLabels builds a menu whose items all run action with their
// own label.
func NewMenuFromLabels(labels []string, action func(label string) tea.Cmd) Menu {
	items := make([]MenuItem, len(labels))
	for i, label := range labels {
		items[i] = MenuItem{Label: label, Action: func() tea.Cmd { return action(label) }}
	}
	return NewMenu(items)
}

// Current returns the selected item's label, or "" for an empty menu.
func (m Menu) Current() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected].Label
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "home":
		m.Selected = 0
	case "end":
		if len(m.Items) > 0 {
			m.Selected = len(m.Items) - 1
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	m.scroll()
	return m, nil
}

func (m *Menu) scroll() {
	if m.Height <= 0 {
		return
	}
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+m.Height {
		m.offset = m.Selected - m.Height + 1
	}
}

// View renders the menu.
func (m Menu) View() string {
	start, end := 0, len(m.Items)
	if m.Height > 0 && end > m.Height {
		start = m.offset
		end = min(start+m.Height, len(m.Items))
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    ▲") + "\n")
	}
	for i := start; i < end; i++ {
		item := m.Items[i]
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	if end < len(m.Items) {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    ▼") + "\n")
	}
	return b.String()
}
