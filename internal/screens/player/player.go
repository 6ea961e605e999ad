// Package player is the sign-in screen: choose a class, then a name from
// the roster, or type both when the roster has nothing to offer.
package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/game"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/components"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

const (
	loadTimeout = 5 * time.Second
	maxNameLen  = 24
	menuHeight  = 8

	// otherLabel lets the player type a name missing from the list.
	otherLabel = "+ LAIN-LAIN"
)

type step int

const (
	stepLoading step = iota
	stepClass
	stepName
	stepTypeClass
	stepTypeName
)

type rosterLoadedMsg struct {
	Classes roster.Classes
	Err     error
}

type classChosenMsg struct{ Class string }

type nameChosenMsg struct{ Name string }

// PlayerChosenMsg announces the signed-in player so the header can show it.
type PlayerChosenMsg struct {
	Player game.Player
}

// PickerScreen collects the player's class and name.
type PickerScreen struct {
	dir   roster.Directory
	start func(game.Player) screen.Screen

	step    step
	classes roster.Classes
	menu    components.Menu
	input   components.TextInput
	class   string
	notice  string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a picker. start builds the game screen for the chosen player.
func New(dir roster.Directory, start func(game.Player) screen.Screen) *PickerScreen {
	return &PickerScreen{dir: dir, start: start}
}

func (p *PickerScreen) Init() tea.Cmd {
	p.step = stepLoading
	dir := p.dir
	if dir == nil {
		dir = roster.Static{}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		c, err := dir.LoadClasses(ctx)
		return rosterLoadedMsg{Classes: c, Err: err}
	}
}

func (p *PickerScreen) Title() string {
	return "Pilih Pemain"
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	switch p.step {
	case stepClass, stepName:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Pilih"},
			{Key: "Enter", Description: "Teruskan"},
			{Key: "Esc", Description: "Kembali"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Teruskan"},
			{Key: "Esc", Description: "Kembali"},
		}
	}
}

// Class returns the chosen class, empty until one is picked.
func (p *PickerScreen) Class() string {
	return p.class
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case rosterLoadedMsg:
		if msg.Err != nil {
			p.notice = "Senarai nama tidak dapat dimuatkan."
		}
		p.classes = msg.Classes
		if p.classes.Empty() {
			return p, p.typeClass()
		}
		p.showClasses()
		return p, nil

	case classChosenMsg:
		if msg.Class == otherLabel {
			return p, p.typeClass()
		}
		return p, p.chooseClass(msg.Class)

	case nameChosenMsg:
		if msg.Name == otherLabel {
			return p, p.typeName()
		}
		return p, p.confirm(msg.Name)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return p, p.back()
		}
	}

	switch p.step {
	case stepClass, stepName:
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(msg)
		return p, cmd
	case stepTypeClass, stepTypeName:
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
			return p, p.submitInput()
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PickerScreen) showClasses() {
	p.step = stepClass
	p.class = ""
	labels := append(p.classes.Names(), otherLabel)
	p.menu = components.NewMenuFromLabels(labels, func(label string) tea.Cmd {
		return func() tea.Msg { return classChosenMsg{Class: label} }
	})
	p.menu.Height = menuHeight
}

func (p *PickerScreen) chooseClass(class string) tea.Cmd {
	p.class = leaderboard.NormalizeName(class)
	p.notice = ""
	names, err := p.classes.Students(p.class)
	if err != nil || len(names) == 0 {
		return p.typeName()
	}
	p.step = stepName
	labels := append(append([]string(nil), names...), otherLabel)
	p.menu = components.NewMenuFromLabels(labels, func(label string) tea.Cmd {
		return func() tea.Msg { return nameChosenMsg{Name: label} }
	})
	p.menu.Height = menuHeight
	return nil
}

func (p *PickerScreen) typeClass() tea.Cmd {
	p.step = stepTypeClass
	p.class = ""
	p.input = components.NewTextInput("Contoh: 4 AMANAH", maxNameLen)
	return p.input.Init()
}

func (p *PickerScreen) typeName() tea.Cmd {
	p.step = stepTypeName
	p.input = components.NewTextInput("Nama anda", maxNameLen)
	return p.input.Init()
}

func (p *PickerScreen) submitInput() tea.Cmd {
	v := leaderboard.NormalizeName(p.input.Value())
	if v == "" {
		p.notice = "Sila isi dahulu."
		return nil
	}
	p.notice = ""
	if p.step == stepTypeClass {
		p.class = v
		return p.typeName()
	}
	return p.confirm(v)
}

func (p *PickerScreen) confirm(name string) tea.Cmd {
	player := game.Player{Name: leaderboard.NormalizeName(name), ClassName: p.class}
	next := p.start(player)
	return tea.Batch(
		func() tea.Msg { return PlayerChosenMsg{Player: player} },
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

// back steps to the previous choice, or leaves the picker from the first.
func (p *PickerScreen) back() tea.Cmd {
	p.notice = ""
	switch p.step {
	case stepName:
		p.showClasses()
		return nil
	case stepTypeName:
		if !p.classes.Empty() {
			if _, err := p.classes.Students(p.class); err == nil {
				return p.chooseClass(p.class)
			}
			p.showClasses()
			return nil
		}
		return p.typeClass()
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (p *PickerScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var prompt, body string
	switch p.step {
	case stepLoading:
		body = theme.Hint.Render("Memuatkan senarai nama...")
	case stepClass:
		prompt = "PILIH KELAS"
		body = p.menu.View()
	case stepName:
		prompt = fmt.Sprintf("PILIH NAMA · %s", p.class)
		body = p.menu.View()
	case stepTypeClass:
		prompt = "TAIP NAMA KELAS"
		body = p.input.View()
	case stepTypeName:
		prompt = "TAIP NAMA ANDA"
		if p.class != "" {
			prompt += " · " + p.class
		}
		body = p.input.View()
	}

	sections := []string{}
	if prompt != "" {
		sections = append(sections, center.Render(theme.Title.Render(prompt)))
	}
	sections = append(sections, components.ArcadeCard(body, cw))
	if p.notice != "" {
		sections = append(sections, center.Render(theme.Incorrect.Render(p.notice)))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}
