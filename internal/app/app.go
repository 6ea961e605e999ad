// Package app assembles the terminal game: the screen router, the shared
// header and footer, and the factories that move a player from the start
// screen through a game to the leaderboard.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/game"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/home"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/player"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/scoreboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/summary"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/welcome"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
)

// Options holds the dependencies of the terminal game.
type Options struct {
	Scores   *leaderboard.Service
	Roster   roster.Directory
	Session  session.Config
	Notifier session.Notifier
	Logger   *slog.Logger
	// Tagline is shown on the splash screen, usually the school name.
	Tagline string
	// SkipSplash starts on the home screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	player game.Player
	width  int
	height int
}

// flow builds every screen from the shared options.
type flow struct {
	opts Options
}

func (f flow) home() screen.Screen {
	return home.New(f.opts.Scores, f.picker, func() screen.Screen {
		return f.board("", "")
	})
}

func (f flow) picker() screen.Screen {
	return player.New(f.opts.Roster, f.game)
}

func (f flow) game(p game.Player) screen.Screen {
	deps := game.Deps{
		Session:  f.opts.Session,
		Scores:   f.opts.Scores,
		Notifier: f.opts.Notifier,
		Logger:   f.opts.Logger,
	}
	return game.New(p, deps, f.summary)
}

func (f flow) summary(res game.Result) screen.Screen {
	return summary.New(res, summary.Actions{
		Replay: func() screen.Screen { return f.game(res.Player) },
		Leaderboard: func() screen.Screen {
			return f.board(res.Submit.Record.ID, res.Player.ClassName)
		},
	})
}

func (f flow) board(highlight, className string) screen.Screen {
	return scoreboard.New(f.opts.Scores, highlight, className)
}

// newAppModel creates a new AppModel starting on the splash screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Roster == nil {
		opts.Roster = roster.Static{}
	}
	f := flow{opts: opts}

	var first screen.Screen
	if opts.SkipSplash {
		first = f.home()
	} else {
		first = welcome.New(f.home, opts.Tagline)
	}
	return AppModel{
		router: router.New(first),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case player.PlayerChosenMsg:
		m.player = msg.Player
		return m, nil

	case router.PopToRootMsg:
		m.player = game.Player{}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.player.String(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Keluar"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pilih"},
		{Key: "Enter", Description: "Teruskan"},
		{Key: "Ctrl+C", Description: "Keluar"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
