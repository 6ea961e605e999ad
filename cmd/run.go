package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/app"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/notify"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, skipSplash bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	b, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	tagline, _ := cmd.Flags().GetString("school")
	return app.Run(app.Options{
		Scores:     b.Scores,
		Roster:     b.Roster,
		Session:    cfg.Session(),
		Notifier:   tuiNotifier(cfg, logger),
		Logger:     logger,
		Tagline:    tagline,
		SkipSplash: skipSplash,
	})
}

// fileLogger writes text logs to juaratolak.log in the data directory so
// nothing is printed over the alt-screen.
func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	dir, err := store.DataDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, store.AppName+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

// tuiNotifier rings the terminal bell on stderr, away from the renderer,
// and records every cue in the log.
func tuiNotifier(cfg *config.Config, logger *slog.Logger) session.Notifier {
	var bell io.Writer = io.Discard
	if cfg.Game.Sound {
		bell = os.Stderr
	}
	return notify.Multi{notify.NewBell(bell), notify.NewLog(logger)}
}
