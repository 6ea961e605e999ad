package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the ranked scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		top, _ := cmd.Flags().GetInt("top")

		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			records, err := b.Scores.Standings(ctx, class)
			if err != nil {
				return err
			}
			if top > 0 {
				records = leaderboard.Top(records, top)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "Tiada rekod lagi.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NO.\tNAMA\tKELAS\tMARKAH\tTARIKH")
			for i, r := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
					i+1, r.Name, r.ClassName, r.Score, r.Timestamp.Local().Format("02/01/2006 15:04"))
			}
			return tw.Flush()
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the school report: overall top 10, top 3 per class and full class lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(format)
		if format != "text" && format != "csv" {
			return fmt.Errorf("unknown report format %q (want text or csv)", format)
		}

		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			rep, err := b.Scores.Report(ctx)
			if err != nil {
				return err
			}
			if format == "csv" {
				return rep.WriteCSV(cmd.OutOrStdout())
			}
			return rep.WriteText(cmd.OutOrStdout())
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every saved score",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to delete all scores without --yes")
		}
		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			if err := b.Scores.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Semua markah telah dipadam.")
			return nil
		})
	},
}

func init() {
	leaderboardCmd.Flags().String("class", "", "Only show one class")
	leaderboardCmd.Flags().Int("top", 0, "Only show the first N players")
	reportCmd.Flags().String("format", "text", "Output format: text or csv")
	resetCmd.Flags().Bool("yes", false, "Confirm deleting all scores")
}

// withBackend loads config, opens the backend with a stderr logger, runs fn
// and closes everything.
func withBackend(cmd *cobra.Command, fn func(context.Context, *backend) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := stderrLogger(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

// stderrLogger keeps command output on stdout clean. Info is too chatty for
// one-shot commands, so the floor is warn unless debug was asked for.
func stderrLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if level > slog.LevelDebug && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
