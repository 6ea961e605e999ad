package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "juaratolak",
	Short: "Timed subtraction drill game",
	Long: "Juara Tolak: answer as many subtraction questions as you can in one minute.\n" +
		"Scores are kept per class and the best player is crowned champion.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/juaratolak/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides JUARA_DB env var)")
	rootCmd.PersistentFlags().String("store", "", "Score backend: sqlite, redis, postgres or memory (overrides JUARA_STORE)")
	rootCmd.PersistentFlags().String("school", "", "School name shown on the splash screen")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags, which take priority over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if b, _ := cmd.Flags().GetString("store"); b != "" {
		cfg.Store.Backend = b
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
