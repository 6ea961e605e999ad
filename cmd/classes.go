package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the roster, or import a roster file into Redis",
	Long: "Lists every class and its students.\n\n" +
		"With --import, reads a roster YAML file and stores it in the shared\n" +
		"Redis hash so every game station sees the same names. This needs\n" +
		"roster.source set to redis.",
	RunE: func(cmd *cobra.Command, args []string) error {
		importPath, _ := cmd.Flags().GetString("import")

		return withBackend(cmd, func(ctx context.Context, b *backend) error {
			if importPath != "" {
				return importRoster(ctx, cmd, b, importPath)
			}
			classes, err := b.Roster.LoadClasses(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if classes.Empty() {
				fmt.Fprintln(out, "Tiada kelas. Pemain akan menaip nama sendiri.")
				return nil
			}
			for _, class := range classes.Names() {
				names, _ := classes.Students(class)
				fmt.Fprintf(out, "%s (%d)\n", class, len(names))
				if len(names) > 0 {
					fmt.Fprintf(out, "  %s\n", strings.Join(names, ", "))
				}
			}
			return nil
		})
	},
}

func importRoster(ctx context.Context, cmd *cobra.Command, b *backend, path string) error {
	dir, ok := b.Roster.(*roster.RedisDirectory)
	if !ok {
		return errors.New("roster import needs roster.source set to redis")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}
	classes, err := roster.ParseYAML(data)
	if err != nil {
		return err
	}
	if err := dir.Store(ctx, classes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d classes.\n", len(classes))
	return nil
}

func init() {
	classesCmd.Flags().String("import", "", "Roster YAML file to store in Redis")
}
