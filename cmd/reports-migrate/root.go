package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"journal-backend/internal/features/migrations"

	"github.com/spf13/cobra"
)

var errTablesFailed = errors.New("one or more tables failed to migrate")

// Global flag values.
var (
	flagUserID    string
	flagBatchSize int
	flagDryRun    bool
)

var rootCmd = &cobra.Command{
	Use:           "reports-migrate",
	Short:         "Run report maintenance migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		migrations.SetupDependencies()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUserID, "user-id", "", "only migrate rows owned by this user")
	rootCmd.PersistentFlags().IntVar(&flagBatchSize, "batch-size", migrations.DefaultBatchSize, "rows per page, clamped to 1..500")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "count what would change without writing")

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(moodScoresCmd)
}

// printResponse writes the response as indented JSON and turns failed
// tables into a non-zero exit.
func printResponse(out io.Writer, response *migrations.MigrationResponse) error {
	output, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	fmt.Fprintln(out, string(output))

	if response.HasFailedTables() {
		return errTablesFailed
	}
	return nil
}
