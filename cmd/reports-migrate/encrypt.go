package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"journal-backend/internal/features/migrations"

	"github.com/spf13/cobra"
)

var flagTableType string

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt plaintext report documents",
	Long: `Encrypt every string leaf of the JSONB columns of daily, weekly and
monthly reports. Rows that already hold encrypted values are skipped, so
the command can be re-run safely after a partial failure.

Example:
  reports-migrate encrypt --dry-run
  reports-migrate encrypt --table-type daily --user-id 42 --batch-size 100`,
	Args: cobra.NoArgs,
	RunE: runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVar(&flagTableType, "table-type", string(migrations.TableTypeAll), "daily, weekly, monthly, both or all")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batchSize := flagBatchSize
	response, err := migrations.GetEncryptionMigrationService().MigrateReports(ctx, &migrations.MigrateReportsRequest{
		UserID:    flagUserID,
		TableType: migrations.TableType(flagTableType),
		BatchSize: &batchSize,
		DryRun:    flagDryRun,
	})
	if err != nil {
		return fmt.Errorf("encrypt reports: %w", err)
	}

	return printResponse(cmd.OutOrStdout(), response)
}
