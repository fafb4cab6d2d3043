package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"journal-backend/internal/features/migrations"

	"github.com/spf13/cobra"
)

var moodScoresCmd = &cobra.Command{
	Use:   "mood-scores",
	Short: "Backfill mood scores from daily reports",
	Long: `Copy mood_analysis.score of each daily report into mood_scores.
Reports whose user already has a score for that date are skipped.`,
	Args: cobra.NoArgs,
	RunE: runMoodScores,
}

func runMoodScores(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batchSize := flagBatchSize
	response, err := migrations.GetMoodScoreMigrationService().MigrateMoodScores(ctx, &migrations.MigrateMoodScoresRequest{
		UserID:    flagUserID,
		BatchSize: &batchSize,
		DryRun:    flagDryRun,
	})
	if err != nil {
		return fmt.Errorf("backfill mood scores: %w", err)
	}

	return printResponse(cmd.OutOrStdout(), response)
}
