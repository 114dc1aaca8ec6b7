package catalog

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/photosort/photosort/internal/pipeline"
)

func newPlanCommand() *cobra.Command {
	var sessionID uint

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Decide a target folder for every scanned source folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), sessionID)
		},
	}

	cmd.Flags().UintVar(&sessionID, "session", 0, "scan session id (defaults to the most recent)")
	cmd.Flags().Float64("min-coverage", 0, "minimum image date coverage to resolve statistically (0 uses the configured default)")
	cmd.Flags().Float64("min-prevalence", 0, "minimum prevalent-date share to adopt a folder date (0 uses the configured default)")
	cmd.Flags().Int("max-span", 0, "maximum calendar-month date spread before bucketing as mixed_dates (0 uses the configured default)")

	viper.BindPFlag("planner.min_coverage_threshold", cmd.Flags().Lookup("min-coverage"))
	viper.BindPFlag("planner.min_prevalence_threshold", cmd.Flags().Lookup("min-prevalence"))
	viper.BindPFlag("planner.max_date_span_months", cmd.Flags().Lookup("max-span"))

	return cmd
}

func runPlan(ctx context.Context, sessionID uint) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		id, err := resolveSessionID(ctx, p, sessionID)
		if err != nil {
			return err
		}

		stats, err := p.Plan(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("planned %s folders, %s files (%s potential duplicates, %s sidecars)\n",
			humanize.Comma(stats.FoldersPlanned), humanize.Comma(stats.FilesPlanned),
			humanize.Comma(stats.PotentialDuplicates), humanize.Comma(stats.Sidecars))
		for bucket, count := range stats.FoldersByBucket {
			fmt.Printf("  bucket %s: %s folders\n", bucket, humanize.Comma(count))
		}
		for source, count := range stats.FoldersBySource {
			fmt.Printf("  source %s: %s folders\n", source, humanize.Comma(count))
		}
		return nil
	})
}
