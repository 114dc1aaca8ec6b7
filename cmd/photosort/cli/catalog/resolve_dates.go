package catalog

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/photosort/photosort/internal/pipeline"
)

// newResolveDatesCommand restores PathDateExtractor as its own invokable
// stage, following original_source/photosort/cli.py's `resolve-dates`
// command rather than folding it implicitly into `run`.
func newResolveDatesCommand() *cobra.Command {
	var reprocess bool
	var sessionID uint

	cmd := &cobra.Command{
		Use:   "resolve-dates",
		Short: "Resolve per-file path-derived dates for a scan session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolveDates(cmd.Context(), sessionID, reprocess)
		},
	}

	cmd.Flags().UintVar(&sessionID, "session", 0, "scan session id (defaults to the most recent)")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "recompute path dates for files that already have them")
	cmd.Flags().Int("batch-size", 0, "files per batch (0 uses the configured default)")

	viper.BindPFlag("path_date.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runResolveDates(ctx context.Context, sessionID uint, reprocess bool) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		id, err := resolveSessionID(ctx, p, sessionID)
		if err != nil {
			return err
		}

		stats, err := p.ResolveDates(ctx, id, reprocess)
		if err != nil {
			return err
		}
		fmt.Printf("resolved path dates for %s files (%s via hierarchy, %s via folder, %s via filename, %s unresolved)\n",
			humanize.Comma(stats.TotalFiles), humanize.Comma(stats.FilesWithHierarchy),
			humanize.Comma(stats.FilesWithFolder), humanize.Comma(stats.FilesWithFilename),
			humanize.Comma(stats.TotalFiles-stats.FilesResolved))
		return nil
	})
}
