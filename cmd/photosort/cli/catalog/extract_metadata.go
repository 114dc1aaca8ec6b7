package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/photosort/photosort/internal/pipeline"
	"github.com/photosort/photosort/pkg/metadata"
)

func newExtractMetadataCommand() *cobra.Command {
	var strategyFlag string
	var sessionID uint
	var showStats bool

	cmd := &cobra.Command{
		Use:   "extract-metadata",
		Short: "Extract EXIF/QuickTime/XMP metadata for a scan session's files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showStats {
				return runMetadataStats(cmd.Context())
			}

			strategy, ok := metadata.ParseStrategy(strategyFlag)
			if !ok {
				return fmt.Errorf("invalid --strategy %q: must be %q or %q", strategyFlag, metadata.StrategyFull, metadata.StrategySelective)
			}
			return runExtractMetadata(cmd.Context(), sessionID, strategy)
		},
	}

	cmd.Flags().UintVar(&sessionID, "session", 0, "scan session id (defaults to the most recent)")
	cmd.Flags().StringVar(&strategyFlag, "strategy", string(metadata.StrategySelective), "which files to extract: full or selective")
	cmd.Flags().Int("batch-size", 0, "files per exiftool invocation (0 uses the configured default)")
	cmd.Flags().Int("limit", 0, "stop after extracting this many files (0 means no limit)")
	cmd.Flags().Bool("metadata-daemon", false, "set metadata.daemon in the loaded config; extraction still runs one exiftool process per batch")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print aggregate metadata coverage and exit")

	viper.BindPFlag("metadata.batch_size", cmd.Flags().Lookup("batch-size"))
	viper.BindPFlag("metadata.daemon", cmd.Flags().Lookup("metadata-daemon"))
	viper.BindPFlag("metadata.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runExtractMetadata(ctx context.Context, sessionID uint, strategy metadata.Strategy) error {
	limit := viper.GetInt("metadata.limit")

	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		id, err := resolveSessionID(ctx, p, sessionID)
		if err != nil {
			return err
		}

		stats, err := p.ExtractMetadata(ctx, id, strategy, limit)
		if err != nil {
			return err
		}
		fmt.Printf("extracted metadata for %s files (%s with original date, %s with GPS, %s failed, %s skipped) in %s\n",
			humanize.Comma(stats.FilesExtracted), humanize.Comma(stats.FilesWithDateOriginal),
			humanize.Comma(stats.FilesWithGPS), humanize.Comma(stats.FilesFailed), humanize.Comma(stats.FilesSkipped),
			time.Since(stats.StartedAt).Round(time.Second))
		return nil
	})
}

func runMetadataStats(ctx context.Context) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		counts, err := p.Store().GetMetadataStats(ctx)
		if err != nil {
			return err
		}
		for k, v := range counts {
			fmt.Printf("%s: %s\n", k, humanize.Comma(v))
		}
		return nil
	})
}
