package catalog

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/photosort/photosort/internal/pipeline"
	"github.com/photosort/photosort/pkg/metadata"
)

// newRunCommand chains all four stages sequentially against one source
// root, supplemented from original_source/photosort/cli.py's `run` command
// — the condensed spec.md §6 command surface only names the per-stage
// subcommands, but the original always offered this combined shortcut.
func newRunCommand() *cobra.Command {
	var resume bool
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Run scan, resolve-dates, extract-metadata, and plan in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("run requires exactly one source root argument")
			}
			strategy, ok := metadata.ParseStrategy(strategyFlag)
			if !ok {
				return fmt.Errorf("invalid --strategy %q: must be %q or %q", strategyFlag, metadata.StrategyFull, metadata.StrategySelective)
			}
			return runAll(cmd.Context(), args[0], resume, strategy)
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "resume the interrupted scan session for this source root")
	cmd.Flags().StringVar(&strategyFlag, "strategy", string(metadata.StrategySelective), "metadata extraction strategy: full or selective")

	return cmd
}

func runAll(ctx context.Context, root string, resume bool, strategy metadata.Strategy) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		report, err := p.RunAll(ctx, root, resume, strategy)
		if err != nil {
			return err
		}

		fmt.Printf("session %d complete:\n", report.SessionID)
		fmt.Printf("  scan: %s files, %s directories\n", humanize.Comma(report.Scan.FilesScanned), humanize.Comma(report.Scan.DirectoriesScanned))
		fmt.Printf("  resolve-dates: %s of %s files resolved\n", humanize.Comma(report.PathDate.FilesResolved), humanize.Comma(report.PathDate.TotalFiles))
		fmt.Printf("  extract-metadata: %s extracted, %s failed, %s skipped\n", humanize.Comma(report.Metadata.FilesExtracted), humanize.Comma(report.Metadata.FilesFailed), humanize.Comma(report.Metadata.FilesSkipped))
		fmt.Printf("  plan: %s folders, %s files\n", humanize.Comma(report.Plan.FoldersPlanned), humanize.Comma(report.Plan.FilesPlanned))
		return nil
	})
}
