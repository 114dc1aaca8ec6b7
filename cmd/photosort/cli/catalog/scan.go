package catalog

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/photosort/photosort/internal/pipeline"
	"github.com/photosort/photosort/pkg/db/models"
)

func newScanCommand() *cobra.Command {
	var status, resume bool

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Walk a source root and record every file into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status {
				return runScanStatus(cmd.Context())
			}
			if len(args) != 1 {
				return fmt.Errorf("scan requires exactly one source root argument (or --status)")
			}
			return runScan(cmd.Context(), args[0], resume)
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "resume the interrupted scan session for this source root")
	cmd.Flags().Int("progress-interval", 0, "log progress every N files (0 uses the configured default)")
	cmd.Flags().BoolVar(&status, "status", false, "print any interrupted or running scan session and exit")

	viper.BindPFlag("scanner.progress_interval", cmd.Flags().Lookup("progress-interval"))

	return cmd
}

func runScan(ctx context.Context, root string, resume bool) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		stats, err := p.Scan(ctx, root, resume)
		if err != nil {
			return err
		}
		fmt.Printf("scanned %s files in %s directories (%s) in %s\n",
			humanize.Comma(stats.FilesScanned), humanize.Comma(stats.DirectoriesScanned),
			humanize.Bytes(uint64(stats.TotalBytes)), stats.Elapsed().Round(1))
		return nil
	})
}

func runScanStatus(ctx context.Context) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		sessions, err := p.Store().ListScanSessions(ctx)
		if err != nil {
			return err
		}

		found := false
		for _, s := range sessions {
			if s.Status != models.ScanStatusInterrupted && s.Status != models.ScanStatusRunning {
				continue
			}
			found = true
			fmt.Printf("%s: %s (%s files, %s directories scanned so far)\n",
				s.SourceRoot, s.Status, humanize.Comma(s.FilesScanned), humanize.Comma(s.DirectoriesScanned))
		}
		if !found {
			fmt.Println("no interrupted or running scan sessions")
		}
		return nil
	})
}
