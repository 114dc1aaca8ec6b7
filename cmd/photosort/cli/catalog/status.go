package catalog

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/photosort/photosort/internal/pipeline"
)

// newStatusCommand prints every known scan session and its lifecycle
// status, the catalog-wide view `scan --status` deliberately narrows to
// just the resumable ones.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List every scan session recorded in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	return withPipeline(ctx, func(ctx context.Context, p *pipeline.Pipeline) error {
		sessions, err := p.Store().ListScanSessions(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("no scan sessions found")
			return nil
		}

		for _, s := range sessions {
			fmt.Printf("[%d] %s: %s (%s files, %s directories, %s)\n",
				s.ID, s.SourceRoot, s.Status,
				humanize.Comma(s.FilesScanned), humanize.Comma(s.DirectoriesScanned),
				humanize.Bytes(uint64(s.TotalBytes)))
		}
		return nil
	})
}
