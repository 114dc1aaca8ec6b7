// Package catalog groups the `photosort catalog ...` subcommands, one per
// pipeline stage, following the teacher's cmd/gosync/cli/server grouping of
// agent/config subcommands under a parent command.
package catalog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/internal/pipeline"
)

func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Run the photo-archive cataloging pipeline",
	}

	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newResolveDatesCommand())
	cmd.AddCommand(newExtractMetadataCommand())
	cmd.AddCommand(newPlanCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newRunCommand())

	return cmd
}

// withPipeline loads configuration, brings up a Pipeline, runs fn against
// it, and tears it down again — the setup/cleanup bracket every catalog
// subcommand needs around its one stage.
func withPipeline(ctx context.Context, fn func(ctx context.Context, p *pipeline.Pipeline) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	p := pipeline.New(cfg)
	if err := p.Setup(ctx); err != nil {
		return fmt.Errorf("setting up pipeline: %w", err)
	}
	defer p.Shutdown(ctx)

	return fn(ctx, p)
}

// resolveSessionID returns sessionID unchanged if the caller supplied one
// (non-zero), otherwise the most recently started scan session's id — every
// stage subcommand accepts --session but defaults to "whatever I scanned
// last".
func resolveSessionID(ctx context.Context, p *pipeline.Pipeline, sessionID uint) (uint, error) {
	if sessionID != 0 {
		return sessionID, nil
	}

	sessions, err := p.Store().ListScanSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing scan sessions: %w", err)
	}
	if len(sessions) == 0 {
		return 0, fmt.Errorf("no scan sessions found; run `photosort catalog scan <root>` first")
	}
	return sessions[0].ID, nil
}
