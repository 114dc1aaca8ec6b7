// Package pipeline wires the four catalog stages together into a single
// container-managed process, generalizing internal/agent.GoSyncAgent's
// setupServices/Serve shape from a long-running sync daemon to a short-lived
// CLI invocation: services are registered once, the requested stages run in
// order, then the container is cleaned up.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/mwantia/fabric/pkg/container"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/migrations"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
	"github.com/photosort/photosort/pkg/metadata"
	"github.com/photosort/photosort/pkg/metrics"
	"github.com/photosort/photosort/pkg/pathdate"
	"github.com/photosort/photosort/pkg/planner"
	"github.com/photosort/photosort/pkg/scanner"

	"github.com/spf13/afero"
)

// Report aggregates the per-stage stats of one RunAll invocation, for the
// `run` CLI command's combined summary.
type Report struct {
	SessionID uint
	Scan      scanner.Stats
	PathDate  pathdate.Stats
	Metadata  metadata.Stats
	Plan      planner.Stats
}

// Pipeline owns the catalog store and the four stage implementations,
// registering each into a fabric service container the way GoSyncAgent
// registers its LoggerService, so every stage resolves its collaborators
// from one place rather than constructing them ad hoc.
type Pipeline struct {
	mutex sync.RWMutex

	cfg *config.Config
	sc  *container.ServiceContainer
	log log.LoggerService

	catalog store.CatalogStore
	metrics *metrics.Registry

	scan     *scanner.Scanner
	pathdate *pathdate.Resolver
	meta     *metadata.Extractor
	plan     *planner.Planner
}

// metadataExtractor lazily constructs the metadata Extractor on first use.
// Construction probes exiftool's version, which is fatal if absent per
// spec.md §4.3 — but that preflight must only gate the MetadataExtractor
// stage itself, not every catalog subcommand, so Setup does not build it.
func (p *Pipeline) metadataExtractor(ctx context.Context) (*metadata.Extractor, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.meta != nil {
		return p.meta, nil
	}

	invoker := metadata.NewSubprocessInvoker(p.cfg.Metadata.ExecPath)
	meta, err := metadata.New(ctx, p.catalog, invoker, p.log, p.metrics, p.cfg.Metadata)
	if err != nil {
		return nil, fmt.Errorf("initializing metadata extractor: %w", err)
	}
	p.meta = meta
	return p.meta, nil
}

// New constructs a Pipeline. Setup must be called before any stage method.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("photosort", cfg.Log),
	}
}

// Setup opens the catalog store, runs pending migrations, and registers
// every stage's collaborators into the service container.
func (p *Pipeline) Setup(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	errs := container.Errors{}

	p.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](p.sc,
		container.With[log.LoggerService](),
		container.WithInstance(p.log)))

	sqliteStore, err := store.NewSQLiteStore(store.SQLiteConfig{Path: p.cfg.Database.Path})
	if err != nil {
		return fmt.Errorf("opening catalog store: %w", err)
	}
	if err := sqliteStore.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to catalog store: %w", err)
	}
	if err := migrations.NewMigrator(sqliteStore.DB()).Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	p.catalog = sqliteStore

	p.log.Debug("Registering 'CatalogStore'...")
	errs.Add(container.Register[store.SQLiteStore](p.sc,
		container.With[store.CatalogStore](),
		container.WithInstance(p.catalog)))

	p.metrics = metrics.New()
	p.log.Debug("Registering 'MetricsRegistry'...")
	errs.Add(container.Register[metrics.Registry](p.sc,
		container.With[*metrics.Registry](),
		container.WithInstance(p.metrics)))

	if err := errs.Errors(); err != nil {
		return err
	}

	p.scan = scanner.New(afero.NewOsFs(), p.catalog, scanner.NewFindmntDriveUUIDOracle(), p.log, p.metrics, p.cfg.Scanner)
	p.pathdate = pathdate.New(p.catalog, p.log, p.metrics, p.cfg.PathDate)
	p.plan = planner.New(p.catalog, p.log, p.metrics, p.cfg.Planner)

	if p.cfg.Metrics.Enabled {
		go func() {
			if err := p.metrics.Serve(ctx, p.cfg.Metrics.ListenAddr); err != nil {
				p.log.Error("metrics server stopped: %v", err)
			}
		}()
	}

	return nil
}

// Shutdown releases the service container and closes the catalog store,
// mirroring GoSyncAgent.Serve's post-signal cleanup.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	if err := p.sc.Cleanup(ctx); err != nil {
		return fmt.Errorf("service container cleanup: %w", err)
	}
	if p.catalog != nil {
		return p.catalog.Close()
	}
	return nil
}

// Store exposes the catalog store for CLI status/stats reporting that
// doesn't warrant its own Pipeline method.
func (p *Pipeline) Store() store.CatalogStore {
	return p.catalog
}

// Scan runs stage 1 against sourceRoot.
func (p *Pipeline) Scan(ctx context.Context, sourceRoot string, resume bool) (scanner.Stats, error) {
	return p.scan.Scan(ctx, sourceRoot, resume)
}

// ResolveDates runs stage 2 over scanSessionID's files.
func (p *Pipeline) ResolveDates(ctx context.Context, scanSessionID uint, reprocess bool) (pathdate.Stats, error) {
	return p.pathdate.Resolve(ctx, scanSessionID, reprocess)
}

// ExtractMetadata runs stage 3 over scanSessionID's files, constructing the
// Extractor (and probing exiftool's version) on first use so non-metadata
// subcommands never pay that preflight.
func (p *Pipeline) ExtractMetadata(ctx context.Context, scanSessionID uint, strategy metadata.Strategy, limit int) (metadata.Stats, error) {
	meta, err := p.metadataExtractor(ctx)
	if err != nil {
		return metadata.Stats{}, err
	}
	return meta.ExtractAll(ctx, scanSessionID, strategy, limit)
}

// Plan runs stage 4 over scanSessionID's resolved files.
func (p *Pipeline) Plan(ctx context.Context, scanSessionID uint) (planner.Stats, error) {
	return p.plan.Plan(ctx, scanSessionID)
}

// RunAll chains all four stages against a freshly scanned (or resumed)
// source root and returns their combined stats, for the `run` command.
func (p *Pipeline) RunAll(ctx context.Context, sourceRoot string, resume bool, strategy metadata.Strategy) (Report, error) {
	var report Report

	scanStats, err := p.Scan(ctx, sourceRoot, resume)
	report.Scan = scanStats
	if err != nil {
		return report, fmt.Errorf("scan stage: %w", err)
	}

	// Scan() has already marked its session Completed by the time it
	// returns, so the running-session lookups no longer match it; the
	// session is looked up by its (absolute, uniquely indexed) source root.
	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return report, fmt.Errorf("resolving source root: %w", err)
	}
	session, err := p.catalog.GetScanSessionByRoot(ctx, absRoot)
	if err != nil {
		return report, fmt.Errorf("locating scan session: %w", err)
	}
	report.SessionID = session.ID

	pathDateStats, err := p.ResolveDates(ctx, session.ID, false)
	report.PathDate = pathDateStats
	if err != nil {
		return report, fmt.Errorf("path-date stage: %w", err)
	}

	metaStats, err := p.ExtractMetadata(ctx, session.ID, strategy, 0)
	report.Metadata = metaStats
	if err != nil {
		return report, fmt.Errorf("metadata stage: %w", err)
	}

	planStats, err := p.Plan(ctx, session.ID)
	report.Plan = planStats
	if err != nil {
		return report, fmt.Errorf("plan stage: %w", err)
	}

	return report, nil
}
