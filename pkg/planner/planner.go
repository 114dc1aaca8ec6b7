package planner

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/photosort/photosort/internal/config"
	"github.com/photosort/photosort/pkg/db/models"
	"github.com/photosort/photosort/pkg/db/store"
	"github.com/photosort/photosort/pkg/log"
	"github.com/photosort/photosort/pkg/metrics"
)

// Stats summarizes one Plan run, grounded on spec.md §7's per-stage
// completion summary requirement for the Planner (folders per bucket and
// per source tag, file counts including potential-duplicates and
// sidecars).
type Stats struct {
	FoldersPlanned      int64
	FoldersByBucket     map[string]int64
	FoldersBySource     map[string]int64
	FilesPlanned        int64
	PotentialDuplicates int64
	Sidecars            int64
}

// resolvedFolder is the subset of a FolderPlan this run needs in memory to
// support inheritance and duplicate-filename tracking across folders.
type resolvedFolder struct {
	id           uint
	resolvedDate *int64
	targetFolder string
}

// Planner orchestrates stage 4: it never moves or deletes a source file, it
// only decides and records where each one should eventually go.
type Planner struct {
	store   store.CatalogStore
	logger  log.LoggerService
	metrics *metrics.Registry
	cfg     config.PlannerConfig
}

func New(catalogStore store.CatalogStore, logger log.LoggerService, registry *metrics.Registry, cfg config.PlannerConfig) *Planner {
	return &Planner{store: catalogStore, logger: logger.Named("planner"), metrics: registry, cfg: cfg}
}

// Plan rebuilds the full plan for scanSessionID: it clears any existing
// folder_plan/file_plan rows for the session, then resolves every source
// folder in ascending depth order so a parent is always already resolved
// when a child considers inheritance.
func (p *Planner) Plan(ctx context.Context, scanSessionID uint) (Stats, error) {
	stats := Stats{FoldersByBucket: map[string]int64{}, FoldersBySource: map[string]int64{}}

	if err := p.store.ClearExistingPlan(ctx, scanSessionID); err != nil {
		return stats, fmt.Errorf("clearing existing plan: %w", err)
	}

	dirs, err := p.store.ListDistinctDirectories(ctx, scanSessionID)
	if err != nil {
		return stats, fmt.Errorf("listing directories: %w", err)
	}

	sort.Slice(dirs, func(i, j int) bool {
		di, dj := depth(dirs[i]), depth(dirs[j])
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})

	targetFilenames := map[string]map[string]bool{}
	resolved := map[string]resolvedFolder{}

	for _, dir := range dirs {
		if err := p.processFolder(ctx, scanSessionID, dir, targetFilenames, resolved, &stats); err != nil {
			return stats, fmt.Errorf("processing folder %q: %w", dir, err)
		}
	}

	p.logger.Info("plan complete: %d folders, %d files, %d potential duplicates, %d sidecars",
		stats.FoldersPlanned, stats.FilesPlanned, stats.PotentialDuplicates, stats.Sidecars)

	return stats, nil
}

func depth(dir string) int {
	if dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}

func (p *Planner) processFolder(
	ctx context.Context,
	scanSessionID uint,
	dir string,
	targetFilenames map[string]map[string]bool,
	resolved map[string]resolvedFolder,
	stats *Stats,
) error {
	rows, err := p.store.ListFolderFiles(ctx, scanSessionID, dir)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	fileDates := make([]FileDateResult, len(rows))
	isImage := make([]bool, len(rows))
	for i, r := range rows {
		fileDates[i] = ResolveFileDate(r.DatePathFolder, r.DatePathFilename, r.DateOriginal, r.FSModifiedAt)
		isImage[i] = IsImageExtension(r.Extension)
	}

	var pathDate *int64
	for _, r := range rows {
		if r.DatePathFolder != nil {
			pathDate = r.DatePathFolder
			break
		}
	}

	analysisInput := make([]fileForAnalysis, len(rows))
	for i := range rows {
		analysisInput[i] = fileForAnalysis{Date: fileDates[i].Date, IsImage: isImage[i]}
	}
	analysis := AnalyzeFolder(analysisInput)

	var resolution FolderResolution
	if pathDate != nil {
		resolution = ResolveFolderWithPathDate(*pathDate)
	} else {
		resolution = ResolveFolder(analysis, p.cfg)
	}

	folderName := path.Base(dir)
	if dir == "" {
		folderName = ""
	}

	var targetFolder, annotation string
	var isSubfolder bool
	var inheritedFrom *uint

	if resolution.Bucket != nil {
		targetFolder = BuildBucketPath(string(*resolution.Bucket), dir)
	} else {
		annotation = ExtractAnnotation(folderName, *resolution.ResolvedDate)
		targetFolder = BuildTargetFolder(*resolution.ResolvedDate, annotation)
	}

	// Inheritance: a folder that did not resolve via its own path date
	// adopts its immediate parent's resolved date, if the parent has one,
	// overriding whatever bucket or statistical result it computed on its
	// own. A path-derived date is never overridden.
	if resolution.Source != models.ResolutionSourcePathFolder {
		if parentPath, hasParent := parentOf(dir); hasParent {
			if parent, ok := resolved[parentPath]; ok && parent.resolvedDate != nil {
				resolution = FolderResolution{ResolvedDate: parent.resolvedDate, Source: models.ResolutionSourceInherited}
				rel := strings.TrimPrefix(dir, parentPath)
				rel = strings.TrimPrefix(rel, "/")
				targetFolder = parent.targetFolder
				if rel != "" {
					targetFolder = parent.targetFolder + "/" + rel
				}
				annotation = ""
				isSubfolder = true
				inheritedFrom = &parent.id
			}
		}
	}

	now := time.Now()
	nowUnix := float64(now.UnixNano()) / 1e9
	nowInt := now.Unix()

	plan := &models.FolderPlan{
		ScanSessionID:         scanSessionID,
		SourceFolder:          dir,
		ResolvedDate:          resolution.ResolvedDate,
		TargetFolder:          targetFolder,
		TotalFileCount:        analysis.TotalFiles,
		ImageFileCount:        analysis.ImageFiles,
		ImagesWithDateCount:   analysis.ImagesWithDate,
		PrevalentDate:         analysis.PrevalentDate,
		MinDate:               analysis.MinDate,
		MaxDate:               analysis.MaxDate,
		InheritedFromFolderID: inheritedFrom,
		IsSubfolder:           isSubfolder,
		ConfigMinCoverage:     floatPtr(p.cfg.MinCoverageThreshold),
		ConfigMinPrevalence:   floatPtr(p.cfg.MinPrevalenceThreshold),
		ConfigMaxSpanMonths:   int64Ptr(int64(p.cfg.MaxDateSpanMonths)),
		PlannedAtUnix:         nowUnix,
		PlannedAt:             nowInt,
	}
	source := resolution.Source
	plan.ResolvedDateSource = &source
	if resolution.Bucket != nil {
		plan.Bucket = resolution.Bucket
	}
	if annotation != "" {
		plan.Annotation = &annotation
	}
	if analysis.ImageFiles > 0 {
		plan.DateCoveragePct = floatPtr(analysis.DateCoveragePct)
	}
	if analysis.PrevalentDate != nil {
		plan.PrevalentDateCount = int64Ptr(analysis.PrevalentCount)
		plan.PrevalentDatePct = floatPtr(analysis.PrevalentDatePct)
		plan.UniqueDateCount = int64Ptr(analysis.UniqueDateCount)
		plan.DateSpanMonths = int64Ptr(analysis.DateSpanMonths)
	}

	if err := p.store.CreateFolderPlan(ctx, plan); err != nil {
		return err
	}

	resolved[dir] = resolvedFolder{id: plan.ID, resolvedDate: resolution.ResolvedDate, targetFolder: targetFolder}
	stats.FoldersPlanned++
	bucketLabel := "dated"
	if resolution.Bucket != nil {
		bucketLabel = string(*resolution.Bucket)
		stats.FoldersByBucket[bucketLabel]++
	}
	stats.FoldersBySource[string(resolution.Source)]++
	if p.metrics != nil {
		p.metrics.FoldersPlanned.WithLabelValues(bucketLabel).Inc()
	}

	if _, ok := targetFilenames[targetFolder]; !ok {
		targetFilenames[targetFolder] = map[string]bool{}
	}
	existing := targetFilenames[targetFolder]

	folderFiles := make([]folderFileInfo, len(rows))
	for i, r := range rows {
		folderFiles[i] = folderFileInfo{FilenameBase: r.FilenameBase, Extension: r.Extension}
	}

	filePlans := make([]models.FilePlan, 0, len(rows))
	for i, r := range rows {
		isSidecar := DetectSidecar(r.FilenameBase, r.Extension, folderFiles)

		dup := ResolveFilenameDuplicate(r.FilenameFull, dir, existing)
		existing[dup.Filename] = true

		targetPath := targetFolder + "/" + dup.Filename

		fp := models.FilePlan{
			FileID:           r.FileID,
			FolderPlanID:     plan.ID,
			SourcePath:       r.SourcePath,
			SourceFilename:   r.FilenameFull,
			FileResolvedDate: fileDates[i].Date,
			TargetFolder:     targetFolder,
			TargetPath:       targetPath,
			TargetFilename:   dup.Filename,
			IsSidecar:        isSidecar,
			PlannedAtUnix:    nowUnix,
			PlannedAt:        nowInt,
		}
		fdSource := fileDates[i].Source
		fp.FileDateSource = &fdSource
		if dup.IsDuplicate {
			fp.IsPotentialDuplicate = true
			hash := dup.SourceHash
			fp.DuplicateSourceHash = &hash
			stats.PotentialDuplicates++
		}
		if isSidecar {
			stats.Sidecars++
		}
		reason := string(resolution.Source)
		fp.ResolutionReason = &reason

		filePlans = append(filePlans, fp)
		stats.FilesPlanned++
	}

	return p.store.CreateFilePlans(ctx, filePlans)
}

// parentOf returns the immediate parent directory of dir and whether one
// exists. The root directory (empty string) has no parent; every other
// directory's parent is the empty string or everything before its last
// slash.
func parentOf(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	idx := strings.LastIndex(dir, "/")
	if idx < 0 {
		return "", true
	}
	return dir[:idx], true
}

func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64     { return &i }
