package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the counters every pipeline stage reports into, backed
// by a process-local prometheus registry rather than the global default —
// each CLI invocation is a short-lived process, so there is nothing to gain
// from registering globally and a fresh registry avoids duplicate-register
// panics if a stage is invoked twice within the same process (tests).
type Registry struct {
	reg *prometheus.Registry

	FilesScanned      prometheus.Counter
	FoldersPlanned    *prometheus.CounterVec
	FilesExtracted    prometheus.Counter
	ExtractionErrors  prometheus.Counter
	PathDatesResolved *prometheus.CounterVec
}

// New creates a Registry with all pipeline counters registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photosort_files_scanned_total",
			Help: "Total number of files recorded by the Scanner stage.",
		}),
		FoldersPlanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photosort_folders_planned_total",
			Help: "Total number of folders processed by the Planner stage, labeled by resolution bucket.",
		}, []string{"bucket"}),
		FilesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photosort_files_extracted_total",
			Help: "Total number of files successfully processed by the MetadataExtractor stage.",
		}),
		ExtractionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photosort_extraction_errors_total",
			Help: "Total number of per-file metadata extraction errors.",
		}),
		PathDatesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photosort_path_dates_resolved_total",
			Help: "Total number of files with a path-derived date, labeled by strategy.",
		}, []string{"strategy"}),
	}

	reg.MustRegister(r.FilesScanned, r.FoldersPlanned, r.FilesExtracted, r.ExtractionErrors, r.PathDatesResolved)
	return r
}

// Serve starts a /metrics HTTP listener that runs until ctx is cancelled.
// It is meant to live for the duration of a single pipeline-stage command,
// not as an always-on server.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
