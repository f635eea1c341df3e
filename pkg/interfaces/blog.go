package interfaces

import (
	"context"
	"time"
)

// BlogService exposes the high-level content pipeline workflows: loading and
// parsing posts from disk, building the static site, and converging the post
// archive. The root blog module implements it; command handlers and CLIs
// depend on this contract so they stay decoupled from module wiring.
type BlogService interface {
	BuildSite(ctx context.Context, opts BuildSiteOptions) (*BuildSiteResult, error)
	SyncArchive(ctx context.Context, opts SyncArchiveOptions) (*SyncArchiveResult, error)
}

// BuildSiteOptions tunes a single site build run. Zero values fall back to
// the module configuration.
type BuildSiteOptions struct {
	// Dir overrides the configured content directory for this run.
	Dir string
	// OutputDir overrides the configured build output directory.
	OutputDir string
	// Slugs narrows the build to the named posts. Listing pages are still
	// regenerated so their membership stays correct.
	Slugs []string
	// Incremental overrides the configured incremental behaviour when set.
	Incremental *bool
	// DryRun reports what would be rendered without writing artifacts.
	DryRun bool
}

// BuildSiteResult reports the outcome of one site build run, exposing counts
// and output paths so callers can audit behaviour or trigger follow-ups.
type BuildSiteResult struct {
	PostsBuilt   int
	PostsSkipped int
	PagesBuilt   int
	PagesSkipped int
	// Outputs lists the artifact paths written during the run, relative to
	// the storage root. Empty for dry runs.
	Outputs  []string
	Duration time.Duration
	DryRun   bool
	Errors   []error
}

// SyncArchiveOptions tunes a single archive convergence run.
type SyncArchiveOptions struct {
	// Dir overrides the configured content directory for this run.
	Dir string
	// DryRun reports what would change without writing anything.
	DryRun bool
	// DeleteOrphaned removes archive rows whose source file disappeared.
	DeleteOrphaned bool
}

// SyncArchiveResult summarises an archive convergence run. Counts reflect
// intended changes when the run was a dry run.
type SyncArchiveResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}
