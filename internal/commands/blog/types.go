package blogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	buildSiteMessageType   = "blog.site.build"
	syncArchiveMessageType = "blog.archive.sync"
)

// ResultCallback receives build results produced by site builds. The callback
// is optional and is invoked synchronously from the handler when a build
// result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a command execution that produced a
// build result.
type ResultEnvelope struct {
	Result   *interfaces.BuildSiteResult
	Metadata map[string]any
}

// BuildSiteCommand renders the static site from the configured content set.
type BuildSiteCommand struct {
	Directory      string         `json:"directory,omitempty"`
	OutputDir      string         `json:"output_dir,omitempty"`
	Slugs          []string       `json:"slugs,omitempty"`
	Incremental    *bool          `json:"incremental,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures overrides are well-formed and slug filters carry values.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	if m.Directory != "" && strings.TrimSpace(m.Directory) == "" {
		errs["directory"] = validation.NewError("blog.site.build.directory_invalid", "directory must not be blank")
	}
	if m.OutputDir != "" && strings.TrimSpace(m.OutputDir) == "" {
		errs["output_dir"] = validation.NewError("blog.site.build.output_dir_invalid", "output_dir must not be blank")
	}
	for _, slug := range m.Slugs {
		if strings.TrimSpace(slug) == "" {
			errs["slugs"] = validation.NewError("blog.site.build.slug_invalid", "slugs must not contain empty values")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SyncArchiveCommand converges the post archive with the content directory.
type SyncArchiveCommand struct {
	Directory      string `json:"directory,omitempty"`
	DryRun         bool   `json:"dry_run,omitempty"`
	DeleteOrphaned bool   `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncArchiveCommand) Type() string { return syncArchiveMessageType }

// Validate ensures the directory override is well-formed when supplied.
func (m SyncArchiveCommand) Validate() error {
	errs := validation.Errors{}
	if m.Directory != "" && strings.TrimSpace(m.Directory) == "" {
		errs["directory"] = validation.NewError("blog.archive.sync.directory_invalid", "directory must not be blank")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	BuildEnabled   func() bool
	ArchiveEnabled func() bool
}

func (g FeatureGates) buildEnabled() bool {
	if g.BuildEnabled == nil {
		return false
	}
	return g.BuildEnabled()
}

func (g FeatureGates) archiveEnabled() bool {
	if g.ArchiveEnabled == nil {
		return false
	}
	return g.ArchiveEnabled()
}
