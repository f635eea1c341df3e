package blogcmd

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-blog/internal/builder"
	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	buildOperation = "site.build"
	syncOperation  = "archive.sync"
)

// ErrArchiveFeatureDisabled is returned when the archive feature flag is disabled at runtime.
var ErrArchiveFeatureDisabled = errors.New("archive command: feature disabled")

var (
	_ command.Commander[BuildSiteCommand]   = (*BuildSiteHandler)(nil)
	_ command.Commander[SyncArchiveCommand] = (*SyncArchiveHandler)(nil)
)

// BuildSiteHandler orchestrates site builds via the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided blog service.
func NewBuildSiteHandler(service interfaces.BlogService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if service == nil || !gates.buildEnabled() {
			return builder.ErrServiceDisabled
		}

		options := interfaces.BuildSiteOptions{
			Dir:       strings.TrimSpace(msg.Directory),
			OutputDir: strings.TrimSpace(msg.OutputDir),
			DryRun:    msg.DryRun,
		}
		if len(msg.Slugs) > 0 {
			options.Slugs = normalizeSlugs(msg.Slugs)
		}
		if msg.Incremental != nil {
			incremental := *msg.Incremental
			options.Incremental = &incremental
		}

		result, err := service.BuildSite(ctx, options)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation": "build",
			},
		})
		if err != nil {
			return err
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.Directory != "" {
				fields["directory"] = msg.Directory
			}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if len(msg.Slugs) > 0 {
				fields["slugs"] = len(msg.Slugs)
			}
			if msg.Incremental != nil {
				fields["incremental"] = *msg.Incremental
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncArchiveHandler converges the post archive via the shared command handler foundation.
type SyncArchiveHandler struct {
	inner *commands.Handler[SyncArchiveCommand]
}

// NewSyncArchiveHandler constructs a handler wired to the provided blog service.
func NewSyncArchiveHandler(service interfaces.BlogService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncArchiveCommand]) *SyncArchiveHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncArchiveCommand) error {
		if service == nil || !gates.archiveEnabled() {
			return ErrArchiveFeatureDisabled
		}

		result, err := service.SyncArchive(ctx, interfaces.SyncArchiveOptions{
			Dir:            strings.TrimSpace(msg.Directory),
			DryRun:         msg.DryRun,
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  result.Created,
				"updated_count":  result.Updated,
				"deleted_count":  result.Deleted,
				"skipped_count":  result.Skipped,
				"error_count":    len(result.Errors),
				"dry_run":        msg.DryRun,
				"delete_orphans": msg.DeleteOrphaned,
			}).Info("blog.command.sync_archive.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncArchiveCommand]{
		commands.WithLogger[SyncArchiveCommand](baseLogger),
		commands.WithOperation[SyncArchiveCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncArchiveCommand) map[string]any {
			fields := map[string]any{}
			if msg.Directory != "" {
				fields["directory"] = msg.Directory
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncArchiveCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncArchiveHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncArchiveCommand].
func (h *SyncArchiveHandler) Execute(ctx context.Context, msg SyncArchiveCommand) error {
	return h.inner.Execute(ctx, msg)
}

func normalizeSlugs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, slug := range values {
		trimmed := strings.TrimSpace(slug)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
