package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

// SyncOptions tunes an archive sync run.
type SyncOptions struct {
	// DryRun reports what would change without writing anything.
	DryRun bool
	// DeleteOrphaned removes archive rows whose source file disappeared.
	DeleteOrphaned bool
}

// SyncResult summarises an archive sync run. Counts reflect intended changes
// when DryRun is set.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []error
}

// Syncer converges the archive with a set of parsed posts. Unchanged posts
// are detected by source checksum and skipped.
type Syncer struct {
	archive Archive
	logger  interfaces.Logger
}

// NewSyncer builds a Syncer writing to archive.
func NewSyncer(archive Archive, logger interfaces.Logger) *Syncer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Syncer{
		archive: archive,
		logger:  logger,
	}
}

// Sync upserts every post into the archive and, when requested, deletes rows
// for sources no longer present. The first error is returned alongside the
// full result.
func (s *Syncer) Sync(ctx context.Context, items []*posts.Post, opts SyncOptions) (*SyncResult, error) {
	if s.archive == nil {
		return nil, errors.New("store: archive is required")
	}

	result := &SyncResult{Errors: []error{}}
	seen := make(map[string]struct{}, len(items))

	for _, post := range items {
		if post == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		seen[post.SourcePath()] = struct{}{}
		if err := s.syncOne(ctx, post, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if opts.DeleteOrphaned {
		if err := s.deleteOrphaned(ctx, seen, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	return result, firstError(result.Errors)
}

func (s *Syncer) syncOne(ctx context.Context, post *posts.Post, opts SyncOptions, result *SyncResult) error {
	existing, err := s.archive.GetBySourcePath(ctx, post.SourcePath())
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return fmt.Errorf("store: lookup %s: %w", post.SourcePath(), err)
	}

	if existing != nil && existing.Checksum == post.Checksum() {
		result.Skipped++
		return nil
	}

	action := "create"
	if existing != nil {
		action = "update"
	}
	logging.WithPostContext(s.logger, post.SourcePath(), post.Slug(), "archive."+action).
		Debug("archive sync", "dry_run", opts.DryRun)

	if !opts.DryRun {
		if _, err := s.archive.Save(ctx, RecordFromPost(post)); err != nil {
			return err
		}
	}

	if existing == nil {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

func (s *Syncer) deleteOrphaned(ctx context.Context, seen map[string]struct{}, opts SyncOptions, result *SyncResult) error {
	records, err := s.archive.List(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		if _, ok := seen[record.SourcePath]; ok {
			continue
		}
		logging.WithPostContext(s.logger, record.SourcePath, record.Slug, "archive.delete").
			Debug("archive sync", "dry_run", opts.DryRun)
		if !opts.DryRun {
			if err := s.archive.Delete(ctx, record.SourcePath); err != nil {
				return err
			}
		}
		result.Deleted++
	}

	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
