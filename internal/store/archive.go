package store

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

// ErrRecordNotFound reports a missing archive row.
var ErrRecordNotFound = errors.New("store: record not found")

// NotFoundError carries the key that missed.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrRecordNotFound.Error()
	}
	return fmt.Sprintf("store: %s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// Archive is the persistence surface the sync workflow runs against.
type Archive interface {
	Save(ctx context.Context, record *Record) (*Record, error)
	GetBySourcePath(ctx context.Context, path string) (*Record, error)
	GetBySlug(ctx context.Context, slug string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, path string) error
}

// BunArchive stores records through a go-repository-bun repository,
// optionally fronted by a read-through cache.
type BunArchive struct {
	repo repository.Repository[*Record]
}

var _ Archive = (*BunArchive)(nil)

func NewBunArchive(db *bun.DB) *BunArchive {
	return NewBunArchiveWithCache(db, nil, nil)
}

func NewBunArchiveWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArchive {
	base := NewRecordRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunArchive{repo: wrapped}
}

// EnsureSchema creates the archive table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("store: create blog_posts table: %w", err)
	}
	return nil
}

// Save inserts the record, or updates the existing row for the same source
// path.
func (a *BunArchive) Save(ctx context.Context, record *Record) (*Record, error) {
	existing, err := a.GetBySourcePath(ctx, record.SourcePath)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	if existing == nil {
		created, createErr := a.repo.Create(ctx, record)
		if createErr != nil {
			return nil, fmt.Errorf("store: create %s: %w", record.SourcePath, createErr)
		}
		return created, nil
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, updateErr := a.repo.Update(ctx, record)
	if updateErr != nil {
		return nil, fmt.Errorf("store: update %s: %w", record.SourcePath, updateErr)
	}
	return updated, nil
}

func (a *BunArchive) GetBySourcePath(ctx context.Context, path string) (*Record, error) {
	record, err := a.repo.GetByIdentifier(ctx, path)
	if err != nil {
		return nil, mapRepositoryError(err, "post", path)
	}
	return record, nil
}

func (a *BunArchive) GetBySlug(ctx context.Context, slug string) (*Record, error) {
	records, _, err := a.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("store: get by slug %s: %w", slug, err)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return records[0], nil
}

// List returns every archived record, newest publication first with source
// path as the tie breaker, matching index order.
func (a *BunArchive) List(ctx context.Context) ([]*Record, error) {
	records, _, err := a.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.published_at DESC").
				OrderExpr("?TableAlias.source_path ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return records, nil
}

func (a *BunArchive) Delete(ctx context.Context, path string) error {
	existing, err := a.GetBySourcePath(ctx, path)
	if err != nil {
		return err
	}
	if err := a.repo.Delete(ctx, existing); err != nil {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("store: %s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
