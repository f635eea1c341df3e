package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type stubArchiveService struct {
	syncCalls int
	syncOpts  interfaces.SyncArchiveOptions
}

func (s *stubArchiveService) BuildSite(context.Context, interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
	return &interfaces.BuildSiteResult{}, nil
}

func (s *stubArchiveService) SyncArchive(_ context.Context, opts interfaces.SyncArchiveOptions) (*interfaces.SyncArchiveResult, error) {
	s.syncCalls++
	s.syncOpts = opts
	return &interfaces.SyncArchiveResult{Created: 1}, nil
}

func TestRunSyncUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubArchiveService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	if err := runSync([]string{
		"-directory", "docs",
		"-delete-orphaned",
	}); err != nil {
		t.Fatalf("runSync returned error: %v", err)
	}
	if svc.syncCalls != 1 {
		t.Fatalf("expected sync to be called once, got %d", svc.syncCalls)
	}
	if svc.syncOpts.Dir != "docs" {
		t.Fatalf("expected sync directory docs, got %s", svc.syncOpts.Dir)
	}
	if !svc.syncOpts.DeleteOrphaned {
		t.Fatal("expected delete-orphaned to pass through")
	}
	if svc.syncOpts.DryRun {
		t.Fatal("expected dry run to default off")
	}
}
