package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type stubBlogService struct {
	buildCalls int
	buildOpts  interfaces.BuildSiteOptions
}

func (s *stubBlogService) BuildSite(_ context.Context, opts interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
	s.buildCalls++
	s.buildOpts = opts
	return &interfaces.BuildSiteResult{PostsBuilt: 2, PagesBuilt: 3, DryRun: opts.DryRun}, nil
}

func (s *stubBlogService) SyncArchive(context.Context, interfaces.SyncArchiveOptions) (*interfaces.SyncArchiveResult, error) {
	return &interfaces.SyncArchiveResult{}, nil
}

func TestRunBuildUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubBlogService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	if err := runBuild([]string{
		"-directory", "docs",
		"-slugs", "reactor-netty, java-sockets",
		"-dry-run",
	}); err != nil {
		t.Fatalf("runBuild returned error: %v", err)
	}
	if svc.buildCalls != 1 {
		t.Fatalf("expected build to be called once, got %d", svc.buildCalls)
	}
	if svc.buildOpts.Dir != "docs" {
		t.Fatalf("expected build directory docs, got %s", svc.buildOpts.Dir)
	}
	if len(svc.buildOpts.Slugs) != 2 || svc.buildOpts.Slugs[0] != "reactor-netty" || svc.buildOpts.Slugs[1] != "java-sockets" {
		t.Fatalf("expected slug filter to pass through trimmed, got %v", svc.buildOpts.Slugs)
	}
	if !svc.buildOpts.DryRun {
		t.Fatal("expected dry run to pass through")
	}
}
