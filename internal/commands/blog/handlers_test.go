package blogcmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-blog/internal/builder"
	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	cmd := loadBuildFixture(t, "build_basic.json")

	var capturedOpts interfaces.BuildSiteOptions
	callbackInvoked := false

	svc := &fakeBlogService{
		buildFunc: func(ctx context.Context, opts interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
			capturedOpts = opts
			return &interfaces.BuildSiteResult{PostsBuilt: 2, PagesBuilt: 4}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{BuildEnabled: alwaysTrue})

	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil {
			t.Fatalf("expected build result, got nil")
		}
		if env.Result.PagesBuilt != 4 {
			t.Fatalf("expected PagesBuilt 4, got %d", env.Result.PagesBuilt)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if capturedOpts.Dir != "content" {
		t.Fatalf("expected content directory, got %q", capturedOpts.Dir)
	}
	if capturedOpts.OutputDir != "public" {
		t.Fatalf("expected public output dir, got %q", capturedOpts.OutputDir)
	}
	if len(capturedOpts.Slugs) != 2 {
		t.Fatalf("expected slugs to be trimmed and deduplicated, got %v", capturedOpts.Slugs)
	}
	if capturedOpts.Slugs[0] != "reactor-netty" || capturedOpts.Slugs[1] != "java-sockets" {
		t.Fatalf("unexpected slug filter: %v", capturedOpts.Slugs)
	}
	if capturedOpts.Incremental == nil || !*capturedOpts.Incremental {
		t.Fatalf("expected incremental override, got %v", capturedOpts.Incremental)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_DryRun(t *testing.T) {
	var capturedOpts interfaces.BuildSiteOptions
	svc := &fakeBlogService{
		buildFunc: func(ctx context.Context, opts interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
			capturedOpts = opts
			return &interfaces.BuildSiteResult{DryRun: true}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{BuildEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to pass through")
	}
	if capturedOpts.Incremental != nil {
		t.Fatalf("expected no incremental override, got %v", capturedOpts.Incremental)
	}
}

func TestBuildSiteHandler_Execute_PropagatesBuildError(t *testing.T) {
	buildErr := errors.New("render failed")
	callbackInvoked := false

	svc := &fakeBlogService{
		buildFunc: func(ctx context.Context, opts interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
			return nil, buildErr
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{BuildEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if env.Result != nil {
				t.Fatalf("expected nil result on failure, got %#v", env.Result)
			}
		},
	})
	if err == nil {
		t.Fatal("expected build error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !callbackInvoked {
		t.Fatal("expected callback even when the build fails")
	}
}

func TestBuildSiteHandler_Execute_BuildDisabled(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeBlogService{}, nil, FeatureGates{BuildEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, builder.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestSyncArchiveHandler_Execute_Sync(t *testing.T) {
	cmd := loadSyncFixture(t, "sync_basic.json")

	var capturedOpts interfaces.SyncArchiveOptions
	svc := &fakeBlogService{
		syncFunc: func(ctx context.Context, opts interfaces.SyncArchiveOptions) (*interfaces.SyncArchiveResult, error) {
			capturedOpts = opts
			return &interfaces.SyncArchiveResult{Created: 1, Skipped: 2}, nil
		},
	}

	handler := NewSyncArchiveHandler(svc, nil, FeatureGates{ArchiveEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute sync: %v", err)
	}

	if capturedOpts.Dir != "content" {
		t.Fatalf("expected content directory, got %q", capturedOpts.Dir)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to pass through")
	}
	if !capturedOpts.DeleteOrphaned {
		t.Fatal("expected DeleteOrphaned to pass through")
	}
}

func TestSyncArchiveHandler_Execute_ArchiveDisabled(t *testing.T) {
	handler := NewSyncArchiveHandler(&fakeBlogService{}, nil, FeatureGates{ArchiveEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), SyncArchiveCommand{})
	if !errors.Is(err, ErrArchiveFeatureDisabled) {
		t.Fatalf("expected ErrArchiveFeatureDisabled, got %v", err)
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid_slug.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for blank slug filter")
	}
	if err := (BuildSiteCommand{}).Validate(); err != nil {
		t.Fatalf("expected empty command to validate, got %v", err)
	}
}

func TestSyncArchiveCommandValidate(t *testing.T) {
	if err := (SyncArchiveCommand{Directory: "   "}).Validate(); err == nil {
		t.Fatal("expected validation error for blank directory")
	}
	if err := (SyncArchiveCommand{Directory: "content"}).Validate(); err != nil {
		t.Fatalf("expected directory to validate, got %v", err)
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadSyncFixture(t *testing.T, name string) SyncArchiveCommand {
	t.Helper()
	var cmd SyncArchiveCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadFixture(t *testing.T, name string, target any) {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
}

type fakeBlogService struct {
	buildFunc func(context.Context, interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error)
	syncFunc  func(context.Context, interfaces.SyncArchiveOptions) (*interfaces.SyncArchiveResult, error)
}

func (f *fakeBlogService) BuildSite(ctx context.Context, opts interfaces.BuildSiteOptions) (*interfaces.BuildSiteResult, error) {
	if f.buildFunc != nil {
		return f.buildFunc(ctx, opts)
	}
	return nil, nil
}

func (f *fakeBlogService) SyncArchive(ctx context.Context, opts interfaces.SyncArchiveOptions) (*interfaces.SyncArchiveResult, error) {
	if f.syncFunc != nil {
		return f.syncFunc(ctx, opts)
	}
	return nil, nil
}

func alwaysTrue() bool  { return true }
func alwaysFalse() bool { return false }
