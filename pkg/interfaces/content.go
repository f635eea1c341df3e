package interfaces

import (
	"context"
	"time"
)

// Renderer converts raw Markdown bytes into HTML. Implementations are
// expected to be stateless so a single instance can be shared across
// goroutines without locking.
type Renderer interface {
	// Render converts Markdown into HTML using the renderer's default settings.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts RenderOptions) ([]byte, error)
}

// RenderOptions customises Markdown rendering behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// SourceFile is a raw post file discovered on disk, before front-matter
// parsing. Checksum stores a SHA-256 digest of Content so incremental
// workflows can detect changes without re-reading unchanged files.
type SourceFile struct {
	Path         string
	Content      []byte
	LastModified time.Time
	Checksum     []byte
}

// LoadOptions fine-tunes how post files are discovered on disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}

// Loader discovers and reads post files. LoadDirectory returns files in
// deterministic path order; read failures surface the offending file
// identity.
type Loader interface {
	Load(ctx context.Context, path string) (*SourceFile, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*SourceFile, error)
}
