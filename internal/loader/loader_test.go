package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

func writeFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadReadsFileWithChecksum(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: Hello\n---\nbody\n"
	writeFile(t, dir, "hello.md", content)

	l := New(os.DirFS(dir), Config{BasePath: dir})

	file, err := l.Load(context.Background(), "hello.md")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if file.Path != "hello.md" {
		t.Fatalf("expected path hello.md, got %s", file.Path)
	}
	if string(file.Content) != content {
		t.Fatalf("content mismatch: %q", file.Content)
	}
	want := sha256.Sum256([]byte(content))
	if !bytes.Equal(file.Checksum, want[:]) {
		t.Fatalf("checksum mismatch")
	}
	if file.LastModified.IsZero() {
		t.Fatal("expected last modified timestamp")
	}
}

func TestLoadMissingFileReturnsSourceReadError(t *testing.T) {
	dir := t.TempDir()
	l := New(os.DirFS(dir), Config{BasePath: dir})

	_, err := l.Load(context.Background(), "missing.md")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, posts.ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}

	var readErr *posts.SourceReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected SourceReadError, got %T", err)
	}
	if readErr.Path != "missing.md" {
		t.Fatalf("expected path missing.md, got %s", readErr.Path)
	}
}

func TestLoadAbsolutePathResolvedAgainstBase(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "post.md", "---\ntitle: T\n---\n")

	l := New(os.DirFS(dir), Config{BasePath: dir})

	file, err := l.Load(context.Background(), abs)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if file.Path != "post.md" {
		t.Fatalf("expected relative path post.md, got %s", file.Path)
	}
}

func TestLoadDirectoryDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zulu.md", "z")
	writeFile(t, dir, "alpha.md", "a")
	writeFile(t, dir, "mike.md", "m")
	writeFile(t, dir, "notes.txt", "skip me")

	l := New(os.DirFS(dir), Config{BasePath: dir, Recursive: true})

	files, err := l.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}

	want := []string{"alpha.md", "mike.md", "zulu.md"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, file := range files {
		if file.Path != want[i] {
			t.Fatalf("expected %s at position %d, got %s", want[i], i, file.Path)
		}
	}
}

func TestLoadDirectoryRecursiveToggle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "root.md", "root")
	writeFile(t, dir, filepath.Join("nested", "deep.md"), "deep")

	l := New(os.DirFS(dir), Config{BasePath: dir, Recursive: true})

	files, err := l.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files with recursion, got %d", len(files))
	}
	if files[0].Path != "nested/deep.md" || files[1].Path != "root.md" {
		t.Fatalf("unexpected order: %s, %s", files[0].Path, files[1].Path)
	}

	flat := false
	files, err = l.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Recursive: &flat})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(files) != 1 || files[0].Path != "root.md" {
		t.Fatalf("expected only root.md without recursion, got %v", paths(files))
	}
}

func TestLoadDirectoryPatternOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", "md")
	writeFile(t, dir, "post.markdown", "markdown")

	l := New(os.DirFS(dir), Config{BasePath: dir})

	files, err := l.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Pattern: "*.markdown"})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(files) != 1 || files[0].Path != "post.markdown" {
		t.Fatalf("expected only post.markdown, got %v", paths(files))
	}
}

func TestLoadDirectoryCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", "md")

	l := New(os.DirFS(dir), Config{BasePath: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.LoadDirectory(ctx, ".", interfaces.LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func paths(files []*interfaces.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.Path)
	}
	return out
}
