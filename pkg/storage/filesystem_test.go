package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesystemProviderWriteAndRead(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	provider := NewFilesystemProvider(root, "public")

	if _, err := provider.Exec(ctx, OpEnsureDir, "public/posts/demo"); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "posts", "demo"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory created under root, err=%v", err)
	}

	content := "<html>demo</html>"
	if _, err := provider.Exec(ctx, OpWrite, "public/posts/demo/index.html", strings.NewReader(content)); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := provider.Query(ctx, OpRead, "public/posts/demo/index.html")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rows == nil || !rows.Next() {
		t.Fatal("expected one row for existing file")
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if string(data) != content {
		t.Fatalf("unexpected content: %s", data)
	}
	if rows.Next() {
		t.Fatal("expected a single row")
	}
	if err := rows.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestFilesystemProviderMissingFile(t *testing.T) {
	provider := NewFilesystemProvider(t.TempDir(), "public")

	rows, err := provider.Query(context.Background(), OpRead, "public/.blog-manifest.json")
	if err != nil {
		t.Fatalf("read missing: %v", err)
	}
	if rows != nil {
		t.Fatal("expected nil rows for missing file")
	}
}

func TestFilesystemProviderWriteCreatesParents(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	provider := NewFilesystemProvider(root, "public")

	if _, err := provider.Exec(ctx, OpWrite, "public/tags/redis/index.html", strings.NewReader("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "tags", "redis", "index.html")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}

func TestFilesystemProviderRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	provider := NewFilesystemProvider(root, "public")

	if _, err := provider.Exec(ctx, OpWrite, "public/index.html", strings.NewReader("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := provider.Exec(ctx, OpRemove, "public"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "index.html")); !os.IsNotExist(err) {
		t.Fatalf("expected output removed, err=%v", err)
	}

	// Removing again is a no-op.
	if _, err := provider.Exec(ctx, OpRemove, "public"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestFilesystemProviderTransactionDelegates(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	provider := NewFilesystemProvider(root, "")

	err := provider.Transaction(ctx, func(tx Transaction) error {
		if _, err := tx.Exec(ctx, OpWrite, "notes.txt", strings.NewReader("inside tx")); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "inside tx" {
		t.Fatalf("unexpected content: %s", data)
	}
}
