package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("blog sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("blog-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the post content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	driver := fs.String("driver", "sqlite", "Archive database driver (sqlite or postgres)")
	dsn := fs.String("dsn", "file:blog.db?cache=shared", "Archive database DSN")
	directory := fs.String("directory", "", "Directory to sync, relative to the content root")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing rows")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Remove archive rows whose source file disappeared")
	verbose := fs.Bool("verbose", false, "Log at debug level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		EnableArchive: true,
		Driver:        *driver,
		DSN:           *dsn,
		Verbose:       *verbose,
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("blog service not configured; ensure the archive feature is enabled")
	}
	defer module.Close()

	ctx := context.Background()

	handler := blogcmd.NewSyncArchiveHandler(module.Service, module.Logger, blogcmd.FeatureGates{
		ArchiveEnabled: func() bool { return true },
	})
	cmd := blogcmd.SyncArchiveCommand{
		Directory:      *directory,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "archive sync command executed successfully")

	return nil
}
