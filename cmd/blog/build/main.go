package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("blog build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("blog-build", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the post content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	outputDir := fs.String("output-dir", "dist", "Directory build artifacts are written to")
	templateDir := fs.String("template-dir", "", "Directory holding page template overrides")
	baseURL := fs.String("base-url", "", "Site base URL used for canonical links and the sitemap")
	siteTitle := fs.String("site-title", "", "Site title rendered into page headers")
	directory := fs.String("directory", "", "Directory to build, relative to the content root")
	slugs := fs.String("slugs", "", "Comma separated slugs to rebuild (listing pages always refresh)")
	workers := fs.Int("workers", 0, "Concurrent render workers (0 renders serially)")
	incremental := fs.Bool("incremental", false, "Skip pages whose sources are unchanged since the last build")
	dryRun := fs.Bool("dry-run", false, "Report what would be rendered without writing artifacts")
	verbose := fs.Bool("verbose", false, "Log at debug level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := bootstrap.Options{
		ContentDir:  *contentDir,
		Pattern:     *pattern,
		Recursive:   true,
		BaseURL:     *baseURL,
		SiteTitle:   *siteTitle,
		EnableBuild: true,
		OutputDir:   *outputDir,
		TemplateDir: *templateDir,
		Workers:     *workers,
		Verbose:     *verbose,
	}
	if *incremental {
		opts.Incremental = incremental
	}

	module, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("blog service not configured; ensure the build feature is enabled")
	}
	defer module.Close()

	ctx := context.Background()

	handler := blogcmd.NewBuildSiteHandler(module.Service, module.Logger, blogcmd.FeatureGates{
		BuildEnabled: func() bool { return true },
	})

	var result *interfaces.BuildSiteResult
	cmd := blogcmd.BuildSiteCommand{
		Directory: *directory,
		Slugs:     bootstrap.SplitList(*slugs),
		DryRun:    *dryRun,
		ResultCallback: func(env blogcmd.ResultEnvelope) {
			result = env.Result
		},
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}

	switch {
	case result == nil:
		fmt.Fprintln(os.Stdout, "site build command executed successfully")
	case result.DryRun:
		fmt.Fprintf(os.Stdout, "dry run: %d posts and %d pages would be rendered\n",
			result.PostsBuilt, result.PagesBuilt)
	default:
		fmt.Fprintf(os.Stdout, "built %d posts and %d pages in %s (%d skipped)\n",
			result.PostsBuilt, result.PagesBuilt, result.Duration,
			result.PostsSkipped+result.PagesSkipped)
	}
	return nil
}
