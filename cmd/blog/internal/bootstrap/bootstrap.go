package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Options captures configuration for blog CLI bootstraps.
type Options struct {
	ContentDir string
	Pattern    string
	Recursive  bool

	BaseURL   string
	SiteTitle string

	EnableBuild bool
	OutputDir   string
	TemplateDir string
	Workers     int
	CleanBuild  *bool
	Incremental *bool

	EnableArchive bool
	Driver        string
	DSN           string

	Verbose        bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the blog module and the service and logger CLI entry points
// work against.
type Module struct {
	Module  *blog.Module
	Service interfaces.BlogService
	Logger  interfaces.Logger
}

// Close releases module resources, closing the archive database when the
// module opened it.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// BuildModule constructs a blog module configured for CLI operations. The
// sitemap is only generated when a base URL is supplied, since sitemap
// entries must be absolute.
func BuildModule(opts Options) (*Module, error) {
	cfg := blog.DefaultConfig()

	cfg.Content.Dir = strings.TrimSpace(opts.ContentDir)
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Content.Pattern = trimmed
	}
	cfg.Content.Recursive = opts.Recursive

	cfg.Site.BaseURL = strings.TrimSpace(opts.BaseURL)
	if trimmed := strings.TrimSpace(opts.SiteTitle); trimmed != "" {
		cfg.Site.Title = trimmed
	}

	if opts.EnableBuild {
		cfg.Build.Enabled = true
		if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
			cfg.Build.OutputDir = trimmed
		}
		cfg.Build.TemplateDir = strings.TrimSpace(opts.TemplateDir)
		if opts.Workers > 0 {
			cfg.Build.Workers = opts.Workers
		}
		if opts.CleanBuild != nil {
			cfg.Build.CleanBuild = *opts.CleanBuild
		}
		if opts.Incremental != nil {
			cfg.Build.Incremental = *opts.Incremental
			// An incremental run needs the previous manifest, which a clean
			// build would discard.
			if *opts.Incremental && opts.CleanBuild == nil {
				cfg.Build.CleanBuild = false
			}
		}
		if cfg.Site.BaseURL == "" {
			cfg.Build.GenerateSitemap = false
		}
	}

	if opts.EnableArchive {
		cfg.Features.Archive = true
		if trimmed := strings.TrimSpace(opts.Driver); trimmed != "" {
			cfg.Storage.Driver = trimmed
		}
		if trimmed := strings.TrimSpace(opts.DSN); trimmed != "" {
			cfg.Storage.DSN = trimmed
		}
	}

	if opts.Verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}

	moduleOpts := []blog.Option{}
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, blog.WithLogger(opts.LoggerProvider))
	}

	module, err := blog.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise blog module: %w", err)
	}

	return &Module{
		Module:  module,
		Service: module,
		Logger:  logging.CommandsLogger(module.LoggerProvider()),
	}, nil
}

// SplitList parses a comma separated value list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
