package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrContentDirRequired = errors.New("blog config: content directory is required")
var ErrBuildOutputDirRequired = errors.New("blog config: build output directory is required when builds are enabled")
var ErrSiteBaseURLRequired = errors.New("blog config: site base URL is required when sitemap generation is enabled")
var ErrBuildWorkersInvalid = errors.New("blog config: build workers must be zero or positive")
var ErrArchiveDriverUnknown = errors.New("blog config: archive driver is invalid")
var ErrArchiveDSNRequired = errors.New("blog config: archive DSN is required when the archive feature is enabled")
var ErrSchemaFeatureRequired = errors.New("blog config: schema feature must be enabled to configure a front matter schema")
var ErrCacheFeatureRequired = errors.New("blog config: cache must be enabled to configure a TTL")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the blog module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Content  ContentConfig
	Render   RenderConfig
	Site     SiteConfig
	Routes   RoutesConfig
	Build    BuildConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Schema   SchemaConfig
	Commands CommandsConfig
	Logging  LoggingConfig
	Features Features
}

// ContentConfig captures filesystem behaviour for post discovery.
type ContentConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
}

// RenderConfig mirrors interfaces.RenderOptions for runtime configuration.
type RenderConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// SiteConfig carries site-wide metadata used by templates and the sitemap.
type SiteConfig struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// RoutesConfig captures routing configuration for permalink resolution.
type RoutesConfig struct {
	Config     *urlkit.Config
	PostsGroup string
	TagsGroup  string
	PostRoute  string
	TagRoute   string
	IndexRoute string
	SlugParam  string
	TagParam   string
}

// BuildConfig captures behaviour for the static site builder.
type BuildConfig struct {
	Enabled   bool
	OutputDir string
	// TemplateDir points at page template overrides. Empty keeps the
	// built-in template set.
	TemplateDir     string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	FailOnEmpty     bool
	Workers         int
	RenderTimeout   time.Duration
}

// StorageConfig selects the archive backend.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour for archive reads.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// SchemaConfig holds an optional JSON schema applied to unknown front matter
// keys. An empty document disables validation even when the feature is on.
type SchemaConfig struct {
	Document map[string]any
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
	// Timeout bounds individual command executions. Zero keeps the command
	// layer default.
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Archive bool
	Schema  bool
	Logger  bool
}

// DefaultConfig returns opinionated defaults for a single-author blog.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Render: RenderConfig{},
		Site: SiteConfig{
			Title: "Blog",
		},
		Routes: RoutesConfig{
			PostsGroup: "posts",
			TagsGroup:  "tags",
			PostRoute:  "post",
			TagRoute:   "tag",
			IndexRoute: "index",
			SlugParam:  "slug",
			TagParam:   "tag",
		},
		Build: BuildConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			Incremental:     false,
			GenerateSitemap: true,
			GenerateRobots:  false,
			FailOnEmpty:     false,
			Workers:         0,
			RenderTimeout:   0,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:blog.db?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Schema:   SchemaConfig{},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Build.Enabled {
		if strings.TrimSpace(cfg.Build.OutputDir) == "" {
			return ErrBuildOutputDirRequired
		}
		if cfg.Build.GenerateSitemap && strings.TrimSpace(cfg.Site.BaseURL) == "" {
			return ErrSiteBaseURLRequired
		}
	}
	if cfg.Build.Workers < 0 {
		return ErrBuildWorkersInvalid
	}
	if cfg.Features.Archive {
		driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
		if !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrArchiveDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrArchiveDSNRequired
		}
	}
	if !cfg.Features.Schema && len(cfg.Schema.Document) > 0 {
		return ErrSchemaFeatureRequired
	}
	if !cfg.Cache.Enabled && cfg.Cache.DefaultTTL > 0 {
		return ErrCacheFeatureRequired
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
