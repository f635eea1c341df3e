package blog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/internal/builder"
	"github.com/goliatone/go-blog/internal/commands"
	blogcmd "github.com/goliatone/go-blog/internal/commands/blog"
	"github.com/goliatone/go-blog/internal/frontmatter"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/loader"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/permalink"
	"github.com/goliatone/go-blog/internal/schema"
	"github.com/goliatone/go-blog/internal/store"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/pkg/storage"
	"github.com/goliatone/go-blog/posts"
)

// ErrBuildDisabled is returned by build operations when the build feature is off.
var ErrBuildDisabled = builder.ErrServiceDisabled

// ErrArchiveDisabled is returned by archive operations when the archive feature is off.
var ErrArchiveDisabled = errors.New("blog: archive feature disabled")

// ErrEmptyIndex is returned when a caller asserts a non-empty post index.
var ErrEmptyIndex = index.ErrEmptyIndex

// ErrMalformedFrontMatter matches any post file whose metadata block is
// unusable.
var ErrMalformedFrontMatter = posts.ErrMalformedFrontMatter

// ErrSourceRead matches any unreadable post file or interrupted walk.
var ErrSourceRead = posts.ErrSourceRead

// Post exports the immutable parsed post record.
type Post = posts.Post

// MalformedFrontMatterError exports the parse failure carrying file identity.
type MalformedFrontMatterError = posts.MalformedFrontMatterError

// SourceReadError exports the read failure carrying file identity.
type SourceReadError = posts.SourceReadError

// Index exports the immutable post index.
type Index = index.Index

// Parser exports the front matter parser.
type Parser = frontmatter.Parser

// PermalinkBuilder exports the URL resolver used for posts, tags and the index.
type PermalinkBuilder = permalink.Builder

// BuilderService exports the static site builder contract.
type BuilderService = builder.Service

// BuildResult exports the site build report produced by the builder.
type BuildResult = builder.BuildResult

// Archive exports the archive persistence surface.
type Archive = store.Archive

// Syncer exports the archive convergence workflow.
type Syncer = store.Syncer

// BuildSiteOptions exports the per-run build options.
type BuildSiteOptions = interfaces.BuildSiteOptions

// BuildSiteResult exports the build run report.
type BuildSiteResult = interfaces.BuildSiteResult

// SyncArchiveOptions exports the per-run archive sync options.
type SyncArchiveOptions = interfaces.SyncArchiveOptions

// SyncArchiveResult exports the archive sync report.
type SyncArchiveResult = interfaces.SyncArchiveResult

// BuildSiteCommand exports the site build command message.
type BuildSiteCommand = blogcmd.BuildSiteCommand

// SyncArchiveCommand exports the archive sync command message.
type SyncArchiveCommand = blogcmd.SyncArchiveCommand

// ResultCallback exports the hook command messages use to hand back results.
type ResultCallback = blogcmd.ResultCallback

// ResultEnvelope exports the payload delivered to result callbacks.
type ResultEnvelope = blogcmd.ResultEnvelope

// CommandHandlers exports the constructed command handler set.
type CommandHandlers = blogcmd.HandlerSet

// CommandRegistry exports the registration contract for command hosts.
type CommandRegistry = blogcmd.CommandRegistry

// CronRegistrar exports the cron registration hook for the sync command.
type CronRegistrar = blogcmd.CronRegistrar

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// Module is the top level blog runtime facade. It aggregates the loader,
// parser, renderer, permalink resolver, site builder and post archive behind
// one configured surface.
type Module struct {
	cfg Config

	provider interfaces.LoggerProvider
	logger   interfaces.Logger

	clock        func() time.Time
	filesystem   fs.FS
	fsOverridden bool

	loader     interfaces.Loader
	parser     *frontmatter.Parser
	renderer   interfaces.Renderer
	routes     *urlkit.RouteManager
	permalinks *permalink.Builder

	artifacts           storage.Provider
	artifactsOverridden bool
	builder             builder.Service

	db            *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	archive       store.Archive
	syncer        *store.Syncer

	schemaMu    sync.Mutex
	schemaReady bool

	registry      blogcmd.CommandRegistry
	handlers      *blogcmd.HandlerSet
	subscriptions []CommandSubscription
}

var _ interfaces.BlogService = (*Module)(nil)

// Option mutates the module before wiring is finalised.
type Option func(*Module)

// WithLogger overrides the logger provider derived from configuration.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithFilesystem overrides the filesystem posts are loaded from. The
// filesystem is expected to be rooted at the content directory.
func WithFilesystem(fsys fs.FS) Option {
	return func(m *Module) {
		m.filesystem = fsys
		m.fsOverridden = fsys != nil
	}
}

// WithClock overrides the time source used for build timestamps and console
// log entries.
func WithClock(clock func() time.Time) Option {
	return func(m *Module) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithDB supplies an externally managed database handle for the archive. The
// module never closes a handle it did not open, and leaves schema management
// to the caller.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithArchive overrides the archive implementation entirely.
func WithArchive(archive Archive) Option {
	return func(m *Module) {
		m.archive = archive
	}
}

// WithCache overrides the cache service fronting archive reads.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// WithRenderer overrides the Markdown renderer.
func WithRenderer(renderer interfaces.Renderer) Option {
	return func(m *Module) {
		m.renderer = renderer
	}
}

// WithArtifactStorage overrides the storage provider build artifacts are
// written through.
func WithArtifactStorage(provider storage.Provider) Option {
	return func(m *Module) {
		m.artifacts = provider
		m.artifactsOverridden = provider != nil
	}
}

// WithCommandRegistry registers the command handlers with reg during New.
func WithCommandRegistry(reg CommandRegistry) Option {
	return func(m *Module) {
		m.registry = reg
	}
}

// New constructs a blog module from cfg, applying any option overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		cfg:   cfg,
		clock: time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.provider == nil && cfg.Features.Logger {
		provider, err := newLoggerProvider(cfg.Logging, m.clock)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}
	m.logger = logging.ModuleLogger(m.provider, "blog")

	if m.filesystem == nil {
		m.filesystem = os.DirFS(cfg.Content.Dir)
	}
	m.loader = loader.New(m.filesystem, loader.Config{
		BasePath:  cfg.Content.Dir,
		Pattern:   cfg.Content.Pattern,
		Recursive: cfg.Content.Recursive,
	})

	if m.renderer == nil {
		m.renderer = markdown.New(interfaces.RenderOptions{
			Extensions: cfg.Render.Extensions,
			HardWraps:  cfg.Render.HardWraps,
			SafeMode:   cfg.Render.SafeMode,
		})
	}

	routeCfg := cfg.Routes.Config
	if routeCfg == nil {
		routeCfg = permalink.DefaultRouteConfig(cfg.Site.BaseURL)
	}
	m.routes = urlkit.NewRouteManager(routeCfg)
	m.permalinks = permalink.New(permalink.Options{
		Manager:    m.routes,
		PostsGroup: cfg.Routes.PostsGroup,
		TagsGroup:  cfg.Routes.TagsGroup,
		PostRoute:  cfg.Routes.PostRoute,
		TagRoute:   cfg.Routes.TagRoute,
		IndexRoute: cfg.Routes.IndexRoute,
		SlugParam:  cfg.Routes.SlugParam,
		TagParam:   cfg.Routes.TagParam,
	})

	var extra frontmatter.ExtraValidator
	if cfg.Features.Schema && len(cfg.Schema.Document) > 0 {
		validator, err := schema.New(cfg.Schema.Document)
		if err != nil {
			return nil, err
		}
		extra = validator
	}
	m.parser = frontmatter.New(frontmatter.Config{
		Extra:  extra,
		Logger: logging.FrontMatterLogger(m.provider),
	})

	if cfg.Cache.Enabled && m.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if cfg.Cache.DefaultTTL > 0 {
			cacheCfg.TTL = cfg.Cache.DefaultTTL
		}
		if service, err := repocache.NewCacheService(cacheCfg); err == nil {
			m.cacheService = service
		}
	}
	if m.cacheService != nil && m.keySerializer == nil {
		m.keySerializer = repocache.NewDefaultKeySerializer()
	}

	if cfg.Build.Enabled {
		if m.artifacts == nil {
			m.artifacts = storage.NewFilesystemProvider(cfg.Build.OutputDir, cfg.Build.OutputDir)
		}
		svc, err := builder.NewService(m.builderConfig(cfg.Build.OutputDir, cfg.Build.Incremental), m.builderDeps())
		if err != nil {
			return nil, err
		}
		m.builder = svc
	} else {
		m.builder = builder.NewDisabledService()
	}

	if cfg.Features.Archive {
		if m.archive == nil {
			if m.db == nil {
				db, err := store.Open(storage.Config{
					Driver: cfg.Storage.Driver,
					DSN:    cfg.Storage.DSN,
				})
				if err != nil {
					return nil, err
				}
				m.db = db
				m.ownsDB = true
			}
			m.archive = store.NewBunArchiveWithCache(m.db, m.cacheService, m.keySerializer)
		}
		m.syncer = store.NewSyncer(m.archive, logging.StoreLogger(m.provider))
	}

	if cfg.Commands.Enabled {
		gates := blogcmd.FeatureGates{
			BuildEnabled:   func() bool { return m.cfg.Build.Enabled },
			ArchiveEnabled: func() bool { return m.cfg.Features.Archive },
		}
		var registerOpts []blogcmd.Option
		if cfg.Commands.Timeout > 0 {
			registerOpts = append(registerOpts,
				blogcmd.WithBuildHandlerOptions(commands.WithTimeout[blogcmd.BuildSiteCommand](cfg.Commands.Timeout)),
				blogcmd.WithSyncHandlerOptions(commands.WithTimeout[blogcmd.SyncArchiveCommand](cfg.Commands.Timeout)),
			)
		}
		handlers, err := blogcmd.RegisterBlogCommands(m.registry, m, m.provider, gates, registerOpts...)
		if err != nil {
			m.closeOwnedDB()
			return nil, err
		}
		m.handlers = handlers

		if cfg.Commands.AutoRegisterDispatcher {
			// Parse and build failures carry the offending file identity and
			// are not retryable.
			m.subscriptions = append(m.subscriptions,
				dispatcher.SubscribeCommand(handlers.Build, runner.WithMaxRetries(0)),
				dispatcher.SubscribeCommand(handlers.Sync, runner.WithMaxRetries(0)),
			)
		}
	}

	return m, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Logger returns the module-scoped root logger.
func (m *Module) Logger() interfaces.Logger {
	if m == nil || m.logger == nil {
		return logging.NoOp()
	}
	return m.logger
}

// LoggerProvider returns the provider module loggers are derived from.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}

// Loader returns the configured content loader.
func (m *Module) Loader() interfaces.Loader {
	return m.loader
}

// Parser returns the configured front matter parser.
func (m *Module) Parser() *Parser {
	return m.parser
}

// Renderer returns the configured Markdown renderer.
func (m *Module) Renderer() interfaces.Renderer {
	return m.renderer
}

// Permalinks returns the configured URL resolver.
func (m *Module) Permalinks() *PermalinkBuilder {
	return m.permalinks
}

// Builder returns the configured site builder.
func (m *Module) Builder() BuilderService {
	return m.builder
}

// Archive returns the configured post archive, nil when the feature is off.
func (m *Module) Archive() Archive {
	if m == nil {
		return nil
	}
	return m.archive
}

// DB returns the archive database handle, nil when no database is wired.
func (m *Module) DB() *bun.DB {
	if m == nil {
		return nil
	}
	return m.db
}

// Commands returns the constructed command handlers, nil when the command
// layer is disabled.
func (m *Module) Commands() *CommandHandlers {
	if m == nil {
		return nil
	}
	return m.handlers
}

// Index loads, parses and indexes every post under the configured content
// directory.
func (m *Module) Index(ctx context.Context) (*Index, error) {
	return m.indexDir(ctx, "")
}

// BuildSite renders the published index into the output directory. Option
// overrides narrow or redirect a single run without reconfiguring the module.
func (m *Module) BuildSite(ctx context.Context, opts BuildSiteOptions) (*BuildSiteResult, error) {
	if m == nil || !m.cfg.Build.Enabled {
		return nil, ErrBuildDisabled
	}

	svc, err := m.builderFor(opts)
	if err != nil {
		return nil, err
	}

	idx, err := m.indexDir(ctx, opts.Dir)
	if err != nil {
		return nil, err
	}

	result, err := svc.Build(ctx, idx, builder.BuildOptions{
		Slugs:  opts.Slugs,
		DryRun: opts.DryRun,
	})
	return buildSiteResult(result), err
}

// SyncArchive parses the content directory and converges the post archive
// with the published posts found there.
func (m *Module) SyncArchive(ctx context.Context, opts SyncArchiveOptions) (*SyncArchiveResult, error) {
	if m == nil || m.syncer == nil {
		return nil, ErrArchiveDisabled
	}
	if err := m.ensureArchiveSchema(ctx); err != nil {
		return nil, err
	}

	idx, err := m.indexDir(ctx, opts.Dir)
	if err != nil {
		return nil, err
	}

	result, err := m.syncer.Sync(ctx, slices.Collect(idx.Published()), store.SyncOptions{
		DryRun:         opts.DryRun,
		DeleteOrphaned: opts.DeleteOrphaned,
	})
	return syncArchiveResult(result), err
}

// CleanSite removes every build artifact under the output directory, manifest
// included.
func (m *Module) CleanSite(ctx context.Context) error {
	if m == nil || !m.cfg.Build.Enabled {
		return ErrBuildDisabled
	}
	return m.builder.Clean(ctx)
}

// RegisterSyncCron schedules the archive sync command with reg using the
// supplied cron expression.
func (m *Module) RegisterSyncCron(reg CronRegistrar, expression string, msg SyncArchiveCommand) error {
	if m == nil || m.handlers == nil {
		return nil
	}
	return blogcmd.RegisterSyncCron(reg, m.handlers.Sync, command.HandlerConfig{Expression: expression}, msg)
}

// Close tears down dispatcher subscriptions and closes the archive database
// when the module opened it.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	for _, sub := range m.subscriptions {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	m.subscriptions = nil

	if m.ownsDB && m.db != nil {
		db := m.db
		m.db = nil
		m.ownsDB = false
		return db.Close()
	}
	return nil
}

func (m *Module) indexDir(ctx context.Context, dir string) (*Index, error) {
	ldr, root := m.sourceLoader(dir)
	files, err := ldr.LoadDirectory(ctx, root, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}

	items := make([]*posts.Post, 0, len(files))
	for _, file := range files {
		post, parseErr := m.parser.ParseFile(file)
		if parseErr != nil {
			return nil, parseErr
		}
		items = append(items, post)
	}

	idx := index.New(items)
	m.logger.Debug("blog.index.loaded", "posts", idx.Len(), "published", idx.PublishedCount())
	return idx, nil
}

// sourceLoader resolves a per-run directory override to a loader and walk
// root. With an overridden filesystem the directory resolves inside it;
// otherwise a fresh loader is rooted at the override directory so relative
// source paths, and with them post identities, stay stable.
func (m *Module) sourceLoader(dir string) (interfaces.Loader, string) {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == m.cfg.Content.Dir {
		return m.loader, "."
	}
	if m.fsOverridden {
		return m.loader, dir
	}
	return loader.New(os.DirFS(dir), loader.Config{
		BasePath:  dir,
		Pattern:   m.cfg.Content.Pattern,
		Recursive: m.cfg.Content.Recursive,
	}), "."
}

// builderFor returns the shared builder unless the run overrides output
// placement or incremental behaviour, in which case a one-off service wraps
// the adjusted configuration. Template parsing is cheap enough to repeat.
func (m *Module) builderFor(opts BuildSiteOptions) (builder.Service, error) {
	outputDir := strings.TrimSpace(opts.OutputDir)
	overridesOutput := outputDir != "" && outputDir != m.cfg.Build.OutputDir
	overridesIncremental := opts.Incremental != nil && *opts.Incremental != m.cfg.Build.Incremental
	if !overridesOutput && !overridesIncremental {
		return m.builder, nil
	}

	cfg := m.builderConfig(m.cfg.Build.OutputDir, m.cfg.Build.Incremental)
	deps := m.builderDeps()
	if overridesOutput {
		cfg.OutputDir = outputDir
		if !m.artifactsOverridden {
			deps.Storage = storage.NewFilesystemProvider(outputDir, outputDir)
		}
	}
	if opts.Incremental != nil {
		cfg.Incremental = *opts.Incremental
	}
	return builder.NewService(cfg, deps)
}

func (m *Module) builderConfig(outputDir string, incremental bool) builder.Config {
	return builder.Config{
		OutputDir:       outputDir,
		BaseURL:         m.cfg.Site.BaseURL,
		SiteTitle:       m.cfg.Site.Title,
		SiteDescription: m.cfg.Site.Description,
		SiteAuthor:      m.cfg.Site.Author,
		TemplateDir:     m.cfg.Build.TemplateDir,
		CleanBuild:      m.cfg.Build.CleanBuild,
		Incremental:     incremental,
		GenerateSitemap: m.cfg.Build.GenerateSitemap,
		GenerateRobots:  m.cfg.Build.GenerateRobots,
		FailOnEmpty:     m.cfg.Build.FailOnEmpty,
		Workers:         m.cfg.Build.Workers,
		RenderTimeout:   m.cfg.Build.RenderTimeout,
	}
}

func (m *Module) builderDeps() builder.Dependencies {
	return builder.Dependencies{
		Renderer:   m.renderer,
		Permalinks: m.permalinks,
		Storage:    m.artifacts,
		Logger:     logging.BuilderLogger(m.provider),
		Now:        m.clock,
	}
}

// ensureArchiveSchema creates the archive table on first use when the module
// owns the database. Externally supplied handles keep schema management with
// the caller.
func (m *Module) ensureArchiveSchema(ctx context.Context) error {
	if !m.ownsDB || m.db == nil {
		return nil
	}
	m.schemaMu.Lock()
	defer m.schemaMu.Unlock()
	if m.schemaReady {
		return nil
	}
	if err := store.EnsureSchema(ctx, m.db); err != nil {
		return err
	}
	m.schemaReady = true
	return nil
}

func (m *Module) closeOwnedDB() {
	if m.ownsDB && m.db != nil {
		_ = m.db.Close()
		m.db = nil
		m.ownsDB = false
	}
}

func newLoggerProvider(cfg LoggingConfig, clock func() time.Time) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		return console.NewProvider(console.Options{
			TimeFunc: clock,
			MinLevel: consoleLevel(cfg.Level),
		}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func consoleLevel(level string) *console.Level {
	var min console.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		min = console.LevelTrace
	case "debug":
		min = console.LevelDebug
	case "info":
		min = console.LevelInfo
	case "warn", "warning":
		min = console.LevelWarn
	case "error":
		min = console.LevelError
	case "fatal":
		min = console.LevelFatal
	default:
		return nil
	}
	return &min
}

func buildSiteResult(res *builder.BuildResult) *BuildSiteResult {
	if res == nil {
		return nil
	}
	out := &BuildSiteResult{
		PostsBuilt:   res.PostsBuilt,
		PostsSkipped: res.PostsSkipped,
		PagesBuilt:   res.PagesBuilt,
		PagesSkipped: res.PagesSkipped,
		Duration:     res.Duration,
		DryRun:       res.DryRun,
	}
	for _, page := range res.Rendered {
		if page.Output != "" {
			out.Outputs = append(out.Outputs, page.Output)
		}
	}
	if len(res.Errors) > 0 {
		out.Errors = append(out.Errors, res.Errors...)
	}
	return out
}

func syncArchiveResult(res *store.SyncResult) *SyncArchiveResult {
	if res == nil {
		return nil
	}
	out := &SyncArchiveResult{
		Created: res.Created,
		Updated: res.Updated,
		Deleted: res.Deleted,
		Skipped: res.Skipped,
	}
	if len(res.Errors) > 0 {
		out.Errors = append(out.Errors, res.Errors...)
	}
	return out
}
