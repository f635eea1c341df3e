// Package builder renders the post index into a static site: one directory
// per post and tag listing, an index page, and optional sitemap and robots
// artifacts. Outputs are routed through a storage provider so hosts can
// target the filesystem or anything else that speaks the provider contract.
package builder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"iter"
	"path"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/permalink"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/pkg/storage"
	"github.com/goliatone/go-blog/posts"
)

var (
	// ErrServiceDisabled indicates the build feature is disabled.
	ErrServiceDisabled   = errors.New("builder: service disabled")
	errRendererRequired  = errors.New("builder: markdown renderer is required")
	errTemplatesRequired = errors.New("builder: page templates are required")
)

// PageKind classifies build outputs.
type PageKind string

const (
	KindPost  PageKind = "post"
	KindTag   PageKind = "tag"
	KindIndex PageKind = "index"
)

// Service describes the static site builder contract.
type Service interface {
	Build(ctx context.Context, idx *index.Index, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the builder.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	SiteAuthor      string
	TemplateDir     string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	FailOnEmpty     bool
	Workers         int
	RenderTimeout   time.Duration
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	Slugs  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata. Posts count individual post
// pages; Pages count the index and tag listings.
type BuildResult struct {
	PostsBuilt   int
	PostsSkipped int
	PagesBuilt   int
	PagesSkipped int
	Duration     time.Duration
	Rendered     []RenderedPage
	Errors       []error
	DryRun       bool
}

// RenderedPage is one build output with its render metadata.
type RenderedPage struct {
	Kind        PageKind
	Name        string
	Route       string
	Location    string
	Output      string
	HTML        string
	Fingerprint string
	Checksum    string
	LastMod     time.Time
	Duration    time.Duration
}

// Dependencies lists the collaborators required by the builder.
type Dependencies struct {
	Renderer   interfaces.Renderer
	Permalinks *permalink.Builder
	Storage    storage.Provider
	Logger     interfaces.Logger
	// Now supplies page generation timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewService wires a builder with the provided configuration and
// dependencies. It fails when the page templates cannot be parsed.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	templates, err := newTemplateSet(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	return &service{
		cfg:       cfg,
		deps:      deps,
		templates: templates,
		now:       now,
	}, nil
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg       Config
	deps      Dependencies
	templates *template.Template
	now       func() time.Time
}

type disabledService struct{}

// pagePlan is the per-page unit of work computed up front from the index.
type pagePlan struct {
	kind        PageKind
	name        string
	heading     string
	route       string
	location    string
	fingerprint string
	lastMod     time.Time
	post        *posts.Post
	items       []ListItem
}

type renderOutcome struct {
	kind    PageKind
	name    string
	route   string
	skipped bool
	err     error
	page    RenderedPage
}

func (s *service) Build(ctx context.Context, idx *index.Index, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.templates == nil {
		return nil, errTemplatesRequired
	}
	if idx == nil {
		idx = index.New(nil)
	}
	if s.cfg.FailOnEmpty {
		if err := idx.RequirePosts(); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	generatedAt := s.now().UTC()
	plans := s.planPages(idx, opts)

	result := &BuildResult{DryRun: opts.DryRun}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(plans))
		errorsSlice []error
		baseDir     = strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
		pageKeys    = map[string]struct{}{}
	)

	// A clean build starts from an empty manifest so nothing is skipped.
	var manifest *buildManifest
	if s.cfg.CleanBuild {
		manifest = newBuildManifest()
	} else {
		loaded, manifestErr := s.loadManifest(ctx)
		if manifestErr != nil {
			errorsSlice = append(errorsSlice, manifestErr)
		}
		manifest = loaded
		if manifest == nil {
			manifest = newBuildManifest()
		}
	}

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		pageKeys[pageKey(outcome.kind, outcome.name)] = struct{}{}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			if outcome.kind == KindPost {
				result.PostsSkipped++
			} else {
				result.PagesSkipped++
			}
			return
		}
		if outcome.kind == KindPost {
			result.PostsBuilt++
		} else {
			result.PagesBuilt++
		}
		if !opts.DryRun {
			rendered = append(rendered, outcome.page)
		}
	}

	workerCount := s.effectiveWorkerCount(len(plans))
	if workerCount <= 1 || len(plans) <= 1 {
		for _, plan := range plans {
			select {
			case <-ctx.Done():
				collect(renderOutcome{kind: plan.kind, name: plan.name, route: plan.route, err: ctx.Err()})
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, plan, manifest, baseDir, generatedAt))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, plans, manifest, baseDir, generatedAt, workerCount, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		s.logBuild(result, len(errorsSlice))
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	writer := newArtifactWriter(s.deps.Storage)
	if s.cfg.CleanBuild {
		if err := s.removeOutput(ctx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	sort.Slice(rendered, func(i, j int) bool {
		return rendered[i].Route < rendered[j].Route
	})
	if err := s.persistPages(ctx, writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, plans, generatedAt); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, generatedAt); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = generatedAt
		for _, page := range rendered {
			if strings.TrimSpace(page.Fingerprint) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				Kind:         string(page.Kind),
				Name:         page.Name,
				Route:        page.Route,
				Output:       page.Output,
				Fingerprint:  page.Fingerprint,
				Checksum:     page.Checksum,
				LastModified: page.LastMod,
				RenderedAt:   generatedAt,
			})
		}
		manifest.prunePages(pageKeys)
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logBuild(result, len(errorsSlice))
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// Clean removes the output directory, manifest included.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.removeOutput(ctx)
}

func (s *service) removeOutput(ctx context.Context) error {
	if s.deps.Storage == nil {
		return nil
	}
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if base == "" {
		return nil
	}
	if _, err := s.deps.Storage.Exec(ctx, storage.OpRemove, base); err != nil {
		return fmt.Errorf("builder: clean output dir: %w", err)
	}
	return nil
}

func (s *service) planPages(idx *index.Index, opts BuildOptions) []pagePlan {
	selected := map[string]struct{}{}
	for _, slug := range opts.Slugs {
		if slug = strings.TrimSpace(slug); slug != "" {
			selected[slug] = struct{}{}
		}
	}

	plans := make([]pagePlan, 0, idx.PublishedCount()+len(idx.Tags())+1)
	for post := range idx.Published() {
		if len(selected) > 0 {
			if _, ok := selected[post.Slug()]; !ok {
				continue
			}
		}
		route, location := s.postRef(post.Slug())
		plans = append(plans, pagePlan{
			kind:        KindPost,
			name:        post.Slug(),
			route:       route,
			location:    location,
			fingerprint: post.Checksum(),
			lastMod:     post.PublishedAt(),
			post:        post,
		})
	}

	// Listings always rebuild from the full index so a narrowed run cannot
	// leave them out of step with the posts they link to.
	for _, tag := range idx.Tags() {
		route, location := s.tagRef(tag)
		items, fingerprint, lastMod := s.listFor(idx.ByTag(tag))
		plans = append(plans, pagePlan{
			kind:        KindTag,
			name:        tag,
			heading:     "Tagged " + tag,
			route:       route,
			location:    location,
			fingerprint: fingerprint,
			lastMod:     lastMod,
			items:       items,
		})
	}

	route, location := s.indexRef()
	items, fingerprint, lastMod := s.listFor(idx.Published())
	plans = append(plans, pagePlan{
		kind:        KindIndex,
		name:        "index",
		route:       route,
		location:    location,
		fingerprint: fingerprint,
		lastMod:     lastMod,
		items:       items,
	})
	return plans
}

// listFor materialises a post sequence into listing items plus a fingerprint
// covering membership, order and member content.
func (s *service) listFor(seq iter.Seq[*posts.Post]) ([]ListItem, string, time.Time) {
	items := []ListItem{}
	hasher := sha256.New()
	var lastMod time.Time
	for post := range seq {
		route, location := s.postRef(post.Slug())
		items = append(items, ListItem{
			Title:       post.Title(),
			Slug:        post.Slug(),
			Route:       route,
			Permalink:   location,
			Summary:     post.Summary(),
			Author:      post.Author(),
			PublishedAt: post.PublishedAt(),
			Tags:        s.tagRefs(post.Tags()),
		})
		fmt.Fprintf(hasher, "%s\x00%s\n", post.Slug(), post.Checksum())
		if post.PublishedAt().After(lastMod) {
			lastMod = post.PublishedAt()
		}
	}
	return items, hex.EncodeToString(hasher.Sum(nil)), lastMod
}

func (s *service) tagRefs(tags []string) []TagRef {
	refs := make([]TagRef, 0, len(tags))
	for _, tag := range tags {
		route, _ := s.tagRef(tag)
		refs = append(refs, TagRef{Name: tag, Route: route})
	}
	return refs
}

func (s *service) postRef(slug string) (string, string) {
	if s.deps.Permalinks != nil {
		location, err := s.deps.Permalinks.PostSlug(slug)
		if err == nil {
			return routeFromLocation(location), location
		}
		s.deps.Logger.Debug("permalink fallback", "kind", KindPost, "slug", slug, "error", err)
	}
	route := "/posts/" + slug
	return route, s.absoluteURL(route)
}

func (s *service) tagRef(tag string) (string, string) {
	if s.deps.Permalinks != nil {
		location, err := s.deps.Permalinks.Tag(tag)
		if err == nil {
			return routeFromLocation(location), location
		}
		s.deps.Logger.Debug("permalink fallback", "kind", KindTag, "tag", tag, "error", err)
	}
	route := "/tags/" + tag
	return route, s.absoluteURL(route)
}

func (s *service) indexRef() (string, string) {
	if s.deps.Permalinks != nil {
		location, err := s.deps.Permalinks.Index()
		if err == nil {
			return routeFromLocation(location), location
		}
		s.deps.Logger.Debug("permalink fallback", "kind", KindIndex, "error", err)
	}
	return "/", s.absoluteURL("/")
}

func (s *service) absoluteURL(route string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

func (s *service) renderConcurrently(
	ctx context.Context,
	plans []pagePlan,
	manifest *buildManifest,
	baseDir string,
	generatedAt time.Time,
	workers int,
	collect func(renderOutcome),
) error {
	jobs := make(chan pagePlan)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for plan := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{kind: plan.kind, name: plan.name, route: plan.route, err: ctx.Err()})
					return
				default:
					collect(s.renderPage(ctx, plan, manifest, baseDir, generatedAt))
				}
			}
		}()
	}

	for _, plan := range plans {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- plan:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderPage(
	ctx context.Context,
	plan pagePlan,
	manifest *buildManifest,
	baseDir string,
	generatedAt time.Time,
) renderOutcome {
	outcome := renderOutcome{kind: plan.kind, name: plan.name, route: plan.route}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		return outcome
	default:
	}

	destRel := buildOutputPath(plan.route)
	expectedOutput := joinOutputPath(baseDir, destRel)
	if s.cfg.Incremental && manifest.shouldSkipPage(plan.kind, plan.name, plan.fingerprint, expectedOutput) {
		outcome.skipped = true
		return outcome
	}

	renderCtx := ctx
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	start := time.Now()
	html, err := s.renderHTML(renderCtx, plan, generatedAt)
	duration := time.Since(start)
	if err != nil {
		outcome.err = err
		return outcome
	}

	if plan.post != nil {
		logging.WithPostContext(s.deps.Logger, plan.post.SourcePath(), plan.name, "builder.render").
			Debug("page rendered", "route", plan.route, "duration", duration)
	}

	outcome.page = RenderedPage{
		Kind:        plan.kind,
		Name:        plan.name,
		Route:       plan.route,
		Location:    plan.location,
		HTML:        html,
		Fingerprint: plan.fingerprint,
		LastMod:     plan.lastMod,
		Duration:    duration,
	}
	return outcome
}

func (s *service) renderHTML(ctx context.Context, plan pagePlan, generatedAt time.Time) (string, error) {
	view := TemplateContext{
		Site: SiteMetadata{
			Title:       s.cfg.SiteTitle,
			Description: s.cfg.SiteDescription,
			BaseURL:     strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
			Author:      s.cfg.SiteAuthor,
		},
		Build: BuildMetadata{
			GeneratedAt: generatedAt,
			Incremental: s.cfg.Incremental,
		},
	}

	templateName := "list"
	switch plan.kind {
	case KindPost:
		body, err := s.deps.Renderer.Render(plan.post.Body())
		if err != nil {
			return "", fmt.Errorf("builder: render markdown for %s: %w", plan.name, err)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		view.Post = &PostContext{
			Title:       plan.post.Title(),
			Slug:        plan.post.Slug(),
			Summary:     plan.post.Summary(),
			Author:      plan.post.Author(),
			PublishedAt: plan.post.PublishedAt(),
			Tags:        s.tagRefs(plan.post.Tags()),
			Permalink:   plan.location,
			Content:     string(body),
		}
		templateName = "post"
	default:
		view.Heading = plan.heading
		view.Posts = plan.items
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, view); err != nil {
		return "", fmt.Errorf("builder: execute template %q for %s: %w", templateName, plan.route, err)
	}
	return buf.String(), nil
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, pages []RenderedPage) error {
	if len(pages) == 0 {
		return nil
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for i := range pages {
		destRel := buildOutputPath(pages[i].Route)
		fullPath := joinOutputPath(baseDir, destRel)
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		checksum := computeHashFromString(pages[i].HTML)
		pages[i].Output = fullPath
		pages[i].Checksum = checksum

		metadata := map[string]string{
			"kind":  string(pages[i].Kind),
			"name":  pages[i].Name,
			"route": pages[i].Route,
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Category:    categoryFor(pages[i].Kind),
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata:    metadata,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func categoryFor(kind PageKind) writeCategory {
	switch kind {
	case KindPost:
		return categoryPost
	case KindTag:
		return categoryTag
	default:
		return categoryIndex
	}
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Storage == nil {
		return newBuildManifest(), nil
	}
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return newBuildManifest(), nil
	}
	rows, err := s.deps.Storage.Query(ctx, storage.OpRead, target)
	if err != nil {
		return nil, fmt.Errorf("builder: read manifest: %w", err)
	}
	if rows == nil {
		return newBuildManifest(), nil
	}
	defer rows.Close()
	if !rows.Next() {
		return newBuildManifest(), nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("builder: scan manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return nil
	}
	dirCache := map[string]struct{}{}
	if err := ensureDir(ctx, writer, dirCache, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	req := writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, plans []pagePlan, generatedAt time.Time) error {
	entries := make([]sitemapEntry, 0, len(plans))
	for _, plan := range plans {
		entries = append(entries, sitemapEntry{Location: plan.location, LastMod: plan.lastMod})
	}
	content := buildSitemap(entries, generatedAt)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	fullPath := joinOutputPath(baseDir, "sitemap.xml")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	checksum := computeHashFromString(content)
	req := writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    checksum,
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter, generatedAt time.Time) error {
	content := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	fullPath := joinOutputPath(baseDir, "robots.txt")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	checksum := computeHashFromString(content)
	req := writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    checksum,
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) effectiveWorkerCount(planCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if planCount > 0 && workers > planCount {
		return planCount
	}
	return workers
}

func (s *service) logBuild(result *BuildResult, errCount int) {
	s.deps.Logger.Info("site build complete",
		"posts_built", result.PostsBuilt,
		"posts_skipped", result.PostsSkipped,
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"duration", result.Duration,
		"dry_run", result.DryRun,
		"errors", errCount,
	)
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, *index.Index, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
