package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/permalink"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/pkg/storage"
	"github.com/goliatone/go-blog/posts"
)

func buildPost(tb testing.TB, title, slug string, published time.Time, tags []string, body string) *posts.Post {
	tb.Helper()

	sourcePath := "content/" + slug + ".md"
	source := []byte(body)
	return posts.New(posts.Attributes{
		ID:          identity.PostUUID(sourcePath),
		SourcePath:  sourcePath,
		Title:       title,
		Slug:        slug,
		PublishedAt: published,
		Tags:        tags,
		FrontMatter: []byte("---\ntitle: " + title + "\n---\n"),
		Body:        source,
		Checksum:    computeHash(source),
	})
}

func acceptanceIndex(tb testing.TB) *index.Index {
	tb.Helper()

	return index.New([]*posts.Post{
		buildPost(tb, "Reactor Netty", "reactor-netty",
			time.Date(2021, 4, 24, 0, 0, 0, 0, time.UTC),
			[]string{"java", "redis"},
			"# Reactor Netty\n\nEvent loops all the way down.\n"),
		buildPost(tb, "Java Sockets", "java-sockets",
			time.Date(2021, 4, 25, 0, 0, 0, 0, time.UTC),
			[]string{"java"},
			"# Java Sockets\n\nBlocking IO, demystified.\n"),
	})
}

func testConfig() Config {
	return Config{
		OutputDir:  "public",
		BaseURL:    "https://blog.example.com",
		SiteTitle:  "Example Blog",
		SiteAuthor: "The Author",
	}
}

func newTestService(tb testing.TB, cfg Config, provider storage.Provider) *service {
	tb.Helper()

	svc, err := NewService(cfg, Dependencies{
		Renderer: markdown.New(interfaces.RenderOptions{}),
		Storage:  provider,
	})
	if err != nil {
		tb.Fatalf("new service: %v", err)
	}
	concrete := svc.(*service)
	concrete.now = func() time.Time {
		return time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return concrete
}

func TestBuildRendersPostAndListingPages(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	svc := newTestService(t, testConfig(), store)

	result, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if result.PostsBuilt != 2 {
		t.Fatalf("expected 2 posts built, got %d", result.PostsBuilt)
	}
	// One index page plus the java and redis tag listings.
	if result.PagesBuilt != 3 {
		t.Fatalf("expected 3 listing pages built, got %d", result.PagesBuilt)
	}
	if result.PostsSkipped != 0 || result.PagesSkipped != 0 {
		t.Fatalf("expected nothing skipped, got posts=%d pages=%d", result.PostsSkipped, result.PagesSkipped)
	}
	if len(result.Rendered) != 5 {
		t.Fatalf("expected 5 rendered outputs, got %d", len(result.Rendered))
	}
	for _, page := range result.Rendered {
		if page.Output == "" {
			t.Fatalf("expected output path for %s %s", page.Kind, page.Name)
		}
		if !strings.HasSuffix(page.Output, "index.html") {
			t.Fatalf("expected output to end with index.html, got %s", page.Output)
		}
		if page.Checksum == "" {
			t.Fatalf("expected checksum for %s %s", page.Kind, page.Name)
		}
	}

	postHTML := store.file(t, "public/posts/reactor-netty/index.html")
	if !strings.Contains(postHTML, "Event loops all the way down.") {
		t.Fatalf("expected rendered markdown body, got:\n%s", postHTML)
	}
	if !strings.Contains(postHTML, `<link rel="canonical" href="https://blog.example.com/posts/reactor-netty">`) {
		t.Fatalf("expected canonical link, got:\n%s", postHTML)
	}
	if !strings.Contains(postHTML, `<a href="/tags/redis">redis</a>`) {
		t.Fatalf("expected tag link, got:\n%s", postHTML)
	}

	indexHTML := store.file(t, "public/index.html")
	newer := strings.Index(indexHTML, "/posts/java-sockets")
	older := strings.Index(indexHTML, "/posts/reactor-netty")
	if newer < 0 || older < 0 {
		t.Fatalf("expected both posts on the index page, got:\n%s", indexHTML)
	}
	if newer > older {
		t.Fatalf("expected newest post listed first")
	}

	redisHTML := store.file(t, "public/tags/redis/index.html")
	if !strings.Contains(redisHTML, "/posts/reactor-netty") {
		t.Fatalf("expected redis listing to link the tagged post, got:\n%s", redisHTML)
	}
	if strings.Contains(redisHTML, "/posts/java-sockets") {
		t.Fatalf("redis listing should not include untagged posts")
	}
	if !strings.Contains(redisHTML, "<h1>Tagged redis</h1>") {
		t.Fatalf("expected tag heading, got:\n%s", redisHTML)
	}
}

func TestBuildUsesWorkerPool(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Workers = 4

	renderer := &concurrentRenderer{delay: 2 * time.Millisecond}
	store := &recordingStorage{}
	svc, err := NewService(cfg, Dependencies{Renderer: renderer, Storage: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	items := make([]*posts.Post, 0, 8)
	for i := 0; i < 8; i++ {
		slug := fmt.Sprintf("post-%d", i)
		items = append(items, buildPost(t, slug, slug,
			time.Date(2021, 4, 1+i, 0, 0, 0, 0, time.UTC), nil, "body "+slug))
	}

	result, err := svc.Build(ctx, index.New(items), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PostsBuilt != 8 {
		t.Fatalf("expected 8 posts built, got %d", result.PostsBuilt)
	}
	if renderer.maxConcurrent.Load() < 2 {
		t.Fatalf("expected at least 2 concurrent renders, got %d", renderer.maxConcurrent.Load())
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	svc := newTestService(t, testConfig(), store)

	result, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build dry-run: %v", err)
	}

	if !result.DryRun {
		t.Fatal("expected dry-run flag on result")
	}
	if result.PostsBuilt != 2 || result.PagesBuilt != 3 {
		t.Fatalf("expected dry-run to count work, got posts=%d pages=%d", result.PostsBuilt, result.PagesBuilt)
	}
	if len(result.Rendered) != 0 {
		t.Fatalf("expected no rendered outputs in dry-run, got %d", len(result.Rendered))
	}
	for _, call := range store.ExecCalls() {
		if call.Query == storage.OpWrite {
			t.Fatalf("expected no storage writes in dry-run, wrote %v", call.Args[0])
		}
	}
}

func TestBuildIncrementalSkipsUnchangedPages(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Incremental = true
	store := &recordingStorage{}

	first := newTestService(t, cfg, store)
	if _, err := first.Build(ctx, acceptanceIndex(t), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	callsBefore := store.callCount()

	second := newTestService(t, cfg, store)
	result, err := second.Build(ctx, acceptanceIndex(t), BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if result.PostsSkipped != 2 {
		t.Fatalf("expected 2 posts skipped, got %d", result.PostsSkipped)
	}
	if result.PagesSkipped != 3 {
		t.Fatalf("expected 3 listing pages skipped, got %d", result.PagesSkipped)
	}
	if result.PostsBuilt != 0 || result.PagesBuilt != 0 {
		t.Fatalf("expected nothing rebuilt, got posts=%d pages=%d", result.PostsBuilt, result.PagesBuilt)
	}
	for _, call := range store.ExecCalls()[callsBefore:] {
		if call.Query != storage.OpWrite {
			continue
		}
		target, _ := call.Args[0].(string)
		if strings.HasSuffix(target, ".html") {
			t.Fatalf("expected no page writes on unchanged rebuild, wrote %s", target)
		}
	}
}

func TestBuildIncrementalRebuildsChangedPost(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Incremental = true
	store := &recordingStorage{}

	first := newTestService(t, cfg, store)
	if _, err := first.Build(ctx, acceptanceIndex(t), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	changed := index.New([]*posts.Post{
		buildPost(t, "Reactor Netty", "reactor-netty",
			time.Date(2021, 4, 24, 0, 0, 0, 0, time.UTC),
			[]string{"java", "redis"},
			"# Reactor Netty\n\nRewritten from scratch.\n"),
		buildPost(t, "Java Sockets", "java-sockets",
			time.Date(2021, 4, 25, 0, 0, 0, 0, time.UTC),
			[]string{"java"},
			"# Java Sockets\n\nBlocking IO, demystified.\n"),
	})

	second := newTestService(t, cfg, store)
	result, err := second.Build(ctx, changed, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if result.PostsBuilt != 1 || result.PostsSkipped != 1 {
		t.Fatalf("expected exactly the changed post rebuilt, got built=%d skipped=%d", result.PostsBuilt, result.PostsSkipped)
	}
	// The java listing membership hash is unchanged only when its posts are;
	// the changed checksum flows into redis, java and the index listings.
	if result.PagesBuilt != 3 {
		t.Fatalf("expected all listings rebuilt after member change, got %d", result.PagesBuilt)
	}
	postHTML := store.file(t, "public/posts/reactor-netty/index.html")
	if !strings.Contains(postHTML, "Rewritten from scratch.") {
		t.Fatalf("expected updated body in output, got:\n%s", postHTML)
	}
}

func TestBuildFailsOnEmptyIndex(t *testing.T) {
	cfg := testConfig()
	cfg.FailOnEmpty = true
	svc := newTestService(t, cfg, &recordingStorage{})

	_, err := svc.Build(context.Background(), index.New(nil), BuildOptions{})
	if !errors.Is(err, index.ErrEmptyIndex) {
		t.Fatalf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestBuildAllowsEmptyIndexByDefault(t *testing.T) {
	svc := newTestService(t, testConfig(), &recordingStorage{})

	result, err := svc.Build(context.Background(), nil, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// The index listing still renders so the site has a front page.
	if result.PagesBuilt != 1 {
		t.Fatalf("expected the index page built, got %d", result.PagesBuilt)
	}
	if result.PostsBuilt != 0 {
		t.Fatalf("expected no posts built, got %d", result.PostsBuilt)
	}
}

func TestBuildGeneratesSitemapAndRobots(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.GenerateSitemap = true
	cfg.GenerateRobots = true
	store := &recordingStorage{}
	svc := newTestService(t, cfg, store)

	if _, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	sitemap := store.file(t, "public/sitemap.xml")
	if !strings.Contains(sitemap, "<loc>https://blog.example.com/posts/java-sockets</loc>") {
		t.Fatalf("expected post location in sitemap, got:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>https://blog.example.com/tags/redis</loc>") {
		t.Fatalf("expected tag location in sitemap, got:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2021-04-25T00:00:00Z</lastmod>") {
		t.Fatalf("expected publish date as lastmod, got:\n%s", sitemap)
	}

	robots := store.file(t, "public/robots.txt")
	expected := "User-agent: *\nAllow: /\n\nSitemap: https://blog.example.com/sitemap.xml\n"
	if robots != expected {
		t.Fatalf("unexpected robots.txt:\n%s", robots)
	}
}

func TestBuildFollowsConfiguredPermalinks(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	cfg := testConfig()

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "posts",
				BaseURL: "https://blog.example.com",
				Paths: map[string]string{
					"post":  "/writing/:slug",
					"index": "/",
				},
			},
			{
				Name:    "tags",
				BaseURL: "https://blog.example.com",
				Paths: map[string]string{
					"tag": "/topics/:tag",
				},
			},
		},
	})

	svc, err := NewService(cfg, Dependencies{
		Renderer:   markdown.New(interfaces.RenderOptions{}),
		Permalinks: permalink.New(permalink.Options{Manager: manager}),
		Storage:    store,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	postHTML := store.file(t, "public/writing/reactor-netty/index.html")
	if !strings.Contains(postHTML, `href="https://blog.example.com/writing/reactor-netty"`) {
		t.Fatalf("expected canonical permalink, got:\n%s", postHTML)
	}
	if _, ok := store.lookup("public/topics/redis/index.html"); !ok {
		t.Fatal("expected tag listing under the configured topics route")
	}
}

func TestBuildNarrowsToRequestedSlugs(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	svc := newTestService(t, testConfig(), store)

	result, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{Slugs: []string{"reactor-netty"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if result.PostsBuilt != 1 {
		t.Fatalf("expected 1 post built, got %d", result.PostsBuilt)
	}
	if result.PagesBuilt != 3 {
		t.Fatalf("expected listings to build regardless of narrowing, got %d", result.PagesBuilt)
	}
	if _, ok := store.lookup("public/posts/java-sockets/index.html"); ok {
		t.Fatal("expected unselected post to stay unwritten")
	}
}

func TestCleanRemovesOutput(t *testing.T) {
	ctx := context.Background()
	store := &recordingStorage{}
	svc := newTestService(t, testConfig(), store)

	if _, err := svc.Build(ctx, acceptanceIndex(t), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := store.lookup("public/index.html"); !ok {
		t.Fatal("expected build output before clean")
	}

	if err := svc.Clean(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, ok := store.lookup("public/index.html"); ok {
		t.Fatal("expected output removed after clean")
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()

	if _, err := svc.Build(context.Background(), index.New(nil), BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled from Build, got %v", err)
	}
	if err := svc.Clean(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled from Clean, got %v", err)
	}
}

// concurrentRenderer tracks peak concurrency across Render calls.
type concurrentRenderer struct {
	active        atomic.Int32
	maxConcurrent atomic.Int32
	delay         time.Duration
}

func (r *concurrentRenderer) Render(markdown []byte) ([]byte, error) {
	current := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		peak := r.maxConcurrent.Load()
		if current <= peak || r.maxConcurrent.CompareAndSwap(peak, current) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return append([]byte("<p>"), append(markdown, []byte("</p>")...)...), nil
}

func (r *concurrentRenderer) RenderWithOptions(markdown []byte, _ interfaces.RenderOptions) ([]byte, error) {
	return r.Render(markdown)
}

type storageCall struct {
	Query string
	Args  []any
}

// recordingStorage keeps written files in memory and logs every provider call.
type recordingStorage struct {
	mu    sync.Mutex
	calls []storageCall
	files map[string][]byte
}

func (s *recordingStorage) Exec(_ context.Context, query string, args ...any) (storage.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == storage.OpWrite && len(args) >= 2 {
		if target, ok := args[0].(string); ok {
			if reader, ok := args[1].(io.Reader); ok && reader != nil {
				data, err := io.ReadAll(reader)
				if err == nil {
					if s.files == nil {
						s.files = map[string][]byte{}
					}
					s.files[target] = append([]byte(nil), data...)
				}
			}
		}
	}
	if query == storage.OpRemove && len(args) >= 1 {
		if target, ok := args[0].(string); ok {
			for path := range s.files {
				if path == target || strings.HasPrefix(path, strings.TrimRight(target, "/")+"/") {
					delete(s.files, path)
				}
			}
		}
	}
	s.calls = append(s.calls, storageCall{Query: query, Args: append([]any(nil), args...)})
	return noopResult{}, nil
}

func (s *recordingStorage) Query(_ context.Context, query string, args ...any) (storage.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storageCall{Query: query, Args: append([]any(nil), args...)})
	if query == storage.OpRead && len(args) > 0 {
		if target, ok := args[0].(string); ok {
			if data, ok := s.files[target]; ok {
				return &bufferedRows{data: [][]byte{append([]byte(nil), data...)}}, nil
			}
		}
	}
	return &bufferedRows{}, nil
}

func (s *recordingStorage) Transaction(_ context.Context, fn func(tx storage.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&recordingTx{storage: s})
}

func (s *recordingStorage) ExecCalls() []storageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]storageCall, len(s.calls))
	copy(calls, s.calls)
	return calls
}

func (s *recordingStorage) callCount() int {
	return len(s.ExecCalls())
}

func (s *recordingStorage) lookup(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return data, ok
}

func (s *recordingStorage) file(tb testing.TB, path string) string {
	tb.Helper()
	data, ok := s.lookup(path)
	if !ok {
		keys := make([]string, 0, len(s.files))
		s.mu.Lock()
		for key := range s.files {
			keys = append(keys, key)
		}
		s.mu.Unlock()
		tb.Fatalf("file %s not written; have %v", path, keys)
	}
	return string(data)
}

type recordingTx struct {
	storage *recordingStorage
}

func (tx *recordingTx) Exec(ctx context.Context, query string, args ...any) (storage.Result, error) {
	return tx.storage.Exec(ctx, query, args...)
}

func (tx *recordingTx) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	return tx.storage.Query(ctx, query, args...)
}

func (recordingTx) Transaction(context.Context, func(storage.Transaction) error) error {
	return fmt.Errorf("nested transactions not supported")
}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type noopResult struct{}

func (noopResult) RowsAffected() (int64, error) { return 0, nil }
func (noopResult) LastInsertId() (int64, error) { return 0, nil }

type bufferedRows struct {
	data  [][]byte
	index int
}

func (r *bufferedRows) Next() bool {
	if r.index >= len(r.data) {
		return false
	}
	r.index++
	return true
}

func (r *bufferedRows) Scan(dest ...any) error {
	if r.index == 0 || r.index > len(r.data) {
		return fmt.Errorf("buffered rows: scan without next")
	}
	if len(dest) == 0 {
		return fmt.Errorf("buffered rows: missing destination")
	}
	value := r.data[r.index-1]
	switch target := dest[0].(type) {
	case *[]byte:
		*target = append((*target)[:0], value...)
		return nil
	case *string:
		*target = string(value)
		return nil
	default:
		return fmt.Errorf("buffered rows: unsupported scan type %T", dest[0])
	}
}

func (r *bufferedRows) Close() error { return nil }
