package permalink

import (
	"errors"
	"strings"
	"testing"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/posts"
)

func newBuilder(tb testing.TB) *Builder {
	tb.Helper()

	manager := urlkit.NewRouteManager(DefaultRouteConfig("https://blog.example.com"))
	return New(Options{Manager: manager})
}

func testPost(tb testing.TB, slug string) *posts.Post {
	tb.Helper()

	return posts.New(posts.Attributes{
		SourcePath:  slug + ".md",
		Title:       slug,
		Slug:        slug,
		PublishedAt: time.Date(2021, 4, 24, 0, 0, 0, 0, time.UTC),
	})
}

func TestPostURL(t *testing.T) {
	b := newBuilder(t)

	url, err := b.Post(testPost(t, "redis-streams"))
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if url != "https://blog.example.com/posts/redis-streams" {
		t.Fatalf("unexpected post URL: %s", url)
	}
}

func TestPostSlugURL(t *testing.T) {
	b := newBuilder(t)

	url, err := b.PostSlug("java-sockets")
	if err != nil {
		t.Fatalf("PostSlug returned error: %v", err)
	}
	if url != "https://blog.example.com/posts/java-sockets" {
		t.Fatalf("unexpected post URL: %s", url)
	}
}

func TestTagURL(t *testing.T) {
	b := newBuilder(t)

	url, err := b.Tag("redis")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if url != "https://blog.example.com/tags/redis" {
		t.Fatalf("unexpected tag URL: %s", url)
	}
}

func TestIndexURL(t *testing.T) {
	b := newBuilder(t)

	url, err := b.Index()
	if err != nil {
		t.Fatalf("Index returned error: %v", err)
	}
	if strings.TrimRight(url, "/") != "https://blog.example.com" {
		t.Fatalf("unexpected index URL: %s", url)
	}
}

func TestMissingSlugRejected(t *testing.T) {
	b := newBuilder(t)

	if _, err := b.PostSlug("  "); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	if _, err := b.Tag(""); !errors.Is(err, ErrTagRequired) {
		t.Fatalf("expected ErrTagRequired, got %v", err)
	}
}

func TestUnknownGroupSurfacesError(t *testing.T) {
	manager := urlkit.NewRouteManager(DefaultRouteConfig("https://blog.example.com"))
	b := New(Options{Manager: manager, PostsGroup: "missing"})

	if _, err := b.PostSlug("redis-streams"); err == nil {
		t.Fatal("expected error for unknown route group")
	}
}

func TestNilManagerRejected(t *testing.T) {
	b := New(Options{})

	if _, err := b.Index(); !errors.Is(err, ErrManagerRequired) {
		t.Fatalf("expected ErrManagerRequired, got %v", err)
	}
}
