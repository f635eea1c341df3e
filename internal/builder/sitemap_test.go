package builder

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemapOrdersAndDedupes(t *testing.T) {
	fallback := time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []sitemapEntry{
		{Location: "https://blog.example.com/tags/redis", LastMod: time.Date(2021, 4, 24, 0, 0, 0, 0, time.UTC)},
		{Location: "https://blog.example.com/posts/java-sockets", LastMod: time.Date(2021, 4, 25, 0, 0, 0, 0, time.UTC)},
		{Location: "https://blog.example.com/posts/java-sockets", LastMod: time.Date(2021, 4, 25, 0, 0, 0, 0, time.UTC)},
		{Location: ""},
	}

	content := buildSitemap(entries, fallback)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://blog.example.com/posts/java-sockets</loc>
    <lastmod>2021-04-25T00:00:00Z</lastmod>
  </url>
  <url>
    <loc>https://blog.example.com/tags/redis</loc>
    <lastmod>2021-04-24T00:00:00Z</lastmod>
  </url>
</urlset>
`
	if content != expected {
		t.Fatalf("unexpected sitemap:\n%s", content)
	}
}

func TestBuildSitemapFallsBackToBuildTime(t *testing.T) {
	fallback := time.Date(2021, 5, 1, 12, 0, 0, 0, time.UTC)
	content := buildSitemap([]sitemapEntry{{Location: "https://blog.example.com/"}}, fallback)

	if !strings.Contains(content, "<lastmod>2021-05-01T12:00:00Z</lastmod>") {
		t.Fatalf("expected fallback lastmod, got:\n%s", content)
	}
}

func TestBuildRobots(t *testing.T) {
	withSitemap := buildRobots("https://blog.example.com/", true)
	expected := "User-agent: *\nAllow: /\n\nSitemap: https://blog.example.com/sitemap.xml\n"
	if withSitemap != expected {
		t.Fatalf("unexpected robots.txt:\n%s", withSitemap)
	}

	plain := buildRobots("https://blog.example.com", false)
	if plain != "User-agent: *\nAllow: /\n" {
		t.Fatalf("unexpected robots.txt without sitemap:\n%s", plain)
	}

	localhost := buildRobots("", true)
	if !strings.Contains(localhost, "Sitemap: http://localhost/sitemap.xml") {
		t.Fatalf("expected localhost fallback, got:\n%s", localhost)
	}
}
