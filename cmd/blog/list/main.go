package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/posts"
)

var moduleBuilder = bootstrap.BuildModule

type listEntry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	SourcePath  string    `json:"source_path"`
}

func main() {
	var (
		contentDir    = flag.String("content-dir", "content", "Path to the post content root")
		pattern       = flag.String("pattern", "*.md", "Glob pattern applied when discovering post files")
		tag           = flag.String("tag", "", "Only list published posts carrying this tag")
		includeDrafts = flag.Bool("drafts", false, "Include drafts in the listing")
		asJSON        = flag.Bool("json", false, "Emit the listing as JSON")
	)

	flag.Parse()

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}

	ctx := context.Background()

	idx, err := module.Module.Index(ctx)
	if err != nil {
		log.Fatalf("index posts: %v", err)
	}

	var items []*posts.Post
	switch {
	case *tag != "":
		items = slices.Collect(idx.ByTag(*tag))
	case *includeDrafts:
		items = idx.All()
	default:
		items = slices.Collect(idx.Published())
	}

	if *asJSON {
		entries := make([]listEntry, 0, len(items))
		for _, post := range items {
			entries = append(entries, listEntry{
				Slug:        post.Slug(),
				Title:       post.Title(),
				PublishedAt: post.PublishedAt(),
				Draft:       post.Draft(),
				Tags:        post.Tags(),
				SourcePath:  post.SourcePath(),
			})
		}
		encoded, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			log.Fatalf("encode listing: %v", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n", encoded)
		return
	}

	for _, post := range items {
		marker := " "
		if post.Draft() {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s  %-32s %s\n",
			marker, post.PublishedAt().Format("2006-01-02"), post.Slug(), post.Title())
	}
	fmt.Fprintf(os.Stdout, "\n%d posts (%d published)\n", idx.Len(), idx.PublishedCount())
}
