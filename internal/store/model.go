// Package store persists parsed posts in a relational archive. The archive is
// a cache of parse results keyed by source path; source files stay the system
// of record and re-syncing from disk always converges the two.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-blog/posts"
)

// Record is the persisted form of a parsed post. Front matter and body are
// stored verbatim so the original source can be reassembled from the archive.
type Record struct {
	bun.BaseModel `bun:"table:blog_posts,alias:bp"`

	ID          uuid.UUID      `bun:",pk,type:uuid"                 json:"id"`
	SourcePath  string         `bun:"source_path,notnull,unique"    json:"source_path"`
	Slug        string         `bun:"slug,notnull"                  json:"slug"`
	Title       string         `bun:"title,notnull"                 json:"title"`
	Summary     *string        `bun:"summary"                       json:"summary,omitempty"`
	Author      *string        `bun:"author"                        json:"author,omitempty"`
	PublishedAt time.Time      `bun:"published_at,notnull"          json:"published_at"`
	Draft       bool           `bun:"draft,notnull,default:false"   json:"draft"`
	Tags        []string       `bun:"tags,type:jsonb"               json:"tags,omitempty"`
	Extra       map[string]any `bun:"extra,type:jsonb"              json:"extra,omitempty"`
	FrontMatter []byte         `bun:"front_matter,notnull"          json:"front_matter"`
	Body        []byte         `bun:"body,notnull"                  json:"body"`
	Checksum    string         `bun:"checksum,notnull"              json:"checksum"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// RecordFromPost converts a parsed post into its archive row.
func RecordFromPost(post *posts.Post) *Record {
	if post == nil {
		return nil
	}
	return &Record{
		ID:          post.ID(),
		SourcePath:  post.SourcePath(),
		Slug:        post.Slug(),
		Title:       post.Title(),
		Summary:     optionalString(post.Summary()),
		Author:      optionalString(post.Author()),
		PublishedAt: post.PublishedAt(),
		Draft:       post.Draft(),
		Tags:        post.Tags(),
		Extra:       post.Extra(),
		FrontMatter: post.FrontMatter(),
		Body:        post.Body(),
		Checksum:    post.Checksum(),
	}
}

// Post rebuilds the immutable post value from the archive row.
func (r *Record) Post() *posts.Post {
	if r == nil {
		return nil
	}
	return posts.New(posts.Attributes{
		ID:          r.ID,
		SourcePath:  r.SourcePath,
		Title:       r.Title,
		Slug:        r.Slug,
		Summary:     stringValue(r.Summary),
		Author:      stringValue(r.Author),
		PublishedAt: r.PublishedAt,
		Draft:       r.Draft,
		Tags:        r.Tags,
		Extra:       r.Extra,
		FrontMatter: r.FrontMatter,
		Body:        r.Body,
		Checksum:    r.Checksum,
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
