package posts

import (
	"time"

	"github.com/google/uuid"
)

// Post is a single parsed blog entry. Posts are immutable once constructed;
// accessors return copies of mutable fields so callers cannot alter the
// parsed record.
type Post struct {
	id          uuid.UUID
	sourcePath  string
	title       string
	slug        string
	summary     string
	author      string
	publishedAt time.Time
	draft       bool
	tags        []string
	extra       map[string]any
	frontMatter []byte
	body        []byte
	checksum    string
}

// Attributes carries the field values for a Post under construction.
// The front-matter parser is the usual producer.
type Attributes struct {
	ID          uuid.UUID
	SourcePath  string
	Title       string
	Slug        string
	Summary     string
	Author      string
	PublishedAt time.Time
	Draft       bool
	Tags        []string
	Extra       map[string]any
	FrontMatter []byte
	Body        []byte
	Checksum    string
}

// New builds an immutable Post from attrs. Slices and maps are cloned on the
// way in, so later mutation of attrs does not leak into the Post.
func New(attrs Attributes) *Post {
	return &Post{
		id:          attrs.ID,
		sourcePath:  attrs.SourcePath,
		title:       attrs.Title,
		slug:        attrs.Slug,
		summary:     attrs.Summary,
		author:      attrs.Author,
		publishedAt: attrs.PublishedAt,
		draft:       attrs.Draft,
		tags:        cloneStrings(attrs.Tags),
		extra:       cloneMap(attrs.Extra),
		frontMatter: cloneBytes(attrs.FrontMatter),
		body:        cloneBytes(attrs.Body),
		checksum:    attrs.Checksum,
	}
}

// ID returns the deterministic identifier derived from the source path.
func (p *Post) ID() uuid.UUID {
	return p.id
}

// SourcePath identifies the originating file. It is unique per post and used
// as the deterministic tie breaker when publish timestamps collide.
func (p *Post) SourcePath() string {
	return p.sourcePath
}

// Title returns the required front-matter title.
func (p *Post) Title() string {
	return p.title
}

// Slug returns the URL slug for the post.
func (p *Post) Slug() string {
	return p.slug
}

// Summary returns the optional front-matter summary.
func (p *Post) Summary() string {
	return p.summary
}

// Author returns the optional front-matter author.
func (p *Post) Author() string {
	return p.author
}

// PublishedAt returns the required front-matter date.
func (p *Post) PublishedAt() time.Time {
	return p.publishedAt
}

// Draft reports whether the post is excluded from published views.
func (p *Post) Draft() bool {
	return p.draft
}

// Published reports the inverse of Draft.
func (p *Post) Published() bool {
	return !p.draft
}

// Tags returns the front-matter tags in file order. The result is never nil
// and is safe for the caller to mutate.
func (p *Post) Tags() []string {
	out := make([]string, len(p.tags))
	copy(out, p.tags)
	return out
}

// HasTag reports whether the post carries tag exactly as written.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Extra returns front-matter keys the parser does not interpret. The map is
// a copy; nested values are shared.
func (p *Post) Extra() map[string]any {
	out := make(map[string]any, len(p.extra))
	for k, v := range p.extra {
		out[k] = v
	}
	return out
}

// FrontMatter returns the verbatim front-matter segment, delimiters
// included, exactly as it appeared in the source file.
func (p *Post) FrontMatter() []byte {
	return cloneBytes(p.frontMatter)
}

// Body returns the raw Markdown that followed the closing delimiter,
// byte-for-byte unmodified.
func (p *Post) Body() []byte {
	return cloneBytes(p.body)
}

// Source reassembles the original file content. Because the parser records
// the front matter and body as exact segments of the input, the result is
// byte-identical to the file that produced the post.
func (p *Post) Source() []byte {
	out := make([]byte, 0, len(p.frontMatter)+len(p.body))
	out = append(out, p.frontMatter...)
	out = append(out, p.body...)
	return out
}

// Checksum returns the hex encoded SHA-256 of the source file.
func (p *Post) Checksum() string {
	return p.checksum
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
