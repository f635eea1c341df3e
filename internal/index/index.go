// Package index holds the in-memory post index. An Index is immutable once
// built; every accessor either returns copies or lazy sequences over the
// snapshot taken at construction time.
package index

import (
	"errors"
	"iter"
	"sort"

	"github.com/goliatone/go-blog/posts"
)

// ErrEmptyIndex reports an index with no posts. It is returned only from
// RequirePosts; lookups against an empty index succeed with empty results.
var ErrEmptyIndex = errors.New("index: no posts indexed")

// Index is an ordered view over a set of posts. Published posts are sorted by
// publication time, newest first; posts sharing a publication instant fall
// back to source path order so the sequence stays stable across rebuilds.
type Index struct {
	all       []*posts.Post
	published []*posts.Post
	byTag     map[string][]*posts.Post
	bySlug    map[string]*posts.Post
	tags      []string
}

// New builds an Index from the given posts. The input slice is not retained.
func New(items []*posts.Post) *Index {
	all := make([]*posts.Post, 0, len(items))
	for _, post := range items {
		if post == nil {
			continue
		}
		all = append(all, post)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.PublishedAt().Equal(b.PublishedAt()) {
			return a.PublishedAt().After(b.PublishedAt())
		}
		return a.SourcePath() < b.SourcePath()
	})

	idx := &Index{
		all:    all,
		byTag:  map[string][]*posts.Post{},
		bySlug: map[string]*posts.Post{},
	}

	for _, post := range all {
		if _, ok := idx.bySlug[post.Slug()]; !ok && post.Slug() != "" {
			idx.bySlug[post.Slug()] = post
		}
		if !post.Published() {
			continue
		}
		idx.published = append(idx.published, post)
		for _, tag := range post.Tags() {
			idx.byTag[tag] = append(idx.byTag[tag], post)
		}
	}

	idx.tags = make([]string, 0, len(idx.byTag))
	for tag := range idx.byTag {
		idx.tags = append(idx.tags, tag)
	}
	sort.Strings(idx.tags)

	return idx
}

// Len reports how many posts the index holds, drafts included.
func (x *Index) Len() int {
	return len(x.all)
}

// PublishedCount reports how many indexed posts are published.
func (x *Index) PublishedCount() int {
	return len(x.published)
}

// Published yields published posts newest first. Iteration may stop early;
// no work is done for posts past the stopping point.
func (x *Index) Published() iter.Seq[*posts.Post] {
	return sequence(x.published)
}

// ByTag yields published posts carrying the exact tag, in the same order as
// Published. A tag the index has never seen yields nothing.
func (x *Index) ByTag(tag string) iter.Seq[*posts.Post] {
	return sequence(x.byTag[tag])
}

// Tags returns the sorted set of tags present on published posts.
func (x *Index) Tags() []string {
	out := make([]string, len(x.tags))
	copy(out, x.tags)
	return out
}

// All returns every indexed post, drafts included, in published order.
func (x *Index) All() []*posts.Post {
	out := make([]*posts.Post, len(x.all))
	copy(out, x.all)
	return out
}

// BySlug resolves a post by its slug.
func (x *Index) BySlug(slug string) (*posts.Post, bool) {
	post, ok := x.bySlug[slug]
	return post, ok
}

// RequirePosts asserts the index is non-empty.
func (x *Index) RequirePosts() error {
	if len(x.all) == 0 {
		return ErrEmptyIndex
	}
	return nil
}

func sequence(items []*posts.Post) iter.Seq[*posts.Post] {
	return func(yield func(*posts.Post) bool) {
		for _, post := range items {
			if !yield(post) {
				return
			}
		}
	}
}
