// Package permalink builds canonical URLs for posts, tags and the site index
// on top of a go-urlkit route manager.
package permalink

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-blog/posts"
)

var (
	ErrManagerRequired = errors.New("permalink: route manager is required")
	ErrSlugRequired    = errors.New("permalink: post slug is required")
	ErrTagRequired     = errors.New("permalink: tag is required")
)

// Options names the route groups, routes and params the builder uses. Blank
// fields fall back to the conventional names.
type Options struct {
	Manager    *urlkit.RouteManager
	PostsGroup string
	TagsGroup  string
	PostRoute  string
	TagRoute   string
	IndexRoute string
	SlugParam  string
	TagParam   string
}

// Builder resolves permalinks through the configured route manager. Groups
// are cached after first lookup; a Builder is safe for concurrent use.
type Builder struct {
	manager *urlkit.RouteManager

	postsGroup string
	tagsGroup  string
	postRoute  string
	tagRoute   string
	indexRoute string
	slugParam  string
	tagParam   string

	groupCache map[string]*urlkit.Group
	mu         sync.RWMutex
}

// New constructs a Builder from opts.
func New(opts Options) *Builder {
	if opts.PostsGroup == "" {
		opts.PostsGroup = "posts"
	}
	if opts.TagsGroup == "" {
		opts.TagsGroup = "tags"
	}
	if opts.PostRoute == "" {
		opts.PostRoute = "post"
	}
	if opts.TagRoute == "" {
		opts.TagRoute = "tag"
	}
	if opts.IndexRoute == "" {
		opts.IndexRoute = "index"
	}
	if opts.SlugParam == "" {
		opts.SlugParam = "slug"
	}
	if opts.TagParam == "" {
		opts.TagParam = "tag"
	}

	return &Builder{
		manager:    opts.Manager,
		postsGroup: opts.PostsGroup,
		tagsGroup:  opts.TagsGroup,
		postRoute:  opts.PostRoute,
		tagRoute:   opts.TagRoute,
		indexRoute: opts.IndexRoute,
		slugParam:  opts.SlugParam,
		tagParam:   opts.TagParam,
		groupCache: make(map[string]*urlkit.Group),
	}
}

// DefaultRouteConfig returns the conventional route layout for a site rooted
// at baseURL: /posts/:slug, /tags/:tag and the index at /.
func DefaultRouteConfig(baseURL string) *urlkit.Config {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "posts",
				BaseURL: baseURL,
				Paths: map[string]string{
					"post":  "/posts/:slug",
					"index": "/",
				},
			},
			{
				Name:    "tags",
				BaseURL: baseURL,
				Paths: map[string]string{
					"tag": "/tags/:tag",
				},
			},
		},
	}
}

// Post returns the canonical URL for a post.
func (b *Builder) Post(post *posts.Post) (string, error) {
	if post == nil || strings.TrimSpace(post.Slug()) == "" {
		return "", ErrSlugRequired
	}
	return b.build(b.postsGroup, b.postRoute, map[string]any{b.slugParam: post.Slug()})
}

// PostSlug returns the canonical URL for a post identified by slug.
func (b *Builder) PostSlug(slug string) (string, error) {
	if strings.TrimSpace(slug) == "" {
		return "", ErrSlugRequired
	}
	return b.build(b.postsGroup, b.postRoute, map[string]any{b.slugParam: slug})
}

// Tag returns the canonical URL for a tag listing.
func (b *Builder) Tag(tag string) (string, error) {
	if strings.TrimSpace(tag) == "" {
		return "", ErrTagRequired
	}
	return b.build(b.tagsGroup, b.tagRoute, map[string]any{b.tagParam: tag})
}

// Index returns the canonical URL for the published post listing.
func (b *Builder) Index() (string, error) {
	return b.build(b.postsGroup, b.indexRoute, nil)
}

func (b *Builder) build(groupName, routeName string, params map[string]any) (string, error) {
	if b == nil || b.manager == nil {
		return "", ErrManagerRequired
	}

	group, err := b.group(groupName)
	if err != nil {
		return "", err
	}

	builder, err := safeBuilder(group, routeName)
	if err != nil {
		return "", err
	}

	for key, val := range params {
		builder.WithParam(key, val)
	}

	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("permalink: build %s.%s: %w", groupName, routeName, err)
	}
	return url, nil
}

func (b *Builder) group(name string) (*urlkit.Group, error) {
	b.mu.RLock()
	group, ok := b.groupCache[name]
	b.mu.RUnlock()
	if ok {
		return group, nil
	}

	group, err := lookupGroup(b.manager, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.groupCache[name] = group
	b.mu.Unlock()
	return group, nil
}

// lookupGroup and safeBuilder shield callers from go-urlkit panics on
// unknown names. Results are named so the recovered error survives the
// unwind.
func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("permalink: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, errors.New("permalink: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("permalink: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}
