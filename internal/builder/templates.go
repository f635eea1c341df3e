package builder

import (
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TemplateContext is the data handed to page templates. Post is set for post
// pages; Heading and Posts are set for the index and tag listings.
type TemplateContext struct {
	Site    SiteMetadata
	Post    *PostContext
	Heading string
	Posts   []ListItem
	Build   BuildMetadata
}

// SiteMetadata carries site-wide template fields.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// BuildMetadata describes the run that produced the page.
type BuildMetadata struct {
	GeneratedAt time.Time
	Incremental bool
}

// PostContext is the per-post template payload. Content holds rendered HTML
// and is emitted through the safeHTML helper.
type PostContext struct {
	Title       string
	Slug        string
	Summary     string
	Author      string
	PublishedAt time.Time
	Tags        []TagRef
	Permalink   string
	Content     string
}

// ListItem is one entry in the index or a tag listing.
type ListItem struct {
	Title       string
	Slug        string
	Route       string
	Permalink   string
	Summary     string
	Author      string
	PublishedAt time.Time
	Tags        []TagRef
}

// TagRef pairs a tag with the route of its listing page.
type TagRef struct {
	Name  string
	Route string
}

const builtinTemplates = `{{define "post"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Post.Title}} | {{.Site.Title}}</title>
{{- if .Post.Summary}}
  <meta name="description" content="{{.Post.Summary}}">
{{- end}}
  <link rel="canonical" href="{{.Post.Permalink}}">
</head>
<body>
  <header><a href="/">{{.Site.Title}}</a></header>
  <main>
    <article>
      <h1>{{.Post.Title}}</h1>
      <p class="meta"><time datetime="{{.Post.PublishedAt.Format "2006-01-02"}}">{{.Post.PublishedAt.Format "January 2, 2006"}}</time>{{if .Post.Author}} by {{.Post.Author}}{{end}}</p>
{{- if .Post.Tags}}
      <ul class="tags">{{range .Post.Tags}}<li><a href="{{.Route}}">{{.Name}}</a></li>{{end}}</ul>
{{- end}}
{{.Post.Content | safeHTML}}
    </article>
  </main>
</body>
</html>
{{end}}{{define "list"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{if .Heading}}{{.Heading}} | {{end}}{{.Site.Title}}</title>
{{- if .Site.Description}}
  <meta name="description" content="{{.Site.Description}}">
{{- end}}
</head>
<body>
  <header><a href="/">{{.Site.Title}}</a></header>
  <main>
{{- if .Heading}}
    <h1>{{.Heading}}</h1>
{{- end}}
    <ul class="posts">
{{- range .Posts}}
      <li>
        <a href="{{.Route}}">{{.Title}}</a>
        <time datetime="{{.PublishedAt.Format "2006-01-02"}}">{{.PublishedAt.Format "January 2, 2006"}}</time>
{{- if .Summary}}
        <p>{{.Summary}}</p>
{{- end}}
      </li>
{{- end}}
    </ul>
  </main>
</body>
</html>
{{end}}`

// newTemplateSet parses the built-in page templates and, when overrideDir is
// set, merges any .html or .tmpl files found beneath it. Override files must
// define "post" or "list" blocks to replace the built-ins.
func newTemplateSet(overrideDir string) (*template.Template, error) {
	root := template.New("blog").Funcs(template.FuncMap{
		"safeHTML": toTrustedHTML,
	})
	root, err := root.Parse(builtinTemplates)
	if err != nil {
		return nil, fmt.Errorf("builder: parse built-in templates: %w", err)
	}

	overrideDir = strings.TrimSpace(overrideDir)
	if overrideDir == "" {
		return root, nil
	}

	var files []string
	walkErr := filepath.WalkDir(overrideDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".tmpl":
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("builder: scan template dir %s: %w", overrideDir, walkErr)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return root, nil
	}

	root, err = root.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("builder: parse templates from %s: %w", overrideDir, err)
	}
	return root, nil
}

func toTrustedHTML(value any) template.HTML {
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	case []byte:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
