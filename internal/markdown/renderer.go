package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Renderer converts Markdown post bodies into HTML. A Renderer is stateless
// once constructed and safe for concurrent use; the default engine is built
// once and reused for every Render call.
type Renderer struct {
	defaults interfaces.RenderOptions
	engine   goldmark.Markdown
}

var _ interfaces.Renderer = (*Renderer)(nil)

// New constructs a Renderer. Zero-value options enable the GFM, linkify and
// task list extensions with raw HTML passthrough.
func New(defaults interfaces.RenderOptions) *Renderer {
	return &Renderer{
		defaults: defaults,
		engine:   newEngine(defaults),
	}
}

// Render produces HTML for the given Markdown body using the renderer's
// default configuration.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	return r.convert(r.engine, source)
}

// RenderWithOptions produces HTML using a one-off engine configured from opts.
func (r *Renderer) RenderWithOptions(source []byte, opts interfaces.RenderOptions) ([]byte, error) {
	return r.convert(newEngine(opts), source)
}

func (r *Renderer) convert(engine goldmark.Markdown, source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

func newEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

// extensionRegistry maps config-friendly names onto goldmark extenders.
// Unknown names are skipped rather than rejected so configs stay portable.
var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"footnotes":     extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	extenders := make([]goldmark.Extender, 0, len(names))
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
