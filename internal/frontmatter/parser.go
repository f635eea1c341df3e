package frontmatter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-blog/posts"
)

const delimiter = "---"

// ExtraValidator checks unknown front matter keys against a site schema.
// Implementations return an error describing the first violation found.
type ExtraValidator interface {
	Validate(fields map[string]any) error
}

// Config wires the parser collaborators. Zero values are usable: slugs fall
// back to the default normalizer and logging to a no-op.
type Config struct {
	Slugs  posts.SlugNormalizer
	Extra  ExtraValidator
	Logger interfaces.Logger
}

// Parser turns raw post files into immutable posts.Post values. A single
// instance is safe for concurrent use.
type Parser struct {
	slugs  posts.SlugNormalizer
	extra  ExtraValidator
	logger interfaces.Logger
}

// New constructs a Parser from cfg.
func New(cfg Config) *Parser {
	slugs := cfg.Slugs
	if slugs == nil {
		slugs = posts.DefaultSlugNormalizer()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Parser{
		slugs:  slugs,
		extra:  cfg.Extra,
		logger: logger,
	}
}

// Parse extracts front matter and body from source. The body is the exact
// byte run following the closing delimiter; together with the front matter
// segment it reassembles the original input. Failures carry the file
// identity and are never retried.
func (p *Parser) Parse(path string, source []byte) (*posts.Post, error) {
	head, body, reason := splitSegments(source)
	if reason != nil {
		return nil, &posts.MalformedFrontMatterError{Path: path, Reason: reason}
	}

	meta, err := decodeEnvelope(decodeView(head))
	if err != nil {
		return nil, &posts.MalformedFrontMatterError{Path: path, Reason: err}
	}

	if strings.TrimSpace(meta.Title) == "" {
		return nil, &posts.MalformedFrontMatterError{Path: path, Reason: posts.ErrTitleRequired}
	}
	if meta.Date.IsZero() {
		return nil, &posts.MalformedFrontMatterError{Path: path, Reason: posts.ErrDateRequired}
	}

	slugValue, err := p.resolveSlug(path, meta)
	if err != nil {
		return nil, &posts.MalformedFrontMatterError{Path: path, Reason: err}
	}

	if p.extra != nil && len(meta.Extra) > 0 {
		if err := p.extra.Validate(meta.Extra); err != nil {
			return nil, &posts.MalformedFrontMatterError{Path: path, Reason: err}
		}
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	sum := sha256.Sum256(source)
	post := posts.New(posts.Attributes{
		ID:          identity.PostUUID(path),
		SourcePath:  path,
		Title:       meta.Title,
		Slug:        slugValue,
		Summary:     meta.Summary,
		Author:      meta.Author,
		PublishedAt: meta.Date,
		Draft:       meta.Draft,
		Tags:        tags,
		Extra:       meta.Extra,
		FrontMatter: head,
		Body:        body,
		Checksum:    hex.EncodeToString(sum[:]),
	})

	logging.WithPostContext(p.logger, path, slugValue, "parse").
		Debug("post.parsed", "draft", post.Draft(), "tags", len(tags))

	return post, nil
}

// ParseFile adapts a loader result into Parse.
func (p *Parser) ParseFile(file *interfaces.SourceFile) (*posts.Post, error) {
	if file == nil {
		return nil, errors.New("frontmatter: nil source file")
	}
	return p.Parse(file.Path, file.Content)
}

// resolveSlug prefers an explicit front matter slug, then the normalized
// title, then the file stem. Explicit slugs must already be valid.
func (p *Parser) resolveSlug(path string, meta envelope) (string, error) {
	if explicit := strings.TrimSpace(meta.Slug); explicit != "" {
		if !posts.IsValidSlug(explicit) {
			return "", posts.ErrSlugInvalid
		}
		return explicit, nil
	}

	if normalized, err := p.slugs.Normalize(meta.Title); err == nil && normalized != "" {
		return normalized, nil
	}

	stem := fileStem(path)
	if normalized, err := p.slugs.Normalize(stem); err == nil && normalized != "" {
		return normalized, nil
	}
	return strings.ToLower(stem), nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// splitSegments locates the front matter block. head spans both delimiters
// inclusive of the closing newline; body is everything after, untouched.
func splitSegments(source []byte) (head, body []byte, reason error) {
	line, size := nextLine(source)
	if trimEOL(line) != delimiter {
		return nil, nil, posts.ErrDelimiterMissing
	}

	offset := size
	for offset < len(source) {
		line, size = nextLine(source[offset:])
		offset += size
		if trimEOL(line) == delimiter {
			return source[:offset], source[offset:], nil
		}
	}
	return nil, nil, posts.ErrFrontMatterUnclosed
}

// nextLine returns the first line of data including its terminator, plus the
// number of bytes consumed. The final line of a file may have no terminator.
func nextLine(data []byte) ([]byte, int) {
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		return data[:idx+1], idx + 1
	}
	return data, len(data)
}

func trimEOL(line []byte) string {
	return string(bytes.TrimRight(line, "\r\n"))
}

// decodeView hands the YAML reader a canonical LF view of the segment so
// CRLF sources decode identically. Round-trip segments keep the original
// bytes; only the decoder sees this copy.
func decodeView(segment []byte) []byte {
	if !bytes.Contains(segment, []byte("\r\n")) {
		return segment
	}
	return bytes.ReplaceAll(segment, []byte("\r\n"), []byte("\n"))
}
