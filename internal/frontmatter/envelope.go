package frontmatter

import (
	"bytes"
	"time"

	"github.com/adrg/frontmatter"
)

// envelope mirrors the recognised front matter keys. Everything else lands in
// Extra via the inline map so unknown keys survive parsing untouched.
type envelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Summary string         `yaml:"summary"`
	Author  string         `yaml:"author"`
	Date    time.Time      `yaml:"date"`
	Draft   bool           `yaml:"draft"`
	Tags    []string       `yaml:"tags"`
	Extra   map[string]any `yaml:",inline"`
}

// decodeEnvelope runs the YAML decoder over the front matter segment. The
// segment includes both delimiters, which is the shape the frontmatter
// library expects.
func decodeEnvelope(segment []byte) (envelope, error) {
	var meta envelope
	if _, err := frontmatter.Parse(bytes.NewReader(segment), &meta); err != nil {
		return envelope{}, err
	}
	if meta.Extra == nil {
		meta.Extra = map[string]any{}
	}
	return meta, nil
}
