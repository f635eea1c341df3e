package testsupport

import (
	"fmt"
	"strings"
	"time"
)

// PostSource renders a post document with a YAML front matter block. Extra
// lines are spliced into the metadata block verbatim so tests can add keys
// like draft flags or custom fields without another helper.
func PostSource(title string, published time.Time, tags []string, body string, extra ...string) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "date: %s\n", published.Format("2006-01-02"))
	if len(tags) > 0 {
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(tags, ", "))
	}
	for _, line := range extra {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	b.WriteString(body)
	return []byte(b.String())
}

// DraftSource renders a draft post document.
func DraftSource(title string, published time.Time, body string) []byte {
	return PostSource(title, published, nil, body, "draft: true")
}
