package posts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedFrontMatter = errors.New("posts: malformed front matter")
	ErrDelimiterMissing     = errors.New("posts: opening front matter delimiter missing")
	ErrFrontMatterUnclosed  = errors.New("posts: front matter block not closed")
	ErrTitleRequired        = errors.New("posts: title is required")
	ErrDateRequired         = errors.New("posts: date is required")
	ErrSlugInvalid          = errors.New("posts: slug contains invalid characters")
	ErrExtraSchemaInvalid   = errors.New("posts: custom fields failed schema validation")
	ErrSourceRead           = errors.New("posts: source read failed")
)

// MalformedFrontMatterError reports a post file whose metadata block cannot
// be used. Reason carries the specific failure (missing delimiter, decode
// error, absent required key).
type MalformedFrontMatterError struct {
	Path   string
	Reason error
}

func (e *MalformedFrontMatterError) Error() string {
	if e == nil {
		return ErrMalformedFrontMatter.Error()
	}
	path := strings.TrimSpace(e.Path)
	switch {
	case path != "" && e.Reason != nil:
		return fmt.Sprintf("%s: %s: %v", ErrMalformedFrontMatter.Error(), path, e.Reason)
	case path != "":
		return fmt.Sprintf("%s: %s", ErrMalformedFrontMatter.Error(), path)
	case e.Reason != nil:
		return fmt.Sprintf("%s: %v", ErrMalformedFrontMatter.Error(), e.Reason)
	default:
		return ErrMalformedFrontMatter.Error()
	}
}

func (e *MalformedFrontMatterError) Unwrap() []error {
	if e == nil || e.Reason == nil {
		return []error{ErrMalformedFrontMatter}
	}
	return []error{ErrMalformedFrontMatter, e.Reason}
}

// SourceReadError reports an unreadable post file or an interrupted
// directory walk. It always names the file identity involved.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	if e == nil {
		return ErrSourceRead.Error()
	}
	path := strings.TrimSpace(e.Path)
	switch {
	case path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrSourceRead.Error(), path, e.Err)
	case path != "":
		return fmt.Sprintf("%s: %s", ErrSourceRead.Error(), path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrSourceRead.Error(), e.Err)
	default:
		return ErrSourceRead.Error()
	}
}

func (e *SourceReadError) Unwrap() []error {
	if e == nil || e.Err == nil {
		return []error{ErrSourceRead}
	}
	return []error{ErrSourceRead, e.Err}
}
