// Package schema validates unknown front matter keys against a site supplied
// JSON Schema document.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-blog/posts"
)

// ErrDocumentInvalid reports a schema document that cannot be compiled.
var ErrDocumentInvalid = errors.New("schema: document invalid")

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

// ExtraError surfaces schema violations found in a post's extra front matter.
type ExtraError struct {
	Issues []Issue
	Cause  error
}

func (e *ExtraError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return posts.ErrExtraSchemaInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ExtraError) Unwrap() []error {
	return []error{posts.ErrExtraSchemaInvalid, e.Cause}
}

// Issues extracts validation issues from an error.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var extraErr *ExtraError
	if errors.As(err, &extraErr) && extraErr != nil {
		return extraErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectIssues(validationErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Validator checks extra front matter maps against a compiled schema. A nil
// or empty document compiles to a validator that accepts everything.
type Validator struct {
	compiled *jsonschema.Schema
}

// New compiles the schema document. Documents without JSON Schema markers are
// treated as a bag of property schemas, so a config can say
//
//	layout: {type: string}
//
// without spelling out the object wrapper.
func New(document map[string]any) (*Validator, error) {
	normalized := normalizeDocument(document)
	if normalized == nil {
		return &Validator{}, nil
	}
	compiled, err := compile(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks the extra front matter fields against the schema.
func (v *Validator) Validate(fields map[string]any) error {
	if v == nil || v.compiled == nil {
		return nil
	}

	payload, err := jsonify(fields)
	if err != nil {
		return &ExtraError{Cause: err}
	}

	if err := v.compiled.Validate(payload); err != nil {
		return &ExtraError{Issues: Issues(err), Cause: err}
	}
	return nil
}

func normalizeDocument(document map[string]any) map[string]any {
	if len(document) == 0 {
		return nil
	}
	if isSchemaDocument(document) {
		return cloneMap(document)
	}
	return map[string]any{
		"type":       "object",
		"properties": cloneMap(document),
	}
}

func isSchemaDocument(document map[string]any) bool {
	for _, marker := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf", "required"} {
		if _, ok := document[marker]; ok {
			return true
		}
	}
	return false
}

func compile(document map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

// jsonify rewrites YAML decoded values into their JSON shapes. The YAML
// decoder produces map[interface{}]interface{} for nested mappings and
// time.Time for timestamps, neither of which the schema engine accepts.
func jsonify(value any) (any, error) {
	encoded, err := json.Marshal(yamlToJSON(value))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func yamlToJSON(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = yamlToJSON(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprintf("%v", k)] = yamlToJSON(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = yamlToJSON(v)
		}
		return out
	case time.Time:
		return typed.Format(time.RFC3339)
	default:
		return typed
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneMap(typed)
		case []any:
			out[key] = cloneSlice(typed)
		default:
			out[key] = value
		}
	}
	return out
}

func cloneSlice(input []any) []any {
	if input == nil {
		return nil
	}
	out := make([]any, len(input))
	for i, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[i] = cloneMap(typed)
		case []any:
			out[i] = cloneSlice(typed)
		default:
			out[i] = value
		}
	}
	return out
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
