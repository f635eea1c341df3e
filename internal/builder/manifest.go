package builder

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	manifestFileName    = ".blog-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support incremental runs.
type buildManifest struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Pages       map[string]manifestPage    `json:"pages"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

type manifestPage struct {
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Fingerprint  string    `json:"fingerprint"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

// manifestFile is the serialized layout. Pages persist as a sorted slice so
// the written bytes stay deterministic; in memory they live in a keyed map.
type manifestFile struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Pages       []manifestPage             `json:"pages"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:     manifestFileVersion,
		Pages:       map[string]manifestPage{},
		Metadata:    map[string]json.RawMessage{},
		GeneratedAt: time.Time{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("builder: parse manifest: %w", err)
	}
	manifest := newBuildManifest()
	if file.Version != 0 {
		manifest.Version = file.Version
	}
	manifest.GeneratedAt = file.GeneratedAt
	if file.Metadata != nil {
		manifest.Metadata = file.Metadata
	}
	for _, entry := range file.Pages {
		manifest.setPage(entry)
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	file := manifestFile{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Metadata:    m.Metadata,
	}
	if file.Version == 0 {
		file.Version = manifestFileVersion
	}
	if len(m.Pages) > 0 {
		file.Pages = make([]manifestPage, 0, len(m.Pages))
		for _, entry := range m.Pages {
			file.Pages = append(file.Pages, entry)
		}
		sort.Slice(file.Pages, func(i, j int) bool {
			if file.Pages[i].Kind == file.Pages[j].Kind {
				return file.Pages[i].Name < file.Pages[j].Name
			}
			return file.Pages[i].Kind < file.Pages[j].Kind
		})
	}
	return json.MarshalIndent(file, "", "  ")
}

func pageKey(kind PageKind, name string) string {
	return strings.ToLower(string(kind)) + "::" + strings.ToLower(strings.TrimSpace(name))
}

func (m *buildManifest) lookupPage(kind PageKind, name string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[pageKey(kind, name)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[pageKey(PageKind(entry.Kind), entry.Name)] = entry
}

// shouldSkipPage reports whether a page can be reused from the previous
// build. An empty fingerprint never skips.
func (m *buildManifest) shouldSkipPage(kind PageKind, name, fingerprint, output string) bool {
	if strings.TrimSpace(fingerprint) == "" {
		return false
	}
	entry, ok := m.lookupPage(kind, name)
	if !ok {
		return false
	}
	if entry.Fingerprint != fingerprint {
		return false
	}
	if strings.TrimSpace(entry.Output) != strings.TrimSpace(output) {
		return false
	}
	return true
}

// prunePages drops entries for pages the current build no longer produces so
// removed posts do not haunt later incremental runs.
func (m *buildManifest) prunePages(keys map[string]struct{}) {
	if len(keys) == 0 || len(m.Pages) == 0 {
		return
	}
	for key := range m.Pages {
		if _, ok := keys[key]; !ok {
			delete(m.Pages, key)
		}
	}
}
