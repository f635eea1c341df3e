package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryArchive is an in-memory Archive for scaffolding and tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	records map[string]*Record
}

var _ Archive = (*MemoryArchive)(nil)

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		records: make(map[string]*Record),
	}
}

func (m *MemoryArchive) Save(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneRecord(record)
	now := time.Now().UTC()
	if existing, ok := m.records[copied.SourcePath]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	} else if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	m.records[copied.SourcePath] = copied
	return cloneRecord(copied), nil
}

func (m *MemoryArchive) GetBySourcePath(_ context.Context, path string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[path]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: path}
	}
	return cloneRecord(record), nil
}

func (m *MemoryArchive) GetBySlug(_ context.Context, slug string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if record.Slug == slug {
			return cloneRecord(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "post", Key: slug}
}

func (m *MemoryArchive) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].SourcePath < out[j].SourcePath
	})
	return out, nil
}

func (m *MemoryArchive) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[path]; !ok {
		return &NotFoundError{Resource: "post", Key: path}
	}
	delete(m.records, path)
	return nil
}

func cloneRecord(in *Record) *Record {
	if in == nil {
		return nil
	}
	out := *in
	out.Tags = append([]string(nil), in.Tags...)
	out.FrontMatter = append([]byte(nil), in.FrontMatter...)
	out.Body = append([]byte(nil), in.Body...)
	if in.Extra != nil {
		out.Extra = make(map[string]any, len(in.Extra))
		for k, v := range in.Extra {
			out.Extra[k] = v
		}
	}
	if in.Summary != nil {
		summary := *in.Summary
		out.Summary = &summary
	}
	if in.Author != nil {
		author := *in.Author
		out.Author = &author
	}
	return &out
}
