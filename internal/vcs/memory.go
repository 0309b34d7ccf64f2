package vcs

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/oskars/refinerywatch/pkg/errors"
)

// MemoryBackend keeps the data file in memory. Revisions are sequence
// numbers. It backs the local commit mode and tests.
type MemoryBackend struct {
	mu       sync.Mutex
	content  []byte
	revision int
	commits  []string
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Read implements Backend.
func (m *MemoryBackend) Read(context.Context) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &File{Content: slices.Clone(m.content), Revision: m.token()}, nil
}

// Write implements Backend.
func (m *MemoryBackend) Write(_ context.Context, content []byte, revision, message string) (*WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if revision != m.token() {
		return nil, errors.NewConflictError("data file", revision, m.token())
	}
	m.content = slices.Clone(content)
	m.revision++
	m.commits = append(m.commits, message)
	return &WriteResult{Commit: "mem-" + m.token(), Revision: m.token()}, nil
}

// Commits returns the commit messages written so far.
func (m *MemoryBackend) Commits() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.commits)
}

func (m *MemoryBackend) token() string {
	if m.revision == 0 {
		return ""
	}
	return strconv.Itoa(m.revision)
}
