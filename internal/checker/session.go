package checker

import (
	"fmt"
	"os"
	"sync"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/source"
)

// Session accumulates sources and checks them on demand. Each file gets a
// dense SourceId in add order. A Session is safe for concurrent use: the
// file table is guarded by a mutex and every check produces an immutable
// Result.
type Session struct {
	mu      sync.RWMutex
	sources map[string]*sessionFile
	order   []string
	nextId  source.FileId
	results map[string]*Result
}

type sessionFile struct {
	id   source.FileId
	text string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		sources: map[string]*sessionFile{},
		results: map[string]*Result{},
	}
}

// AddFile registers a source under a name, replacing any previous content
// and invalidating its cached result.
func (s *Session) AddFile(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sources[name]; ok {
		existing.text = text
		delete(s.results, name)
		return
	}
	s.sources[name] = &sessionFile{id: s.nextId, text: text}
	s.nextId++
	s.order = append(s.order, name)
}

// AddFileFromDisk reads a file and registers it under its path.
func (s *Session) AddFileFromDisk(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.AddFile(path, string(data))
	return nil
}

// CheckFile checks one registered file, reusing the cached result when the
// source has not changed since the last check.
func (s *Session) CheckFile(name string) (*Result, error) {
	s.mu.RLock()
	file, ok := s.sources[name]
	var text string
	var id source.FileId
	if ok {
		text, id = file.text, file.id
	}
	cached := s.results[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no source registered under %q", name)
	}
	if cached != nil {
		return cached, nil
	}

	result := checkWithId(text, name, id)

	s.mu.Lock()
	if cur, ok := s.sources[name]; ok && cur.text == text {
		s.results[name] = result
	}
	s.mu.Unlock()
	return result, nil
}

// CheckAll checks every registered file in add order.
func (s *Session) CheckAll() []*Result {
	s.mu.RLock()
	names := append([]string{}, s.order...)
	s.mu.RUnlock()

	out := make([]*Result, 0, len(names))
	for _, name := range names {
		if result, err := s.CheckFile(name); err == nil {
			out = append(out, result)
		}
	}
	return out
}

// Diagnostics returns the aggregated diagnostics of every checked file, in
// file add order. Files never checked contribute nothing.
func (s *Session) Diagnostics() []diag.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []diag.Diagnostic
	for _, name := range s.order {
		if result, ok := s.results[name]; ok {
			out = append(out, result.Diagnostics...)
		}
	}
	return out
}
