package checker

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/source"
)

func TestSessionCheckFile(t *testing.T) {
	s := NewSession()
	s.AddFile("a.nx", "let <f /> = { 1 }")
	s.AddFile("b.nx", `let <g /> = { 1 + "x" }`)

	ra, err := s.CheckFile("a.nx")
	require.NoError(t, err)
	assert.True(t, ra.IsOk())
	assert.Equal(t, source.FileId(0), ra.SourceId)

	rb, err := s.CheckFile("b.nx")
	require.NoError(t, err)
	assert.False(t, rb.IsOk())
	assert.Equal(t, source.FileId(1), rb.SourceId)

	_, err = s.CheckFile("missing.nx")
	assert.Error(t, err)
}

func TestSessionCheckAllAndDiagnostics(t *testing.T) {
	s := NewSession()
	s.AddFile("ok.nx", "let <f /> = { 1 }")
	s.AddFile("bad.nx", "let <g /> = { undefined_name }")

	results := s.CheckAll()
	require.Len(t, results, 2)
	assert.True(t, results[0].IsOk())
	assert.False(t, results[1].IsOk())

	ds := s.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, "E1001", ds[0].Code)
}

func TestSessionReplaceInvalidatesCache(t *testing.T) {
	s := NewSession()
	s.AddFile("f.nx", "let <f /> = { bad_name }")
	r1, err := s.CheckFile("f.nx")
	require.NoError(t, err)
	assert.False(t, r1.IsOk())

	s.AddFile("f.nx", "let <f /> = { 1 }")
	r2, err := s.CheckFile("f.nx")
	require.NoError(t, err)
	assert.True(t, r2.IsOk())
	// Replacing content keeps the original id.
	assert.Equal(t, r1.SourceId, r2.SourceId)
}

func TestSessionCachesUnchangedResults(t *testing.T) {
	s := NewSession()
	s.AddFile("f.nx", "let <f /> = { 2 }")
	r1, err := s.CheckFile("f.nx")
	require.NoError(t, err)
	r2, err := s.CheckFile("f.nx")
	require.NoError(t, err)
	assert.Same(t, r1, r2)
}

func TestSessionConcurrentUse(t *testing.T) {
	s := NewSession()
	for i := 0; i < 16; i++ {
		s.AddFile(fmt.Sprintf("f%d.nx", i), fmt.Sprintf("let <f%d /> = { %d }", i, i))
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.CheckFile(fmt.Sprintf("f%d.nx", i))
			assert.NoError(t, err)
			assert.True(t, res.IsOk())
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.CheckAll(), 16)
}
