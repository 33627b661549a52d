package domain

import (
	"go/importer"
	"go/token"
	"go/types"
	"sync"
)

// sourceImporter wraps the source importer of go/importer, which type-checks
// the standard library and ordinary dependencies from source. It is shared by
// all hosts, so access is serialised and its package table survives across
// validation calls until Reset.
type sourceImporter struct {
	mu       sync.Mutex
	importer types.ImporterFrom
}

func newSourceImporter() *sourceImporter {
	s := &sourceImporter{}
	s.Reset()

	return s
}

// Reset drops every package the importer has loaded.
func (s *sourceImporter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.importer = importer.ForCompiler(token.NewFileSet(), "source", nil).(types.ImporterFrom)
}

func (s *sourceImporter) Import(path string) (*types.Package, error) {
	return s.ImportFrom(path, "", 0)
}

func (s *sourceImporter) ImportFrom(path, dir string, mode types.ImportMode) (*types.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.importer.ImportFrom(path, dir, mode)
}
