// Package adapter contains filesystem, module and Go-parsing adapters for the
// snipcheck CLI.
package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// ErrManifestNotFound is returned when no go.mod exists within the search bound.
var ErrManifestNotFound = errors.New("go.mod not found")

const manifestFileName = "go.mod"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when reading library sources. It hides direct `os` access so the
// host and resolver logic can be tested against fakes.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// ReadDir returns the sorted names of the regular files directly inside path.
	ReadDir(path m.Path) ([]string, error)

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish between files and directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// FindProjectRoot searches for a go.mod file walking up the directory tree
	// from the directory containing startPath. At most maxDirs directories are
	// inspected; maxDirs <= 0 means no bound.
	FindProjectRoot(startPath m.Path, maxDirs int) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - library sources are read from resolved module directories
	return os.ReadFile(string(path))
}

// ReadDir lists regular files in a directory.
func (a *LocalSourceFSAdapter) ReadDir(path m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// FindProjectRoot searches for go.mod walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path, maxDirs int) (m.Path, error) {
	dir := filepath.Dir(string(startPath))

	for inspected := 0; maxDirs <= 0 || inspected < maxDirs; inspected++ {
		info, err := os.Stat(filepath.Join(dir, manifestFileName))
		if err == nil && !info.IsDir() {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", fmt.Errorf("%w in parent directories of %s", ErrManifestNotFound, startPath)
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
