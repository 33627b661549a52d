package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

var (
	// ErrLibraryNotRequired is returned when the project go.mod neither
	// requires nor replaces the library.
	ErrLibraryNotRequired = errors.New("library not required by project")
	// ErrModuleNotCached is returned when the required version is absent from
	// the module cache.
	ErrModuleNotCached = errors.New("module not found in module cache")
	// ErrEntryPointNotFound is returned when the library directory holds no Go
	// source file.
	ErrEntryPointNotFound = errors.New("no Go source file in library directory")
)

// EntryPointAdapter locates the main importable file of a library on disk.
type EntryPointAdapter interface {
	ResolveEntryPoint(ctx context.Context, library string) (m.Path, error)
}

// ModuleLocation describes where the library may be installed.
type ModuleLocation struct {
	// LibraryDir pins the library's root package directory, bypassing go.mod.
	LibraryDir m.Path
	// ProjectDir holds the go.mod that requires the library.
	ProjectDir m.Path
	// ModCache overrides the module cache root ($GOMODCACHE).
	ModCache m.Path
}

// ModuleEntryPointAdapter resolves a library through a project's go.mod and
// the Go module cache.
type ModuleEntryPointAdapter struct {
	fs       SourceFSAdapter
	location ModuleLocation
}

// NewModuleEntryPointAdapter constructs a ModuleEntryPointAdapter.
func NewModuleEntryPointAdapter(fs SourceFSAdapter, location ModuleLocation) *ModuleEntryPointAdapter {
	return &ModuleEntryPointAdapter{fs: fs, location: location}
}

// ResolveEntryPoint returns the lexically first non-test Go file of the
// library's root package.
func (a *ModuleEntryPointAdapter) ResolveEntryPoint(ctx context.Context, library string) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := a.location.LibraryDir
	if dir == "" {
		var err error

		dir, err = a.moduleDir(library)
		if err != nil {
			return "", err
		}
	}

	names, err := a.fs.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrEntryPointNotFound, dir, err)
	}

	for _, name := range names {
		if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			entry := a.fs.JoinPath(string(dir), name)
			slog.Debug("resolved library entry point", "library", library, "entryPoint", entry)

			return entry, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrEntryPointNotFound, dir)
}

func (a *ModuleEntryPointAdapter) moduleDir(library string) (m.Path, error) {
	projectDir := a.location.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}

	goModPath := a.fs.JoinPath(string(projectDir), manifestFileName)

	content, err := a.fs.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", goModPath, err)
	}

	file, err := modfile.Parse(string(goModPath), content, nil)
	if err != nil {
		return "", fmt.Errorf("parse go.mod: %w", err)
	}

	version := ""

	for _, req := range file.Require {
		if req.Mod.Path == library {
			version = req.Mod.Version
			break
		}
	}

	for _, rep := range file.Replace {
		if rep.Old.Path != library || (rep.Old.Version != "" && rep.Old.Version != version) {
			continue
		}

		if rep.New.Version == "" {
			target := rep.New.Path
			if !filepath.IsAbs(target) {
				target = filepath.Join(string(projectDir), target)
			}

			return m.Path(target), nil
		}

		return a.cachedModuleDir(rep.New.Path, rep.New.Version)
	}

	if version == "" {
		return "", fmt.Errorf("%w: %s", ErrLibraryNotRequired, library)
	}

	return a.cachedModuleDir(library, version)
}

func (a *ModuleEntryPointAdapter) cachedModuleDir(modulePath, version string) (m.Path, error) {
	escaped, err := module.EscapePath(modulePath)
	if err != nil {
		return "", fmt.Errorf("escape module path: %w", err)
	}

	escapedVersion, err := module.EscapeVersion(version)
	if err != nil {
		return "", fmt.Errorf("escape version: %w", err)
	}

	root, err := a.modCacheRoot()
	if err != nil {
		return "", err
	}

	dir := a.fs.JoinPath(string(root), escaped+"@"+escapedVersion)
	if _, err := a.fs.FileInfo(dir); err != nil {
		return "", fmt.Errorf("%w: %s@%s", ErrModuleNotCached, modulePath, version)
	}

	return dir, nil
}

func (a *ModuleEntryPointAdapter) modCacheRoot() (m.Path, error) {
	if a.location.ModCache != "" {
		return a.location.ModCache, nil
	}

	if env := os.Getenv("GOMODCACHE"); env != "" {
		return m.Path(env), nil
	}

	gopath := os.Getenv("GOPATH")
	if gopath != "" {
		gopath = filepath.SplitList(gopath)[0]
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}

		gopath = filepath.Join(home, "go")
	}

	return m.Path(filepath.Join(gopath, "pkg", "mod")), nil
}
