package domain

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"

	"snipcheck.dev/pkg/snipcheck/internal/adapter"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// VirtualFilename is the reserved path under which a host serves the snippet.
const VirtualFilename = "/__snipcheck_validate__.go"

// gopathSourceDir is the alternate layout probed when a package is not found
// directly beneath the declaration root.
const gopathSourceDir = "src"

// HostConfig carries the collaborators a Host delegates to.
type HostConfig struct {
	Library         m.Library
	DeclarationRoot m.Path
	GoVersion       string
	Cache           adapter.DeclarationCache
	GoFiles         adapter.GoFileAdapter
	// Fallback resolves every specifier outside the target library.
	Fallback types.ImporterFrom
}

// Host is the virtual compilation host for a single validation call. It serves
// the snippet from memory under its own virtual path and type-checks library
// packages from the declaration tree on demand. A Host is not safe for
// concurrent use; build one per call.
type Host struct {
	config      HostConfig
	unit        m.SourceUnit
	fset        *token.FileSet
	virtualPath string
	packages    map[string]*types.Package
	importing   map[string]bool
	libErrors   int
}

// NewHost returns a Host scoped to unit.
func NewHost(config HostConfig, unit m.SourceUnit) *Host {
	return &Host{
		config:      config,
		unit:        unit,
		fset:        token.NewFileSet(),
		virtualPath: VirtualFilename,
		packages:    make(map[string]*types.Package),
		importing:   make(map[string]bool),
	}
}

// FileSet returns the position table shared by every file this host parses.
func (h *Host) FileSet() *token.FileSet {
	return h.fset
}

// VirtualPath returns the path under which the snippet is served.
func (h *Host) VirtualPath() string {
	return h.virtualPath
}

// Unit returns the source unit the host is scoped to.
func (h *Host) Unit() m.SourceUnit {
	return h.unit
}

// LibraryErrors counts the diagnostics discarded while checking library packages.
func (h *Host) LibraryErrors() int {
	return h.libErrors
}

// Materialize parses path into an AST. A partial AST is returned alongside
// syntax errors.
func (h *Host) Materialize(path string) (*ast.File, error) {
	src, ok := h.Read(path)
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, errNotExist)
	}

	return h.config.GoFiles.Parse(h.fset, path, src)
}

// Exists reports whether path can be read through the host.
func (h *Host) Exists(path string) bool {
	_, ok := h.Read(path)
	return ok
}

// Read returns the snippet for the virtual path. Other paths are read through
// the declaration cache, so they reflect the current cache epoch rather than
// the disk.
func (h *Host) Read(path string) ([]byte, bool) {
	if path == h.virtualPath {
		return []byte(h.unit.EffectiveText), true
	}

	return h.config.Cache.ReadFile(m.Path(path))
}

// ResolveSpecifiers maps the import specifiers of the file at fromPath to
// package directories. Library packages resolve against the declaration root
// regardless of fromPath. Specifiers outside the target library are returned
// unresolved and non-external; the fallback importer handles them.
func (h *Host) ResolveSpecifiers(specifiers []string, fromPath string) []m.ResolvedModule {
	resolved := make([]m.ResolvedModule, 0, len(specifiers))

	for _, spec := range specifiers {
		if !h.config.Library.Owns(spec) {
			resolved = append(resolved, m.ResolvedModule{Specifier: spec})
			continue
		}

		module := h.resolve(spec)
		if !module.Resolved() {
			slog.Debug("unresolved library import", "specifier", spec, "from", fromPath, "declarationRoot", h.config.DeclarationRoot)
		}

		resolved = append(resolved, module)
	}

	return resolved
}

// Import implements types.Importer.
func (h *Host) Import(path string) (*types.Package, error) {
	return h.ImportFrom(path, "", 0)
}

// ImportFrom implements types.ImporterFrom.
func (h *Host) ImportFrom(path, dir string, mode types.ImportMode) (*types.Package, error) {
	if pkg, ok := h.packages[path]; ok {
		return pkg, nil
	}

	if !h.config.Library.Owns(path) {
		return h.config.Fallback.ImportFrom(path, dir, mode)
	}

	resolved := h.ResolveSpecifiers([]string{path}, dir)[0]
	if !resolved.Resolved() {
		return nil, fmt.Errorf("cannot find package %q in declaration tree %q", path, h.config.DeclarationRoot)
	}

	return h.checkPackage(path, resolved.Path)
}

func (h *Host) resolve(spec string) m.ResolvedModule {
	root := string(h.config.DeclarationRoot)
	if root == "" {
		return m.ResolvedModule{Specifier: spec}
	}

	candidates := []string{
		filepath.Join(root, filepath.FromSlash(h.config.Library.Subpath(spec))),
		filepath.Join(root, gopathSourceDir, filepath.FromSlash(spec)),
	}

	for _, dir := range candidates {
		if len(h.packageFiles(dir)) > 0 {
			return m.ResolvedModule{Specifier: spec, Path: m.Path(dir), External: true}
		}
	}

	return m.ResolvedModule{Specifier: spec}
}

func (h *Host) packageFiles(dir string) []string {
	names, ok := h.config.Cache.ReadDir(m.Path(dir))
	if !ok {
		return nil
	}

	var files []string

	for _, name := range names {
		if h.config.GoFiles.MatchFile(dir, name, h.Read) {
			files = append(files, filepath.Join(dir, name))
		}
	}

	return files
}

func (h *Host) checkPackage(path string, dir m.Path) (*types.Package, error) {
	if h.importing[path] {
		return nil, fmt.Errorf("import cycle through %q", path)
	}

	h.importing[path] = true
	defer delete(h.importing, path)

	var (
		files   []*ast.File
		pkgName string
	)

	for _, filename := range h.packageFiles(string(dir)) {
		file, err := h.Materialize(filename)
		if file == nil {
			slog.Debug("skipping unreadable library file", "file", filename, "error", err)
			continue
		}

		if pkgName == "" {
			pkgName = file.Name.Name
		}

		if file.Name.Name != pkgName {
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files for %q in %s", path, dir)
	}

	conf := types.Config{
		Importer:         h,
		GoVersion:        h.config.GoVersion,
		IgnoreFuncBodies: true,
		FakeImportC:      true,
		Error: func(err error) {
			h.libErrors++
			slog.Debug("discarding library diagnostic", "package", path, "error", err)
		},
	}

	pkg, _ := conf.Check(path, h.fset, files, nil)
	h.packages[path] = pkg

	return pkg, nil
}

var errNotExist = errors.New("file does not exist")
