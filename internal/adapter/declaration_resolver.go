package adapter

import (
	"log/slog"
	"path/filepath"

	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// MaxManifestDirs bounds how many directories the resolver inspects, starting
// with the entry point's own, while looking for go.mod.
const MaxManifestDirs = 5

// DeclarationResolver locates the root of a library's declaration tree.
type DeclarationResolver interface {
	// DeclarationRoot never fails; when no manifest is found it falls back to
	// the entry point's directory.
	DeclarationRoot(entryPoint m.Path) m.Path
}

// LocalDeclarationResolver walks up from an entry point to the module root.
type LocalDeclarationResolver struct {
	fs     SourceFSAdapter
	subdir string
}

// NewLocalDeclarationResolver builds a resolver that places the declaration
// tree at subdir beneath the module root ("" for the root itself).
func NewLocalDeclarationResolver(fs SourceFSAdapter, subdir string) *LocalDeclarationResolver {
	return &LocalDeclarationResolver{fs: fs, subdir: subdir}
}

// DeclarationRoot returns <module root>/<subdir>.
func (r *LocalDeclarationResolver) DeclarationRoot(entryPoint m.Path) m.Path {
	root, err := r.fs.FindProjectRoot(entryPoint, MaxManifestDirs)
	if err != nil {
		fallback := m.Path(filepath.Dir(string(entryPoint)))
		slog.Debug("module root not found, using entry point directory", "entryPoint", entryPoint, "fallback", fallback)

		return fallback
	}

	return r.fs.JoinPath(string(root), r.subdir)
}
