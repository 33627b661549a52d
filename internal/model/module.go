package model

import "strings"

// Library identifies the target library snippets are written against.
type Library struct {
	// Name is the module path, e.g. "github.com/samber/mo".
	Name string
	// AutoImport lists the packages dot-imported into snippets that do not
	// import the library themselves. Defaults to the library root package.
	AutoImport []string
}

// Owns reports whether specifier names the library itself or one of its
// sub-packages.
func (l Library) Owns(specifier string) bool {
	if l.Name == "" {
		return false
	}

	return specifier == l.Name || strings.HasPrefix(specifier, l.Name+"/")
}

// Subpath returns the specifier relative to the library root ("" for the
// root package).
func (l Library) Subpath(specifier string) string {
	return strings.TrimPrefix(strings.TrimPrefix(specifier, l.Name), "/")
}

// AutoImportPackages returns the packages to inject, falling back to the
// library root.
func (l Library) AutoImportPackages() []string {
	if len(l.AutoImport) == 0 {
		return []string{l.Name}
	}

	return l.AutoImport
}

// ResolvedModule is the outcome of resolving one import specifier.
type ResolvedModule struct {
	Specifier string
	// Path is the package directory, empty when unresolved or when the
	// specifier is left to the type checker's own importer.
	Path Path
	// External marks packages served from the target library's declaration
	// tree.
	External bool
}

// Resolved reports whether a package directory was found.
func (r ResolvedModule) Resolved() bool {
	return r.Path != ""
}
