package domain

import (
	"fmt"
	"regexp"
	"strings"

	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// snippetPackage names the package injected into snippets that lack a clause.
const snippetPackage = "snippet"

var (
	importClausePattern = regexp.MustCompile(`\bimport\s*(\([^)]*\)|[^\n;]*)`)
	importPathPattern   = regexp.MustCompile("\"([^\"\\\\\\n]*)\"|`([^`]*)`")
)

// HasLibraryImport reports whether code already imports the library or one
// of its sub-packages. The check is textual; both single and grouped import
// declarations are recognised.
func HasLibraryImport(code string, library m.Library) bool {
	for _, clause := range importClausePattern.FindAllStringSubmatch(code, -1) {
		for _, quoted := range importPathPattern.FindAllStringSubmatch(clause[1], -1) {
			path := quoted[1]
			if path == "" {
				path = quoted[2]
			}

			if library.Owns(path) {
				return true
			}
		}
	}

	return false
}

// importDecls renders the generated dot imports, each introduced by a
// semicolon so they can follow a package clause on the same line.
func importDecls(packages []string) string {
	var b strings.Builder

	for _, pkg := range packages {
		fmt.Fprintf(&b, "; import . %q", pkg)
	}

	return b.String()
}
