package adapter

import (
	"bytes"
	"go/ast"
	"go/build"
	"go/parser"
	"go/scanner"
	"go/token"
	"io"
	"os"
	"strings"
)

// PackageClause locates an existing `package name` clause in a snippet.
type PackageClause struct {
	Name string
	// NameEnd is the byte offset just past the package name.
	NameEnd int
}

// GoFileAdapter encapsulates Go-specific parsing and file-selection logic so
// the domain layer can focus on validation rules while delegating compilation
// details to an infrastructure component.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes,
	// reporting every syntax error rather than stopping at the first ten.
	Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// MatchFile reports whether name in dir is a non-test Go file selected by
	// the default build context. File contents are obtained through open.
	MatchFile(dir, name string, open func(path string) ([]byte, bool)) bool

	// PackageClause finds the package clause leading src, if any.
	PackageClause(src string) (PackageClause, bool)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct {
	buildContext build.Context
}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter for the host platform.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	ctxt := build.Default
	ctxt.CgoEnabled = false

	return &LocalGoFileAdapter{buildContext: ctxt}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fileSet, filename, src, parser.AllErrors|parser.ParseComments)
}

// MatchFile applies build constraints without touching the disk directly.
func (a *LocalGoFileAdapter) MatchFile(dir, name string, open func(path string) ([]byte, bool)) bool {
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}

	ctxt := a.buildContext
	ctxt.OpenFile = func(path string) (io.ReadCloser, error) {
		data, ok := open(path)
		if !ok {
			return nil, os.ErrNotExist
		}

		return io.NopCloser(bytes.NewReader(data)), nil
	}

	ok, err := ctxt.MatchFile(dir, name)

	return err == nil && ok
}

// PackageClause scans past leading comments for `package <ident>`.
func (a *LocalGoFileAdapter) PackageClause(src string) (PackageClause, bool) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, 0)

	_, tok, _ := s.Scan()
	if tok != token.PACKAGE {
		return PackageClause{}, false
	}

	pos, tok, lit := s.Scan()
	if tok != token.IDENT {
		return PackageClause{}, false
	}

	return PackageClause{
		Name:    lit,
		NameEnd: file.Offset(pos) + len(lit),
	}, true
}
