package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

func TestHasLibraryImport(t *testing.T) {
	lib := m.Library{Name: "example.com/fplib"}

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"no imports", "var x = Some(1)", false},
		{"single import", `import "example.com/fplib"`, true},
		{"named import", `import fp "example.com/fplib"`, true},
		{"dot import", `import . "example.com/fplib"`, true},
		{"sub-package", `import "example.com/fplib/either"`, true},
		{"raw string path", "import `example.com/fplib`", true},
		{"grouped", "import (\n\t\"strings\"\n\n\tfp \"example.com/fplib/either\"\n)", true},
		{"grouped without library", "import (\n\t\"strings\"\n\t\"fmt\"\n)", false},
		{"prefix lookalike", `import "example.com/fplibx"`, false},
		{"string outside import", `var s = "example.com/fplib"`, false},
		{"after package clause", "package demo; import \"example.com/fplib\"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLibraryImport(tt.code, lib))
		})
	}
}

func TestImportDecls(t *testing.T) {
	assert.Equal(t, "", importDecls(nil))
	assert.Equal(t, `; import . "example.com/fplib"`, importDecls([]string{"example.com/fplib"}))
	assert.Equal(t,
		`; import . "example.com/fplib"; import . "example.com/fplib/either"`,
		importDecls([]string{"example.com/fplib", "example.com/fplib/either"}),
	)
}
