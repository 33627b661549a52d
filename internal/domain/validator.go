package domain

import (
	"context"
	"errors"
	"go/ast"
	"go/scanner"
	"go/types"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"snipcheck.dev/pkg/snipcheck/internal/adapter"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// Validator type-checks snippets against the target library.
type Validator interface {
	// Validate checks code and reports diagnostics in the caller's
	// coordinates. Problems in code never produce an error; only a context
	// that is already done does.
	Validate(ctx context.Context, code string, opts ...ValidateOption) (m.ValidationResult, error)

	// Prepare returns the source unit Validate would check for code.
	Prepare(code string, opts ...ValidateOption) (m.SourceUnit, bool)

	// InvalidateDeclarationCache forgets every cached library read. Call it
	// after the installed library changes and before the next Validate.
	InvalidateDeclarationCache()
}

// Config holds the fixed validation settings.
type Config struct {
	Library m.Library
	// GoVersion selects the language version, e.g. "go1.22". Empty means the
	// newest version the toolchain supports.
	GoVersion string
	// AutoImport is the default for calls that do not override it.
	AutoImport bool
	// SoftErrorsAsWarnings reports soft type errors, such as unused
	// variables and imports, as warnings instead of errors.
	SoftErrorsAsWarnings bool
}

const byteOrderMark = "\ufeff"

// ValidateOption adjusts a single Validate call.
type ValidateOption func(*validateSettings)

type validateSettings struct {
	autoImport bool
}

// WithAutoImport controls whether the library is dot-imported into snippets
// that do not import it themselves.
func WithAutoImport(enabled bool) ValidateOption {
	return func(s *validateSettings) {
		s.autoImport = enabled
	}
}

type validator struct {
	config      Config
	cache       adapter.DeclarationCache
	resolver    adapter.DeclarationResolver
	entryPoints adapter.EntryPointAdapter
	goFiles     adapter.GoFileAdapter
	fallback    *sourceImporter
}

// NewValidator constructs a Validator backed by the provided adapters.
func NewValidator(
	config Config,
	cache adapter.DeclarationCache,
	resolver adapter.DeclarationResolver,
	entryPoints adapter.EntryPointAdapter,
	goFiles adapter.GoFileAdapter,
) Validator {
	return &validator{
		config:      config,
		cache:       cache,
		resolver:    resolver,
		entryPoints: entryPoints,
		goFiles:     goFiles,
		fallback:    newSourceImporter(),
	}
}

func (v *validator) Validate(ctx context.Context, code string, opts ...ValidateOption) (m.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return m.ValidationResult{}, err
	}

	unit, prepended := v.Prepare(code, opts...)

	host := NewHost(HostConfig{
		Library:         v.config.Library,
		DeclarationRoot: v.declarationRoot(ctx),
		GoVersion:       v.config.GoVersion,
		Cache:           v.cache,
		GoFiles:         v.goFiles,
		Fallback:        v.fallback,
	}, unit)

	diags, err := v.check(host)
	if err != nil {
		slog.Error("Failed to check snippet", "error", err)
		return m.ValidationResult{}, err
	}

	result := m.NewValidationResult(diags, prepended)
	slog.Debug("validated snippet",
		"success", result.Success,
		"diagnostics", len(result.Diagnostics),
		"importsPrepended", prepended,
		"libraryErrors", host.LibraryErrors(),
	)

	return result, nil
}

func (v *validator) Prepare(code string, opts ...ValidateOption) (m.SourceUnit, bool) {
	settings := validateSettings{autoImport: v.config.AutoImport}
	for _, opt := range opts {
		opt(&settings)
	}

	prepend := settings.autoImport && !HasLibraryImport(code, v.config.Library)

	imports := ""
	if prepend {
		imports = importDecls(v.config.Library.AutoImportPackages())
	}

	clause, hasClause := v.goFiles.PackageClause(code)

	switch {
	case !hasClause:
		// The scanner only accepts a byte order mark at offset 0.
		offset := 0
		if strings.HasPrefix(code, byteOrderMark) {
			offset = len(byteOrderMark)
		}

		return m.NewSourceUnit(code, m.Insertion{Offset: offset, Text: "package " + snippetPackage + imports + "\n"}), prepend
	case prepend:
		return m.NewSourceUnit(code, m.Insertion{Offset: clause.NameEnd, Text: imports}), true
	default:
		return m.NewSourceUnit(code), false
	}
}

func (v *validator) InvalidateDeclarationCache() {
	v.cache.Invalidate()
	v.fallback.Reset()
	slog.Info("declaration cache invalidated", "library", v.config.Library.Name, "epoch", v.cache.Epoch())
}

// declarationRoot resolves the library once per cache epoch. A library that
// cannot be located yields an empty root, leaving every library import
// unresolved.
func (v *validator) declarationRoot(ctx context.Context) m.Path {
	return m.Path(v.cache.Remember("declaration-root:"+v.config.Library.Name, func() string {
		entry, err := v.entryPoints.ResolveEntryPoint(ctx, v.config.Library.Name)
		if err != nil {
			slog.Warn("Library entry point not found", "library", v.config.Library.Name, "error", err)
			return ""
		}

		root := v.resolver.DeclarationRoot(entry)
		slog.Debug("resolved declaration root", "library", v.config.Library.Name, "root", root)

		return string(root)
	}))
}

func (v *validator) check(host *Host) ([]m.Diagnostic, error) {
	var diags []m.Diagnostic

	// report takes an offset into the effective text. Offsets are never
	// adjusted by //line directives, unlike the filenames and lines of
	// token.Position.
	report := func(offset int, msg string, code int, severity m.Severity) {
		line, column, ok := host.Unit().Map.Locate(offset)
		if !ok {
			return
		}

		diags = append(diags, m.Diagnostic{
			Line:     line,
			Column:   column,
			Message:  msg,
			Code:     code,
			Severity: severity,
		})
	}

	file, err := host.Materialize(host.VirtualPath())

	var syntaxErrs scanner.ErrorList

	switch {
	case errors.As(err, &syntaxErrs):
		// The parser only ever sees the virtual file.
		for _, e := range syntaxErrs {
			report(e.Pos.Offset, e.Msg, m.CodeSyntaxError, m.SeverityError)
		}
	case err != nil:
		return nil, err
	}

	if file == nil {
		return diags, nil
	}

	conf := types.Config{
		Importer:  host,
		GoVersion: v.config.GoVersion,
		Sizes:     types.SizesFor("gc", runtime.GOARCH),
		Error: func(err error) {
			var typeErr types.Error
			if !errors.As(err, &typeErr) {
				return
			}

			pos := typeErr.Fset.PositionFor(typeErr.Pos, false)
			if pos.Filename != host.VirtualPath() {
				return
			}

			severity := m.SeverityError
			if typeErr.Soft && v.config.SoftErrorsAsWarnings {
				severity = m.SeverityWarning
			}

			report(pos.Offset, typeErr.Msg, typeErrorCode(typeErr), severity)
		},
	}

	_, _ = conf.Check(snippetPackage, host.FileSet(), []*ast.File{file}, nil)

	return diags, nil
}

// typeErrorCode extracts the go/types error code, which types.Error keeps in
// an unexported field.
func typeErrorCode(err types.Error) int {
	field := reflect.ValueOf(err).FieldByName("go116code")
	if !field.IsValid() || !field.CanInt() {
		return 0
	}

	return int(field.Int())
}
