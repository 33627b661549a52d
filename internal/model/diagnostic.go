package model

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError marks a diagnostic that fails validation.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory diagnostic (e.g. an unused variable).
	SeverityWarning Severity = "warning"
)

// CodeSyntaxError is the classification code reported for parse errors.
// Type errors carry the go/types error code instead.
const CodeSyntaxError = -1

// Diagnostic is one reported issue, positioned in the caller's raw snippet.
type Diagnostic struct {
	Line     int      `json:"line" yaml:"line"`
	Column   int      `json:"column" yaml:"column"`
	Message  string   `json:"message" yaml:"message"`
	Code     int      `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// ValidationResult is the outcome of validating a single snippet.
type ValidationResult struct {
	Success          bool         `json:"success" yaml:"success"`
	Diagnostics      []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	ImportsPrepended bool         `json:"importsPrepended" yaml:"imports_prepended"`
}

// NewValidationResult derives Success from the error count of diags.
func NewValidationResult(diags []Diagnostic, importsPrepended bool) ValidationResult {
	if diags == nil {
		diags = []Diagnostic{}
	}

	return ValidationResult{
		Success:          countSeverity(diags, SeverityError) == 0,
		Diagnostics:      diags,
		ImportsPrepended: importsPrepended,
	}
}

// Errors returns the error-severity diagnostics in emission order.
func (r ValidationResult) Errors() []Diagnostic {
	var errs []Diagnostic

	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}

	return errs
}

// ErrorCount returns the number of error-severity diagnostics.
func (r ValidationResult) ErrorCount() int {
	return countSeverity(r.Diagnostics, SeverityError)
}

// WarningCount returns the number of warning-severity diagnostics.
func (r ValidationResult) WarningCount() int {
	return countSeverity(r.Diagnostics, SeverityWarning)
}

func countSeverity(diags []Diagnostic, severity Severity) int {
	n := 0

	for _, d := range diags {
		if d.Severity == severity {
			n++
		}
	}

	return n
}
