package model

// Report represents the validation outcome of one snippet source.
type Report struct {
	Source           string `json:"source" yaml:"source"` // file path, or "-" for stdin
	ValidationResult `yaml:",inline"`
}

// Summary aggregates the outcome of a batch of reports.
type Summary struct {
	Snippets int `json:"snippets" yaml:"snippets"`
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// Summarize counts passed and failed snippets and their diagnostics.
func Summarize(reports []Report) Summary {
	s := Summary{Snippets: len(reports)}

	for _, r := range reports {
		if r.Success {
			s.Passed++
		} else {
			s.Failed++
		}

		s.Errors += r.ErrorCount()
		s.Warnings += r.WarningCount()
	}

	return s
}

// OK reports whether every snippet passed.
func (s Summary) OK() bool {
	return s.Failed == 0
}
