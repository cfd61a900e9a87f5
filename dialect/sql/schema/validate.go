package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation. Diff and
// GenerateDDL (migrate.go) build one from a dialect.Table comparison;
// Errors block DDL generation; Warnings do not, but deserve a caller's
// attention (a dropped column, a type change, a NOT NULL column added
// without a default). Entries of either kind may be marked Breaking.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}
