package models

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single naming-directive problem reported by validation.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// CountIssues returns the number of errors and warnings in issues.
func CountIssues(issues []Issue) (errs, warnings int) {
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}
