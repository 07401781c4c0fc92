// Package validate reports naming-directive problems across a scene.
package validate

import (
	"fmt"
	"strings"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/naming"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// Report is the outcome of a validation pass.
type Report struct {
	Issues   []models.Issue `json:"issues"`
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
	// Blocking counts the strict-mode -sk errors that stop an export.
	Blocking int `json:"blocking"`
}

// Modifiers checks every entity name and the scene filename. In strict mode
// an -sk entity that still has descendants is an error, because those
// descendants would silently drop out of a parent-scope export.
func Modifiers(snap *scene.Snapshot, sceneFilename string, behavior models.SkBehavior) *Report {
	var issues []models.Issue
	blocking := 0
	for _, id := range snap.IDs() {
		e := snap.Entity(id)
		issues = append(issues, naming.CheckName("Object", e.Name)...)

		if behavior == models.SkStrict && e.Directives.SkipParent {
			if n := len(snap.Descendants(id)); n > 0 {
				blocking++
				issues = append(issues, models.Issue{
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("Object '%s': -sk used on parent object with %d children (strict mode)", e.CleanName, n),
				})
			}
		}
	}
	if sceneFilename != "" {
		issues = append(issues, naming.CheckName("Scene filename", sceneFilename)...)
	}

	r := &Report{Issues: issues, Blocking: blocking}
	r.Errors, r.Warnings = models.CountIssues(issues)
	return r
}

// Blocks reports whether a strict-mode export must not run. Other errors
// only skip the units they affect.
func (r *Report) Blocks() bool { return r.Blocking > 0 }

// OK reports whether no issues were found.
func (r *Report) OK() bool { return len(r.Issues) == 0 }

// Summary is a one-line description of the counts.
func (r *Report) Summary() string {
	switch {
	case r.Errors > 0 && r.Warnings > 0:
		return fmt.Sprintf("Found %d errors and %d warnings", r.Errors, r.Warnings)
	case r.Errors > 0:
		return fmt.Sprintf("Found %d errors", r.Errors)
	case r.Warnings > 0:
		return fmt.Sprintf("Found %d warnings", r.Warnings)
	default:
		return "All modifiers are valid"
	}
}

// String renders errors first, then warnings, one per line.
func (r *Report) String() string {
	if r.OK() {
		return "No issues found."
	}
	var b strings.Builder
	for _, sev := range []models.Severity{models.SeverityError, models.SeverityWarning} {
		for _, is := range r.Issues {
			if is.Severity == sev {
				fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(sev)), is.Message)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
