package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
	"github.com/wildstar-studios/auto-exporter/internal/tracker"
	"github.com/wildstar-studios/auto-exporter/internal/validate"
)

// RenderIssues lists validation issues, errors first.
func RenderIssues(r *validate.Report) string {
	var b strings.Builder
	if r.OK() {
		b.WriteString(successStyle.Render("✓ " + r.Summary()))
		b.WriteString("\n")
		return b.String()
	}
	style := warningStyle
	if r.Errors > 0 {
		style = errorStyle
	}
	b.WriteString(style.Render(r.Summary()))
	b.WriteString("\n")
	b.WriteString(renderIssueLines(r.Issues))
	return b.String()
}

func renderIssueLines(issues []models.Issue) string {
	var b strings.Builder
	for _, sev := range []models.Severity{models.SeverityError, models.SeverityWarning} {
		for _, is := range issues {
			if is.Severity != sev {
				continue
			}
			if sev == models.SeverityError {
				b.WriteString(errorStyle.Render("  ✗ " + is.Message))
			} else {
				b.WriteString(warningStyle.Render("  ! " + is.Message))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderSummary renders the outcome of an export run.
func RenderSummary(s *exporter.Summary) string {
	var b strings.Builder

	headline := successStyle
	if s.Failed > 0 {
		headline = errorStyle
	} else if s.Succeeded == 0 {
		headline = warningStyle
	}
	b.WriteString(boxStyle.Render(headline.Render(s.String())))
	b.WriteString("\n")

	for _, r := range s.Results {
		switch r.Status {
		case exporter.StatusExported:
			b.WriteString(successStyle.Render("  ✓ " + r.Path))
		case exporter.StatusSkipped:
			b.WriteString(dimStyle.Render(fmt.Sprintf("  - %s (%s)", r.Unit, r.Reason)))
		case exporter.StatusFailed:
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %s", r.Unit, r.Reason)))
		}
		b.WriteString("\n")
	}

	for _, w := range s.Warnings {
		b.WriteString(warningStyle.Render("  ! " + w))
		b.WriteString("\n")
	}
	b.WriteString(renderIssueLines(s.Collisions))
	if s.Validation != nil {
		b.WriteString(renderIssueLines(s.Validation.Issues))
	}
	if s.TrackingErr != "" {
		b.WriteString(errorStyle.Render("  tracking not updated: " + s.TrackingErr))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderOrphans lists orphaned files.
func RenderOrphans(orphans []string) string {
	if len(orphans) == 0 {
		return successStyle.Render("No orphaned files found.") + "\n"
	}
	var b strings.Builder
	b.WriteString(warningStyle.Render(fmt.Sprintf("Found %d orphaned file(s):", len(orphans))))
	b.WriteString("\n")
	for _, o := range orphans {
		b.WriteString(infoStyle.Render("  • " + o))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCleanup renders an orphan cleanup report.
func RenderCleanup(r *tracker.CleanupReport) string {
	var b strings.Builder
	b.WriteString(successStyle.Render(fmt.Sprintf("Deleted %d orphaned file(s)", len(r.Deleted))))
	b.WriteString("\n")
	for _, d := range r.Deleted {
		b.WriteString(dimStyle.Render("  - " + d))
		b.WriteString("\n")
	}
	for _, d := range r.RemovedDirs {
		b.WriteString(dimStyle.Render("  - " + d + "/"))
		b.WriteString("\n")
	}
	for _, s := range r.Skipped {
		b.WriteString(dimStyle.Render("  = " + s + " (no longer orphaned, kept)"))
		b.WriteString("\n")
	}
	for _, f := range r.Failed {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %s", f.Path, f.Error)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHighlight renders the entities an export would include.
func RenderHighlight(h *operator.HighlightResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d exportable entit(ies) in %d unit(s)", len(h.Entities), len(h.Units))))
	b.WriteString("\n")
	keys := make([]string, 0, len(h.Units))
	for k := range h.Units {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(infoStyle.Render("  " + k))
		b.WriteString(dimStyle.Render(": " + strings.Join(h.Units[k], ", ")))
		b.WriteString("\n")
	}
	return b.String()
}
