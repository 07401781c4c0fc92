package exporter

import (
	"fmt"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/planner"
	"github.com/wildstar-studios/auto-exporter/internal/validate"
)

// Status is the outcome of one unit.
type Status string

const (
	StatusExported Status = "exported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// UnitResult reports what happened to one unit.
type UnitResult struct {
	Unit    string           `json:"unit"`
	Kind    planner.UnitKind `json:"kind"`
	Path    string           `json:"path,omitempty"`
	Status  Status           `json:"status"`
	Reason  string           `json:"reason,omitempty"`
	Members []string         `json:"members"`
}

// Summary is the single user-facing result of an export run.
type Summary struct {
	RunID       string           `json:"run_id"`
	Succeeded   int              `json:"succeeded"`
	Skipped     int              `json:"skipped"`
	Failed      int              `json:"failed"`
	Files       []string         `json:"files"`
	Results     []UnitResult     `json:"results"`
	Warnings    []string         `json:"warnings,omitempty"`
	Collisions  []models.Issue   `json:"collisions,omitempty"`
	Validation  *validate.Report `json:"validation,omitempty"`
	Tracked     bool             `json:"tracked"`
	TrackingErr string           `json:"tracking_error,omitempty"`
}

func (s *Summary) add(r UnitResult) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusExported:
		s.Succeeded++
		s.Files = append(s.Files, r.Path)
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// String is the one-line outcome shown to users.
func (s *Summary) String() string {
	msg := fmt.Sprintf("Exported %d file(s)", s.Succeeded)
	if s.Skipped > 0 || s.Failed > 0 {
		msg += fmt.Sprintf(", skipped %d, failed %d", s.Skipped, s.Failed)
	}
	return msg
}
