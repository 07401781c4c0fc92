// Package exporter drives one export run: it plans units, hands each one to
// a format backend, records the produced files and summarizes the outcome.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wildstar-studios/auto-exporter/internal/metrics"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/planner"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
	"github.com/wildstar-studios/auto-exporter/internal/tracker"
	"github.com/wildstar-studios/auto-exporter/internal/validate"
)

var (
	// ErrNoExportPath means no export directory is configured.
	ErrNoExportPath = errors.New("export path not set")

	// ErrExportInProgress is returned when another export holds the runner.
	ErrExportInProgress = errors.New("export already in progress")

	// ErrValidationFailed blocks a strict-mode export while an -sk entity
	// still has children.
	ErrValidationFailed = errors.New("modifier validation failed")
)

// Settings are the export options for one run.
type Settings struct {
	ExportPath      string
	Scope           models.ExportScope
	Mode            models.ExportMode
	Format          models.Format
	UpAxis          models.UpAxis
	SceneFilename   string
	SelectedType    models.SelectedType
	ApplyModifiers  bool
	ApplyAnimations bool
	LocalOrigins    bool
	SkBehavior      models.SkBehavior
}

// BaseDir returns the absolute export directory.
func (s Settings) BaseDir() (string, error) {
	if strings.TrimSpace(s.ExportPath) == "" {
		return "", ErrNoExportPath
	}
	abs, err := filepath.Abs(s.ExportPath)
	if err != nil {
		return "", fmt.Errorf("resolving export path: %w", err)
	}
	return abs, nil
}

// TrackerMeta returns the ledger metadata for runs made with s.
func (s Settings) TrackerMeta(sourceFile string) tracker.Meta {
	base, err := s.BaseDir()
	if err != nil {
		base = s.ExportPath
	}
	return tracker.Meta{
		SourceFile: sourceFile,
		ExportPath: base,
		Format:     s.Format,
		Scope:      s.Scope,
		Mode:       s.Mode,
	}
}

func (s Settings) planOptions(base string) planner.Options {
	return planner.Options{
		BaseDir:       base,
		Scope:         s.Scope,
		Mode:          s.Mode,
		Format:        s.Format,
		SceneFilename: s.SceneFilename,
	}
}

// Job is one export invocation. Stage may be nil when local origins are
// not needed; Tracker may be nil to disable tracking.
type Job struct {
	Snapshot *scene.Snapshot
	Stage    scene.Stage
	Settings Settings
	Tracker  *tracker.Tracker
}

// Runner executes export jobs one at a time.
type Runner struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
}

// NewRunner creates a runner around backend.
func NewRunner(backend Backend, logger *slog.Logger) *Runner {
	return &Runner{backend: backend, logger: logger}
}

// ExportAll exports every unit of the job's scope.
func (r *Runner) ExportAll(ctx context.Context, job Job) (*Summary, error) {
	return r.run(ctx, job, func(opts planner.Options) (*planner.Plan, error) {
		return planner.Build(job.Snapshot, opts)
	})
}

// ExportSelected exports only ids, grouped by the job's SelectedType.
func (r *Runner) ExportSelected(ctx context.Context, job Job, ids []scene.ID) (*Summary, error) {
	return r.run(ctx, job, func(opts planner.Options) (*planner.Plan, error) {
		return planner.BuildSelection(job.Snapshot, ids, job.Settings.SelectedType, opts)
	})
}

func (r *Runner) run(ctx context.Context, job Job, build func(planner.Options) (*planner.Plan, error)) (*Summary, error) {
	if !r.mu.TryLock() {
		return nil, ErrExportInProgress
	}
	defer r.mu.Unlock()

	snap, s := job.Snapshot, job.Settings
	base, err := s.BaseDir()
	if err != nil {
		return nil, err
	}

	report := validate.Modifiers(snap, s.SceneFilename, s.SkBehavior)
	if s.SkBehavior == models.SkStrict && report.Blocks() {
		r.logger.Warn("export blocked by strict validation", "errors", report.Blocking)
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, report.Summary())
	}

	plan, err := build(s.planOptions(base))
	if err != nil {
		return nil, fmt.Errorf("planning export: %w", err)
	}

	metrics.Inc(metrics.RunsTotal)
	sum := &Summary{
		RunID:      uuid.New().String(),
		Files:      []string{},
		Collisions: plan.Collisions,
	}
	if !report.OK() {
		sum.Validation = report
	}
	if w := animationWarning(snap, plan, s); w != "" {
		sum.Warnings = append(sum.Warnings, w)
	}
	for _, c := range plan.Collisions {
		r.logger.Warn("output collision", "message", c.Message)
	}

	log := r.logger.With("run_id", sum.RunID)
	log.Info("export started", "scope", s.Scope, "mode", s.Mode, "format", s.Format, "units", len(plan.Entries))

	for _, e := range plan.Entries {
		sum.add(r.exportUnit(ctx, log, job, e))
	}

	metrics.Add(metrics.UnitsExported, sum.Succeeded)
	metrics.Add(metrics.UnitsFailed, sum.Failed)
	metrics.Add(metrics.UnitsSkipped, sum.Skipped)

	if tr := job.Tracker; tr != nil && sum.Succeeded > 0 {
		meta := s.TrackerMeta(snap.Source())
		if _, err := tr.Record(meta.Key(), sum.Files, meta); err != nil {
			log.Error("updating tracking ledger", "path", tr.Path(), "error", err)
			metrics.Inc(metrics.TrackingErrors)
			sum.TrackingErr = err.Error()
		} else {
			sum.Tracked = true
		}
	}

	log.Info("export finished", "succeeded", sum.Succeeded, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

func (r *Runner) exportUnit(ctx context.Context, log *slog.Logger, job Job, e planner.Entry) UnitResult {
	u, snap := e.Unit, job.Snapshot
	res := UnitResult{
		Unit:    u.Key,
		Kind:    u.Kind,
		Path:    e.Path,
		Members: snap.Names(u.Members),
	}
	switch {
	case e.Err != nil:
		res.Status, res.Reason = StatusSkipped, e.Err.Error()
		log.Warn("skipping unit", "unit", u.Key, "error", e.Err)
		return res
	case len(u.Members) == 0:
		res.Status, res.Reason = StatusSkipped, "no exportable entities"
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status, res.Reason = StatusSkipped, err.Error()
		return res
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		res.Status, res.Reason = StatusFailed, fmt.Sprintf("creating directory: %v", err)
		log.Error("export failed", "unit", u.Key, "path", e.Path, "error", err)
		return res
	}

	if err := r.exportStaged(ctx, job, u, e.Path); err != nil {
		res.Status, res.Reason = StatusFailed, err.Error()
		log.Error("export failed", "unit", u.Key, "path", e.Path, "error", err)
		return res
	}
	res.Status = StatusExported
	log.Debug("exported unit", "unit", u.Key, "path", e.Path)
	return res
}

// exportStaged runs the backend with local origins applied. Locations are
// restored before returning on every path.
func (r *Runner) exportStaged(ctx context.Context, job Job, u planner.Unit, path string) (err error) {
	snap, s := job.Snapshot, job.Settings
	if s.LocalOrigins && job.Stage != nil {
		restore, stageErr := stageLocalOrigin(job.Stage, u, snap.Cursor())
		defer func() {
			if rerr := restore(); rerr != nil {
				r.logger.Error("restoring locations", "unit", u.Key, "error", rerr)
				if err == nil {
					err = fmt.Errorf("restoring locations: %w", rerr)
				}
			}
		}()
		if stageErr != nil {
			return stageErr
		}
	}

	return r.backend.Export(ctx, Request{
		Path:           path,
		Format:         s.Format,
		Unit:           u.Key,
		Selection:      snap.Names(u.Members),
		ApplyModifiers: s.ApplyModifiers,
		AxisForward:    AxisForward(s.Format),
		AxisUp:         s.UpAxis,
		BakeAnimation:  s.Format.SupportsAnimation() && (s.ApplyAnimations || wantsAnimation(snap, u)),
		Locations:      placements(job, u),
	})
}

// placements reads member locations from the stage, so staged local origins
// are what the backend sees.
func placements(job Job, u planner.Unit) []Placement {
	out := make([]Placement, len(u.Members))
	for i, id := range u.Members {
		loc := job.Snapshot.Entity(id).Location
		if job.Stage != nil {
			loc = job.Stage.Location(id)
		}
		out[i] = Placement{Name: job.Snapshot.Entity(id).Name, Location: loc}
	}
	return out
}

func wantsAnimation(snap *scene.Snapshot, u planner.Unit) bool {
	if u.Directives.Animation {
		return true
	}
	for _, id := range u.Members {
		if snap.Entity(id).Directives.Animation {
			return true
		}
	}
	return false
}

// animationWarning is non-empty when animation was requested but the format
// cannot carry it.
func animationWarning(snap *scene.Snapshot, plan *planner.Plan, s Settings) string {
	if s.Format.SupportsAnimation() {
		return ""
	}
	requested := s.ApplyAnimations
	for _, e := range plan.Entries {
		if requested {
			break
		}
		requested = wantsAnimation(snap, e.Unit)
	}
	if !requested {
		return ""
	}
	return fmt.Sprintf("format %s does not support animation; animation data will not be exported", strings.ToUpper(string(s.Format)))
}
