// Package operator exposes the user-facing entry points (export, export
// selected, highlight, orphan cleanup, ledger deletion, validation) on top of
// the planner, exporter and tracker packages. Every call loads a fresh scene
// snapshot.
package operator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wildstar-studios/auto-exporter/internal/config"
	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/metrics"
	"github.com/wildstar-studios/auto-exporter/internal/planner"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
	"github.com/wildstar-studios/auto-exporter/internal/tracker"
	"github.com/wildstar-studios/auto-exporter/internal/validate"
)

var (
	// ErrEmptySelection is returned when export-selected gets no entities.
	ErrEmptySelection = errors.New("no entities selected")

	// ErrTrackingDisabled is returned by ledger operations when tracking is off.
	ErrTrackingDisabled = errors.New("tracking is disabled")
)

// NewBackend builds the format backend named by cfg.Backend.
func NewBackend(cfg *config.Config, logger *slog.Logger) (exporter.Backend, error) {
	switch cfg.Backend.Kind {
	case config.BackendCommand:
		return exporter.NewCommandBackend(cfg.Backend.Command, logger)
	case config.BackendManifest, "":
		return exporter.NewManifestBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}

// Operator runs entry points against the configured scene snapshot.
type Operator struct {
	cfg    *config.Config
	runner *exporter.Runner
	logger *slog.Logger
}

// New creates an Operator. backend writes every exported unit.
func New(cfg *config.Config, backend exporter.Backend, logger *slog.Logger) *Operator {
	return &Operator{
		cfg:    cfg,
		runner: exporter.NewRunner(backend, logger),
		logger: logger,
	}
}

// Settings returns the export settings from configuration. Callers may
// adjust the copy before passing it back to an entry point.
func (o *Operator) Settings() exporter.Settings {
	e := o.cfg.Export
	return exporter.Settings{
		ExportPath:      e.Path,
		Scope:           e.Scope,
		Mode:            e.Mode,
		Format:          e.Format,
		UpAxis:          e.UpAxis,
		SceneFilename:   e.SceneFilename,
		SelectedType:    e.SelectedType,
		ApplyModifiers:  e.ApplyModifiers,
		ApplyAnimations: e.ApplyAnimations,
		LocalOrigins:    e.LocalOrigins,
		SkBehavior:      o.cfg.Validation.SkBehavior,
	}
}

// SnapshotPath returns the scene snapshot file being operated on.
func (o *Operator) SnapshotPath() string { return o.cfg.Scene.Snapshot }

// Snapshot loads the scene snapshot.
func (o *Operator) Snapshot() (*scene.Snapshot, error) {
	snap, err := scene.Load(o.cfg.Scene.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	return snap, nil
}

// sourceFile is the path the ledger is named after.
func (o *Operator) sourceFile(snap *scene.Snapshot) string {
	if o.cfg.Tracking.SourceFile != "" {
		return o.cfg.Tracking.SourceFile
	}
	return snap.Source()
}

// Tracker returns the ledger for snap under settings s.
func (o *Operator) Tracker(snap *scene.Snapshot, s exporter.Settings) *tracker.Tracker {
	base, err := s.BaseDir()
	if err != nil {
		base = ""
	}
	path := tracker.FilePath(o.cfg.Tracking.Location, o.sourceFile(snap), base)
	return tracker.New(path, o.logger)
}

func (o *Operator) job(snap *scene.Snapshot, s exporter.Settings) exporter.Job {
	job := exporter.Job{
		Snapshot: snap,
		Stage:    scene.NewMemoryStage(snap),
		Settings: s,
	}
	if o.cfg.Tracking.Enabled {
		job.Tracker = o.Tracker(snap, s)
	}
	return job
}

// Export exports every unit of s.Scope.
func (o *Operator) Export(ctx context.Context, s exporter.Settings) (*exporter.Summary, error) {
	snap, err := o.Snapshot()
	if err != nil {
		return nil, err
	}
	return o.runner.ExportAll(ctx, o.job(snap, s))
}

// ExportSelected exports the named entities grouped by s.SelectedType.
func (o *Operator) ExportSelected(ctx context.Context, s exporter.Settings, names []string) (*exporter.Summary, error) {
	if len(names) == 0 {
		return nil, ErrEmptySelection
	}
	snap, err := o.Snapshot()
	if err != nil {
		return nil, err
	}
	ids, err := snap.LookupAll(names)
	if err != nil {
		return nil, err
	}
	return o.runner.ExportSelected(ctx, o.job(snap, s), ids)
}

// HighlightResult lists what an export with the given settings would touch.
type HighlightResult struct {
	Entities []string            `json:"entities"`
	Units    map[string][]string `json:"units"`
}

// Highlight returns every entity the current scope would export, in unit
// order without duplicates, plus the members of each unit.
func (o *Operator) Highlight(_ context.Context, s exporter.Settings) (*HighlightResult, error) {
	snap, err := o.Snapshot()
	if err != nil {
		return nil, err
	}
	units, err := planner.NewResolver(snap, s.Mode, s.SceneFilename).Resolve(s.Scope)
	if err != nil {
		return nil, err
	}
	res := &HighlightResult{
		Entities: snap.Names(planner.Highlight(units)),
		Units:    make(map[string][]string, len(units)),
	}
	for key, ids := range planner.MembersByKey(units) {
		res.Units[key] = snap.Names(ids)
	}
	return res, nil
}

func (o *Operator) ledger(s exporter.Settings) (*tracker.Tracker, *scene.Snapshot, error) {
	if !o.cfg.Tracking.Enabled {
		return nil, nil, ErrTrackingDisabled
	}
	snap, err := o.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	return o.Tracker(snap, s), snap, nil
}

// FindOrphans lists export files no longer referenced by the ledger.
func (o *Operator) FindOrphans(ctx context.Context, s exporter.Settings) ([]string, error) {
	tr, _, err := o.ledger(s)
	if err != nil {
		return nil, err
	}
	return tr.FindOrphans(ctx)
}

// CleanOrphans deletes orphaned files, and empty folders when emptyDirs is set.
func (o *Operator) CleanOrphans(ctx context.Context, s exporter.Settings, emptyDirs bool) (*tracker.CleanupReport, error) {
	tr, _, err := o.ledger(s)
	if err != nil {
		return nil, err
	}
	return o.cleaned(tr.DeleteOrphans(ctx, emptyDirs))
}

// CleanListedOrphans deletes only the listed files, and only those still
// orphaned when the cleanup runs.
func (o *Operator) CleanListedOrphans(ctx context.Context, s exporter.Settings, files []string, emptyDirs bool) (*tracker.CleanupReport, error) {
	tr, _, err := o.ledger(s)
	if err != nil {
		return nil, err
	}
	return o.cleaned(tr.DeleteListed(ctx, files, emptyDirs))
}

func (o *Operator) cleaned(report *tracker.CleanupReport, err error) (*tracker.CleanupReport, error) {
	if report != nil {
		metrics.Add(metrics.OrphansDeleted, len(report.Deleted))
		o.logger.Info("orphan cleanup finished", "deleted", len(report.Deleted), "failed", len(report.Failed),
			"skipped", len(report.Skipped), "dirs", len(report.RemovedDirs))
	}
	return report, err
}

// DeleteResult reports the outcome of DeleteTrackFile.
type DeleteResult struct {
	Path        string `json:"path"`
	Existed     bool   `json:"existed"`
	Regenerated bool   `json:"regenerated"`
}

// DeleteTrackFile removes the ledger, writing a fresh template when
// regenerate is set.
func (o *Operator) DeleteTrackFile(_ context.Context, s exporter.Settings, regenerate bool) (*DeleteResult, error) {
	tr, snap, err := o.ledger(s)
	if err != nil {
		return nil, err
	}
	existed, err := tr.Delete(regenerate, s.TrackerMeta(o.sourceFile(snap)))
	if err != nil {
		return nil, err
	}
	o.logger.Info("tracking file deleted", "path", tr.Path(), "existed", existed, "regenerated", regenerate)
	return &DeleteResult{Path: tr.Path(), Existed: existed, Regenerated: regenerate}, nil
}

// Validate reports naming-directive problems in the scene.
func (o *Operator) Validate(_ context.Context, s exporter.Settings) (*validate.Report, error) {
	snap, err := o.Snapshot()
	if err != nil {
		return nil, err
	}
	return validate.Modifiers(snap, s.SceneFilename, s.SkBehavior), nil
}
