// Package operatortest builds operators over throwaway scenes for tests.
package operatortest

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/wildstar-studios/auto-exporter/internal/config"
	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// Fixture describes the files behind a test operator.
type Fixture struct {
	Root      string // temp root
	ExportDir string
	Snapshot  string
	Source    string // source file recorded in the snapshot
	Config    *config.Config
}

// LedgerPath is where the ledger lands with the default tracking location.
func (f Fixture) LedgerPath() string {
	return filepath.Join(f.Root, "armory.export.track")
}

// Logger discards everything below error.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Armory is a small scene with one hierarchy, a loose mesh and a light.
func Armory() []scene.EntitySpec {
	return []scene.EntitySpec{
		{Name: "Sword -dir:Weapons", Kind: "mesh", Location: []float64{2, 0, 0}},
		{Name: "Blade", Kind: "mesh", Parent: "Sword -dir:Weapons", Location: []float64{4, 0, 0}},
		{Name: "Shield", Kind: "mesh", Layers: []int{0, 3}},
		{Name: "Lamp", Kind: "light"},
	}
}

// Config returns a valid configuration rooted at root.
func Config(root string) *config.Config {
	return &config.Config{
		Export: config.ExportConfig{
			Path:          filepath.Join(root, "out"),
			Scope:         models.ScopeParent,
			Mode:          models.ModeAll,
			Format:        models.FormatFBX,
			UpAxis:        models.UpY,
			SceneFilename: config.DefaultSceneFilename,
			SelectedType:  models.SelectedParent,
			LocalOrigins:  true,
		},
		Validation: config.ValidationConfig{SkBehavior: models.SkBasic},
		Tracking:   config.TrackingConfig{Enabled: true, Location: models.TrackWithSource},
		Scene:      config.SceneConfig{Snapshot: filepath.Join(root, "scene.json")},
		Backend:    config.BackendConfig{Kind: config.BackendManifest},
		Watch:      config.WatchConfig{Debounce: config.DefaultWatchDebounce},
	}
}

// WriteScene writes entities as the fixture's snapshot.
func (f Fixture) WriteScene(t testing.TB, entities []scene.EntitySpec) {
	t.Helper()
	data, err := json.Marshal(scene.Document{Source: f.Source, Entities: entities})
	if err != nil {
		t.Fatalf("encoding scene: %v", err)
	}
	if err := os.WriteFile(f.Snapshot, data, 0o644); err != nil {
		t.Fatalf("writing scene: %v", err)
	}
}

// New returns an operator over the Armory scene using the manifest backend.
// mutate, when non-nil, adjusts the configuration first.
func New(t testing.TB, mutate func(*config.Config)) (*operator.Operator, Fixture) {
	t.Helper()
	root := t.TempDir()
	cfg := Config(root)
	if mutate != nil {
		mutate(cfg)
	}
	f := Fixture{
		Root:      root,
		ExportDir: cfg.Export.Path,
		Snapshot:  cfg.Scene.Snapshot,
		Source:    filepath.Join(root, "armory.blend"),
		Config:    cfg,
	}
	f.WriteScene(t, Armory())
	return operator.New(cfg, exporter.NewManifestBackend(), Logger()), f
}
