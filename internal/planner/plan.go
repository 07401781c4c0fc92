package planner

import (
	"fmt"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// Options are the settings a plan is built from.
type Options struct {
	BaseDir       string
	Scope         models.ExportScope
	Mode          models.ExportMode
	Format        models.Format
	SceneFilename string
}

// Entry pairs a unit with its resolved destination. Err is set when the
// path could not be resolved; such entries are skipped at export time.
type Entry struct {
	Unit Unit   `json:"unit"`
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`
}

// Plan is the full set of output units for one export invocation.
type Plan struct {
	Options    Options        `json:"-"`
	Entries    []Entry        `json:"entries"`
	Collisions []models.Issue `json:"collisions,omitempty"`
}

// Build resolves units for opts.Scope over snap and their paths.
func Build(snap *scene.Snapshot, opts Options) (*Plan, error) {
	units, err := NewResolver(snap, opts.Mode, opts.SceneFilename).Resolve(opts.Scope)
	if err != nil {
		return nil, err
	}
	return assemble(units, opts), nil
}

// BuildSelection resolves units for an explicit selection.
func BuildSelection(snap *scene.Snapshot, ids []scene.ID, typ models.SelectedType, opts Options) (*Plan, error) {
	units, err := NewResolver(snap, opts.Mode, opts.SceneFilename).Selection(ids, typ)
	if err != nil {
		return nil, err
	}
	return assemble(units, opts), nil
}

func assemble(units []Unit, opts Options) *Plan {
	p := &Plan{Options: opts}
	owners := make(map[string]string)
	for _, u := range units {
		path, err := ResolvePath(opts.BaseDir, u, opts.Format)
		p.Entries = append(p.Entries, Entry{Unit: u, Path: path, Err: err})
		if err != nil {
			continue
		}
		if prev, ok := owners[path]; ok {
			p.Collisions = append(p.Collisions, models.Issue{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("units '%s' and '%s' both write %s; the later export overwrites the earlier", prev, u.Key, path),
			})
			continue
		}
		owners[path] = u.Key
	}
	return p
}

// Units returns the plan's units in order.
func (p *Plan) Units() []Unit {
	out := make([]Unit, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Unit
	}
	return out
}
