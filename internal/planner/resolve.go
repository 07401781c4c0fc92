// Package planner partitions a scene snapshot into export units and maps each
// unit to its destination file.
package planner

import (
	"fmt"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/naming"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// DefaultSceneFilename names the scene unit when no filename is configured.
const DefaultSceneFilename = "scene"

// UnitKind identifies how a unit was formed.
type UnitKind string

const (
	UnitScene  UnitKind = "scene"
	UnitParent UnitKind = "parent"
	UnitLayer  UnitKind = "layer"
	UnitObject UnitKind = "object"
)

// Unit is one group of entities destined for a single output file.
type Unit struct {
	Kind UnitKind `json:"kind"`
	// Key is unique within one resolution: "scene", "layer_N", or the raw
	// name of the root/object entity.
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Directives naming.Directives `json:"directives"`
	// ParentDirectives is set for object units whose entity has a parent.
	ParentDirectives *naming.Directives `json:"parent_directives,omitempty"`
	Root             scene.ID           `json:"-"`
	Layer            int                `json:"layer"`
	Members          []scene.ID         `json:"-"`
}

// IsExportable is the shared export predicate.
func IsExportable(e *scene.Entity, mode models.ExportMode) bool {
	if e.Directives.DenyExport {
		return false
	}
	if !e.Kind.IsMeshLike() {
		return false
	}
	switch mode {
	case models.ModeVisible:
		return !e.HiddenInViewport && !e.HiddenInRender
	case models.ModeRenderable:
		return !e.HiddenInRender
	default:
		return true
	}
}

// Resolver computes export units over one snapshot.
type Resolver struct {
	snap          *scene.Snapshot
	mode          models.ExportMode
	sceneFilename string
}

// NewResolver creates a resolver. An empty sceneFilename falls back to
// DefaultSceneFilename.
func NewResolver(snap *scene.Snapshot, mode models.ExportMode, sceneFilename string) *Resolver {
	if sceneFilename == "" {
		sceneFilename = DefaultSceneFilename
	}
	return &Resolver{snap: snap, mode: mode, sceneFilename: sceneFilename}
}

func (r *Resolver) exportable(id scene.ID) bool {
	return IsExportable(r.snap.Entity(id), r.mode)
}

// Resolve dispatches on scope.
func (r *Resolver) Resolve(scope models.ExportScope) ([]Unit, error) {
	switch scope {
	case models.ScopeScene:
		return []Unit{r.Scene()}, nil
	case models.ScopeParent:
		return r.Parents(), nil
	case models.ScopeLayer:
		return r.Layers(), nil
	case models.ScopeObject:
		return r.Objects(), nil
	default:
		return nil, fmt.Errorf("unknown export scope %q", scope)
	}
}

// Scene returns the single unit holding every exportable entity. Its name
// and directives come from the configured scene filename.
func (r *Resolver) Scene() Unit {
	clean, d := naming.Parse(r.sceneFilename)
	u := Unit{
		Kind:       UnitScene,
		Key:        string(UnitScene),
		Name:       clean,
		Directives: d,
		Root:       scene.NoParent,
		Layer:      -1,
	}
	for _, id := range r.snap.IDs() {
		if r.exportable(id) {
			u.Members = append(u.Members, id)
		}
	}
	return u
}

// isRoot reports whether id anchors a parent unit: it has no parent, or its
// parent is excluded from export.
func (r *Resolver) isRoot(id scene.ID) bool {
	e := r.snap.Entity(id)
	if !e.HasParent() {
		return true
	}
	p := r.snap.Entity(e.Parent)
	return p.Directives.DenyExport || !IsExportable(p, r.mode)
}

// Parents returns one unit per exportable root hierarchy. Descendants are
// gathered through the parent links first and filtered afterwards, so an
// excluded intermediate does not cut off its exportable children.
func (r *Resolver) Parents() []Unit {
	var units []Unit
	for _, id := range r.snap.IDs() {
		if !r.exportable(id) || !r.isRoot(id) {
			continue
		}
		e := r.snap.Entity(id)
		if e.Directives.DenyExport || e.Directives.SkipParent {
			continue
		}
		members := r.filter(r.snap.Hierarchy(id), nil)
		if len(members) == 0 {
			continue
		}
		units = append(units, r.rootUnit(id, members))
	}
	return units
}

// Layers returns one unit per non-empty layer slot.
func (r *Resolver) Layers() []Unit {
	var units []Unit
	for l := 0; l < scene.LayerCount; l++ {
		var members []scene.ID
		for _, id := range r.snap.IDs() {
			if r.snap.Entity(id).InLayer(l) && r.exportable(id) {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}
		name := LayerName(l)
		units = append(units, Unit{
			Kind:    UnitLayer,
			Key:     name,
			Name:    name,
			Root:    scene.NoParent,
			Layer:   l,
			Members: members,
		})
	}
	return units
}

// Objects returns a singleton unit for every exportable entity.
func (r *Resolver) Objects() []Unit {
	var units []Unit
	for _, id := range r.snap.IDs() {
		if r.exportable(id) {
			units = append(units, r.objectUnit(id))
		}
	}
	return units
}

// Selection resolves units restricted to an explicit selection. For parent
// grouping an entity is a local root when its parent is absent or not
// selected; members are the root's hierarchy filtered to selected,
// exportable entities.
func (r *Resolver) Selection(ids []scene.ID, typ models.SelectedType) ([]Unit, error) {
	selected := make(map[scene.ID]bool, len(ids))
	for _, id := range ids {
		if int(id) < 0 || int(id) >= r.snap.Len() {
			return nil, fmt.Errorf("selection id %d: %w", id, scene.ErrUnknownEntity)
		}
		selected[id] = true
	}

	switch typ {
	case models.SelectedParent:
		var units []Unit
		seen := make(map[scene.ID]bool)
		for _, id := range ids {
			root := id
			for e := r.snap.Entity(root); e.HasParent() && selected[e.Parent]; e = r.snap.Entity(root) {
				root = e.Parent
			}
			if seen[root] {
				continue
			}
			seen[root] = true

			d := r.snap.Entity(root).Directives
			if d.DenyExport || d.SkipParent {
				continue
			}
			members := r.filter(r.snap.Hierarchy(root), selected)
			if len(members) == 0 {
				continue
			}
			units = append(units, r.rootUnit(root, members))
		}
		return units, nil
	case models.SelectedObject:
		var units []Unit
		seen := make(map[scene.ID]bool)
		for _, id := range ids {
			if seen[id] || !r.exportable(id) {
				continue
			}
			seen[id] = true
			units = append(units, r.objectUnit(id))
		}
		return units, nil
	default:
		return nil, fmt.Errorf("unknown selected export type %q", typ)
	}
}

// filter keeps exportable ids, and when within is non-nil, only those in it.
func (r *Resolver) filter(ids []scene.ID, within map[scene.ID]bool) []scene.ID {
	var out []scene.ID
	for _, id := range ids {
		if within != nil && !within[id] {
			continue
		}
		if r.exportable(id) {
			out = append(out, id)
		}
	}
	return out
}

func (r *Resolver) rootUnit(id scene.ID, members []scene.ID) Unit {
	e := r.snap.Entity(id)
	return Unit{
		Kind:       UnitParent,
		Key:        e.Name,
		Name:       e.CleanName,
		Directives: e.Directives,
		Root:       id,
		Layer:      -1,
		Members:    members,
	}
}

func (r *Resolver) objectUnit(id scene.ID) Unit {
	e := r.snap.Entity(id)
	u := Unit{
		Kind:       UnitObject,
		Key:        e.Name,
		Name:       e.CleanName,
		Directives: e.Directives,
		Root:       id,
		Layer:      -1,
		Members:    []scene.ID{id},
	}
	if e.HasParent() {
		pd := r.snap.Entity(e.Parent).Directives
		u.ParentDirectives = &pd
	}
	return u
}

// LayerName is the output stem for layer index l (0-based).
func LayerName(l int) string {
	return fmt.Sprintf("layer_%d", l+1)
}

// Highlight returns every entity the units would export, de-duplicated and
// in first-seen order.
func Highlight(units []Unit) []scene.ID {
	seen := make(map[scene.ID]bool)
	var out []scene.ID
	for _, u := range units {
		for _, id := range u.Members {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// MembersByKey returns the resolution as a key → ordered members mapping.
func MembersByKey(units []Unit) map[string][]scene.ID {
	out := make(map[string][]scene.ID, len(units))
	for _, u := range units {
		out[u.Key] = u.Members
	}
	return out
}
