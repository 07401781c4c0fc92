// Package scene holds an immutable snapshot of the host's entity graph. The
// snapshot is built once per invocation and indexed by ID so that traversal
// never observes host-side mutation.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wildstar-studios/auto-exporter/internal/naming"
)

// LayerCount is the fixed number of layer slots an entity can belong to.
const LayerCount = 20

// NoParent marks an entity without a parent.
const NoParent ID = -1

// ErrUnknownEntity is returned when a name does not resolve to an entity.
var ErrUnknownEntity = errors.New("unknown entity")

// ID indexes an entity inside a Snapshot.
type ID int

// Kind is the host object type.
type Kind string

var meshLikeKinds = map[Kind]bool{
	"mesh":     true,
	"curve":    true,
	"surface":  true,
	"meta":     true,
	"font":     true,
	"armature": true,
}

// IsMeshLike reports whether entities of this kind can be exported.
func (k Kind) IsMeshLike() bool {
	return meshLikeKinds[Kind(strings.ToLower(string(k)))]
}

// Entity is one read-only node of the snapshot.
type Entity struct {
	ID               ID
	Name             string
	CleanName        string
	Directives       naming.Directives
	Kind             Kind
	Parent           ID
	HiddenInViewport bool
	HiddenInRender   bool
	Layers           [LayerCount]bool
	Location         Vec3
}

// HasParent reports whether the entity has a parent.
func (e *Entity) HasParent() bool { return e.Parent != NoParent }

// InLayer reports whether the entity is a member of layer i.
func (e *Entity) InLayer(i int) bool {
	return i >= 0 && i < LayerCount && e.Layers[i]
}

// Snapshot is an immutable, index-based view of the host scene.
type Snapshot struct {
	source   string
	cursor   Vec3
	entities []Entity
	children [][]ID
	byName   map[string]ID
}

// New validates doc and builds the parent/child lookup tables.
func New(doc Document) (*Snapshot, error) {
	s := &Snapshot{
		source:   doc.Source,
		entities: make([]Entity, len(doc.Entities)),
		children: make([][]ID, len(doc.Entities)),
		byName:   make(map[string]ID, len(doc.Entities)),
	}
	cursor, err := toVec3(doc.Cursor)
	if err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	s.cursor = cursor

	for i, spec := range doc.Entities {
		if spec.Name == "" {
			return nil, fmt.Errorf("entity %d: empty name", i)
		}
		if _, dup := s.byName[spec.Name]; dup {
			return nil, fmt.Errorf("entity %q: duplicate name", spec.Name)
		}
		loc, err := toVec3(spec.Location)
		if err != nil {
			return nil, fmt.Errorf("entity %q: location: %w", spec.Name, err)
		}
		clean, d := naming.Parse(spec.Name)
		e := Entity{
			ID:               ID(i),
			Name:             spec.Name,
			CleanName:        clean,
			Directives:       d,
			Kind:             Kind(strings.ToLower(spec.Kind)),
			Parent:           NoParent,
			HiddenInViewport: spec.Hidden,
			HiddenInRender:   spec.HideRender,
			Location:         loc,
		}
		for _, l := range spec.Layers {
			if l < 0 || l >= LayerCount {
				return nil, fmt.Errorf("entity %q: layer %d out of range [0,%d)", spec.Name, l, LayerCount)
			}
			e.Layers[l] = true
		}
		s.entities[i] = e
		s.byName[spec.Name] = ID(i)
	}

	for i, spec := range doc.Entities {
		if spec.Parent == "" {
			continue
		}
		pid, ok := s.byName[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("entity %q: parent %q: %w", spec.Name, spec.Parent, ErrUnknownEntity)
		}
		s.entities[i].Parent = pid
		s.children[pid] = append(s.children[pid], ID(i))
	}

	if err := s.checkAcyclic(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkAcyclic rejects parent chains that loop back on themselves.
func (s *Snapshot) checkAcyclic() error {
	for i := range s.entities {
		steps := 0
		for p := s.entities[i].Parent; p != NoParent; p = s.entities[p].Parent {
			steps++
			if steps > len(s.entities) {
				return fmt.Errorf("entity %q: parent chain forms a cycle", s.entities[i].Name)
			}
		}
	}
	return nil
}

// Source returns the path of the host scene file, empty when unsaved.
func (s *Snapshot) Source() string { return s.source }

// Cursor returns the reference point used for local-origin export.
func (s *Snapshot) Cursor() Vec3 { return s.cursor }

// Len returns the number of entities.
func (s *Snapshot) Len() int { return len(s.entities) }

// Entity returns the entity with the given ID. It panics on out-of-range IDs.
func (s *Snapshot) Entity(id ID) *Entity { return &s.entities[id] }

// IDs returns every entity ID in host order.
func (s *Snapshot) IDs() []ID {
	ids := make([]ID, len(s.entities))
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Lookup resolves a raw entity name.
func (s *Snapshot) Lookup(name string) (ID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// LookupAll resolves names, failing on the first unknown one.
func (s *Snapshot) LookupAll(names []string) ([]ID, error) {
	ids := make([]ID, 0, len(names))
	for _, n := range names {
		id, ok := s.byName[n]
		if !ok {
			return nil, fmt.Errorf("%q: %w", n, ErrUnknownEntity)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Children returns the direct children of id in host order.
func (s *Snapshot) Children(id ID) []ID { return s.children[id] }

// Descendants returns every entity below id, depth first, each child
// followed by its own subtree.
func (s *Snapshot) Descendants(id ID) []ID {
	var out []ID
	for _, c := range s.children[id] {
		out = append(out, c)
		out = append(out, s.Descendants(c)...)
	}
	return out
}

// Hierarchy returns id followed by its descendants.
func (s *Snapshot) Hierarchy(id ID) []ID {
	return append([]ID{id}, s.Descendants(id)...)
}

// Names maps ids to raw entity names.
func (s *Snapshot) Names(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = s.entities[id].Name
	}
	return out
}
