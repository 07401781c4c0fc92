package scene

import "fmt"

// Stage is the writable transform surface of the host. Writes are transient:
// callers must restore every location they change.
type Stage interface {
	Location(id ID) Vec3
	SetLocation(id ID, v Vec3) error
}

// MemoryStage is a Stage backed by a copy of the snapshot's locations.
type MemoryStage struct {
	locs []Vec3
}

// NewMemoryStage seeds a stage from snap.
func NewMemoryStage(snap *Snapshot) *MemoryStage {
	st := &MemoryStage{locs: make([]Vec3, snap.Len())}
	for i := range st.locs {
		st.locs[i] = snap.Entity(ID(i)).Location
	}
	return st
}

// Location returns the current location of id.
func (m *MemoryStage) Location(id ID) Vec3 { return m.locs[id] }

// SetLocation moves id to v.
func (m *MemoryStage) SetLocation(id ID, v Vec3) error {
	if int(id) < 0 || int(id) >= len(m.locs) {
		return fmt.Errorf("set location %d: %w", id, ErrUnknownEntity)
	}
	m.locs[id] = v
	return nil
}
