package planner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/naming"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

func mustSnap(t *testing.T, specs ...scene.EntitySpec) *scene.Snapshot {
	t.Helper()
	snap, err := scene.New(scene.Document{Entities: specs})
	require.NoError(t, err)
	return snap
}

func mesh(name, parent string) scene.EntitySpec {
	return scene.EntitySpec{Name: name, Kind: "mesh", Parent: parent}
}

func unitNames(snap *scene.Snapshot, u Unit) []string {
	return snap.Names(u.Members)
}

func findUnit(t *testing.T, units []Unit, key string) Unit {
	t.Helper()
	for _, u := range units {
		if u.Key == key {
			return u
		}
	}
	t.Fatalf("no unit with key %q", key)
	return Unit{}
}

func TestIsExportable(t *testing.T) {
	snap := mustSnap(t,
		mesh("Plain", ""),
		scene.EntitySpec{Name: "Hidden", Kind: "mesh", Hidden: true},
		scene.EntitySpec{Name: "NoRender", Kind: "mesh", HideRender: true},
		scene.EntitySpec{Name: "Cam", Kind: "camera"},
		mesh("Denied -dk", ""),
	)
	want := map[string]map[models.ExportMode]bool{
		"Plain":      {models.ModeAll: true, models.ModeVisible: true, models.ModeRenderable: true},
		"Hidden":     {models.ModeAll: true, models.ModeVisible: false, models.ModeRenderable: true},
		"NoRender":   {models.ModeAll: true, models.ModeVisible: false, models.ModeRenderable: false},
		"Cam":        {models.ModeAll: false, models.ModeVisible: false, models.ModeRenderable: false},
		"Denied -dk": {models.ModeAll: false, models.ModeVisible: false, models.ModeRenderable: false},
	}
	for name, modes := range want {
		id, ok := snap.Lookup(name)
		require.True(t, ok)
		for mode, exp := range modes {
			assert.Equal(t, exp, IsExportable(snap.Entity(id), mode), "%s/%s", name, mode)
		}
	}
}

func TestParents_HiddenIntermediate(t *testing.T) {
	snap := mustSnap(t,
		mesh("A", ""),
		scene.EntitySpec{Name: "B", Kind: "mesh", Parent: "A", Hidden: true},
		mesh("C", "B"),
	)
	units := NewResolver(snap, models.ModeVisible, "").Parents()

	a := findUnit(t, units, "A")
	assert.Equal(t, UnitParent, a.Kind)
	assert.Equal(t, []string{"A", "C"}, unitNames(snap, a))

	// C's own parent is excluded, so C also anchors a unit.
	c := findUnit(t, units, "C")
	assert.Equal(t, []string{"C"}, unitNames(snap, c))
	assert.Len(t, units, 2)
}

func TestParents_DenyAndSkip(t *testing.T) {
	snap := mustSnap(t,
		mesh("Group -dk", ""),
		mesh("X", "Group -dk"),
		mesh("Y", "Group -dk"),
		mesh("Rig -sk", ""),
		mesh("Arm", "Rig -sk"),
		mesh("Solo -dir:Props", ""),
	)
	units := NewResolver(snap, models.ModeAll, "").Parents()

	keys := make([]string, 0, len(units))
	for _, u := range units {
		keys = append(keys, u.Key)
	}
	assert.Equal(t, []string{"X", "Y", "Solo -dir:Props"}, keys)

	solo := findUnit(t, units, "Solo -dir:Props")
	assert.Equal(t, "Solo", solo.Name)
	assert.Equal(t, "Props", solo.Directives.Dir)
}

func TestParents_DeepHierarchyOrder(t *testing.T) {
	snap := mustSnap(t,
		mesh("Root", ""),
		mesh("L1a", "Root"),
		mesh("L1b", "Root"),
		mesh("L2a", "L1a"),
		scene.EntitySpec{Name: "Light", Kind: "lamp", Parent: "L1b"},
		mesh("L3", "L2a"),
	)
	units := NewResolver(snap, models.ModeAll, "").Parents()
	require.Len(t, units, 1)
	assert.Equal(t, []string{"Root", "L1a", "L2a", "L3", "L1b"}, unitNames(snap, units[0]))
}

func TestLayers(t *testing.T) {
	snap := mustSnap(t,
		scene.EntitySpec{Name: "Multi", Kind: "mesh", Layers: []int{0, 5}},
		scene.EntitySpec{Name: "Only5", Kind: "mesh", Layers: []int{5}},
		scene.EntitySpec{Name: "Cam", Kind: "camera", Layers: []int{3}},
		scene.EntitySpec{Name: "Last", Kind: "mesh", Layers: []int{19}},
	)
	units := NewResolver(snap, models.ModeAll, "").Layers()
	require.Len(t, units, 3)

	l1 := findUnit(t, units, "layer_1")
	assert.Equal(t, 0, l1.Layer)
	assert.Equal(t, []string{"Multi"}, unitNames(snap, l1))

	l6 := findUnit(t, units, "layer_6")
	assert.Equal(t, []string{"Multi", "Only5"}, unitNames(snap, l6))

	l20 := findUnit(t, units, "layer_20")
	assert.Equal(t, "layer_20", l20.Name)
}

func TestObjects(t *testing.T) {
	snap := mustSnap(t,
		mesh("Parent -dir:Shared", ""),
		mesh("Child", "Parent -dir:Shared"),
		mesh("Nope -dk", ""),
		scene.EntitySpec{Name: "Cam", Kind: "camera"},
	)
	units := NewResolver(snap, models.ModeAll, "").Objects()
	require.Len(t, units, 2)

	child := findUnit(t, units, "Child")
	require.NotNil(t, child.ParentDirectives)
	assert.Equal(t, "Shared", child.ParentDirectives.Dir)
	assert.Nil(t, findUnit(t, units, "Parent -dir:Shared").ParentDirectives)
}

func TestScene(t *testing.T) {
	snap := mustSnap(t,
		mesh("A", ""),
		scene.EntitySpec{Name: "Hidden", Kind: "mesh", Hidden: true},
	)
	u := NewResolver(snap, models.ModeVisible, "level -dir:Levels -anim").Scene()
	assert.Equal(t, UnitScene, u.Kind)
	assert.Equal(t, "level", u.Name)
	assert.Equal(t, "Levels", u.Directives.Dir)
	assert.True(t, u.Directives.Animation)
	assert.Equal(t, []string{"A"}, unitNames(snap, u))

	def := NewResolver(snap, models.ModeAll, "").Scene()
	assert.Equal(t, DefaultSceneFilename, def.Name)
	assert.Len(t, def.Members, 2)
}

func TestResolve_UnknownScope(t *testing.T) {
	snap := mustSnap(t, mesh("A", ""))
	_, err := NewResolver(snap, models.ModeAll, "").Resolve("group")
	assert.Error(t, err)
}

func TestSelection_Parent(t *testing.T) {
	snap := mustSnap(t,
		mesh("A", ""),
		mesh("B", "A"),
		mesh("C", "B"),
		mesh("D", "A"),
		mesh("E", ""),
	)
	ids, err := snap.LookupAll([]string{"C", "B", "E"})
	require.NoError(t, err)

	units, err := NewResolver(snap, models.ModeAll, "").Selection(ids, models.SelectedParent)
	require.NoError(t, err)
	require.Len(t, units, 2)

	// A is not selected, so B is the local root; D stays out.
	b := findUnit(t, units, "B")
	assert.Equal(t, []string{"B", "C"}, unitNames(snap, b))
	assert.Equal(t, []string{"E"}, unitNames(snap, findUnit(t, units, "E")))
}

func TestSelection_ParentSkipsDeniedRoots(t *testing.T) {
	snap := mustSnap(t,
		mesh("Rig -sk", ""),
		mesh("Arm", "Rig -sk"),
	)
	ids, err := snap.LookupAll([]string{"Rig -sk", "Arm"})
	require.NoError(t, err)
	units, err := NewResolver(snap, models.ModeAll, "").Selection(ids, models.SelectedParent)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestSelection_Object(t *testing.T) {
	snap := mustSnap(t,
		mesh("A", ""),
		scene.EntitySpec{Name: "Cam", Kind: "camera"},
		mesh("B", "A"),
	)
	ids, err := snap.LookupAll([]string{"B", "Cam", "B", "A"})
	require.NoError(t, err)
	units, err := NewResolver(snap, models.ModeAll, "").Selection(ids, models.SelectedObject)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "B", units[0].Key)
	assert.Equal(t, "A", units[1].Key)

	_, err = NewResolver(snap, models.ModeAll, "").Selection([]scene.ID{42}, models.SelectedObject)
	assert.ErrorIs(t, err, scene.ErrUnknownEntity)
}

func TestHighlight_DedupesAcrossUnits(t *testing.T) {
	snap := mustSnap(t,
		scene.EntitySpec{Name: "Multi", Kind: "mesh", Layers: []int{0, 5}},
		scene.EntitySpec{Name: "Other", Kind: "mesh", Layers: []int{5}},
	)
	units := NewResolver(snap, models.ModeAll, "").Layers()
	assert.Equal(t, []string{"Multi", "Other"}, snap.Names(Highlight(units)))

	byKey := MembersByKey(units)
	assert.Len(t, byKey, 2)
	assert.Equal(t, []string{"Multi", "Other"}, snap.Names(byKey["layer_6"]))
}

func TestResolvePath_Precedence(t *testing.T) {
	base := t.TempDir()
	parentDir := naming.Directives{Dir: "ParentDir"}

	own := Unit{Kind: UnitObject, Key: "o", Name: "Sword", Directives: naming.Directives{Dir: "Custom"}, ParentDirectives: &parentDir}
	p, err := ResolvePath(base, own, models.FormatFBX)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Custom", "Sword.fbx"), p)

	inherit := Unit{Kind: UnitObject, Key: "o", Name: "Sword", ParentDirectives: &parentDir}
	p, err = ResolvePath(base, inherit, models.FormatFBX)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "ParentDir", "Sword.fbx"), p)

	layer := Unit{Kind: UnitLayer, Key: "layer_1", Name: "layer_1", Directives: naming.Directives{Dir: "Ignored"}}
	p, err = ResolvePath(base, layer, models.FormatOBJ)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "layer_1.obj"), p)

	parent := Unit{Kind: UnitParent, Key: "r", Name: "Tower", Directives: naming.Directives{Dir: "Buildings"}}
	p, err = ResolvePath(base, parent, models.Format("unknown"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Buildings", "Tower.obj"), p)
}

func TestResolvePath_Errors(t *testing.T) {
	base := t.TempDir()

	_, err := ResolvePath(base, Unit{Kind: UnitObject, Key: "x", Name: "X", Directives: naming.Directives{Dir: "a/b"}}, models.FormatFBX)
	assert.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = ResolvePath(base, Unit{Kind: UnitObject, Key: "x", Name: "X", Directives: naming.Directives{Dir: "CON"}}, models.FormatFBX)
	assert.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = ResolvePath(base, Unit{Kind: UnitObject, Key: " -dk"}, models.FormatFBX)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestResolvePath_RelativeBaseBecomesAbsolute(t *testing.T) {
	p, err := ResolvePath("out", Unit{Kind: UnitScene, Key: "scene", Name: "scene"}, models.FormatSTL)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "scene.stl", filepath.Base(p))
}

func TestBuild_CollisionsAndErrors(t *testing.T) {
	base := t.TempDir()
	snap := mustSnap(t,
		mesh("Box", ""),
		mesh("Box -sep", ""),
		mesh("Bad -dir:a:b", ""),
	)
	plan, err := Build(snap, Options{BaseDir: base, Scope: models.ScopeObject, Mode: models.ModeAll, Format: models.FormatPLY})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 3)

	assert.Equal(t, filepath.Join(base, "Box.ply"), plan.Entries[0].Path)
	assert.Equal(t, filepath.Join(base, "Box.ply"), plan.Entries[1].Path)
	assert.ErrorIs(t, plan.Entries[2].Err, ErrInvalidDirectory)

	require.Len(t, plan.Collisions, 1)
	assert.Contains(t, plan.Collisions[0].Message, "'Box' and 'Box -sep'")
	assert.Len(t, plan.Units(), 3)
}

func TestBuildSelection(t *testing.T) {
	base := t.TempDir()
	snap := mustSnap(t, mesh("A -dir:Stuff", ""), mesh("B", "A -dir:Stuff"))
	ids, err := snap.LookupAll([]string{"B"})
	require.NoError(t, err)

	plan, err := BuildSelection(snap, ids, models.SelectedObject, Options{BaseDir: base, Mode: models.ModeAll, Format: models.FormatDAE})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, filepath.Join(base, "Stuff", "B.dae"), plan.Entries[0].Path)
}
