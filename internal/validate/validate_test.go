package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

func snap(t *testing.T, specs ...scene.EntitySpec) *scene.Snapshot {
	t.Helper()
	s, err := scene.New(scene.Document{Entities: specs})
	require.NoError(t, err)
	return s
}

func TestModifiers_DenyAndSkipSingleError(t *testing.T) {
	s := snap(t, scene.EntitySpec{Name: "Box -dk -sk", Kind: "mesh"})
	for _, b := range []models.SkBehavior{models.SkBasic, models.SkStrict} {
		r := Modifiers(s, "", b)
		require.Len(t, r.Issues, 1, "behavior %s", b)
		assert.Equal(t, models.SeverityError, r.Issues[0].Severity)
		assert.Contains(t, r.Issues[0].Message, "-dk")
		assert.Contains(t, r.Issues[0].Message, "-sk")
		assert.Equal(t, 1, r.Errors)
	}
}

func TestModifiers_StrictSkipWithChildren(t *testing.T) {
	s := snap(t,
		scene.EntitySpec{Name: "Rig -sk", Kind: "mesh"},
		scene.EntitySpec{Name: "Arm", Kind: "mesh", Parent: "Rig -sk"},
		scene.EntitySpec{Name: "Hand", Kind: "mesh", Parent: "Arm"},
		scene.EntitySpec{Name: "Lone -sk", Kind: "mesh"},
	)

	basic := Modifiers(s, "", models.SkBasic)
	assert.True(t, basic.OK())
	assert.False(t, basic.Blocks())
	assert.Equal(t, "All modifiers are valid", basic.Summary())

	strict := Modifiers(s, "", models.SkStrict)
	require.Len(t, strict.Issues, 1)
	assert.Equal(t, models.SeverityError, strict.Issues[0].Severity)
	assert.Contains(t, strict.Issues[0].Message, "'Rig'")
	assert.Contains(t, strict.Issues[0].Message, "2 children")
	assert.Equal(t, 1, strict.Blocking)
	assert.True(t, strict.Blocks())
}

func TestModifiers_StrictOtherErrorsDoNotBlock(t *testing.T) {
	s := snap(t,
		scene.EntitySpec{Name: "Bad -dir:a -dir:b", Kind: "mesh"},
		scene.EntitySpec{Name: "Crate -dk -sk", Kind: "mesh"},
	)
	r := Modifiers(s, "", models.SkStrict)
	assert.Equal(t, 2, r.Errors)
	assert.Zero(t, r.Blocking)
	assert.False(t, r.Blocks())
}

func TestModifiers_SceneFilenameAndSummary(t *testing.T) {
	s := snap(t, scene.EntitySpec{Name: "Crate -sep -sep", Kind: "mesh"})
	r := Modifiers(s, "level -dir:A -dir:B", models.SkBasic)
	require.Len(t, r.Issues, 2)
	assert.Equal(t, 1, r.Errors)
	assert.Equal(t, 1, r.Warnings)
	assert.Equal(t, "Found 1 errors and 1 warnings", r.Summary())

	out := r.String()
	assert.Contains(t, out, "ERROR: Scene filename 'level'")
	assert.Contains(t, out, "WARNING: Object 'Crate'")
	assert.Less(t, strings.Index(out, "ERROR"), strings.Index(out, "WARNING"))
}

func TestReport_EmptyString(t *testing.T) {
	r := Modifiers(snap(t), "", models.SkBasic)
	assert.Equal(t, "No issues found.", r.String())
}

