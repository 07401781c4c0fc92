package operator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
)

func TestOverrides_Apply(t *testing.T) {
	off := false
	s := exporter.Settings{Scope: models.ScopeParent, Format: models.FormatFBX, LocalOrigins: true}
	err := operator.Overrides{
		Path:         "/x",
		Scope:        "Object",
		Mode:         "renderable",
		Format:       "OBJ",
		UpAxis:       "z",
		SelectedType: "object",
		SkBehavior:   "STRICT",
		LocalOrigins: &off,
	}.Apply(&s)
	require.NoError(t, err)

	assert.Equal(t, "/x", s.ExportPath)
	assert.Equal(t, models.ScopeObject, s.Scope)
	assert.Equal(t, models.ModeRenderable, s.Mode)
	assert.Equal(t, models.FormatOBJ, s.Format)
	assert.Equal(t, models.UpZ, s.UpAxis)
	assert.Equal(t, models.SelectedObject, s.SelectedType)
	assert.Equal(t, models.SkStrict, s.SkBehavior)
	assert.False(t, s.LocalOrigins)
}

func TestOverrides_EmptyKeepsSettings(t *testing.T) {
	s := exporter.Settings{Scope: models.ScopeLayer, Format: models.FormatPLY}
	require.NoError(t, operator.Overrides{}.Apply(&s))
	assert.Equal(t, models.ScopeLayer, s.Scope)
	assert.Equal(t, models.FormatPLY, s.Format)
}

func TestOverrides_Invalid(t *testing.T) {
	for _, o := range []operator.Overrides{
		{Scope: "galaxy"},
		{Mode: "hidden"},
		{Format: "gltf"},
		{UpAxis: "X"},
		{SelectedType: "layer"},
		{SkBehavior: "loose"},
	} {
		s := exporter.Settings{}
		assert.Error(t, o.Apply(&s), "%+v", o)
	}
}
