package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatOBJ, ".obj"},
		{FormatFBX, ".fbx"},
		{FormatSTL, ".stl"},
		{FormatPLY, ".ply"},
		{FormatDAE, ".dae"},
		{FormatX3D, ".x3d"},
		{Format("gltf"), ".obj"},
		{Format(""), ".obj"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.Extension(), "format %q", tt.format)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatFBX, ParseFormat(" FBX "))
	assert.True(t, ParseFormat("Dae").IsValid())
	assert.False(t, ParseFormat("glb").IsValid())
}

func TestFormat_SupportsAnimation(t *testing.T) {
	assert.True(t, FormatFBX.SupportsAnimation())
	assert.True(t, FormatDAE.SupportsAnimation())
	assert.True(t, FormatX3D.SupportsAnimation())
	assert.False(t, FormatOBJ.SupportsAnimation())
	assert.False(t, FormatSTL.SupportsAnimation())
	assert.False(t, FormatPLY.SupportsAnimation())
}

func TestIsExportExtension(t *testing.T) {
	assert.True(t, IsExportExtension(".FBX"))
	assert.True(t, IsExportExtension(".ply"))
	assert.False(t, IsExportExtension(".track"))
	assert.False(t, IsExportExtension(""))
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ModeRenderable.IsValid())
	assert.False(t, ExportMode("hidden").IsValid())
	assert.True(t, ScopeLayer.IsValid())
	assert.False(t, ExportScope("group").IsValid())
	assert.True(t, SelectedObject.IsValid())
	assert.True(t, UpZ.IsValid())
	assert.False(t, UpAxis("X").IsValid())
	assert.True(t, SkStrict.IsValid())
	assert.True(t, TrackInExport.IsValid())
}

func TestCountIssues(t *testing.T) {
	errs, warns := CountIssues([]Issue{
		{Severity: SeverityError, Message: "a"},
		{Severity: SeverityWarning, Message: "b"},
		{Severity: SeverityWarning, Message: "c"},
	})
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
}
