package models

import "strings"

// ExportMode controls which entities pass the visibility filter.
type ExportMode string

const (
	ModeAll        ExportMode = "all"
	ModeVisible    ExportMode = "visible"
	ModeRenderable ExportMode = "renderable"
)

// ValidExportModes is the set of all valid export modes.
var ValidExportModes = []ExportMode{
	ModeAll,
	ModeVisible,
	ModeRenderable,
}

// IsValid returns true if the export mode is recognized.
func (m ExportMode) IsValid() bool {
	for _, v := range ValidExportModes {
		if m == v {
			return true
		}
	}
	return false
}

// ExportScope defines how exportable entities are partitioned into output files.
type ExportScope string

const (
	ScopeScene  ExportScope = "scene"
	ScopeParent ExportScope = "parent"
	ScopeLayer  ExportScope = "layer"
	ScopeObject ExportScope = "object"
)

// ValidExportScopes is the set of all valid export scopes.
var ValidExportScopes = []ExportScope{
	ScopeScene,
	ScopeParent,
	ScopeLayer,
	ScopeObject,
}

// IsValid returns true if the export scope is recognized.
func (s ExportScope) IsValid() bool {
	for _, v := range ValidExportScopes {
		if s == v {
			return true
		}
	}
	return false
}

// SelectedType is how an explicit selection is grouped for export.
type SelectedType string

const (
	SelectedParent SelectedType = "parent"
	SelectedObject SelectedType = "object"
)

// IsValid returns true if the selected type is recognized.
func (t SelectedType) IsValid() bool {
	return t == SelectedParent || t == SelectedObject
}

// Format identifies one of the supported output file formats.
type Format string

const (
	FormatOBJ Format = "obj"
	FormatFBX Format = "fbx"
	FormatSTL Format = "stl"
	FormatPLY Format = "ply"
	FormatDAE Format = "dae"
	FormatX3D Format = "x3d"
)

// ValidFormats lists the supported formats. The first entry supplies the
// fallback extension for unknown formats.
var ValidFormats = []Format{
	FormatOBJ,
	FormatFBX,
	FormatSTL,
	FormatPLY,
	FormatDAE,
	FormatX3D,
}

var formatExtensions = map[Format]string{
	FormatOBJ: ".obj",
	FormatFBX: ".fbx",
	FormatSTL: ".stl",
	FormatPLY: ".ply",
	FormatDAE: ".dae",
	FormatX3D: ".x3d",
}

// ParseFormat normalizes user input ("FBX", "fbx") into a Format.
func ParseFormat(s string) Format {
	return Format(strings.ToLower(strings.TrimSpace(s)))
}

// IsValid returns true if the format is supported.
func (f Format) IsValid() bool {
	_, ok := formatExtensions[f]
	return ok
}

// Extension returns the filename suffix (with dot) for the format.
// Unknown formats fall back to the extension of ValidFormats[0].
func (f Format) Extension() string {
	if ext, ok := formatExtensions[f]; ok {
		return ext
	}
	return formatExtensions[ValidFormats[0]]
}

// SupportsAnimation reports whether the format can carry baked animation.
func (f Format) SupportsAnimation() bool {
	switch f {
	case FormatFBX, FormatDAE, FormatX3D:
		return true
	default:
		return false
	}
}

// IsExportExtension reports whether ext (with dot, any case) belongs to a
// supported format.
func IsExportExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range formatExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// UpAxis is the up-axis convention handed to format backends.
type UpAxis string

const (
	UpY UpAxis = "Y"
	UpZ UpAxis = "Z"
)

// IsValid returns true if the axis is recognized.
func (a UpAxis) IsValid() bool {
	return a == UpY || a == UpZ
}

// SkBehavior selects how strictly -sk usage is validated.
type SkBehavior string

const (
	SkBasic  SkBehavior = "basic"
	SkStrict SkBehavior = "strict"
)

// IsValid returns true if the behavior is recognized.
func (b SkBehavior) IsValid() bool {
	return b == SkBasic || b == SkStrict
}

// TrackLocation selects where the tracking ledger file lives.
type TrackLocation string

const (
	TrackWithSource TrackLocation = "blend"
	TrackInExport   TrackLocation = "export"
)

// IsValid returns true if the location is recognized.
func (l TrackLocation) IsValid() bool {
	return l == TrackWithSource || l == TrackInExport
}
