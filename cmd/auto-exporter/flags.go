package main

import (
	"github.com/spf13/cobra"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
)

// settingsFlags overrides the configured export settings for one command.
type settingsFlags struct {
	ov operator.Overrides

	localOrigins    bool
	applyModifiers  bool
	applyAnimations bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.ov.Path, "path", "", "export folder (overrides export.path)")
	fs.StringVar(&f.ov.Scope, "scope", "", "export scope: scene, parent, layer or object")
	fs.StringVar(&f.ov.Mode, "mode", "", "export mode: all, visible or renderable")
	fs.StringVar(&f.ov.Format, "format", "", "output format: obj, fbx, stl, ply, dae or x3d")
	fs.StringVar(&f.ov.UpAxis, "up-axis", "", "up axis: Y or Z")
	fs.StringVar(&f.ov.SelectedType, "selected-type", "", "grouping for export-selected: parent or object")
	fs.StringVar(&f.ov.SkBehavior, "sk-behavior", "", "-sk validation: basic or strict")
	fs.BoolVar(&f.localOrigins, "local-origins", false, "export each unit around the cursor")
	fs.BoolVar(&f.applyModifiers, "apply-modifiers", false, "apply modifiers on export")
	fs.BoolVar(&f.applyAnimations, "apply-animations", false, "bake animation on export")
}

// settings resolves the configured settings with every flag the user set.
func (f *settingsFlags) settings(cmd *cobra.Command, op *operator.Operator) (exporter.Settings, error) {
	ov := f.ov
	fs := cmd.Flags()
	if fs.Changed("local-origins") {
		ov.LocalOrigins = &f.localOrigins
	}
	if fs.Changed("apply-modifiers") {
		ov.ApplyModifiers = &f.applyModifiers
	}
	if fs.Changed("apply-animations") {
		ov.ApplyAnimations = &f.applyAnimations
	}
	return op.SettingsWith(ov)
}
