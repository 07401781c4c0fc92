package operator

import (
	"fmt"
	"strings"

	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
)

// Overrides are per-call adjustments to the configured export settings.
// Empty strings and nil pointers leave the setting unchanged.
type Overrides struct {
	Path            string `json:"path,omitempty"`
	Scope           string `json:"scope,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Format          string `json:"format,omitempty"`
	UpAxis          string `json:"up_axis,omitempty"`
	SelectedType    string `json:"selected_type,omitempty"`
	SkBehavior      string `json:"sk_behavior,omitempty"`
	LocalOrigins    *bool  `json:"local_origins,omitempty"`
	ApplyModifiers  *bool  `json:"apply_modifiers,omitempty"`
	ApplyAnimations *bool  `json:"apply_animations,omitempty"`
}

// Apply validates o and writes it over s.
func (o Overrides) Apply(s *exporter.Settings) error {
	if o.Path != "" {
		s.ExportPath = o.Path
	}
	if o.Scope != "" {
		v := models.ExportScope(norm(o.Scope))
		if !v.IsValid() {
			return fmt.Errorf("invalid scope %q", o.Scope)
		}
		s.Scope = v
	}
	if o.Mode != "" {
		v := models.ExportMode(norm(o.Mode))
		if !v.IsValid() {
			return fmt.Errorf("invalid mode %q", o.Mode)
		}
		s.Mode = v
	}
	if o.Format != "" {
		v := models.ParseFormat(o.Format)
		if !v.IsValid() {
			return fmt.Errorf("invalid format %q", o.Format)
		}
		s.Format = v
	}
	if o.UpAxis != "" {
		v := models.UpAxis(strings.ToUpper(strings.TrimSpace(o.UpAxis)))
		if !v.IsValid() {
			return fmt.Errorf("invalid up axis %q", o.UpAxis)
		}
		s.UpAxis = v
	}
	if o.SelectedType != "" {
		v := models.SelectedType(norm(o.SelectedType))
		if !v.IsValid() {
			return fmt.Errorf("invalid selected type %q", o.SelectedType)
		}
		s.SelectedType = v
	}
	if o.SkBehavior != "" {
		v := models.SkBehavior(norm(o.SkBehavior))
		if !v.IsValid() {
			return fmt.Errorf("invalid sk behavior %q", o.SkBehavior)
		}
		s.SkBehavior = v
	}
	if o.LocalOrigins != nil {
		s.LocalOrigins = *o.LocalOrigins
	}
	if o.ApplyModifiers != nil {
		s.ApplyModifiers = *o.ApplyModifiers
	}
	if o.ApplyAnimations != nil {
		s.ApplyAnimations = *o.ApplyAnimations
	}
	return nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// SettingsWith returns the configured settings with o applied.
func (o *Operator) SettingsWith(ov Overrides) (exporter.Settings, error) {
	s := o.Settings()
	if err := ov.Apply(&s); err != nil {
		return s, err
	}
	return s, nil
}
