package planner

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/naming"
)

var (
	// ErrInvalidDirectory is returned when a -dir: override is not a safe
	// directory name.
	ErrInvalidDirectory = errors.New("invalid directory override")

	// ErrEmptyName is returned for units whose clean name is empty.
	ErrEmptyName = errors.New("unit has an empty name")
)

// Override returns the directory override that applies to u, or "".
// The unit's own -dir: wins; object units fall back to their parent's.
// Layer units never take an override.
func Override(u Unit) string {
	switch u.Kind {
	case UnitLayer:
		return ""
	case UnitObject:
		if u.Directives.HasDir() {
			return u.Directives.Dir
		}
		if u.ParentDirectives != nil {
			return u.ParentDirectives.Dir
		}
		return ""
	default:
		return u.Directives.Dir
	}
}

// ResolvePath returns the absolute destination of u under baseDir.
func ResolvePath(baseDir string, u Unit, format models.Format) (string, error) {
	if u.Name == "" {
		return "", fmt.Errorf("unit %q: %w", u.Key, ErrEmptyName)
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving export path %q: %w", baseDir, err)
	}
	dir := base
	if o := Override(u); o != "" {
		if err := naming.ValidateDirName(o); err != nil {
			return "", fmt.Errorf("unit %q: %w: %v", u.Key, ErrInvalidDirectory, err)
		}
		dir = filepath.Join(base, o)
	}
	return filepath.Join(dir, u.Name+format.Extension()), nil
}
