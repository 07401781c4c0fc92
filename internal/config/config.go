package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wildstar-studios/auto-exporter/internal/models"
)

const (
	// DefaultSceneFilename is the name used for scene-scope exports.
	DefaultSceneFilename = "scene"

	// DefaultWatchDebounce is the quiet period after a save before auto export runs.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Backend kinds.
const (
	BackendManifest = "manifest"
	BackendCommand  = "command"
)

// Config holds all configuration for auto-exporter.
type Config struct {
	Export     ExportConfig     `mapstructure:"export"`
	Validation ValidationConfig `mapstructure:"validation"`
	Tracking   TrackingConfig   `mapstructure:"tracking"`
	Scene      SceneConfig      `mapstructure:"scene"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Watch      WatchConfig      `mapstructure:"watch"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	API        APIConfig        `mapstructure:"api"`
}

// ExportConfig holds the per-run export settings.
type ExportConfig struct {
	Path            string              `mapstructure:"path"`
	Scope           models.ExportScope  `mapstructure:"scope"`
	Mode            models.ExportMode   `mapstructure:"mode"`
	Format          models.Format       `mapstructure:"format"`
	UpAxis          models.UpAxis       `mapstructure:"up_axis"`
	SceneFilename   string              `mapstructure:"scene_filename"`
	SelectedType    models.SelectedType `mapstructure:"selected_type"`
	ApplyModifiers  bool                `mapstructure:"apply_modifiers"`
	ApplyAnimations bool                `mapstructure:"apply_animations"`
	LocalOrigins    bool                `mapstructure:"local_origins"`
	AutoOnSave      bool                `mapstructure:"auto_on_save"`
	Confirm         bool                `mapstructure:"confirm"` // ask before destructive operations
}

// ValidationConfig holds naming-directive validation settings.
type ValidationConfig struct {
	SkBehavior models.SkBehavior `mapstructure:"sk_behavior"`
}

// TrackingConfig holds ledger settings.
type TrackingConfig struct {
	Enabled  bool                 `mapstructure:"enabled"`
	Location models.TrackLocation `mapstructure:"location"`
	// SourceFile overrides the source path recorded in the scene snapshot.
	SourceFile string `mapstructure:"source_file"`
}

// SceneConfig points at the snapshot emitted by the host application.
type SceneConfig struct {
	Snapshot string `mapstructure:"snapshot"`
}

// BackendConfig selects how units are written.
type BackendConfig struct {
	Kind    string   `mapstructure:"kind"`
	Command []string `mapstructure:"command"`
}

// WatchConfig holds auto-export-on-save settings.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// String returns a safe representation of APIConfig with the token masked.
func (c APIConfig) String() string {
	return fmt.Sprintf("APIConfig{ListenAddr:%s, AuthToken:%s}", c.ListenAddr, maskToken(c.AuthToken))
}

// maskToken shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskToken(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// Load reads configuration from the default search path and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path, or from config.yaml in
// ~/.auto-exporter or the working directory when path is empty, then applies
// AUTO_EXPORTER_* environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("export.path", "")
	v.SetDefault("export.scope", string(models.ScopeParent))
	v.SetDefault("export.mode", string(models.ModeVisible))
	v.SetDefault("export.format", string(models.FormatFBX))
	v.SetDefault("export.up_axis", string(models.UpY))
	v.SetDefault("export.scene_filename", DefaultSceneFilename)
	v.SetDefault("export.selected_type", string(models.SelectedParent))
	v.SetDefault("export.apply_modifiers", true)
	v.SetDefault("export.apply_animations", false)
	v.SetDefault("export.local_origins", true)
	v.SetDefault("export.auto_on_save", false)
	v.SetDefault("export.confirm", true)

	v.SetDefault("validation.sk_behavior", string(models.SkBasic))

	v.SetDefault("tracking.enabled", true)
	v.SetDefault("tracking.location", string(models.TrackWithSource))
	v.SetDefault("tracking.source_file", "")

	v.SetDefault("scene.snapshot", "scene.json")

	v.SetDefault("backend.kind", BackendManifest)
	v.SetDefault("backend.command", []string{})

	v.SetDefault("watch.debounce", DefaultWatchDebounce)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir(), ".auto-exporter"))
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("AUTO_EXPORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK; use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Normalize lower-cases enum values so "FBX" and "Visible" are accepted.
func (c *Config) Normalize() {
	c.Export.Format = models.ParseFormat(string(c.Export.Format))
	c.Export.Scope = models.ExportScope(lower(string(c.Export.Scope)))
	c.Export.Mode = models.ExportMode(lower(string(c.Export.Mode)))
	c.Export.SelectedType = models.SelectedType(lower(string(c.Export.SelectedType)))
	c.Export.UpAxis = models.UpAxis(strings.ToUpper(strings.TrimSpace(string(c.Export.UpAxis))))
	c.Validation.SkBehavior = models.SkBehavior(lower(string(c.Validation.SkBehavior)))
	c.Tracking.Location = models.TrackLocation(lower(string(c.Tracking.Location)))
	c.Backend.Kind = lower(c.Backend.Kind)
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Validate checks that required configuration fields are set and consistent.
// An empty export.path is allowed here; export operations reject it.
func (c *Config) Validate() error {
	if !c.Export.Scope.IsValid() {
		return fmt.Errorf("export.scope %q is not one of scene, parent, layer, object", c.Export.Scope)
	}
	if !c.Export.Mode.IsValid() {
		return fmt.Errorf("export.mode %q is not one of all, visible, renderable", c.Export.Mode)
	}
	if !c.Export.Format.IsValid() {
		return fmt.Errorf("export.format %q is not supported", c.Export.Format)
	}
	if !c.Export.UpAxis.IsValid() {
		return fmt.Errorf("export.up_axis %q must be Y or Z", c.Export.UpAxis)
	}
	if !c.Export.SelectedType.IsValid() {
		return fmt.Errorf("export.selected_type %q must be parent or object", c.Export.SelectedType)
	}
	if strings.TrimSpace(c.Export.SceneFilename) == "" {
		return fmt.Errorf("export.scene_filename must not be empty")
	}
	if !c.Validation.SkBehavior.IsValid() {
		return fmt.Errorf("validation.sk_behavior %q must be basic or strict", c.Validation.SkBehavior)
	}
	if !c.Tracking.Location.IsValid() {
		return fmt.Errorf("tracking.location %q must be blend or export", c.Tracking.Location)
	}
	switch c.Backend.Kind {
	case BackendManifest:
	case BackendCommand:
		if len(c.Backend.Command) == 0 {
			return fmt.Errorf("backend.command must not be empty when backend.kind is command")
		}
	default:
		return fmt.Errorf("backend.kind %q must be manifest or command", c.Backend.Kind)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
