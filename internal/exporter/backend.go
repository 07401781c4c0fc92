package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/scene"
)

// Placement is the location of one unit member at export time.
type Placement struct {
	Name     string     `json:"name"`
	Location scene.Vec3 `json:"location"`
}

// Request is everything a format backend needs to write one unit.
type Request struct {
	Path           string        `json:"path"`
	Format         models.Format `json:"format"`
	Unit           string        `json:"unit"`
	Selection      []string      `json:"selection"`
	ApplyModifiers bool          `json:"apply_modifiers"`
	AxisForward    string        `json:"axis_forward"`
	AxisUp         models.UpAxis `json:"axis_up"`
	BakeAnimation  bool          `json:"bake_animation"`
	Locations      []Placement   `json:"locations"`
}

// Backend writes one unit to disk. Implementations either succeed or return
// an error; the runner treats every error as a per-unit failure.
type Backend interface {
	Export(ctx context.Context, req Request) error
}

// AxisForward returns the forward-axis convention for a format.
func AxisForward(f models.Format) string {
	if f == models.FormatFBX {
		return "Y"
	}
	return "-Z"
}

// ManifestBackend writes a JSON description of the request to the
// destination path instead of geometry.
type ManifestBackend struct {
	now func() time.Time
}

// NewManifestBackend creates a ManifestBackend.
func NewManifestBackend() *ManifestBackend {
	return &ManifestBackend{now: func() time.Time { return time.Now().UTC() }}
}

type manifest struct {
	Request
	GeneratedAt time.Time `json:"generated_at"`
}

// Export implements Backend.
func (b *ManifestBackend) Export(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(manifest{Request: req, GeneratedAt: b.now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(req.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ErrEmptyCommand is returned when a command backend has no argv.
var ErrEmptyCommand = errors.New("backend command is empty")

// CommandBackend runs an external program once per unit. Each argv element
// may contain the placeholders {path}, {format}, {unit}, {selection},
// {axis_forward}, {axis_up}, {apply_modifiers}, {bake_anim} and {locations}.
// {locations} expands to "name=x,y,z" pairs joined by ";".
type CommandBackend struct {
	argv   []string
	logger *slog.Logger
}

// NewCommandBackend creates a CommandBackend for argv.
func NewCommandBackend(argv []string, logger *slog.Logger) (*CommandBackend, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrEmptyCommand
	}
	return &CommandBackend{argv: argv, logger: logger}, nil
}

// Args returns argv with placeholders substituted for req.
func (b *CommandBackend) Args(req Request) []string {
	r := strings.NewReplacer(
		"{path}", req.Path,
		"{format}", string(req.Format),
		"{unit}", req.Unit,
		"{selection}", strings.Join(req.Selection, ","),
		"{axis_forward}", req.AxisForward,
		"{axis_up}", string(req.AxisUp),
		"{apply_modifiers}", strconv.FormatBool(req.ApplyModifiers),
		"{bake_anim}", strconv.FormatBool(req.BakeAnimation),
		"{locations}", formatLocations(req.Locations),
	)
	args := make([]string, len(b.argv))
	for i, a := range b.argv {
		args[i] = r.Replace(a)
	}
	return args
}

func formatLocations(ps []Placement) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s=%s,%s,%s", p.Name,
			strconv.FormatFloat(p.Location[0], 'g', -1, 64),
			strconv.FormatFloat(p.Location[1], 'g', -1, 64),
			strconv.FormatFloat(p.Location[2], 'g', -1, 64))
	}
	return strings.Join(parts, ";")
}

// Export implements Backend. Stderr is captured and attached to the error.
func (b *CommandBackend) Export(ctx context.Context, req Request) error {
	args := b.Args(req)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	b.logger.Debug("running backend command", "unit", req.Unit, "args", args)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderrBuf.String()); msg != "" {
			return fmt.Errorf("backend command: %w: %s", err, msg)
		}
		return fmt.Errorf("backend command: %w", err)
	}
	return nil
}
