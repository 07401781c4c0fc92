package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstar-studios/auto-exporter/internal/config"
	"github.com/wildstar-studios/auto-exporter/internal/exporter"
	"github.com/wildstar-studios/auto-exporter/internal/models"
	"github.com/wildstar-studios/auto-exporter/internal/operator"
)

func testOperator(t *testing.T) *operator.Operator {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	c, err := config.LoadFile("")
	require.NoError(t, err)
	c.Export.LocalOrigins = true
	c.Export.ApplyModifiers = true
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return operator.New(c, exporter.NewManifestBackend(), logger)
}

func parse(t *testing.T, args ...string) (*cobra.Command, *settingsFlags) {
	t.Helper()
	var f settingsFlags
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &f
}

func TestSettingsFlags_UnsetKeepsConfig(t *testing.T) {
	op := testOperator(t)
	cmd, f := parse(t)
	s, err := f.settings(cmd, op)
	require.NoError(t, err)
	assert.Equal(t, op.Settings(), s)
}

func TestSettingsFlags_Overrides(t *testing.T) {
	op := testOperator(t)
	cmd, f := parse(t, "--path", "/tmp/out", "--scope", "object", "--format", "OBJ", "--up-axis", "z")
	s, err := f.settings(cmd, op)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", s.ExportPath)
	assert.Equal(t, models.ScopeObject, s.Scope)
	assert.Equal(t, models.FormatOBJ, s.Format)
	assert.Equal(t, models.UpZ, s.UpAxis)
}

func TestSettingsFlags_ExplicitFalse(t *testing.T) {
	op := testOperator(t)
	cmd, f := parse(t, "--local-origins=false", "--apply-modifiers=false")
	s, err := f.settings(cmd, op)
	require.NoError(t, err)
	assert.False(t, s.LocalOrigins)
	assert.False(t, s.ApplyModifiers)
	assert.Equal(t, op.Settings().ApplyAnimations, s.ApplyAnimations)
}

func TestSettingsFlags_Invalid(t *testing.T) {
	op := testOperator(t)
	cmd, f := parse(t, "--scope", "galaxy")
	_, err := f.settings(cmd, op)
	assert.ErrorContains(t, err, "invalid scope")
}
