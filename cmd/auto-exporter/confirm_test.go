package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wildstar-studios/auto-exporter/internal/config"
	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

func withConfirmEnv(t *testing.T, confirmOn, tty bool) {
	t.Helper()
	prevCfg, prevTTY := cfg, interactive
	cfg = &config.Config{Export: config.ExportConfig{Confirm: confirmOn}}
	interactive = func() bool { return tty }
	t.Cleanup(func() { cfg, interactive = prevCfg, prevTTY })
}

func TestConfirm_NoTerminalRefuses(t *testing.T) {
	withConfirmEnv(t, true, false)
	_, err := confirm(false, tui.NewConfirm("Delete?", []string{"a.fbx"}))
	assert.ErrorIs(t, err, errNoTerminal)
	assert.NotErrorIs(t, err, errNotConfirmed)
}

func TestConfirm_YesSkipsPrompt(t *testing.T) {
	withConfirmEnv(t, true, false)
	_, err := confirm(true, tui.NewConfirm("Delete?", nil))
	assert.NoError(t, err)
}

func TestConfirm_DisabledInConfig(t *testing.T) {
	withConfirmEnv(t, false, false)
	_, err := confirm(false, tui.NewConfirm("Delete?", nil))
	assert.NoError(t, err)
}
