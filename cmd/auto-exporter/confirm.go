package main

import (
	"errors"
	"os"

	"github.com/wildstar-studios/auto-exporter/internal/tui"
)

var (
	errNotConfirmed = errors.New("not confirmed")
	errNoTerminal   = errors.New("confirmation needs a terminal; pass --yes to skip the prompt")
)

// confirm asks before a destructive operation unless skipped by --yes or
// export.confirm=false. Without a terminal it refuses rather than guessing.
func confirm(yes bool, m tui.ConfirmModel) (tui.ConfirmModel, error) {
	if yes || !cfg.Export.Confirm {
		return m, nil
	}
	if !interactive() {
		return m, errNoTerminal
	}
	final, err := tui.RunConfirm(m, os.Stdin, os.Stdout)
	if err != nil {
		return m, err
	}
	if !final.Confirmed() {
		return final, errNotConfirmed
	}
	return final, nil
}
