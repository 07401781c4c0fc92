// Package tracker persists the files produced by each export run and uses
// that ledger to find and remove orphaned exports.
package tracker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wildstar-studios/auto-exporter/internal/models"
)

const (
	// FileSuffix is appended to the source file stem to name the ledger.
	FileSuffix = ".export.track"

	// unsavedLedgerName is used when the source scene has never been saved.
	unsavedLedgerName = "unsaved_export.track"

	// historyLimit caps the history kept per settings key.
	historyLimit = 10
)

// ErrCorruptLedger is returned alongside an empty ledger when the file
// exists but cannot be decoded.
var ErrCorruptLedger = errors.New("corrupt tracking ledger")

// Record describes one export run.
type Record struct {
	RunID             string             `json:"run_id,omitempty"`
	Timestamp         time.Time          `json:"timestamp"`
	Files             []string           `json:"files"`
	SourceFile        string             `json:"source_file,omitempty"`
	Format            models.Format      `json:"format"`
	Scope             models.ExportScope `json:"scope"`
	Mode              models.ExportMode  `json:"mode"`
	ExportPath        string             `json:"export_path,omitempty"`
	TemplateGenerated bool               `json:"template_generated,omitempty"`
}

// Entry is the ledger state for one settings key.
type Entry struct {
	LastExport *Record  `json:"last_export,omitempty"`
	History    []Record `json:"history"`
}

// Ledger maps settings keys to their export records.
type Ledger map[string]*Entry

// Meta carries the settings an export run was made with.
type Meta struct {
	SourceFile string
	ExportPath string
	Format     models.Format
	Scope      models.ExportScope
	Mode       models.ExportMode
}

// Key returns the settings key for m.
func (m Meta) Key() string {
	return SettingsKey(m.ExportPath, m.Scope, m.Mode)
}

// SettingsKey builds the "export_path|scope|mode" ledger key.
func SettingsKey(exportPath string, scope models.ExportScope, mode models.ExportMode) string {
	return fmt.Sprintf("%s|%s|%s", exportPath, scope, mode)
}

// exportDir returns the directory a ledger entry tracks, falling back to the
// path component of the key.
func exportDir(key string, e *Entry) string {
	if e == nil || e.LastExport == nil {
		return ""
	}
	if e.LastExport.ExportPath != "" {
		return e.LastExport.ExportPath
	}
	dir, _, _ := strings.Cut(key, "|")
	return dir
}

// FilePath returns where the ledger lives for the given location setting.
// With TrackWithSource it sits next to the source file; with TrackInExport it
// sits in the export directory, falling back to the source location when no
// export directory is configured.
func FilePath(loc models.TrackLocation, sourceFile, exportPath string) string {
	if loc == models.TrackInExport && exportPath != "" {
		return filepath.Join(exportPath, sourceStem(sourceFile)+FileSuffix)
	}
	if sourceFile == "" {
		return filepath.Join(homeDir(), unsavedLedgerName)
	}
	return filepath.Join(filepath.Dir(sourceFile), sourceStem(sourceFile)+FileSuffix)
}

func sourceStem(sourceFile string) string {
	if sourceFile == "" {
		return "unsaved"
	}
	base := filepath.Base(sourceFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
