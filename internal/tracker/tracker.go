package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wildstar-studios/auto-exporter/internal/models"
)

// Tracker reads and writes one ledger file.
type Tracker struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
	remove func(string) error
}

// New creates a tracker for the ledger at path.
func New(path string, logger *slog.Logger) *Tracker {
	return &Tracker{
		path:   path,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		remove: os.Remove,
	}
}

// Path returns the ledger file location.
func (t *Tracker) Path() string { return t.path }

// Load reads the ledger. A missing file is an empty ledger. An unreadable or
// undecodable file also yields an empty ledger, together with an error the
// caller may log.
func (t *Tracker) Load() (Ledger, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Ledger{}, nil
		}
		return Ledger{}, fmt.Errorf("reading ledger %s: %w", t.path, err)
	}
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return Ledger{}, fmt.Errorf("%w: %s: %v", ErrCorruptLedger, t.path, err)
	}
	if l == nil {
		l = Ledger{}
	}
	return l, nil
}

// load degrades every read failure to an empty ledger.
func (t *Tracker) load() Ledger {
	l, err := t.Load()
	if err != nil {
		t.logger.Warn("tracking ledger unreadable, treating as empty", "path", t.path, "error", err)
	}
	return l
}

// Save writes the ledger through a temp file and rename so readers never see
// a partial document.
func (t *Tracker) Save(l Ledger) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Record stores files as the latest export for key and appends a history
// entry, keeping the most recent historyLimit entries.
func (t *Tracker) Record(key string, files []string, meta Meta) (*Record, error) {
	l := t.load()

	rec := Record{
		RunID:      uuid.New().String(),
		Timestamp:  t.now(),
		Files:      cleanPaths(files),
		SourceFile: meta.SourceFile,
		Format:     meta.Format,
		Scope:      meta.Scope,
		Mode:       meta.Mode,
		ExportPath: meta.ExportPath,
	}

	e := l[key]
	if e == nil {
		e = &Entry{}
		l[key] = e
	}
	last := rec
	e.LastExport = &last

	hist := rec
	hist.Files = slices.Clone(rec.Files)
	hist.SourceFile = ""
	hist.ExportPath = ""
	e.History = append(e.History, hist)
	if n := len(e.History); n > historyLimit {
		e.History = e.History[n-historyLimit:]
	}

	if err := t.Save(l); err != nil {
		return nil, err
	}
	t.logger.Debug("tracking updated", "key", key, "files", len(rec.Files))
	return &last, nil
}

// FindOrphans lists files with a supported export extension that live under
// a tracked export directory but are not part of any key's last export.
func (t *Tracker) FindOrphans(ctx context.Context) ([]string, error) {
	return t.findOrphans(ctx, t.load())
}

func (t *Tracker) findOrphans(ctx context.Context, l Ledger) ([]string, error) {
	tracked := make(map[string]bool)
	dirSet := make(map[string]bool)
	for key, e := range l {
		if e == nil || e.LastExport == nil {
			continue
		}
		for _, f := range e.LastExport.Files {
			tracked[filepath.Clean(f)] = true
		}
		if d := exportDir(key, e); d != "" {
			dirSet[filepath.Clean(d)] = true
		}
	}
	dirs := sortedKeys(dirSet)
	self := absClean(t.path)

	found := make([][]string, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			files, err := t.scanExports(gctx, dir, self)
			found[i] = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var orphans []string
	for _, files := range found {
		for _, f := range files {
			if seen[f] || tracked[f] {
				continue
			}
			seen[f] = true
			orphans = append(orphans, f)
		}
	}
	slices.Sort(orphans)
	return orphans, nil
}

// scanExports walks dir and returns every file with an export extension,
// skipping the ledger itself. A missing dir yields nothing.
func (t *Tracker) scanExports(ctx context.Context, dir, self string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat export dir %s: %w", dir, err)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			t.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !models.IsExportExtension(filepath.Ext(path)) {
			return nil
		}
		p := filepath.Clean(path)
		if absClean(p) == self {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

// FileFailure is a path that could not be removed.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// CleanupReport summarizes an orphan cleanup.
type CleanupReport struct {
	Deleted     []string      `json:"deleted"`
	Failed      []FileFailure `json:"failed,omitempty"`
	RemovedDirs []string      `json:"removed_dirs,omitempty"`
	// Skipped lists requested files that were no longer orphans.
	Skipped []string `json:"skipped,omitempty"`
}

// DeleteOrphans removes every orphan best-effort, then drops deleted or
// missing files from the ledger. With removeEmptyDirs it also prunes empty
// subdirectories of each tracked export directory. A ledger write failure is
// returned together with the report.
func (t *Tracker) DeleteOrphans(ctx context.Context, removeEmptyDirs bool) (*CleanupReport, error) {
	return t.deleteOrphans(ctx, nil, removeEmptyDirs)
}

// DeleteListed is DeleteOrphans restricted to files, typically the list a
// user confirmed. Orphans are re-checked first: listed files that are
// tracked again or already gone are reported as skipped, and orphans that
// were not listed are left alone.
func (t *Tracker) DeleteListed(ctx context.Context, files []string, removeEmptyDirs bool) (*CleanupReport, error) {
	allow := make(map[string]bool, len(files))
	for _, f := range files {
		allow[filepath.Clean(f)] = true
	}
	return t.deleteOrphans(ctx, allow, removeEmptyDirs)
}

// deleteOrphans deletes current orphans; a non-nil allow limits the set.
func (t *Tracker) deleteOrphans(ctx context.Context, allow map[string]bool, removeEmptyDirs bool) (*CleanupReport, error) {
	l := t.load()
	orphans, err := t.findOrphans(ctx, l)
	if err != nil {
		return nil, err
	}

	report := &CleanupReport{Deleted: []string{}}
	if allow != nil {
		current := make(map[string]bool, len(orphans))
		var listed []string
		for _, f := range orphans {
			current[f] = true
			if allow[f] {
				listed = append(listed, f)
			}
		}
		for f := range allow {
			if !current[f] {
				report.Skipped = append(report.Skipped, f)
			}
		}
		slices.Sort(report.Skipped)
		orphans = listed
	}

	deleted := make(map[string]bool, len(orphans))
	for _, f := range orphans {
		if err := t.remove(f); err != nil {
			t.logger.Error("deleting orphaned file", "path", f, "error", err)
			report.Failed = append(report.Failed, FileFailure{Path: f, Error: err.Error()})
			continue
		}
		t.logger.Info("deleted orphaned file", "path", f)
		deleted[f] = true
		report.Deleted = append(report.Deleted, f)
	}

	if removeEmptyDirs {
		for key, e := range l {
			if d := exportDir(key, e); d != "" {
				report.RemovedDirs = append(report.RemovedDirs, t.removeEmptyDirs(filepath.Clean(d))...)
			}
		}
		slices.Sort(report.RemovedDirs)
		report.RemovedDirs = slices.Compact(report.RemovedDirs)
	}

	keep := func(files []string) []string {
		out := make([]string, 0, len(files))
		for _, f := range files {
			c := filepath.Clean(f)
			if deleted[c] || !exists(c) {
				continue
			}
			out = append(out, f)
		}
		return out
	}
	for _, e := range l {
		if e == nil {
			continue
		}
		if e.LastExport != nil {
			e.LastExport.Files = keep(e.LastExport.Files)
		}
		for i := range e.History {
			e.History[i].Files = keep(e.History[i].Files)
		}
	}
	if err := t.Save(l); err != nil {
		t.logger.Error("saving ledger after cleanup", "path", t.path, "error", err)
		return report, err
	}
	return report, nil
}

// removeEmptyDirs deletes, deepest first, every directory under root that has
// no entries left. root itself is never removed.
func (t *Tracker) removeEmptyDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	slices.SortFunc(dirs, func(a, b string) int {
		if da, db := strings.Count(a, string(filepath.Separator)), strings.Count(b, string(filepath.Separator)); da != db {
			return db - da
		}
		return strings.Compare(b, a)
	})

	var removed []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			t.logger.Error("deleting empty folder", "path", dir, "error", err)
			continue
		}
		t.logger.Info("deleted empty folder", "path", dir)
		removed = append(removed, dir)
	}
	return removed
}

// Delete removes the ledger file. With regenerate set it writes a fresh
// template for meta afterwards. existed reports whether a file was removed.
func (t *Tracker) Delete(regenerate bool, meta Meta) (existed bool, err error) {
	if err := os.Remove(t.path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("deleting ledger: %w", err)
		}
	} else {
		existed = true
	}
	if regenerate {
		if err := t.GenerateTemplate(meta); err != nil {
			return existed, err
		}
	}
	return existed, nil
}

// GenerateTemplate replaces the ledger with an empty entry for meta's key.
func (t *Tracker) GenerateTemplate(meta Meta) error {
	l := Ledger{
		meta.Key(): {
			LastExport: &Record{
				Timestamp:         t.now(),
				Files:             []string{},
				SourceFile:        meta.SourceFile,
				Format:            meta.Format,
				Scope:             meta.Scope,
				Mode:              meta.Mode,
				ExportPath:        meta.ExportPath,
				TemplateGenerated: true,
			},
			History: []Record{},
		},
	}
	if err := t.Save(l); err != nil {
		return fmt.Errorf("generating ledger template: %w", err)
	}
	return nil
}

func cleanPaths(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Clean(f)
	}
	return out
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
