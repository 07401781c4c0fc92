// Package metrics provides application-level counters using stdlib expvar.
// Counters are served on /debug/vars by the HTTP API.
package metrics

import "expvar"

// Export counters.
var (
	RunsTotal      = expvar.NewInt("autoexport_runs_total")
	UnitsExported  = expvar.NewInt("autoexport_units_exported_total")
	UnitsFailed    = expvar.NewInt("autoexport_units_failed_total")
	UnitsSkipped   = expvar.NewInt("autoexport_units_skipped_total")
	OrphansDeleted = expvar.NewInt("autoexport_orphans_deleted_total")
	TrackingErrors = expvar.NewInt("autoexport_tracking_errors_total")
	WatchTriggers  = expvar.NewInt("autoexport_watch_triggers_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Add increments the given counter by n.
func Add(counter *expvar.Int, n int) { counter.Add(int64(n)) }
