package game

import (
	"log/slog"

	"github.com/pthm-cable/cloth/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	stats := g.collector.Flush(g.frame, g.solver)
	perfStats := g.perfCollector.Stats()
	g.lastWindow = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current cloth to the snapshot directory, falling
// back to ./snapshots when none is configured.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) string {
	dir := g.snapshotDir
	if dir == "" {
		dir = "snapshots"
	}

	path, err := telemetry.SaveSnapshot(telemetry.Capture(g.solver, g.frame, bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return ""
	}

	slog.Info("snapshot saved", "path", path, "frame", g.frame)
	return path
}

// LastWindow returns the most recently flushed stats window.
func (g *Game) LastWindow() telemetry.WindowStats { return g.lastWindow }
