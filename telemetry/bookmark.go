package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstTear BookmarkType = "first_tear"
	BookmarkTearBurst BookmarkType = "tear_burst"
	BookmarkSevered   BookmarkType = "severed"
	BookmarkSettled   BookmarkType = "settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Frame       int32        `csv:"frame" json:"frame"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	torn              bool // a link has broken since the last reset
	peakLinks         int  // most links seen since the last severing
	settledWindowsRun int  // consecutive calm windows
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settle detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history. Called when the cloth is rebuilt.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstTear(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTearBurst(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSevered(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	// Settling looks at the window just added
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Links > bd.peakLinks {
		bd.peakLinks = stats.Links
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFirstTear(stats WindowStats) *Bookmark {
	if bd.torn || stats.Broken == 0 {
		return nil
	}
	bd.torn = true
	return &Bookmark{
		Type:        BookmarkFirstTear,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("First tear: %d links broke, max strain %.2f", stats.Broken, stats.StrainMax),
	}
}

func (bd *BookmarkDetector) checkTearBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Broken < 5 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Broken
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Broken) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkTearBurst,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("%d links broke, average %.1f per window", stats.Broken, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSevered(stats WindowStats) *Bookmark {
	if bd.peakLinks == 0 {
		return nil
	}
	if stats.Links*2 >= bd.peakLinks {
		return nil
	}

	// Reset the peak so the next halving triggers again
	oldPeak := bd.peakLinks
	bd.peakLinks = stats.Links

	return &Bookmark{
		Type:        BookmarkSevered,
		Frame:       stats.WindowEndFrame,
		Description: fmt.Sprintf("Links dropped from %d to %d", oldPeak, stats.Links),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Links == 0 || stats.Broken > 0 || stats.Erased > 0 {
		bd.settledWindowsRun = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	// Low variance of the mean strain over the last 4 windows
	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.StrainMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.StrainMean - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 1e-4 { // CV < 1%
		bd.settledWindowsRun++
	} else {
		bd.settledWindowsRun = 0
	}

	if bd.settledWindowsRun == 5 { // trigger exactly once per calm run
		return &Bookmark{
			Type:        BookmarkSettled,
			Frame:       stats.WindowEndFrame,
			Description: fmt.Sprintf("Cloth settled with %d links at mean strain %.3f", stats.Links, stats.StrainMean),
		}
	}
	return nil
}
