package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

const defaultRetentionDays = 14

// Writer persists scoreboard snapshots and the manifest, pruning days that
// fall outside the retention window.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time

	mu sync.Mutex
}

// NewWriter constructs a writer rooted at basePath. Non-positive retention
// falls back to two weeks.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteScoreboard stores the board under its date. Unchanged boards only touch the manifest.
func (w *Writer) WriteScoreboard(board Scoreboard) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if strings.TrimSpace(w.basePath) == "" {
		return errors.New("snapshot directory required")
	}
	if _, err := timeutil.ParseDate(board.Date); err != nil {
		return err
	}
	board.sort()

	w.mu.Lock()
	defer w.mu.Unlock()

	target := ScoreboardPath(w.basePath, board.Date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scoreboard: %w", err)
	}
	if existing, err := os.ReadFile(target); err != nil || !bytes.Equal(existing, data) {
		if err := writeAtomic(target, data); err != nil {
			return fmt.Errorf("write scoreboard %s: %w", board.Date, err)
		}
	}
	return w.updateManifest(board.Date)
}

// Manifest returns the manifest on disk, or an empty one when none was written yet.
func (w *Writer) Manifest() (Manifest, error) {
	m, err := readManifest(ManifestPath(w.basePath), w.retentionDays)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	return m, err
}

func (w *Writer) updateManifest(date string) error {
	m, _ := readManifest(ManifestPath(w.basePath), w.retentionDays)
	now := w.now().UTC()

	dates, err := w.listDates()
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
		sort.Strings(dates)
	}

	m.Scoreboards.Dates = w.prune(dates, now)
	m.Scoreboards.LastWritten = now
	m.Retention.Days = w.retentionDays
	return writeManifest(w.basePath, m, now)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

// listDates returns the days with a scoreboard file, ascending.
func (w *Writer) listDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, scoreboardDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

// prune removes scoreboards older than the retention window. Files whose name
// is not a date are left alone.
func (w *Writer) prune(dates []string, now time.Time) []string {
	cutoff := timeutil.StartOfDay(now).AddDate(0, 0, -w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			_ = os.Remove(ScoreboardPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	return keep
}
