package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

// ErrNoSnapshot reports a day without a scoreboard on disk.
var ErrNoSnapshot = errors.New("no snapshot for date")

// FSStore loads scoreboard snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs a reader rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadScoreboard reads {basePath}/scoreboards/{date}.json.
func (s *FSStore) LoadScoreboard(date string) (Scoreboard, error) {
	if s == nil {
		return Scoreboard{}, errors.New("snapshot store not configured")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return Scoreboard{}, err
	}
	data, err := os.ReadFile(ScoreboardPath(s.basePath, date))
	if errors.Is(err, os.ErrNotExist) {
		return Scoreboard{}, fmt.Errorf("%w %s", ErrNoSnapshot, date)
	}
	if err != nil {
		return Scoreboard{}, err
	}
	var board Scoreboard
	if err := json.Unmarshal(data, &board); err != nil {
		return Scoreboard{}, fmt.Errorf("decode scoreboard %s: %w", date, err)
	}
	if board.Date == "" {
		board.Date = date
	}
	return board, nil
}

// Dates lists the days recorded in the manifest.
func (s *FSStore) Dates() ([]string, error) {
	if s == nil {
		return nil, errors.New("snapshot store not configured")
	}
	m, err := readManifest(ManifestPath(s.basePath), 0)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return m.Scoreboards.Dates, nil
}
