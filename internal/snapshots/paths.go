package snapshots

import (
	"path/filepath"
)

const (
	scoreboardDir = "scoreboards"
	manifestName  = "manifest.json"
)

// ScoreboardPath builds the path of the scoreboard snapshot for a day.
func ScoreboardPath(basePath, date string) string {
	return filepath.Join(basePath, scoreboardDir, date+".json")
}

// ManifestPath builds the path of the snapshot manifest.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, manifestName)
}
