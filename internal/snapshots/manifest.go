package snapshots

import (
	"encoding/json"
	"os"
	"time"
)

const manifestVersion = 1

// Manifest tracks which days have a scoreboard on disk.
type Manifest struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Retention   Retention       `json:"retention"`
	Scoreboards ScoreboardsMeta `json:"scoreboards"`
}

// Retention is the rolling window applied on every write.
type Retention struct {
	Days int `json:"days"`
}

// ScoreboardsMeta lists the stored days in ascending order.
type ScoreboardsMeta struct {
	Dates       []string  `json:"dates"`
	LastWritten time.Time `json:"lastWritten"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:     manifestVersion,
		Retention:   Retention{Days: retentionDays},
		Scoreboards: ScoreboardsMeta{Dates: []string{}},
	}
}

// readManifest falls back to an empty manifest when the file is missing or corrupt.
func readManifest(path string, retentionDays int) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return defaultManifest(retentionDays), err
	}
	if m.Scoreboards.Dates == nil {
		m.Scoreboards.Dates = []string{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.Version = manifestVersion
	m.GeneratedAt = now.UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(ManifestPath(basePath), data)
}

// writeAtomic replaces path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
