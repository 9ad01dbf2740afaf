package snapshots

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadManifestReturnsDefaultOnDecodeError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ManifestPath(dir), []byte("{bad json"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	m, err := readManifest(ManifestPath(dir), 5)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if m.Retention.Days != 5 || m.Scoreboards.Dates == nil {
		t.Fatalf("expected default manifest, got %+v", m)
	}
}

func TestWriteManifestFailsWhenPathMissing(t *testing.T) {
	err := writeManifest(filepath.Join("does-not-exist", "missing"), defaultManifest(3), time.Now())
	if err == nil {
		t.Fatalf("expected error when base path missing")
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	m := defaultManifest(4)
	m.Scoreboards.Dates = []string{"2024-02-29", "2024-03-01"}
	if err := writeManifest(dir, m, now); err != nil {
		t.Fatalf("expected manifest to be written, got %v", err)
	}
	got, err := readManifest(ManifestPath(dir), 0)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !got.GeneratedAt.Equal(now) || len(got.Scoreboards.Dates) != 2 {
		t.Fatalf("unexpected manifest %+v", got)
	}
	if _, err := os.Stat(ManifestPath(dir) + ".tmp"); err == nil {
		t.Fatalf("temp file should be renamed away")
	}
}
