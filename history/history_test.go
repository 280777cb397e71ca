package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zmkbuild/zmkbuild/model"
)

func writeRun(t *testing.T, root, name string, manifest model.Manifest) string {
	t.Helper()
	dir := filepath.Join(root, "history", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644))
	return dir
}

func TestLoadEntries(t *testing.T) {
	root := t.TempDir()

	older := writeRun(t, root, "20260101-120000-aaaa", model.Manifest{
		ID:        "aaaa",
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	newer := writeRun(t, root, "20260102-120000-bbbb", model.Manifest{
		ID:        "bbbb",
		Timestamp: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	})

	entries, err := LoadEntries(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "bbbb", entries[0].Manifest.ID)
	require.Equal(t, newer, entries[0].FullPath)
	require.Equal(t, "aaaa", entries[1].Manifest.ID)
	require.Equal(t, older, entries[1].FullPath)
}

func TestLoadEntriesSkipsCorruptManifest(t *testing.T) {
	root := t.TempDir()

	writeRun(t, root, "20260101-120000-aaaa", model.Manifest{ID: "aaaa", Timestamp: time.Now()})

	corrupt := filepath.Join(root, "history", "20260103-090000-cccc")
	require.NoError(t, os.MkdirAll(corrupt, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corrupt, ManifestFile), []byte("{nope"), 0o644))

	entries, err := LoadEntries(zerolog.Nop(), root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "aaaa", entries[0].Manifest.ID)
}

func TestLoadEntriesMissingRoot(t *testing.T) {
	_, err := LoadEntries(zerolog.Nop(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
