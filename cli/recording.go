package cli

// This file contains run recording functionality for saving matrix run
// metadata to the history directory.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zmkbuild/zmkbuild/history"
	"github.com/zmkbuild/zmkbuild/model"
)

func (a *App) recordRun(manifest *model.Manifest) error {
	root, err := history.Root()
	if err != nil {
		return err
	}

	// Create directory in .zmkbuild/history/<timestamp>-<commit>-<id>
	timestamp := manifest.Timestamp.Format("20060102-150405")
	shortCommit := "none"
	if manifest.Git != nil && manifest.Git.Commit != "" {
		shortCommit = manifest.Git.Commit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
	}
	shortID := manifest.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	runName := fmt.Sprintf("%s-%s-%s", timestamp, shortCommit, shortID)
	runDir := filepath.Join(root, "history", runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, history.ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	a.logger.Debug().Str("dir", runDir).Str("id", manifest.ID).Msg("Recorded run")
	return nil
}
