package history

// This file contains shared history utilities for loading and parsing
// recorded matrix runs.

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zmkbuild/zmkbuild/model"
)

// Dirname is the state directory holding recorded runs, resolved
// relative to the repository root.
const Dirname = ".zmkbuild"

// ManifestFile is the per-run metadata filename.
const ManifestFile = "manifest.json"

type Entry struct {
	Manifest model.Manifest
	FullPath string
}

// Root returns the state directory path. It resolves against the git
// repository root when inside a checkout and falls back to the working
// directory otherwise.
func Root() (string, error) {
	base, err := repoRoot()
	if err != nil {
		if base, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	return filepath.Join(base, Dirname), nil
}

func repoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// LoadEntries loads every recorded run under root, newest first. Runs
// whose manifest cannot be parsed are skipped with a warning.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		manifestPath := filepath.Join(path, ManifestFile)
		if _, err := os.Stat(manifestPath); err != nil {
			return nil
		}
		manifest, err := parseManifest(manifestPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", manifestPath).Msg("Failed to parse manifest.json")
			return nil
		}

		entries = append(entries, Entry{
			Manifest: manifest,
			FullPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Manifest.Timestamp.After(entries[j].Manifest.Timestamp)
	})
	return entries, nil
}

func parseManifest(path string) (model.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Manifest{}, err
	}

	var manifest model.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return model.Manifest{}, err
	}

	return manifest, nil
}
