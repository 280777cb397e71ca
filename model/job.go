package model

import (
	"fmt"
	"path/filepath"
)

// Job is one concrete build request produced by matrix expansion.
type Job struct {
	// Board identifier passed to the build (-b).
	Board string
	// Shield is the matrix-level shield name owning the sandbox.
	Shield string
	// Target is one buildable overlay identifier discovered inside the
	// shield directory (overlay filename without suffix).
	Target string
	// Keymap is the key-layout name merged into the sandbox config.
	// Empty only for the reset shield.
	Keymap string
	// Format and Snippet are inherited from the matrix entry.
	Format  string
	Snippet string
}

// formatDirs renames known format names to their publish directories.
// Unknown formats pass through unchanged.
var formatDirs = map[string]string{
	"bt":                "charybdis_bt",
	"standard_dongle":   "charybdis_dongle",
	"prospector_dongle": "charybdis_dongle_prospector",
}

// FormatDir returns the publish directory for a format name.
func FormatDir(format string) string {
	if dir, ok := formatDirs[format]; ok {
		return dir
	}
	return format
}

// PublishPath returns the canonical destination for the job's artifact.
// It is a pure function of the job identity and the artifact extension:
// identical inputs always collide on the same path.
//
//	<outputDir>/settings_reset.<ext>                     (reset shield)
//	<outputDir>/<formatDir>/<keymap>/<target>.<ext>      (otherwise)
//
// A job without a keymap publishes under "<shield>_no_keymap" in place of
// the keymap directory.
func (j Job) PublishPath(outputDir, ext string) string {
	if IsReset(j.Shield) {
		return filepath.Join(outputDir, fmt.Sprintf("%s.%s", ResetShield, ext))
	}
	dirSuffix := j.Keymap
	if dirSuffix == "" {
		dirSuffix = j.Shield + "_no_keymap"
	}
	return filepath.Join(outputDir, FormatDir(j.Format), dirSuffix, fmt.Sprintf("%s.%s", j.Target, ext))
}

// String identifies the job in logs and warnings.
func (j Job) String() string {
	if j.Keymap == "" {
		return fmt.Sprintf("%s/%s (%s)", j.Shield, j.Target, j.Board)
	}
	return fmt.Sprintf("%s/%s [%s] (%s)", j.Shield, j.Target, j.Keymap, j.Board)
}
