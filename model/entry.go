package model

// Fixed identifiers of the build matrix. The reset shield ships with the
// upstream source tree and is the only shield built without a keymap.
const (
	DefaultBoard  = "nice_nano_v2"
	DefaultFormat = "default"
	ResetShield   = "settings_reset"

	// OverlaySuffix marks the files inside a shield directory that define
	// build targets.
	OverlaySuffix = ".overlay"

	// PrimaryExt is the artifact extension checked first after a build.
	PrimaryExt = "uf2"
)

// BuildEntry is one normalized row of the build matrix. Scalar-or-list
// fields from the source document are already resolved to slices, and
// defaults are applied, by the matrix reader. Entries are immutable once
// read.
type BuildEntry struct {
	// Format groups artifacts into a publish subdirectory (e.g. "bt",
	// "standard_dongle"). Falls back to the entry name, then to
	// DefaultFormat.
	Format string
	// Snippet is an optional extra snippet selector passed to the build.
	Snippet string
	// Boards to build for. Defaults to [DefaultBoard].
	Boards []string
	// Shields to build. An entry without shields contributes no jobs.
	Shields []string
	// Keymaps to build. Required for every shield except ResetShield.
	Keymaps []string
}

// IsReset reports whether the named shield is the reset shield.
func IsReset(shield string) bool {
	return shield == ResetShield
}
