package sandbox

// This file contains the text patches applied to shield files during
// provisioning.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zmkbuild/zmkbuild/model"
)

// patch is one literal rewrite inside a provisioned shield file.
type patch struct {
	// File path relative to the shield directory.
	File    string
	Find    string
	Replace string
}

// provisionPatches lists the rewrites per shield. The reset shield's
// mock kscan declares zero-length cell arrays, which the toolchain
// rejects; both arrays get a single element.
var provisionPatches = map[string][]patch{
	model.ResetShield: {
		{File: "settings_reset.overlay", Find: "rows = <>;", Replace: "rows = <1>;"},
		{File: "settings_reset.overlay", Find: "events = <>;", Replace: "events = <0>;"},
	},
}

func applyPatches(logger zerolog.Logger, shieldDir, shield string) error {
	for _, p := range provisionPatches[shield] {
		path := filepath.Join(shieldDir, p.File)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s for patching: %w", path, err)
		}
		patched := strings.ReplaceAll(string(data), p.Find, p.Replace)
		if patched == string(data) {
			logger.Debug().Str("file", path).Str("find", p.Find).Msg("Patch matched nothing")
			continue
		}
		if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
			return fmt.Errorf("failed to write patched %s: %w", path, err)
		}
		logger.Debug().Str("file", path).Str("find", p.Find).Msg("Patched shield file")
	}
	return nil
}
