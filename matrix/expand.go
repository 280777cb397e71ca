package matrix

// This file contains the expansion step that turns one matrix entry,
// board and shield into concrete build jobs. Target discovery is the
// only part that touches the filesystem; the cartesian product itself
// is a pure function over its inputs.

import (
	"fmt"
	"os"
	"strings"

	"github.com/zmkbuild/zmkbuild/model"
)

// Skip is a diagnostic for a shield that expansion decided not to build.
// The run continues; the reason surfaces as a warning.
type Skip struct {
	Shield string
	Reason string
}

// DiscoverTargets lists the build targets of a shield directory: every
// regular file directly inside it whose name ends in the overlay suffix,
// identified by the filename without the suffix, in directory order.
// Files in subdirectories do not count.
func DiscoverTargets(shieldDir string) ([]string, error) {
	dirents, err := os.ReadDir(shieldDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list shield directory %s: %w", shieldDir, err)
	}
	var targets []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), model.OverlaySuffix) {
			continue
		}
		targets = append(targets, strings.TrimSuffix(d.Name(), model.OverlaySuffix))
	}
	return targets, nil
}

// ExpandShield produces the jobs for one (entry, board, shield)
// iteration from the targets discovered in the shield's directory.
//
// The reset shield yields exactly one keymap-less job per target. Any
// other shield yields the target x keymap product, targets outermost.
// A shield with no targets, or a non-reset shield on an entry with no
// keymaps, yields a skip diagnostic instead of jobs.
func ExpandShield(entry model.BuildEntry, board, shield string, targets []string) ([]model.Job, []Skip) {
	if len(targets) == 0 {
		return nil, []Skip{{Shield: shield, Reason: "no build targets found"}}
	}
	if model.IsReset(shield) {
		jobs := make([]model.Job, 0, len(targets))
		for _, target := range targets {
			jobs = append(jobs, model.Job{
				Board:   board,
				Shield:  shield,
				Target:  target,
				Format:  entry.Format,
				Snippet: entry.Snippet,
			})
		}
		return jobs, nil
	}
	if len(entry.Keymaps) == 0 {
		return nil, []Skip{{Shield: shield, Reason: "no keymaps configured"}}
	}
	jobs := make([]model.Job, 0, len(targets)*len(entry.Keymaps))
	for _, target := range targets {
		for _, keymap := range entry.Keymaps {
			jobs = append(jobs, model.Job{
				Board:   board,
				Shield:  shield,
				Target:  target,
				Keymap:  keymap,
				Format:  entry.Format,
				Snippet: entry.Snippet,
			})
		}
	}
	return jobs, nil
}
