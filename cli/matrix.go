package cli

// This file contains the matrix command: a dry expansion of the build
// matrix into its concrete jobs, without provisioning sandboxes or
// invoking any build.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/zmkbuild/zmkbuild/matrix"
	"github.com/zmkbuild/zmkbuild/model"
	"github.com/zmkbuild/zmkbuild/sandbox"
)

func (a *App) matrixPreview(ctx *cli.Context) error {
	cfg := configFromContext(ctx)

	entries, err := matrix.Read(a.logger, cfg.Matrix)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Format", "Board", "Shield", "Target", "Keymap", "Snippet"})

	total := 0
	for _, entry := range entries {
		for _, board := range entry.Boards {
			for _, shield := range entry.Shields {
				// The preview discovers targets from the project tree
				// directly; sandboxes would list the same overlays.
				targets, err := matrix.DiscoverTargets(shieldSourceDir(cfg, shield))
				if err != nil {
					a.logger.Warn().Err(err).Str("shield", shield).Msg("Skipping shield")
					continue
				}

				jobs, skips := matrix.ExpandShield(entry, board, shield, targets)
				for _, skip := range skips {
					a.logger.Warn().
						Str("shield", skip.Shield).
						Str("board", board).
						Str("reason", skip.Reason).
						Msg("Skipping shield")
				}
				for _, job := range jobs {
					tw.AppendRow(table.Row{
						job.Format,
						job.Board,
						job.Shield,
						job.Target,
						orDash(job.Keymap),
						orDash(job.Snippet),
					})
					total++
				}
			}
		}
	}

	tw.Render()
	fmt.Printf("%d jobs\n", total)
	return nil
}

func shieldSourceDir(cfg Config, shield string) string {
	if model.IsReset(shield) {
		return sandbox.UpstreamShieldDir(cfg.SourceDir, shield)
	}
	return filepath.Join(cfg.ShieldsDir, shield)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
