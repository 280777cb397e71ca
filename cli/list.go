package cli

// This file contains the list command for displaying previous runs.

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/zmkbuild/zmkbuild/history"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	root, err := history.Root()
	if err != nil {
		return err
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		fmt.Println("No runs found")
		fmt.Printf("Runs are saved to %s/history/<timestamp>-<commit>-<id>/\n", root)
		return nil
	}

	entries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	total := len(entries)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	fmt.Printf("\n=== Runs (%d total) ===\n\n", total)

	for _, entry := range entries {
		m := entry.Manifest
		ok, failed, skipped := m.Counts()

		status := "✓"
		if failed > 0 {
			status = "✗"
		}

		shortID := m.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		fmt.Printf("%s  %s  [%s]  ok=%d failed=%d skipped=%d  id=%s\n",
			status,
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.Duration.Round(time.Millisecond),
			ok, failed, skipped,
			shortID)
		if len(m.Args) > 1 {
			fmt.Printf("   Args: %s\n", strings.Join(m.Args[1:], " "))
		}
		if m.Matrix != "" {
			fmt.Printf("   Matrix: %s\n", m.Matrix)
		}
		if m.Git != nil && m.Git.Commit != "" {
			shortCommit := m.Git.Commit
			if len(shortCommit) > 8 {
				shortCommit = shortCommit[:8]
			}
			fmt.Printf("   Commit: %s", shortCommit)
			if m.Git.Branch != "" {
				fmt.Printf(" (%s)", m.Git.Branch)
			}
			fmt.Println()
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	return nil
}
