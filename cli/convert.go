package cli

// This file contains the convert command for rewriting keymap files
// between key layouts.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/zmkbuild/zmkbuild/keymap"
)

func (a *App) convert(ctx *cli.Context) error {
	if ctx.Bool("list-maps") {
		printAvailableMaps()
		return nil
	}

	inPath := ctx.String("in")
	if inPath == "" {
		return fmt.Errorf("missing required flag: --in")
	}

	mapSpec := ctx.String("map")
	all := ctx.Bool("all")
	switch {
	case mapSpec == "" && !all:
		return fmt.Errorf("one of --map or --all is required")
	case mapSpec != "" && all:
		return fmt.Errorf("--map and --all are mutually exclusive")
	}

	var mappings []keymap.Mapping
	if all {
		mappings = keymap.FromQwerty()
		if ctx.String("out") != "" {
			a.logger.Warn().Msg("--out is ignored with --all")
		}
	} else {
		src, dst, err := keymap.ParseSpec(mapSpec)
		if err != nil {
			printAvailableMaps()
			return err
		}
		m, ok := keymap.Lookup(src, dst)
		if !ok {
			printAvailableMaps()
			return fmt.Errorf("map %q not found", mapSpec)
		}
		mappings = []keymap.Mapping{m}
	}

	contents, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	inputDir := filepath.Dir(inPath)
	for _, m := range mappings {
		outPath := filepath.Join(inputDir, m.Dst+".keymap")
		if !all && ctx.String("out") != "" {
			outPath = ctx.String("out")
		}

		converted := m.Apply(string(contents))
		if err := os.WriteFile(outPath, []byte(converted), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		a.logger.Info().
			Str("map", m.Name()).
			Str("in", inPath).
			Str("out", outPath).
			Msg("Converted keymap")
	}

	return nil
}

func printAvailableMaps() {
	fmt.Println("Available maps:")

	grouped := map[string][]string{}
	var srcs []string
	for _, m := range keymap.All() {
		if _, ok := grouped[m.Src]; !ok {
			srcs = append(srcs, m.Src)
		}
		grouped[m.Src] = append(grouped[m.Src], m.Dst)
	}

	width := 0
	for _, src := range srcs {
		if len(src) > width {
			width = len(src)
		}
	}
	for _, src := range srcs {
		fmt.Printf("  %-*s -> %s\n", width, src, strings.Join(grouped[src], ", "))
	}
}
