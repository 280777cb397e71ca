package cli

// This file contains the configuration surface shared by the build and
// matrix commands: flags, their environment variables and the resolved
// run configuration.

import (
	"github.com/urfave/cli/v2"

	"github.com/zmkbuild/zmkbuild/cli/west"
)

// Config is the resolved configuration of one run.
type Config struct {
	// Matrix is the build matrix document.
	Matrix string
	// SourceDir is the firmware source checkout copied into sandboxes.
	SourceDir string
	// ShieldsDir is the project's shield definitions directory.
	ShieldsDir string
	// ConfigDir is the project's config directory (keymaps, conf files).
	ConfigDir string
	// OutputDir is the publish root for built firmware.
	OutputDir string
	// FallbackExt is checked when no primary artifact is produced.
	FallbackExt string
	// USBLogging toggles the USB logging snippet on every job.
	USBLogging bool
	// PointerModule is the module path added for shields that use the
	// pointer driver.
	PointerModule string
}

func matrixFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "matrix",
		Aliases: []string{"m"},
		Usage:   "Build matrix file to expand",
		Value:   "build.yaml",
		EnvVars: []string{"ZMK_BUILD_MATRIX"},
	}
}

func sourceDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source-dir",
		Usage:   "ZMK source checkout copied into every sandbox",
		Value:   "zmk",
		EnvVars: []string{"ZMK_SRC_DIR"},
	}
}

func shieldsDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "shields-dir",
		Usage:   "Project shield definitions directory",
		Value:   "boards/shields",
		EnvVars: []string{"ZMK_SHIELDS_DIR"},
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Usage:   "Project config directory holding keymaps and conf files",
		Value:   "config",
		EnvVars: []string{"ZMK_CONFIG_DIR"},
	}
}

func outputDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"o"},
		Usage:   "Directory the built firmware is published to",
		Value:   "firmwares",
		EnvVars: []string{"ZMK_OUTPUT_DIR"},
	}
}

func fallbackExtFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "fallback-ext",
		Usage:   "Artifact extension checked when no uf2 is produced",
		Value:   "bin",
		EnvVars: []string{"ZMK_FALLBACK_EXT"},
	}
}

func pointerModuleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "pointer-module",
		Usage:   "Extra module path for shields using the pointer driver",
		Value:   "zmk-pmw3610-driver",
		EnvVars: []string{"ZMK_POINTER_MODULE"},
	}
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		matrixFlag(),
		sourceDirFlag(),
		shieldsDirFlag(),
		configDirFlag(),
		outputDirFlag(),
		fallbackExtFlag(),
		pointerModuleFlag(),
		west.USBLoggingFlag(),
	}
}

func configFromContext(ctx *cli.Context) Config {
	return Config{
		Matrix:        ctx.String("matrix"),
		SourceDir:     ctx.String("source-dir"),
		ShieldsDir:    ctx.String("shields-dir"),
		ConfigDir:     ctx.String("config-dir"),
		OutputDir:     ctx.String("output-dir"),
		FallbackExt:   ctx.String("fallback-ext"),
		USBLogging:    ctx.Bool("usb-logging"),
		PointerModule: ctx.String("pointer-module"),
	}
}
