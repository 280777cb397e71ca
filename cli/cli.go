package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "zmkbuild"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Expand a build matrix into ZMK firmware artifacts",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "build",
		Usage:  "Build every job of the matrix and publish the firmware",
		Action: app.build,
		Flags:  buildFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "matrix",
		Usage:  "Preview the jobs the matrix expands to, without building",
		Action: app.matrixPreview,
		Flags:  buildFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "convert",
		Usage:  "Convert a keymap file between key layouts",
		Action: app.convert,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "map",
				Aliases: []string{"m"},
				Usage:   "Conversion to apply (e.g. qwerty->graphite or qwerty:graphite)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Convert using every available qwerty->* map",
			},
			&cli.StringFlag{
				Name:    "in",
				Aliases: []string{"i"},
				Usage:   "Path to the input .keymap file",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Path to write the converted .keymap file (default: alongside input)",
			},
			&cli.BoolFlag{
				Name:  "list-maps",
				Usage: "List available maps and exit",
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
