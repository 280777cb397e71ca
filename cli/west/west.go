package west

// west.go contains utilities for building west build commands, the
// external firmware compilation step the matrix orchestrator wraps.

import (
	"fmt"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/urfave/cli/v2"
)

// USBLoggingSnippet enables USB console logging in the compiled firmware.
const USBLoggingSnippet = "zmk-usb-logging"

// BuildOptions contains options for one west build invocation.
type BuildOptions struct {
	SourceDir    string   // Application subtree to compile (-s)
	BuildDir     string   // Fresh build output directory (-d)
	Board        string   // Board identifier (-b)
	Snippets     []string // Snippet selectors (-S), in order
	ConfigDir    string   // Config directory definition (-DZMK_CONFIG)
	Shield       string   // Shield target definition (-DSHIELD)
	ExtraModules []string // Extra module roots (-DZMK_EXTRA_MODULES)
}

// BuildArgs builds west build command arguments. Every invocation is
// pristine: -p forces a clean build directory so no state survives from
// a previous job.
func BuildArgs(opts BuildOptions) []string {
	args := []string{"build", "-p", "-s", opts.SourceDir, "-d", opts.BuildDir, "-b", opts.Board}

	for _, snippet := range opts.Snippets {
		args = append(args, "-S", snippet)
	}

	// Everything after the separator goes to the underlying build
	// system as preprocessor definitions.
	args = append(args, "--", fmt.Sprintf("-DZMK_CONFIG=%s", opts.ConfigDir), fmt.Sprintf("-DSHIELD=%s", opts.Shield))
	if len(opts.ExtraModules) > 0 {
		args = append(args, fmt.Sprintf("-DZMK_EXTRA_MODULES=%s", strings.Join(opts.ExtraModules, ";")))
	}

	return args
}

// Command returns the runnable west build command for opts.
func Command(opts BuildOptions) *exec.Cmd {
	return exec.Command("west", BuildArgs(opts)...)
}

// BuildCommandLine renders the invocation as a copy-pasteable shell
// string for logging.
func BuildCommandLine(opts BuildOptions) string {
	args := BuildArgs(opts)

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, "west")
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}

	return strings.Join(parts, " ")
}

// USBLoggingFlag returns the flag toggling the USB logging snippet.
func USBLoggingFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "usb-logging",
		Usage:   "Enable USB logging in the built firmware",
		EnvVars: []string{"ZMK_USB_LOGGING"},
	}
}
