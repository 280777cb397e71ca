package west

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts BuildOptions
		want []string
	}{
		{
			name: "minimal",
			opts: BuildOptions{
				SourceDir: "/tmp/sb/app",
				BuildDir:  "/tmp/build",
				Board:     "nice_nano_v2",
				ConfigDir: "/tmp/sb/app-config",
				Shield:    "demo_left",
			},
			want: []string{
				"build", "-p",
				"-s", "/tmp/sb/app",
				"-d", "/tmp/build",
				"-b", "nice_nano_v2",
				"--",
				"-DZMK_CONFIG=/tmp/sb/app-config",
				"-DSHIELD=demo_left",
			},
		},
		{
			name: "snippets and extra modules",
			opts: BuildOptions{
				SourceDir:    "/tmp/sb/app",
				BuildDir:     "/tmp/build",
				Board:        "nice_nano_v2",
				Snippets:     []string{"studio-rpc-usb-uart", USBLoggingSnippet},
				ConfigDir:    "/tmp/sb/app-config",
				Shield:       "charybdis_right",
				ExtraModules: []string{"/tmp/modules/zmk-pmw3610-driver"},
			},
			want: []string{
				"build", "-p",
				"-s", "/tmp/sb/app",
				"-d", "/tmp/build",
				"-b", "nice_nano_v2",
				"-S", "studio-rpc-usb-uart",
				"-S", "zmk-usb-logging",
				"--",
				"-DZMK_CONFIG=/tmp/sb/app-config",
				"-DSHIELD=charybdis_right",
				"-DZMK_EXTRA_MODULES=/tmp/modules/zmk-pmw3610-driver",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BuildArgs(tt.opts))
		})
	}
}

func TestBuildCommandLine(t *testing.T) {
	opts := BuildOptions{
		SourceDir: "/tmp/my sandbox/app",
		BuildDir:  "/tmp/build",
		Board:     "nice_nano_v2",
		ConfigDir: "/tmp/my sandbox/app-config",
		Shield:    "demo_left",
	}
	line := BuildCommandLine(opts)
	require.Contains(t, line, "west build -p")
	require.Contains(t, line, "'/tmp/my sandbox/app'")
	require.Contains(t, line, "'-DZMK_CONFIG=/tmp/my sandbox/app-config'")
}

func TestCommand(t *testing.T) {
	opts := BuildOptions{
		SourceDir: "/tmp/sb/app",
		BuildDir:  "/tmp/build",
		Board:     "nice_nano_v2",
		ConfigDir: "/tmp/sb/app-config",
		Shield:    "demo_left",
	}
	cmd := Command(opts)
	require.Equal(t, BuildArgs(opts), cmd.Args[1:])
	require.Contains(t, cmd.Args[0], "west")
}
