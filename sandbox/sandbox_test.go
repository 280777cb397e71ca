package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newFixture lays out a minimal source checkout, project shields tree
// and project config for provisioning tests.
func newFixture(t *testing.T) (sourceDir, shieldsDir, configDir string) {
	t.Helper()
	base := t.TempDir()
	sourceDir = filepath.Join(base, "zmk")
	shieldsDir = filepath.Join(base, "boards", "shields")
	configDir = filepath.Join(base, "config")

	reset := filepath.Join(sourceDir, "app", "boards", "shields", "settings_reset")
	require.NoError(t, os.MkdirAll(reset, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "app", "CMakeLists.txt"), []byte("project(app)\n"), 0o644))
	resetOverlay := "kscan0: kscan {\n\trows = <>;\n\tevents = <>;\n};\n"
	require.NoError(t, os.WriteFile(filepath.Join(reset, "settings_reset.overlay"), []byte(resetOverlay), 0o644))

	demo := filepath.Join(shieldsDir, "demo")
	require.NoError(t, os.MkdirAll(demo, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(demo, "demo_left.overlay"), []byte("&kscan0 { };\n"), 0o644))
	dongle := filepath.Join(shieldsDir, "dongle")
	require.NoError(t, os.MkdirAll(dongle, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dongle, "dongle.overlay"), []byte("&spi0 { pmw3610@0 { }; };\n"), 0o644))

	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "qwerty.keymap"), []byte("keymap qwerty\n"), 0o644))

	return sourceDir, shieldsDir, configDir
}

func TestOpenStandardShield(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)

	sb, err := m.Open("demo")
	require.NoError(t, err)

	require.Equal(t, "demo", sb.Shield)
	require.FileExists(t, filepath.Join(sb.AppDir(), "CMakeLists.txt"))
	require.FileExists(t, filepath.Join(sb.ConfigDir(), "qwerty.keymap"))
	require.Equal(t, filepath.Join(sb.ShieldsDir(), "demo"), sb.ShieldDir())

	// The whole project shields tree is installed, not just the
	// requested shield.
	require.FileExists(t, filepath.Join(sb.ShieldsDir(), "demo", "demo_left.overlay"))
	require.FileExists(t, filepath.Join(sb.ShieldsDir(), "dongle", "dongle.overlay"))

	require.NoError(t, sb.Close())
	require.NoDirExists(t, sb.Root)
}

func TestOpenResetShield(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)

	sb, err := m.Open("settings_reset")
	require.NoError(t, err)
	defer sb.Close()

	// Only the upstream reset shield is installed.
	dirents, err := os.ReadDir(sb.ShieldsDir())
	require.NoError(t, err)
	require.Len(t, dirents, 1)
	require.Equal(t, "settings_reset", dirents[0].Name())

	data, err := os.ReadFile(filepath.Join(sb.ShieldDir(), "settings_reset.overlay"))
	require.NoError(t, err)
	require.Contains(t, string(data), "rows = <1>;")
	require.Contains(t, string(data), "events = <0>;")
	require.NotContains(t, string(data), "<>")
}

func TestOpenReplacesConfig(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)

	// A config directory left over inside the source tree must not
	// survive provisioning.
	stale := filepath.Join(sourceDir, "app-config")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "stale.keymap"), []byte("stale\n"), 0o644))

	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)
	sb, err := m.Open("demo")
	require.NoError(t, err)
	defer sb.Close()

	require.NoFileExists(t, filepath.Join(sb.ConfigDir(), "stale.keymap"))
	require.FileExists(t, filepath.Join(sb.ConfigDir(), "qwerty.keymap"))
}

func TestInstallKeymap(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)

	sb, err := m.Open("demo")
	require.NoError(t, err)
	defer sb.Close()

	// Corrupt the sandbox copy to prove the install reads the pristine
	// project file.
	require.NoError(t, os.WriteFile(filepath.Join(sb.ConfigDir(), "qwerty.keymap"), []byte("corrupted\n"), 0o644))

	require.NoError(t, sb.InstallKeymap("qwerty"))

	data, err := os.ReadFile(filepath.Join(sb.ConfigDir(), "demo.keymap"))
	require.NoError(t, err)
	require.Equal(t, "keymap qwerty\n", string(data))
}

func TestInstallKeymapMissing(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)

	sb, err := m.Open("demo")
	require.NoError(t, err)
	defer sb.Close()

	require.Error(t, sb.InstallKeymap("no_such_keymap"))
}

func TestOverlaysContain(t *testing.T) {
	sourceDir, shieldsDir, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, configDir)

	demo, err := m.Open("demo")
	require.NoError(t, err)
	defer demo.Close()

	found, err := demo.OverlaysContain("pmw3610")
	require.NoError(t, err)
	require.False(t, found)

	dongle, err := m.Open("dongle")
	require.NoError(t, err)
	defer dongle.Close()

	found, err = dongle.OverlaysContain("pmw3610")
	require.NoError(t, err)
	require.True(t, found)
}

func TestOpenFailureRemovesPartialSandbox(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	sourceDir, shieldsDir, _ := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, shieldsDir, filepath.Join(t.TempDir(), "missing-config"))

	_, err := m.Open("demo")
	require.Error(t, err)

	dirents, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, dirents)
}

func TestOpenMissingShieldsDir(t *testing.T) {
	sourceDir, _, configDir := newFixture(t)
	m := NewManager(zerolog.Nop(), sourceDir, filepath.Join(t.TempDir(), "missing-shields"), configDir)

	_, err := m.Open("demo")
	require.Error(t, err)
}
