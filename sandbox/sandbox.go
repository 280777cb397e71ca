package sandbox

// This file contains the sandbox lifecycle: provisioning an isolated,
// disposable copy of the firmware source tree for one shield and
// tearing it down again once the shield's jobs are done.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zmkbuild/zmkbuild/model"
)

const (
	appSubdir     = "app"
	configSubdir  = "app-config"
	shieldsSubdir = "app-shields"
)

// Manager provisions sandboxes from a fixed set of source locations.
type Manager struct {
	logger zerolog.Logger

	// sourceDir is the firmware source checkout copied wholesale into
	// every sandbox.
	sourceDir string
	// shieldsDir is the project's shield definitions directory.
	shieldsDir string
	// configDir is the project's config directory (keymaps, conf files).
	configDir string
}

func NewManager(logger zerolog.Logger, sourceDir, shieldsDir, configDir string) *Manager {
	return &Manager{
		logger:     logger,
		sourceDir:  sourceDir,
		shieldsDir: shieldsDir,
		configDir:  configDir,
	}
}

// Sandbox is one isolated working copy, scoped to a single shield.
// Exactly one sandbox is live at a time; Close must run on every exit
// path so no directory tree is leaked.
type Sandbox struct {
	// Root is the uniquely allocated temporary directory.
	Root string
	// Shield this sandbox was provisioned for.
	Shield string

	logger       zerolog.Logger
	configSource string
}

// Open provisions a fresh sandbox for shield: a full copy of the source
// tree, a fresh copy of the project config, and the shield definitions.
// For the reset shield only its upstream directory is installed, with
// the provisioning patches applied; for every other shield the whole
// project shields tree is installed so relative includes stay resolvable.
//
// Any failure here indicates a structurally broken source tree and is
// returned to the caller to abort the run; the partially built root is
// removed first.
func (m *Manager) Open(shield string) (*Sandbox, error) {
	root, err := os.MkdirTemp("", "zmkbuild-*")
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sandbox directory: %w", err)
	}

	m.logger.Debug().Str("shield", shield).Str("root", root).Msg("Provisioning sandbox")

	if err := m.provision(root, shield); err != nil {
		if rmErr := os.RemoveAll(root); rmErr != nil {
			m.logger.Warn().Err(rmErr).Str("root", root).Msg("Failed to remove partial sandbox")
		}
		return nil, err
	}

	return &Sandbox{
		Root:         root,
		Shield:       shield,
		logger:       m.logger,
		configSource: m.configDir,
	}, nil
}

func (m *Manager) provision(root, shield string) error {
	if err := copyTree(m.sourceDir, root); err != nil {
		return fmt.Errorf("failed to copy source tree: %w", err)
	}

	// The config subtree is replaced with a pristine copy on every open,
	// so earlier keymap installs can never leak between shields.
	configPath := filepath.Join(root, configSubdir)
	if err := os.RemoveAll(configPath); err != nil {
		return fmt.Errorf("failed to clear sandbox config: %w", err)
	}
	if err := copyTree(m.configDir, configPath); err != nil {
		return fmt.Errorf("failed to copy config: %w", err)
	}

	shieldsPath := filepath.Join(root, shieldsSubdir)
	if err := os.RemoveAll(shieldsPath); err != nil {
		return fmt.Errorf("failed to clear sandbox shields: %w", err)
	}
	if model.IsReset(shield) {
		// The reset shield ships with the upstream source tree, not with
		// the project.
		upstream := UpstreamShieldDir(m.sourceDir, model.ResetShield)
		shieldPath := filepath.Join(shieldsPath, model.ResetShield)
		if err := copyTree(upstream, shieldPath); err != nil {
			return fmt.Errorf("failed to copy reset shield: %w", err)
		}
		if err := applyPatches(m.logger, shieldPath, shield); err != nil {
			return err
		}
	} else {
		if err := copyTree(m.shieldsDir, shieldsPath); err != nil {
			return fmt.Errorf("failed to copy shields: %w", err)
		}
	}

	return nil
}

// UpstreamShieldDir returns the location of a shield that ships inside
// the source tree itself rather than with the project.
func UpstreamShieldDir(sourceDir, shield string) string {
	return filepath.Join(sourceDir, appSubdir, "boards", "shields", shield)
}

// AppDir is the application subtree handed to the build step as its
// source path.
func (s *Sandbox) AppDir() string {
	return filepath.Join(s.Root, appSubdir)
}

// ConfigDir is the sandbox's private copy of the project config.
func (s *Sandbox) ConfigDir() string {
	return filepath.Join(s.Root, configSubdir)
}

// ShieldsDir is the sandbox's shield definitions root.
func (s *Sandbox) ShieldsDir() string {
	return filepath.Join(s.Root, shieldsSubdir)
}

// ShieldDir is the directory of the shield this sandbox is scoped to.
func (s *Sandbox) ShieldDir() string {
	return filepath.Join(s.ShieldsDir(), s.Shield)
}

// InstallKeymap copies the named key layout from the project config into
// the sandbox config under the shield's name, where the build picks it
// up. The copy reads the pristine project file, not the sandbox copy, so
// repeated installs for the same shield always start from clean input.
func (s *Sandbox) InstallKeymap(keymap string) error {
	src := filepath.Join(s.configSource, keymap+".keymap")
	dst := filepath.Join(s.ConfigDir(), s.Shield+".keymap")
	if err := copyFile(src, dst, 0o644); err != nil {
		return fmt.Errorf("failed to install keymap %s: %w", keymap, err)
	}
	s.logger.Debug().Str("keymap", keymap).Str("shield", s.Shield).Msg("Installed keymap")
	return nil
}

// OverlaysContain reports whether any overlay file directly inside the
// sandbox's shield directory contains needle. Used to decide per job
// whether an extra driver module must be passed to the build.
func (s *Sandbox) OverlaysContain(needle string) (bool, error) {
	dirents, err := os.ReadDir(s.ShieldDir())
	if err != nil {
		return false, fmt.Errorf("failed to list shield directory: %w", err)
	}
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), model.OverlaySuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.ShieldDir(), d.Name()))
		if err != nil {
			return false, fmt.Errorf("failed to read overlay %s: %w", d.Name(), err)
		}
		if strings.Contains(string(data), needle) {
			return true, nil
		}
	}
	return false, nil
}

// Close deletes the sandbox tree. Safe to call once per sandbox on any
// exit path.
func (s *Sandbox) Close() error {
	s.logger.Debug().Str("shield", s.Shield).Str("root", s.Root).Msg("Tearing down sandbox")
	if err := os.RemoveAll(s.Root); err != nil {
		return fmt.Errorf("failed to remove sandbox %s: %w", s.Root, err)
	}
	return nil
}
