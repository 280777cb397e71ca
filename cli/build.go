package cli

// This file contains the build command: expanding the matrix, walking
// the sandbox lifecycle per shield and running one west build per job.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/zmkbuild/zmkbuild/cli/west"
	"github.com/zmkbuild/zmkbuild/matrix"
	"github.com/zmkbuild/zmkbuild/model"
	"github.com/zmkbuild/zmkbuild/sandbox"
)

// pointerDriverNeedle marks shields that need the extra pointer driver
// module, checked against overlay contents per job.
const pointerDriverNeedle = "pmw3610"

func (a *App) build(ctx *cli.Context) error {
	startTime := time.Now()
	cfg := configFromContext(ctx)

	entries, err := matrix.Read(a.logger, cfg.Matrix)
	if err != nil {
		return err
	}

	manifest := &model.Manifest{
		ID:        uuid.NewString(),
		Timestamp: startTime,
		Args:      os.Args,
		Matrix:    cfg.Matrix,
		OutputDir: cfg.OutputDir,
	}

	// Capture git info (non-fatal if it fails)
	if commit, branch, err := a.getGitInfo(); err == nil {
		manifest.Git = &model.Git{
			Commit: commit,
			Branch: branch,
		}
	}

	defer func() {
		manifest.Duration = time.Since(startTime)
		if err := a.recordRun(manifest); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record run")
		}
	}()

	if len(entries) == 0 {
		a.logger.Info().Msg("Nothing to build")
		return nil
	}

	// Stale artifacts from a previous run must not survive into this one.
	if err := clearOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	b := &builder{
		logger:    a.logger,
		cfg:       cfg,
		sandboxes: sandbox.NewManager(a.logger, cfg.SourceDir, cfg.ShieldsDir, cfg.ConfigDir),
		runWest:   runWest,
	}
	if err := b.run(entries, manifest); err != nil {
		return err
	}

	renderResults(manifest)

	ok, failed, skipped := manifest.Counts()
	a.logger.Info().
		Int("ok", ok).
		Int("failed", failed).
		Int("skipped", skipped).
		Dur("elapsed", time.Since(startTime)).
		Msg("Matrix complete")
	return nil
}

func renderResults(manifest *model.Manifest) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Board", "Shield", "Target", "Keymap", "Status", "Result"})
	for _, job := range manifest.Jobs {
		result := job.Artifact
		if result == "" {
			result = job.Reason
		}
		tw.AppendRow(table.Row{
			job.Board, job.Shield, orDash(job.Target), orDash(job.Keymap), string(job.Status), result,
		})
	}
	tw.Render()
}

func clearOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}

// builder executes expanded jobs strictly in order, one sandbox and one
// west invocation at a time. runWest is swappable for tests.
type builder struct {
	logger    zerolog.Logger
	cfg       Config
	sandboxes *sandbox.Manager
	runWest   func(opts west.BuildOptions) error
}

func (b *builder) run(entries []model.BuildEntry, manifest *model.Manifest) error {
	for _, entry := range entries {
		for _, board := range entry.Boards {
			for _, shield := range entry.Shields {
				if err := b.runShield(entry, board, shield, manifest); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// runShield owns the sandbox for one (entry, board, shield) iteration.
// The deferred teardown runs on every exit path, so a discovery problem
// or a failed job never leaks the directory tree.
func (b *builder) runShield(entry model.BuildEntry, board, shield string, manifest *model.Manifest) error {
	sb, err := b.sandboxes.Open(shield)
	if err != nil {
		return err
	}
	defer func() {
		if err := sb.Close(); err != nil {
			b.logger.Warn().Err(err).Str("shield", shield).Msg("Failed to tear down sandbox")
		}
	}()

	targets, err := matrix.DiscoverTargets(sb.ShieldDir())
	if err != nil {
		b.logger.Warn().Err(err).Str("shield", shield).Str("board", board).Msg("Skipping shield")
		manifest.Jobs = append(manifest.Jobs, skipRecord(entry, board, shield, err.Error()))
		return nil
	}

	jobs, skips := matrix.ExpandShield(entry, board, shield, targets)
	for _, skip := range skips {
		b.logger.Warn().
			Str("shield", skip.Shield).
			Str("board", board).
			Str("reason", skip.Reason).
			Msg("Skipping shield")
		manifest.Jobs = append(manifest.Jobs, skipRecord(entry, board, shield, skip.Reason))
	}
	for _, job := range jobs {
		manifest.Jobs = append(manifest.Jobs, b.runJob(sb, job))
	}
	return nil
}

func skipRecord(entry model.BuildEntry, board, shield, reason string) model.JobRecord {
	return model.JobRecord{
		Board:  board,
		Shield: shield,
		Format: entry.Format,
		Status: model.JobStatusSkipped,
		Reason: reason,
	}
}

// runJob never fails the run: build and artifact problems are folded
// into the returned record.
func (b *builder) runJob(sb *sandbox.Sandbox, job model.Job) model.JobRecord {
	jobStart := time.Now()
	record := model.JobRecord{
		Board:  job.Board,
		Shield: job.Shield,
		Target: job.Target,
		Keymap: job.Keymap,
		Format: job.Format,
	}

	b.logger.Info().Str("job", job.String()).Str("format", job.Format).Msg("Building")

	published, err := b.buildJob(sb, job)
	record.Duration = time.Since(jobStart)
	if err != nil {
		record.Status = model.JobStatusFailed
		record.Reason = err.Error()
		b.logger.Warn().Err(err).Str("job", job.String()).Msg("Job failed")
		return record
	}

	record.Status = model.JobStatusOK
	record.Artifact = published
	b.logger.Info().Str("artifact", published).Dur("elapsed", record.Duration).Msg("Job complete")
	return record
}

func (b *builder) buildJob(sb *sandbox.Sandbox, job model.Job) (string, error) {
	if job.Keymap != "" {
		if err := sb.InstallKeymap(job.Keymap); err != nil {
			return "", err
		}
	}

	var snippets []string
	if job.Snippet != "" {
		snippets = append(snippets, job.Snippet)
	}
	if b.cfg.USBLogging {
		snippets = append(snippets, west.USBLoggingSnippet)
	}

	// The extra module depends on overlay contents, not job identity, so
	// it is re-checked for every job.
	var extraModules []string
	needsPointer, err := sb.OverlaysContain(pointerDriverNeedle)
	if err != nil {
		return "", err
	}
	if needsPointer {
		extraModules = append(extraModules, b.cfg.PointerModule)
	}

	buildDir, err := os.MkdirTemp("", "zmkbuild-build-*")
	if err != nil {
		return "", fmt.Errorf("failed to allocate build directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(buildDir); err != nil {
			b.logger.Warn().Err(err).Str("dir", buildDir).Msg("Failed to remove build directory")
		}
	}()

	opts := west.BuildOptions{
		SourceDir:    sb.AppDir(),
		BuildDir:     buildDir,
		Board:        job.Board,
		Snippets:     snippets,
		ConfigDir:    sb.ConfigDir(),
		Shield:       job.Target,
		ExtraModules: extraModules,
	}
	b.logger.Debug().Str("cmd", west.BuildCommandLine(opts)).Msg("Running west build")

	if err := b.runWest(opts); err != nil {
		return "", fmt.Errorf("west build failed: %w", err)
	}

	artifact, ext, err := locateArtifact(buildDir, b.cfg.FallbackExt)
	if err != nil {
		return "", err
	}

	dst := job.PublishPath(b.cfg.OutputDir, ext)
	if err := publishArtifact(artifact, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// runWest streams the build output to the console while keeping a copy
// of stderr, so a failed job's warning can carry the tail of the
// compiler diagnostics.
func runWest(opts west.BuildOptions) error {
	var stderrBuf bytes.Buffer

	cmd := west.Command(opts)
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("exit code %d: %s", exitErr.ExitCode(), lastLine(stderrBuf.String()))
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
