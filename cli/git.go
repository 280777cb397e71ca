package cli

// This file captures git state of the config repository for run
// manifests. Everything here is best effort: a missing git binary or a
// bare directory never fails a build.

import (
	"os/exec"
	"strings"
)

func gitOutput(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	return strings.TrimSpace(string(out)), err
}

// getGitInfo returns the current commit and branch of the working
// directory's repository.
func (a *App) getGitInfo() (commit, branch string, err error) {
	if commit, err = gitOutput("rev-parse", "HEAD"); err != nil {
		return "", "", err
	}
	if branch, err = gitOutput("rev-parse", "--abbrev-ref", "HEAD"); err != nil {
		return "", "", err
	}
	return commit, branch, nil
}
