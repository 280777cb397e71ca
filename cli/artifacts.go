package cli

// This file contains artifact management functionality: locating the
// firmware a build produced and publishing it to its canonical path.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zmkbuild/zmkbuild/model"
)

// artifactName is the basename, without extension, that the build step
// writes its firmware under.
const artifactName = "zmk"

// locateArtifact finds the firmware inside a finished build directory.
// The primary extension wins over the fallback when both exist.
func locateArtifact(buildDir, fallbackExt string) (path, ext string, err error) {
	for _, candidate := range []string{model.PrimaryExt, fallbackExt} {
		path := filepath.Join(buildDir, "zephyr", artifactName+"."+candidate)
		if _, err := os.Stat(path); err == nil {
			return path, candidate, nil
		}
	}
	return "", "", fmt.Errorf("no %s.%s or %s.%s artifact under %s",
		artifactName, model.PrimaryExt, artifactName, fallbackExt, buildDir)
}

// publishArtifact copies src to dst, creating the destination directory
// as needed. The published file and its directory get wide-open modes so
// any user of a shared checkout can remove or replace them.
func publishArtifact(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to publish %s: %w", dst, err)
	}
	if err := os.Chmod(dst, 0o666); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", dst, err)
	}
	if err := os.Chmod(dir, 0o777); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", dir, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	// Copy file permissions
	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
