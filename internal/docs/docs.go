// Package docs drives the documentation build and contributes its
// cleanup step to the top-level clean.
package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/erikh/sweeptask/internal/cleanup"
	"github.com/erikh/sweeptask/internal/config"
)

// BuildDir is where the generated documentation lands.
const BuildDir = "build/docs"

const defaultBuildCommand = "sphinx-build docs " + BuildDir

func init() {
	cleanup.CleanupTasks.Add("clean-docs", Clean)
}

// Build runs the documentation builder in the configured working
// directory. The command comes from run.docs in sweep.yaml, falling
// back to sphinx-build.
func Build(ctx context.Context, cfg *config.Config) error {
	parts := strings.Fields(cfg.Command("docs", defaultBuildCommand))
	if len(parts) == 0 {
		return errors.New("docs command is empty in " + config.ConfigFile)
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // commands from trusted config
	cmd.Dir = cfg.WorkDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docs build failed: %w", err)
	}

	return nil
}

// Clean removes generated documentation artifacts.
func Clean(s *cleanup.Sweeper, dryRun bool) error {
	s.RemoveDirs([]string{BuildDir}, dryRun)
	return nil
}
