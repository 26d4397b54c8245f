// Package testtask drives the test suite and contributes its cleanup
// step to the top-level clean.
package testtask

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

const defaultTestCommand = "behave"

func init() {
	cleanup.CleanupTasks.Add("clean-test", Clean)
}

// Run executes the test suite in the configured working directory,
// passing any extra arguments through. The command comes from run.test
// in sweep.yaml, falling back to behave.
func Run(ctx context.Context, cfg *config.Config, args ...string) error {
	parts := strings.Fields(cfg.Command("test", defaultTestCommand))
	if len(parts) == 0 {
		return errors.New("test command is empty in " + config.ConfigFile)
	}
	parts = append(parts, args...)

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // commands from trusted config
	cmd.Dir = cfg.WorkDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("test run failed: %w", err)
	}

	return nil
}

// Clean removes test reports and runner caches.
func Clean(s *cleanup.Sweeper, dryRun bool) error {
	s.RemoveDirs([]string{"reports", ".cache", "build/behave.reports"}, dryRun)
	s.RemoveFiles([]string{"rerun*.txt", "testrun*.json"}, dryRun)
	return nil
}
