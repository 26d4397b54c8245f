// Package cleanup implements the pattern-driven cleanup engine: glob
// expansion, the runtime-environment safety gate, best-effort directory
// and file removal, and the registries of pluggable cleanup tasks.
package cleanup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/erikh/sweeptask/internal/config"
	"github.com/erikh/sweeptask/internal/pathmatch"
	"github.com/mattn/go-isatty"
)

// suicideWarnLimit caps the number of environment-base skip diagnostics
// emitted per deleter batch, to keep a broad pattern from flooding the
// log. The skips themselves are unaffected.
const suicideWarnLimit = 5

// Sweeper performs cleanup against a working directory. The zero value
// is not usable; construct with New.
type Sweeper struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
	Env    *Env

	// Tasks and AllTasks are the contributor registries consulted by
	// Clean and CleanAll. New wires them to the package-level
	// registries; tests may substitute their own.
	Tasks    *Registry
	AllTasks *Registry

	styled bool
}

// New creates a Sweeper for the given configuration, reporting on
// stdout/stderr and protecting the current process environment.
func New(cfg *config.Config) *Sweeper {
	return &Sweeper{
		Config:   cfg,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Env:      CurrentEnv(),
		Tasks:    CleanupTasks,
		AllTasks: CleanupAllTasks,
		styled:   isatty.IsTerminal(os.Stderr.Fd()),
	}
}

// Result accumulates the outcome of a deleter batch. Errors never abort
// a batch; the count and the first error are retained so a caller can
// inspect them, but the orchestrators treat them as best-effort.
type Result struct {
	Removed  int
	Skipped  int
	Errors   int
	FirstErr error
}

func (r *Result) record(err error) {
	r.Errors++
	if r.FirstErr == nil {
		r.FirstErr = err
	}
}

// Merge folds other into r.
func (r *Result) Merge(other *Result) {
	r.Removed += other.Removed
	r.Skipped += other.Skipped
	r.Errors += other.Errors
	if r.FirstErr == nil {
		r.FirstErr = other.FirstErr
	}
}

// RemoveDirs expands each pattern and removes the matching directory
// trees. Paths overlapping the runtime environment are skipped with a
// SKIP-SUICIDE line. In dry-run mode nothing is removed. Missing
// targets and removal errors never abort the batch.
func (s *Sweeper) RemoveDirs(patterns []string, dryRun bool) *Result {
	res := &Result{}
	warned := 0
	for _, pattern := range patterns {
		matches, err := pathmatch.Glob(pattern, s.workDir())
		if err != nil {
			s.note(fmt.Sprintf("%T: %v", err, err))
			res.record(err)
			continue
		}
		for _, dir := range matches {
			if s.Env.ContainsExecutable(dir) {
				fmt.Fprintf(s.Out, "SKIP-SUICIDE: %s (contains current executable)\n", s.display(dir))
				res.Skipped++
				continue
			}
			if s.Env.InsideBase(dir) {
				if warned < suicideWarnLimit {
					fmt.Fprintf(s.Out, "SKIP-SUICIDE: %s\n", s.display(dir))
				}
				warned++
				res.Skipped++
				continue
			}

			if dryRun {
				fmt.Fprintf(s.Out, "RMTREE: %s (dry-run)\n", s.display(dir))
				continue
			}
			fmt.Fprintf(s.Out, "RMTREE: %s\n", s.display(dir))
			if err := os.RemoveAll(dir); err != nil {
				s.note(fmt.Sprintf("%T: %v", err, err))
				res.record(err)
				continue
			}
			res.Removed++
		}
	}
	return res
}

// RemoveFiles expands each pattern and unlinks the matching files.
// Files inside the active environment are skipped silently; a single
// file cannot contain the executable, so only the environment-base rule
// applies. Filesystem errors are reported and counted but never abort
// the batch.
func (s *Sweeper) RemoveFiles(patterns []string, dryRun bool) *Result {
	res := &Result{}
	for _, pattern := range patterns {
		matches, err := pathmatch.Glob(pattern, s.workDir())
		if err != nil {
			s.note(fmt.Sprintf("%T: %v", err, err))
			res.record(err)
			continue
		}
		for _, file := range matches {
			if s.Env.InsideBase(file) {
				res.Skipped++
				continue
			}

			if dryRun {
				fmt.Fprintf(s.Out, "REMOVE: %s (dry-run)\n", s.display(file))
				continue
			}
			fmt.Fprintf(s.Out, "REMOVE: %s\n", s.display(file))
			if err := os.Remove(file); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				s.note(fmt.Sprintf("%T: %v", err, err))
				res.record(err)
				continue
			}
			res.Removed++
		}
	}
	return res
}

func (s *Sweeper) workDir() string {
	if s.Config == nil || s.Config.WorkDir == "" {
		return "."
	}
	return s.Config.WorkDir
}

// display renders an absolute candidate path relative to the working
// directory, matching how the pattern was written.
func (s *Sweeper) display(path string) string {
	root, err := filepath.Abs(s.workDir())
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) ||
		(len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

var noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

// note prints a diagnostic to stderr, styled when attached to a
// terminal. The stable stdout lines are never styled.
func (s *Sweeper) note(msg string) {
	if s.styled {
		msg = noteStyle.Render(msg)
	}
	fmt.Fprintln(s.Err, msg)
}
