package cleanup

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erikh/sweeptask/internal/config"
)

// fakeEnv points far away from any temp dir so the gate stays out of
// the way unless a test aims at it.
func fakeEnv() *Env {
	return &Env{
		Executable: filepath.Join("/nonexistent", "env", "bin", "run"),
		Base:       filepath.Join("/nonexistent", "env"),
	}
}

func newTestSweeper(workdir string) (*Sweeper, *bytes.Buffer) {
	cfg := config.Default()
	cfg.WorkDir = workdir
	buf := &bytes.Buffer{}
	return &Sweeper{
		Config: cfg,
		Out:    buf,
		Err:    io.Discard,
		Env:    fakeEnv(),
	}, buf
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRemoveFilesBasicSweep(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.log"))
	mustWrite(t, filepath.Join(dir, "b.tmp"))
	mustWrite(t, filepath.Join(dir, "keep.txt"))

	s, buf := newTestSweeper(dir)
	res := s.RemoveFiles([]string{"*.log", "*.tmp"}, false)

	if res.Removed != 2 {
		t.Errorf("Removed = %d, want 2", res.Removed)
	}
	if exists(filepath.Join(dir, "a.log")) || exists(filepath.Join(dir, "b.tmp")) {
		t.Error("matched files were not removed")
	}
	if !exists(filepath.Join(dir, "keep.txt")) {
		t.Error("keep.txt was removed")
	}

	out := buf.String()
	if !strings.Contains(out, "REMOVE: a.log\n") {
		t.Errorf("missing REMOVE line for a.log in %q", out)
	}
	if !strings.Contains(out, "REMOVE: b.tmp\n") {
		t.Errorf("missing REMOVE line for b.tmp in %q", out)
	}
}

func TestRemoveFilesDryRun(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.log"))
	mustWrite(t, filepath.Join(dir, "b.tmp"))

	s, buf := newTestSweeper(dir)
	res := s.RemoveFiles([]string{"*.log", "*.tmp"}, true)

	if res.Removed != 0 {
		t.Errorf("Removed = %d, want 0", res.Removed)
	}
	if !exists(filepath.Join(dir, "a.log")) || !exists(filepath.Join(dir, "b.tmp")) {
		t.Error("dry-run removed files")
	}

	out := buf.String()
	if !strings.Contains(out, "REMOVE: a.log (dry-run)\n") {
		t.Errorf("missing dry-run line for a.log in %q", out)
	}
	if !strings.Contains(out, "REMOVE: b.tmp (dry-run)\n") {
		t.Errorf("missing dry-run line for b.tmp in %q", out)
	}
}

func TestDryRunOutputMatchesRealRun(t *testing.T) {
	setup := func() string {
		dir := t.TempDir()
		mustWrite(t, filepath.Join(dir, "a.log"))
		mustWrite(t, filepath.Join(dir, "tmp", "junk"))
		return dir
	}

	dry := setup()
	s, dryBuf := newTestSweeper(dry)
	s.RemoveDirs([]string{"tmp"}, true)
	s.RemoveFiles([]string{"*.log"}, true)

	real := setup()
	s2, realBuf := newTestSweeper(real)
	s2.RemoveDirs([]string{"tmp"}, false)
	s2.RemoveFiles([]string{"*.log"}, false)

	got := strings.ReplaceAll(dryBuf.String(), " (dry-run)", "")
	if got != realBuf.String() {
		t.Errorf("dry-run output = %q, real output = %q", dryBuf.String(), realBuf.String())
	}
}

func TestRemoveDirsRecursivePattern(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "pkg", "__pycache__", "x.pyc"))
	mustWrite(t, filepath.Join(dir, "sub", "pkg", "__pycache__", "y.pyc"))

	s, buf := newTestSweeper(dir)
	res := s.RemoveDirs([]string{"**/__pycache__"}, false)

	if res.Removed != 2 {
		t.Errorf("Removed = %d, want 2", res.Removed)
	}
	if exists(filepath.Join(dir, "pkg", "__pycache__")) {
		t.Error("pkg/__pycache__ survived")
	}
	if exists(filepath.Join(dir, "sub", "pkg", "__pycache__")) {
		t.Error("sub/pkg/__pycache__ survived")
	}
	if !exists(filepath.Join(dir, "pkg")) {
		t.Error("parent dir was removed")
	}
	if !strings.Contains(buf.String(), "RMTREE: ") {
		t.Errorf("missing RMTREE lines in %q", buf.String())
	}
}

func TestRemoveDirsMissingTarget(t *testing.T) {
	s, buf := newTestSweeper(t.TempDir())
	res := s.RemoveDirs([]string{"no-such-dir", "also/missing"}, false)

	if res.Removed != 0 || res.Errors != 0 {
		t.Errorf("result = %+v, want zero removals and errors", res)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRemoveDirsProtectsExecutable(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "venv", "bin", "python"))

	s, buf := newTestSweeper(dir)
	s.Env = &Env{
		Executable: filepath.Join(dir, "venv", "bin", "python"),
		Base:       filepath.Join(dir, "venv"),
	}

	res := s.RemoveDirs([]string{".venv*", "venv"}, false)

	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if !exists(filepath.Join(dir, "venv")) {
		t.Fatal("active environment was removed")
	}
	out := buf.String()
	if !strings.Contains(out, "SKIP-SUICIDE: venv (contains current executable)\n") {
		t.Errorf("missing SKIP-SUICIDE line in %q", out)
	}
	if strings.Contains(out, "RMTREE: venv") {
		t.Errorf("unexpected RMTREE for protected dir in %q", out)
	}
}

func TestRemoveDirsProtectsEnvironmentBase(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "venv", "lib", "mod.py"))
	mustWrite(t, filepath.Join(dir, "venv", "share", "doc.txt"))

	s, buf := newTestSweeper(dir)
	s.Env = &Env{
		Executable: filepath.Join(dir, "venv", "bin", "python"),
		Base:       filepath.Join(dir, "venv"),
	}

	res := s.RemoveDirs([]string{"venv/lib", "venv/share"}, false)

	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	if !exists(filepath.Join(dir, "venv", "lib")) || !exists(filepath.Join(dir, "venv", "share")) {
		t.Error("environment contents were removed")
	}
	skips := strings.Count(buf.String(), "SKIP-SUICIDE: ")
	if skips != 2 {
		t.Errorf("SKIP-SUICIDE lines = %d, want 2", skips)
	}
}

func TestRemoveDirsThrottlesBaseDiagnostics(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"d0", "d1", "d2", "d3", "d4", "d5", "d6"} {
		mustWrite(t, filepath.Join(dir, "venv", name, "f"))
	}

	s, buf := newTestSweeper(dir)
	s.Env = &Env{
		Executable: filepath.Join(dir, "venv", "bin", "python"),
		Base:       filepath.Join(dir, "venv"),
	}

	res := s.RemoveDirs([]string{"venv/d*"}, false)

	if res.Skipped != 7 {
		t.Errorf("Skipped = %d, want 7", res.Skipped)
	}
	skips := strings.Count(buf.String(), "SKIP-SUICIDE: ")
	if skips != suicideWarnLimit {
		t.Errorf("SKIP-SUICIDE lines = %d, want %d", skips, suicideWarnLimit)
	}
}

func TestRemoveFilesProtectsEnvironmentSilently(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "venv", "x.log"))
	mustWrite(t, filepath.Join(dir, "y.log"))

	s, buf := newTestSweeper(dir)
	s.Env = &Env{
		Executable: filepath.Join(dir, "venv", "bin", "python"),
		Base:       filepath.Join(dir, "venv"),
	}

	res := s.RemoveFiles([]string{"**/*.log"}, false)

	if res.Removed != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want one removal and one skip", res)
	}
	if !exists(filepath.Join(dir, "venv", "x.log")) {
		t.Error("file inside environment was removed")
	}
	if exists(filepath.Join(dir, "y.log")) {
		t.Error("file outside environment survived")
	}
	if strings.Contains(buf.String(), "SKIP-SUICIDE") {
		t.Errorf("file skip must be silent, got %q", buf.String())
	}
}

func TestRemoveFilesContinuesAfterError(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory matching a file pattern makes os.Remove
	// fail; the sweep must carry on.
	mustWrite(t, filepath.Join(dir, "a.log", "child"))
	mustWrite(t, filepath.Join(dir, "b.log"))

	s, _ := newTestSweeper(dir)
	res := s.RemoveFiles([]string{"*.log"}, false)

	if res.Errors != 1 {
		t.Errorf("Errors = %d, want 1", res.Errors)
	}
	if res.FirstErr == nil {
		t.Error("FirstErr not retained")
	}
	if res.Removed != 1 {
		t.Errorf("Removed = %d, want 1", res.Removed)
	}
	if exists(filepath.Join(dir, "b.log")) {
		t.Error("b.log survived despite the earlier error")
	}
}

func TestRemoveDirsDoesNotDescendSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	mustWrite(t, filepath.Join(target, "precious.txt"))

	mustWrite(t, filepath.Join(dir, "junk", "f"))
	if err := os.Symlink(target, filepath.Join(dir, "junk", "linked")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	s, _ := newTestSweeper(dir)
	s.RemoveDirs([]string{"junk"}, false)

	if exists(filepath.Join(dir, "junk")) {
		t.Error("junk dir survived")
	}
	if !exists(filepath.Join(target, "precious.txt")) {
		t.Error("removal descended through a symlink")
	}
}

func TestDisplayOutsideWorkdir(t *testing.T) {
	s, _ := newTestSweeper(t.TempDir())
	abs := filepath.Join("/somewhere", "else", "file")
	if got := s.display(abs); got != abs {
		t.Errorf("display = %q, want %q", got, abs)
	}
}
