package cleanup

import (
	"os"
	"path/filepath"
	"strings"
)

// Env is the runtime-environment fingerprint the safety gate checks
// deletion candidates against: the running executable and the base
// directory of the active environment (the executable's grandparent,
// which for a virtualenv-style layout is the environment root).
type Env struct {
	Executable string
	Base       string
}

// CurrentEnv derives the fingerprint for the running process. Paths are
// absolute and lexically cleaned; symlinks are deliberately not
// resolved — the gate blocks obvious self-destruction, it is not a
// sandbox.
func CurrentEnv() *Env {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	if abs, err := filepath.Abs(exe); err == nil {
		exe = abs
	}
	return &Env{
		Executable: exe,
		Base:       filepath.Dir(filepath.Dir(exe)),
	}
}

// ContainsExecutable reports whether the running executable lives under
// path. Removing such a path would delete the program mid-run.
func (e *Env) ContainsExecutable(path string) bool {
	return e != nil && hasPathPrefix(e.Executable, path)
}

// InsideBase reports whether path lies inside the active environment.
func (e *Env) InsideBase(path string) bool {
	return e != nil && hasPathPrefix(path, e.Base)
}

// hasPathPrefix reports whether path equals prefix or lies below it.
// Comparison is lexical on cleaned absolute paths and stops at path
// separator boundaries, so "/opt/env" is not a prefix of "/opt/envy".
func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	if prefix == string(filepath.Separator) {
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
