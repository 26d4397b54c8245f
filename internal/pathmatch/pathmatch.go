// Package pathmatch expands ant-style glob patterns against a working
// directory. "**" matches zero or more directory components; "*" and "?"
// match within a single component.
package pathmatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob expands pattern relative to workdir and returns absolute paths.
// A pattern without wildcards is treated as a literal path and matches
// only if it exists. A pattern rooted in a directory that does not
// exist yields no matches. Symlinked directories are traversed during
// expansion.
func Glob(pattern, workdir string) ([]string, error) {
	if workdir == "" {
		workdir = "."
	}
	root, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("resolving workdir: %w", err)
	}

	// A trailing separator means "directories only" in ant patterns;
	// after cleaning it is just the directory name.
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
	if pattern == "" {
		return nil, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	return matches, nil
}
