// Package config holds the task configuration: the clean and clean_all
// option groups, their built-in defaults, and the optional sweep.yaml
// overrides supplied by the user.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"
)

// ConfigFile is the name of the optional per-project configuration file.
const ConfigFile = "sweep.yaml"

// CleanGroup configures the clean task. The Extra lists are appended to
// the base lists when the task runs; they never replace them.
type CleanGroup struct {
	Directories      []string `yaml:"directories"`
	Files            []string `yaml:"files"`
	ExtraDirectories []string `yaml:"extra_directories"`
	ExtraFiles       []string `yaml:"extra_files"`
}

// CleanAllGroup configures the clean-all task. No extras: clean-all
// already runs clean, which carries them.
type CleanAllGroup struct {
	Directories []string `yaml:"directories"`
	Files       []string `yaml:"files"`
}

// Config is the full task configuration.
type Config struct {
	Clean    CleanGroup        `yaml:"clean"`
	CleanAll CleanAllGroup     `yaml:"clean_all"`
	Run      map[string]string `yaml:"run"`

	// WorkDir is the directory patterns are resolved against.
	WorkDir string `yaml:"-"`
}

// Base lists backing Default. Other task modules may append to these at
// startup via AddCleanupDirs / AddCleanupFiles, before any task runs.
var (
	baseCleanDirs  []string
	baseCleanFiles = []string{
		"*.bak", "*.log", "*.tmp",
		"**/.DS_Store", "**/*.~*~",
	}
	baseCleanAllDirs  = []string{".venv*", ".tox", "downloads", "tmp"}
	baseCleanAllFiles []string
)

// AddCleanupDirs appends directory patterns to the base clean list.
// Intended for use from other task modules during startup, before any
// configuration is loaded.
func AddCleanupDirs(patterns ...string) {
	baseCleanDirs = append(baseCleanDirs, patterns...)
}

// AddCleanupFiles appends file patterns to the base clean list.
func AddCleanupFiles(patterns ...string) {
	baseCleanFiles = append(baseCleanFiles, patterns...)
}

// Default returns the built-in configuration. The returned lists are
// copies: task-time merging must not leak back into the base lists.
func Default() *Config {
	return &Config{
		Clean: CleanGroup{
			Directories: cloneList(baseCleanDirs),
			Files:       cloneList(baseCleanFiles),
		},
		CleanAll: CleanAllGroup{
			Directories: cloneList(baseCleanAllDirs),
			Files:       cloneList(baseCleanAllFiles),
		},
		WorkDir: ".",
	}
}

// Load returns the configuration for dir, applying sweep.yaml on top of
// the defaults if it exists. Lists present in the file replace the
// corresponding defaults; absent keys keep them. A missing file is not
// an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	cfg.WorkDir = dir

	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path) //nolint:gosec // path rooted in the caller's workdir
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}

	if file.Clean.Directories != nil {
		cfg.Clean.Directories = file.Clean.Directories
	}
	if file.Clean.Files != nil {
		cfg.Clean.Files = file.Clean.Files
	}
	cfg.Clean.ExtraDirectories = file.Clean.ExtraDirectories
	cfg.Clean.ExtraFiles = file.Clean.ExtraFiles
	if file.CleanAll.Directories != nil {
		cfg.CleanAll.Directories = file.CleanAll.Directories
	}
	if file.CleanAll.Files != nil {
		cfg.CleanAll.Files = file.CleanAll.Files
	}
	cfg.Run = file.Run

	return cfg, nil
}

// Command returns the command line configured under run.<name>, or
// fallback if none is configured.
func (c *Config) Command(name, fallback string) string {
	if cmd, ok := c.Run[name]; ok && cmd != "" {
		return cmd
	}
	return fallback
}

func cloneList(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
