package cleanup

// Clean removes temporary dirs and files to regain a clean state. The
// effective pattern lists are the configured base lists plus the
// extras, merged into fresh slices so the configuration itself is never
// mutated. Registered cleanup tasks run first, in registration order,
// then the direct directory and file sweeps.
func (s *Sweeper) Clean(dryRun bool) *Result {
	group := s.Config.Clean
	dirs := concat(group.Directories, group.ExtraDirectories)
	files := concat(group.Files, group.ExtraFiles)

	if s.Tasks != nil {
		s.Tasks.Run(s, dryRun)
	}

	res := s.RemoveDirs(dirs, dryRun)
	res.Merge(s.RemoveFiles(files, dryRun))
	return res
}

// CleanAll cleans up everything, even the precious stuff. The heavy
// clean_all targets go first (the active environment is in the default
// list but the safety gate protects it), then the clean-all tasks, and
// finally a full Clean sweeps the transient artifacts.
func (s *Sweeper) CleanAll(dryRun bool) *Result {
	res := s.RemoveDirs(s.Config.CleanAll.Directories, dryRun)
	res.Merge(s.RemoveFiles(s.Config.CleanAll.Files, dryRun))

	if s.AllTasks != nil {
		s.AllTasks.Run(s, dryRun)
	}

	res.Merge(s.Clean(dryRun))
	return res
}

// CleanPython sweeps interpreter caches and packaging output.
func (s *Sweeper) CleanPython(dryRun bool) *Result {
	res := s.RemoveDirs([]string{"build", "dist", "*.egg-info", "**/__pycache__"}, dryRun)
	res.Merge(s.RemoveFiles([]string{"**/*.pyc", "**/*.pyo", "**/*$py.class"}, dryRun))
	return res
}

func concat(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}
