package cleanup

import "fmt"

// Func is the contract for a registered cleanup task. It receives the
// sweeper driving the current run and the dry-run flag.
type Func func(s *Sweeper, dryRun bool) error

type registered struct {
	name string
	fn   Func
}

// Registry is an ordered collection of cleanup tasks. Tasks run in
// registration order. A Registry is append-only: tasks are added during
// program startup and only read afterwards.
type Registry struct {
	tasks []registered
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a named cleanup task.
func (r *Registry) Add(name string, fn Func) {
	r.tasks = append(r.tasks, registered{name: name, fn: fn})
}

// Names returns the registered task names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = t.name
	}
	return names
}

// Run invokes every registered task in order. A failing task is
// reported and the remaining tasks still run.
func (r *Registry) Run(s *Sweeper, dryRun bool) {
	for _, t := range r.tasks {
		fmt.Fprintf(s.Out, "CLEANUP TASK: %s\n", t.name)
		if err := t.fn(s, dryRun); err != nil {
			s.note(fmt.Sprintf("cleanup task %q failed: %v", t.name, err))
		}
	}
}

// Package-level registries other task modules hook into at startup.
// CleanupTasks runs as part of clean; CleanupAllTasks as part of
// clean-all.
var (
	CleanupTasks    = NewRegistry()
	CleanupAllTasks = NewRegistry()
)

func init() {
	CleanupTasks.Add("clean-python", func(s *Sweeper, dryRun bool) error {
		s.CleanPython(dryRun)
		return nil
	})
}
