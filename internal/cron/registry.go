package cron

import (
	"context"
	"fmt"
	"strings"
)

// Job is one unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds jobs keyed by name, run in registration order.
type Registry struct {
	order  []string
	byName map[string]Job
}

// NewRegistry registers jobs in order. Nil jobs are skipped.
func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{byName: make(map[string]Job, len(jobs))}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register adds a job. Names must be unique and non-empty.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	name := strings.TrimSpace(job.Name())
	if name == "" {
		return fmt.Errorf("cron job name required")
	}
	if r.byName == nil {
		r.byName = make(map[string]Job)
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("cron job %q registered twice", name)
	}
	r.byName[name] = job
	r.order = append(r.order, name)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		jobs = append(jobs, r.byName[name])
	}
	return jobs
}

// Names lists the registered job names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Select narrows the registry to the named jobs, keeping registration
// order. No names selects everything.
func (r *Registry) Select(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := r.byName[name]; !ok {
			return nil, fmt.Errorf("unknown cron job %q (have %s)", name, strings.Join(r.order, ", "))
		}
		want[name] = true
	}

	selected := &Registry{byName: make(map[string]Job, len(want))}
	for _, name := range r.order {
		if want[name] {
			selected.byName[name] = r.byName[name]
			selected.order = append(selected.order, name)
		}
	}
	return selected, nil
}
