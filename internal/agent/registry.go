// Package agent maintains the registry of agent descriptors Xavier can
// assign tasks to.
//
// Descriptors are inert data — grounded on internal/models.Track plus
// internal/config.TrackConfig in the teacher (name, language, file
// patterns, per-track test command), generalized per spec §4.4 into a
// full agent descriptor with skill keywords, allowed tools, and a
// markdown persona sidecar, loaded from YAML rather than a SQL row.
package agent

import (
	"sort"
	"sync"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Registry holds the set of known agent descriptors for a project.
type Registry struct {
	mu          sync.RWMutex
	dir         string
	descriptors map[string]model.AgentDescriptor
}

// NewRegistry constructs a registry seeded with the built-in descriptor
// set, backed by dir for any persisted custom/dynamically-created
// descriptors.
func NewRegistry(dir string) *Registry {
	r := &Registry{dir: dir, descriptors: map[string]model.AgentDescriptor{}}
	for _, d := range builtinDescriptors {
		r.descriptors[d.Name] = d
	}
	return r
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (model.AgentDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	if !ok {
		return model.AgentDescriptor{}, xerrors.NotFound("agent %q not found", name)
	}
	return d, nil
}

// List returns every registered descriptor, sorted by name.
func (r *Registry) List() []model.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.AgentDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Exists reports whether a descriptor is already registered under name.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[name]
	return ok
}

// Register adds or replaces a descriptor and writes its YAML + markdown
// sidecar to disk, used both for user-authored descriptors and for the
// matcher's on-demand dynamic creation (spec §4.6).
func (r *Registry) Register(d model.AgentDescriptor) error {
	if d.Name == "" {
		return xerrors.Validation("agent descriptor name is required")
	}
	r.mu.Lock()
	r.descriptors[d.Name] = d
	r.mu.Unlock()

	if r.dir == "" {
		return nil
	}
	if err := writeDescriptorYAML(r.dir, d); err != nil {
		return err
	}
	return writeDescriptorMarkdown(r.dir, d)
}

// LoadDir reads every *.yaml descriptor file under dir and registers it,
// overriding any built-in of the same name. A missing directory is not
// an error — it simply means no custom descriptors are defined yet.
func (r *Registry) LoadDir() error {
	if r.dir == "" {
		return nil
	}
	descs, err := loadDescriptorsFromDir(r.dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descs {
		r.descriptors[d.Name] = d
	}
	return nil
}
