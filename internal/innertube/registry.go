package innertube

import (
	"fmt"
	"sort"
)

// DefaultClientID is the persona used when a caller doesn't name one.
const DefaultClientID = "web"

// Registry is the closed, immutable set of registered client personas.
// It is built once at process start and safe for concurrent reads.
type Registry struct {
	byID  map[string]ClientProfile
	order []string
}

func NewRegistry() *Registry {
	r := &Registry{
		byID:  make(map[string]ClientProfile, len(clientProfiles)),
		order: make([]string, 0, len(clientProfiles)),
	}
	for _, p := range clientProfiles {
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// Get returns the persona registered under id.
func (r *Registry) Get(id string) (ClientProfile, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// MustGet returns the persona registered under id and panics if it isn't
// registered. The registry is closed; an unknown id is a programming error.
func (r *Registry) MustGet(id string) ClientProfile {
	p, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("innertube: unregistered client %q", id))
	}
	return p
}

// All returns every registered persona in registration order.
func (r *Registry) All() []ClientProfile {
	out := make([]ClientProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// OrderedByPriority returns the given personas sorted ascending by priority
// (first to try first). With no argument it orders the full registry. The
// sort is stable, so iteration order is deterministic across calls.
func (r *Registry) OrderedByPriority(subset ...ClientProfile) []ClientProfile {
	if len(subset) == 0 {
		subset = r.All()
	}
	out := append([]ClientProfile(nil), subset...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
