// Package registry holds the build-scoped association between map names
// and the markers declared for them across documents.
package registry

import (
	"strings"
	"sync"

	"docmaps/internal/model"
)

// unassigned is the bucket for markers declared without a map name.
// Those markers show up on every map.
const unassigned = "__unassigned__"

// Registry collects markers during a build pass. It only grows: there
// is no removal, and records are never mutated after insertion. The
// build pipeline processes documents sequentially, so the lock exists
// to keep the Lookup snapshot consistent while the HTTP API reads it.
type Registry struct {
	mu      sync.RWMutex
	buckets map[string][]model.MarkerRecord
}

// New creates an empty registry for one build pass.
func New() *Registry {
	return &Registry{buckets: make(map[string][]model.MarkerRecord)}
}

// Key normalizes a map name to its bucket key. Names differing only in
// case or surrounding whitespace share a bucket.
func Key(mapName string) string {
	k := strings.ToLower(strings.TrimSpace(mapName))
	if k == "" {
		return unassigned
	}
	return k
}

// Register appends rec to the bucket for mapName, creating the bucket
// on first use. An empty mapName targets the unassigned bucket.
func (r *Registry) Register(mapName string, rec model.MarkerRecord) {
	k := Key(mapName)
	r.mu.Lock()
	r.buckets[k] = append(r.buckets[k], rec)
	r.mu.Unlock()
}

// Lookup returns the markers applicable to mapName: the unassigned
// bucket first, then the named bucket, each in insertion order.
func (r *Registry) Lookup(mapName string) []model.MarkerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k := Key(mapName)
	out := make([]model.MarkerRecord, 0, len(r.buckets[unassigned])+len(r.buckets[k]))
	out = append(out, r.buckets[unassigned]...)
	if k != unassigned {
		out = append(out, r.buckets[k]...)
	}
	return out
}

// Names returns the declared bucket keys, excluding the unassigned
// bucket. Order is unspecified.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.buckets))
	for k := range r.buckets {
		if k != unassigned {
			names = append(names, k)
		}
	}
	return names
}

// Len returns the total number of registered markers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}
