package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// ErrRebuildBusy is returned when a rebuild is requested while another one
// is still in flight. Callers retry; rebuilds are never queued.
var ErrRebuildBusy = errors.New("registry: a rebuild is already in progress")

// UnknownUnitError reports a single-unit rebuild request for a logical name
// that is neither on disk nor in the current namespace.
type UnknownUnitError struct {
	Name string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("registry: unit %q is not loaded and no file for it exists under the configured roots", e.Name)
}

// Registry is the authoritative tool namespace, rebuilt from the configured
// roots and read concurrently by the dispatcher.
type Registry struct {
	roots   []unit.Root
	current atomic.Pointer[snapshot]
	rebuild sync.Mutex
}

// New creates a Registry over the given roots. The namespace starts empty;
// call RebuildAll to populate it.
func New(roots []unit.Root) *Registry {
	r := &Registry{roots: roots}
	r.current.Store(emptySnapshot())
	return r
}

// Roots returns the configured module roots.
func (r *Registry) Roots() []unit.Root {
	return r.roots
}

// Summary reports the outcome of a full rebuild.
type Summary struct {
	UnitsLoaded   int
	UnitsRejected int
	Tools         int
}

func (s Summary) String() string {
	return fmt.Sprintf("loaded %d tools from %d units (%d rejected)", s.Tools, s.UnitsLoaded, s.UnitsRejected)
}

// Report describes what a single-unit rebuild changed.
type Report struct {
	Unit    string   `json:"unit"`
	Added   []string `json:"tools_added"`
	Removed []string `json:"tools_removed"`
	// Rejected carries the rejection reason when the unit failed to reload.
	Rejected string `json:"rejected,omitempty"`
}

// Changed reports whether the unit's contributed tool set differs from the
// previous namespace.
func (rep Report) Changed() bool {
	return len(rep.Added) > 0 || len(rep.Removed) > 0
}

// RebuildAll re-derives the entire namespace from the currently discoverable
// units and swaps it in atomically. Individual unit failures are recorded in
// the rejected set, never fatal to the pass.
func (r *Registry) RebuildAll(ctx context.Context) (Summary, error) {
	if !r.rebuild.TryLock() {
		return Summary{}, ErrRebuildBusy
	}
	defer r.rebuild.Unlock()

	next, err := r.buildAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	r.current.Store(next)

	summary := Summary{
		UnitsRejected: len(next.rejected),
		Tools:         len(next.tools),
	}
	for _, u := range next.units {
		if u.State == unit.Loaded {
			summary.UnitsLoaded++
		}
	}
	return summary, nil
}

// RebuildOne re-runs the pipeline for a single unit, leaving every other
// unit's descriptors untouched. A unit that fails now loses its previous
// descriptors and moves to the rejected set; a unit whose file is gone is
// removed from the namespace entirely.
func (r *Registry) RebuildOne(ctx context.Context, name string) (Report, error) {
	if !r.rebuild.TryLock() {
		return Report{}, ErrRebuildBusy
	}
	defer r.rebuild.Unlock()

	cur := r.current.Load()

	u, found, err := unit.Find(ctx, r.roots, name)
	if err != nil {
		return Report{}, err
	}

	if !found {
		if _, known := cur.units[name]; !known {
			return Report{}, &UnknownUnitError{Name: name}
		}
		next := cur.clone()
		removed := next.dropUnit(name)
		next.sortRejected()
		r.current.Store(next)
		return Report{Unit: name, Removed: removed}, nil
	}

	next := cur.clone()
	removed := next.dropUnit(name)

	rep := Report{Unit: name, Removed: removed}
	if u.State == unit.Rejected {
		// The scanner already rejected it (traversal, duplicate name). Its
		// path was never verified, so it must not reach the loader.
		next.rejected = append(next.rejected, record(u))
		rep.Rejected = u.Reason
	} else if mod := r.buildUnit(ctx, next, u); mod != nil {
		rep.Added = insertModule(next, mod)
	} else {
		rep.Rejected = u.Reason
	}
	next.units[name] = u
	next.sortRejected()

	r.current.Store(next)
	return rep, nil
}

// ListTools returns the public name, documentation, and parameter contract
// of every current descriptor, deterministically ordered by name.
func (r *Registry) ListTools() []ToolInfo {
	snap := r.current.Load()
	infos := make([]ToolInfo, 0, len(snap.tools))
	for _, name := range snap.toolNames() {
		infos = append(infos, snap.tools[name].Info())
	}
	return infos
}

// ListRejected returns the current rejected unit records.
func (r *Registry) ListRejected() []unit.RejectedRecord {
	snap := r.current.Load()
	out := make([]unit.RejectedRecord, len(snap.rejected))
	copy(out, snap.rejected)
	return out
}

// Resolve returns the current descriptor for the given public name. The
// descriptor and the namespace it came from belong to the same snapshot.
func (r *Registry) Resolve(name string) (*Descriptor, bool) {
	d, ok := r.current.Load().tools[name]
	return d, ok
}

// Units returns the current units by logical name, for capability summaries.
func (r *Registry) Units() map[string]*unit.Unit {
	snap := r.current.Load()
	out := make(map[string]*unit.Unit, len(snap.units))
	for name, u := range snap.units {
		out[name] = u
	}
	return out
}
