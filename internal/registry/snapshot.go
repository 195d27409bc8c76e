package registry

import (
	"sort"

	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// snapshot is one complete, immutable generation of the tool namespace.
// Readers obtain a snapshot with a single atomic load and everything they
// see — tools, units, rejections — belongs to the same rebuild.
type snapshot struct {
	tools    map[string]*Descriptor
	units    map[string]*unit.Unit
	rejected []unit.RejectedRecord
}

func emptySnapshot() *snapshot {
	return &snapshot{
		tools: make(map[string]*Descriptor),
		units: make(map[string]*unit.Unit),
	}
}

// clone copies the snapshot's containers so an incremental rebuild can edit
// its working copy without disturbing concurrent readers. Descriptors and
// units are shared; both are immutable once published.
func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		tools:    make(map[string]*Descriptor, len(s.tools)),
		units:    make(map[string]*unit.Unit, len(s.units)),
		rejected: make([]unit.RejectedRecord, len(s.rejected)),
	}
	for name, d := range s.tools {
		next.tools[name] = d
	}
	for name, u := range s.units {
		next.units[name] = u
	}
	copy(next.rejected, s.rejected)
	return next
}

// dropUnit removes every trace of the given unit from the working snapshot:
// its descriptors, its rejection records, and the unit itself.
func (s *snapshot) dropUnit(name string) (removed []string) {
	for toolName, d := range s.tools {
		if d.Unit == name {
			removed = append(removed, toolName)
			delete(s.tools, toolName)
		}
	}
	sort.Strings(removed)

	kept := s.rejected[:0]
	for _, rec := range s.rejected {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	s.rejected = kept

	delete(s.units, name)
	return removed
}

// toolNames returns the public names in deterministic order.
func (s *snapshot) toolNames() []string {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortRejected keeps the rejected set in a stable listing order.
func (s *snapshot) sortRejected() {
	sort.Slice(s.rejected, func(i, j int) bool {
		if s.rejected[i].Name != s.rejected[j].Name {
			return s.rejected[i].Name < s.rejected[j].Name
		}
		return s.rejected[i].Reason < s.rejected[j].Reason
	})
}
