package registry

import (
	"fmt"
	"time"

	"github.com/AJ-Gonzalez/black-orchid/internal/loader"
	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// insertModule publishes a loaded module's exported tools into the working
// snapshot, resolving name collisions deterministically.
//
// The first claimant of a name keeps it bare; a later unit producing the
// same symbol is re-published as name_<unit>. If the suffixed form is also
// taken — a naming coincidence between units, since logical names themselves
// are unique — the tool is dropped and recorded as a rejection rather than
// silently discarded. Determinism follows from the caller's iteration order:
// scan order across units, declaration order within one.
func insertModule(s *snapshot, mod *loader.Module) (added []string) {
	unitName := mod.Unit.Name

	for _, tool := range mod.Exported() {
		desc := &Descriptor{
			Name:     tool.Name,
			Unit:     unitName,
			Original: tool.Name,
			Doc:      tool.Description,
			Params:   tool.Params,
			tool:     tool,
		}

		if _, taken := s.tools[tool.Name]; taken {
			suffixed := fmt.Sprintf("%s_%s", tool.Name, unitName)
			if holder, alsoTaken := s.tools[suffixed]; alsoTaken {
				s.rejected = append(s.rejected, unit.RejectedRecord{
					Name: unitName,
					Path: mod.Unit.Path,
					Reason: fmt.Sprintf("collision: tool %q and its fallback name %q are both taken (by %q and %q)",
						tool.Name, suffixed, s.tools[tool.Name].Unit, holder.Unit),
					At: time.Now(),
				})
				continue
			}
			desc.Name = suffixed
			desc.Renamed = true
		}

		s.tools[desc.Name] = desc
		added = append(added, desc.Name)
	}

	return added
}
