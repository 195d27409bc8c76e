package registry

import (
	"context"
	"os"
	"time"

	"github.com/AJ-Gonzalez/black-orchid/internal/ctxlog"
	"github.com/AJ-Gonzalez/black-orchid/internal/loader"
	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// buildAll runs the whole pipeline — scan, validate, load, extract, resolve
// collisions — into a fresh snapshot. Only a scan-level filesystem error is
// fatal; everything per-unit degrades to a rejection record.
func (r *Registry) buildAll(ctx context.Context) (*snapshot, error) {
	logger := ctxlog.FromContext(ctx)

	units, err := unit.Scan(ctx, r.roots)
	if err != nil {
		return nil, err
	}

	next := emptySnapshot()

	for _, u := range units {
		if u.State == unit.Rejected {
			// The scanner already rejected it (traversal, duplicate name). A
			// rejected duplicate must not displace the unit that claimed the
			// name, so it only takes the map slot when nothing else has.
			if _, taken := next.units[u.Name]; !taken {
				next.units[u.Name] = u
			}
			next.rejected = append(next.rejected, record(u))
			continue
		}
		next.units[u.Name] = u

		mod := r.buildUnit(ctx, next, u)
		if mod == nil {
			continue
		}

		added := insertModule(next, mod)
		logger.Debug("Unit loaded.", "unit", u.Name, "tools", len(added))
	}

	next.sortRejected()
	return next, nil
}

// buildUnit validates and loads one scanned unit. On failure it marks the
// unit rejected, appends the record to the working snapshot, and returns nil.
func (r *Registry) buildUnit(ctx context.Context, s *snapshot, u *unit.Unit) *loader.Module {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(u.Path)
	if err != nil {
		u.Reject("read error: " + err.Error())
		s.rejected = append(s.rejected, record(u))
		logger.Warn("Unit unreadable.", "unit", u.Name, "error", err)
		return nil
	}

	file, err := unit.Parse(u.Name, src, u.Path)
	if err != nil {
		u.Reject(err.Error())
		s.rejected = append(s.rejected, record(u))
		logger.Warn("Unit failed validation.", "unit", u.Name, "error", err)
		return nil
	}
	u.State = unit.Valid

	mod, err := loader.Load(u, file)
	if err != nil {
		u.Reject(err.Error())
		s.rejected = append(s.rejected, record(u))
		logger.Warn("Unit failed to load.", "unit", u.Name, "error", err)
		return nil
	}
	u.State = unit.Loaded

	return mod
}

func record(u *unit.Unit) unit.RejectedRecord {
	return unit.RejectedRecord{
		Name:   u.Name,
		Path:   u.Path,
		Reason: u.Reason,
		At:     time.Now(),
	}
}
