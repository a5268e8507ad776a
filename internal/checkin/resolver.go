package checkin

import (
	"strings"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
)

// Resolver finds the best existing registry entry for a free-text name, or
// reports no match so a walk-in can be created. Read-only with respect to the
// registry.
type Resolver struct {
	registry *Registry
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{
		registry: registry,
	}
}

type candidate struct {
	att   domain.Attendee
	exact bool
	seq   uint64
}

// Resolve matches freeText against display names, case-insensitively, by
// substring. Ties break deterministically: exact equality beats substring,
// then the most recently added record, then lexicographic id order, so
// retries are idempotent.
func (r *Resolver) Resolve(freeText string) (domain.Attendee, bool) {
	needle := strings.ToLower(strings.TrimSpace(freeText))
	if needle == "" {
		return domain.Attendee{}, false
	}

	var best *candidate
	for _, ent := range r.registry.snapshotEntries() {
		att := ent.view()
		name := strings.ToLower(att.Name)
		if !strings.Contains(name, needle) {
			continue
		}

		c := candidate{att: att, exact: name == needle, seq: ent.seq}
		if best == nil || c.beats(best) {
			cc := c
			best = &cc
		}
	}

	if best == nil {
		return domain.Attendee{}, false
	}

	return best.att, true
}

func (c *candidate) beats(other *candidate) bool {
	if c.exact != other.exact {
		return c.exact
	}
	if c.seq != other.seq {
		return c.seq > other.seq
	}

	return c.att.ID < other.att.ID
}
