package checkin

import (
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
)

// Aggregator derives live attendance counts from the registry. Every call
// recomputes from current contents, O(n) in roster size; nothing is cached
// that could go stale.
type Aggregator struct {
	registry *Registry
}

func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{
		registry: registry,
	}
}

func (a *Aggregator) Snapshot() domain.AttendanceSnapshot {
	entries := a.registry.snapshotEntries()

	checkedIn := 0
	for _, ent := range entries {
		attendee := ent.view()
		if attendee.IsCheckedIn() {
			checkedIn++
		}
	}

	return domain.NewAttendanceSnapshot(checkedIn, len(entries))
}
