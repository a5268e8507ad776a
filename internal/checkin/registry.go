package checkin

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
)

var ErrAttendeeNotFound = errors.New("attendee not found")

// entry wraps one attendee record with its own lock. Two concurrent requests
// for the same attendee serialize on it; requests for different attendees
// proceed in parallel.
type entry struct {
	mu  sync.Mutex
	att domain.Attendee
	seq uint64
}

func (e *entry) view() domain.Attendee {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.att
}

// Registry exclusively owns the attendee records of a single event.
// The check-in engine is its only writer.
type Registry struct {
	eventID uint

	mu      sync.RWMutex
	entries map[string]*entry
	nextSeq uint64

	// walkInMu serializes resolve-then-create per normalized name so two
	// concurrent walk-in submissions of the same new name yield one record.
	walkInMu map[string]*sync.Mutex
}

func NewRegistry(eventID uint) *Registry {
	return &Registry{
		eventID:  eventID,
		entries:  make(map[string]*entry),
		walkInMu: make(map[string]*sync.Mutex),
	}
}

func (r *Registry) EventID() uint {
	return r.eventID
}

// Add inserts a roster attendee. Records seeded from persistence keep their
// ids; insertion order drives the resolver's recency tie-break.
func (r *Registry) Add(att domain.Attendee) domain.Attendee {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addLocked(att)
}

// Seed loads a full roster in one shot.
func (r *Registry) Seed(attendees []domain.Attendee) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, att := range attendees {
		r.addLocked(att)
	}
}

func (r *Registry) addLocked(att domain.Attendee) domain.Attendee {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	att.EventID = r.eventID
	if att.Status == "" {
		att.Status = domain.StatusNotArrived
	}

	r.nextSeq++
	r.entries[att.ID] = &entry{att: att, seq: r.nextSeq}

	return att
}

// UpsertWalkIn creates a new walk-in attendee in state not_arrived. It never
// mutates an existing record; callers run the resolver first to avoid
// duplicates.
func (r *Registry) UpsertWalkIn(name string) domain.Attendee {
	return r.Add(domain.Attendee{
		Name:        strings.TrimSpace(name),
		TicketClass: domain.TicketGuest,
		Status:      domain.StatusNotArrived,
		Provenance:  domain.ProvenanceWalkIn,
	})
}

func (r *Registry) Get(id string) (domain.Attendee, error) {
	ent, ok := r.lookup(id)
	if !ok {
		return domain.Attendee{}, ErrAttendeeNotFound
	}

	return ent.view(), nil
}

// List returns attendees ordered by name, optionally narrowed by a
// case-insensitive name/email substring filter.
func (r *Registry) List(filter string) []domain.Attendee {
	needle := strings.ToLower(strings.TrimSpace(filter))

	attendees := make([]domain.Attendee, 0, r.size())
	for _, ent := range r.snapshotEntries() {
		att := ent.view()
		if needle != "" &&
			!strings.Contains(strings.ToLower(att.Name), needle) &&
			!strings.Contains(strings.ToLower(att.Email), needle) {
			continue
		}
		attendees = append(attendees, att)
	}

	sort.Slice(attendees, func(i, j int) bool {
		if attendees[i].Name != attendees[j].Name {
			return attendees[i].Name < attendees[j].Name
		}
		return attendees[i].ID < attendees[j].ID
	})

	return attendees
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ent, ok := r.entries[id]

	return ent, ok
}

func (r *Registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

func (r *Registry) snapshotEntries() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*entry, 0, len(r.entries))
	for _, ent := range r.entries {
		entries = append(entries, ent)
	}

	return entries
}

// lockWalkIn acquires the creation lock for a normalized free-text name and
// returns the release func.
func (r *Registry) lockWalkIn(name string) func() {
	key := normalizeName(name)

	r.mu.Lock()
	mu, ok := r.walkInMu[key]
	if !ok {
		mu = &sync.Mutex{}
		r.walkInMu[key] = mu
	}
	r.mu.Unlock()

	mu.Lock()

	return mu.Unlock
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
