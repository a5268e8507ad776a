package domain

import "time"

type TicketClass string

const (
	TicketMember TicketClass = "member"
	TicketGuest  TicketClass = "guest"
	TicketVIP    TicketClass = "vip"
)

type CheckInStatus string

const (
	StatusNotArrived CheckInStatus = "not_arrived"
	StatusCheckedIn  CheckInStatus = "checked_in"
)

type Provenance string

const (
	ProvenanceRoster Provenance = "roster"
	ProvenanceWalkIn Provenance = "walk_in"
)

// Attendee is one roster entry of a single event. CheckedInAt is set exactly
// when Status is StatusCheckedIn and nil otherwise.
type Attendee struct {
	ID          string        `json:"id"`
	EventID     uint          `json:"event_id"`
	Name        string        `json:"name"`
	Email       string        `json:"email,omitempty"`
	TicketClass TicketClass   `json:"ticket_class"`
	Status      CheckInStatus `json:"status"`
	CheckedInAt *time.Time    `json:"checked_in_at,omitempty"`
	Provenance  Provenance    `json:"provenance"`
}

// CheckIn transitions the attendee to checked_in at the given time.
// Returns false without touching the record when already checked in.
func (a *Attendee) CheckIn(at time.Time) bool {
	if a.Status == StatusCheckedIn {
		return false
	}

	a.Status = StatusCheckedIn
	t := at
	a.CheckedInAt = &t

	return true
}

// CheckOut reverses a check-in, clearing the timestamp.
// Returns false without touching the record when not checked in.
func (a *Attendee) CheckOut() bool {
	if a.Status != StatusCheckedIn {
		return false
	}

	a.Status = StatusNotArrived
	a.CheckedInAt = nil

	return true
}

func (a *Attendee) IsCheckedIn() bool {
	return a.Status == StatusCheckedIn
}
