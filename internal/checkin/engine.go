package checkin

import (
	"time"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
)

// Engine applies check-in and check-out transitions to the registry. It is
// the registry's only writer; every mutating operation serializes per
// attendee. The engine never logs or retries - errors go back to the calling
// channel as typed results.
type Engine struct {
	registry *Registry
	resolver *Resolver
	tokens   *TokenService
	now      func() time.Time
}

func NewEngine(registry *Registry, tokens *TokenService) *Engine {
	return &Engine{
		registry: registry,
		resolver: NewResolver(registry),
		tokens:   tokens,
		now:      time.Now,
	}
}

// CheckInByToken is the QR self-scan channel. The payload proves the event;
// the attendee id is the scanner's own second factor.
func (e *Engine) CheckInByToken(payload, attendeeID string) (domain.Attendee, error) {
	eventID, err := e.tokens.Validate(payload)
	if err != nil {
		return domain.Attendee{}, err
	}
	if eventID != e.registry.EventID() {
		return domain.Attendee{}, ErrInvalidToken
	}

	return e.checkIn(attendeeID)
}

// CheckInManual is the staff search-and-confirm channel.
func (e *Engine) CheckInManual(attendeeID string) (domain.Attendee, error) {
	return e.checkIn(attendeeID)
}

// CheckInByName is the free-text walk-in channel: a resolved match behaves
// like a manual check-in, no match creates a walk-in already checked in.
// Resolve-then-create is atomic per normalized name.
func (e *Engine) CheckInByName(freeText string) (domain.Attendee, error) {
	unlock := e.registry.lockWalkIn(freeText)
	defer unlock()

	if match, ok := e.resolver.Resolve(freeText); ok {
		return e.checkIn(match.ID)
	}

	created := e.registry.UpsertWalkIn(freeText)

	return e.checkIn(created.ID)
}

// CheckOut reverses a check-in, clearing the timestamp. A no-op when the
// attendee is already not_arrived.
func (e *Engine) CheckOut(attendeeID string) (domain.Attendee, error) {
	ent, ok := e.registry.lookup(attendeeID)
	if !ok {
		return domain.Attendee{}, ErrAttendeeNotFound
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	ent.att.CheckOut()

	return ent.att, nil
}

// checkIn performs the not_arrived -> checked_in transition under the
// per-attendee lock. A duplicate request observes the completed state and
// returns the record unchanged: an idempotent success, not an error.
func (e *Engine) checkIn(attendeeID string) (domain.Attendee, error) {
	ent, ok := e.registry.lookup(attendeeID)
	if !ok {
		return domain.Attendee{}, ErrAttendeeNotFound
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	ent.att.CheckIn(e.now())

	return ent.att, nil
}
