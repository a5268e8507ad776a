package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/checkin"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrAttendeeNotFound = checkin.ErrAttendeeNotFound
	ErrInvalidToken     = checkin.ErrInvalidToken
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type AttendeeRepository interface {
	Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	Save(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendee, error)
}

// eventEngine bundles the live check-in state of one event.
type eventEngine struct {
	registry   *checkin.Registry
	engine     *checkin.Engine
	aggregator *checkin.Aggregator
}

// CheckInService exposes the check-in operations to the transport layer. The
// roster of an event is loaded into an in-memory registry on first use; every
// completed transition is written through to the repository afterwards, so no
// persistence call ever happens inside the transition logic itself.
type CheckInService struct {
	events    EventRepository
	attendees AttendeeRepository
	tokens    *checkin.TokenService

	mu      sync.Mutex
	engines map[uint]*eventEngine
}

func NewCheckInService(events EventRepository, attendees AttendeeRepository, tokens *checkin.TokenService) *CheckInService {
	return &CheckInService{
		events:    events,
		attendees: attendees,
		tokens:    tokens,
		engines:   make(map[uint]*eventEngine),
	}
}

// IssueToken mints and encodes a fresh check-in token for the event.
// Re-issuing renews the displayed code without invalidating payloads already
// scanned.
func (s *CheckInService) IssueToken(ctx context.Context, eventID uint) (checkin.Token, string, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return checkin.Token{}, "", err
	}

	token := s.tokens.Issue(eventID)
	payload, err := s.tokens.Encode(token)
	if err != nil {
		return checkin.Token{}, "", fmt.Errorf("s.tokens.Encode -> %w", err)
	}

	return token, payload, nil
}

func (s *CheckInService) CheckInByToken(ctx context.Context, eventID uint, payload, attendeeID string) (domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}

	att, err := ee.engine.CheckInByToken(payload, attendeeID)
	if err != nil {
		return domain.Attendee{}, err
	}

	return s.persist(ctx, att)
}

func (s *CheckInService) CheckInManual(ctx context.Context, eventID uint, attendeeID string) (domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}

	att, err := ee.engine.CheckInManual(attendeeID)
	if err != nil {
		return domain.Attendee{}, err
	}

	return s.persist(ctx, att)
}

func (s *CheckInService) CheckInByName(ctx context.Context, eventID uint, freeText string) (domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}

	att, err := ee.engine.CheckInByName(freeText)
	if err != nil {
		return domain.Attendee{}, err
	}

	return s.persist(ctx, att)
}

func (s *CheckInService) CheckOut(ctx context.Context, eventID uint, attendeeID string) (domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}

	att, err := ee.engine.CheckOut(attendeeID)
	if err != nil {
		return domain.Attendee{}, err
	}

	return s.persist(ctx, att)
}

// RegisterAttendee adds a pre-registered roster entry, persisting it and
// adding it to the live registry when the event is already open.
func (s *CheckInService) RegisterAttendee(ctx context.Context, eventID uint, name, email string, class domain.TicketClass) (domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.Attendee{}, err
	}

	att := ee.registry.Add(domain.Attendee{
		Name:        name,
		Email:       email,
		TicketClass: class,
		Status:      domain.StatusNotArrived,
		Provenance:  domain.ProvenanceRoster,
	})

	created, err := s.attendees.Create(ctx, att)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("s.attendees.Create -> %w", err)
	}

	return created, nil
}

func (s *CheckInService) ListAttendees(ctx context.Context, eventID uint, filter string) ([]domain.Attendee, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return ee.registry.List(filter), nil
}

func (s *CheckInService) Snapshot(ctx context.Context, eventID uint) (domain.AttendanceSnapshot, error) {
	ee, err := s.engineFor(ctx, eventID)
	if err != nil {
		return domain.AttendanceSnapshot{}, err
	}

	return ee.aggregator.Snapshot(), nil
}

// engineFor returns the event's live engine, loading the roster from the
// repository on first use.
func (s *CheckInService) engineFor(ctx context.Context, eventID uint) (*eventEngine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ee, ok := s.engines[eventID]; ok {
		return ee, nil
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	roster, err := s.attendees.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.attendees.FindByEventID -> %w", err)
	}

	registry := checkin.NewRegistry(eventID)
	registry.Seed(roster)

	ee := &eventEngine{
		registry:   registry,
		engine:     checkin.NewEngine(registry, s.tokens),
		aggregator: checkin.NewAggregator(registry),
	}
	s.engines[eventID] = ee

	return ee, nil
}

// persist writes a completed transition through to the repository. Save
// upserts, so walk-in creation and status changes share the path.
func (s *CheckInService) persist(ctx context.Context, att domain.Attendee) (domain.Attendee, error) {
	saved, err := s.attendees.Save(ctx, att)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("s.attendees.Save -> %w", err)
	}

	return saved, nil
}
