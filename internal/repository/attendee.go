package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/domain"
	"github.com/yizeng/gab/gin/gorm/event-checkin/internal/repository/dao"
)

var (
	ErrAttendeeNotFound = dao.ErrAttendeeNotFound
	ErrAttendeeExists   = dao.ErrAttendeeExists
)

type AttendeeDAO interface {
	Insert(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	Save(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	FindByID(ctx context.Context, id string) (dao.Attendee, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Attendee, error)
}

type AttendeeRepository struct {
	dao AttendeeDAO
}

func NewAttendeeRepository(dao AttendeeDAO) *AttendeeRepository {
	return &AttendeeRepository{
		dao: dao,
	}
}

func (r *AttendeeRepository) Create(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(attendee))
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendeeRepository) Save(ctx context.Context, attendee domain.Attendee) (domain.Attendee, error) {
	saved, err := r.dao.Save(ctx, r.domainToDao(attendee))
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *AttendeeRepository) FindByID(ctx context.Context, id string) (domain.Attendee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *AttendeeRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendee, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	attendees := make([]domain.Attendee, 0, len(found))
	for _, att := range found {
		attendees = append(attendees, r.daoToDomain(att))
	}

	return attendees, nil
}

func (r *AttendeeRepository) domainToDao(a domain.Attendee) dao.Attendee {
	return dao.Attendee{
		ID:          a.ID,
		EventID:     a.EventID,
		Name:        a.Name,
		Email:       a.Email,
		TicketClass: string(a.TicketClass),
		Status:      string(a.Status),
		CheckedInAt: a.CheckedInAt,
		Provenance:  string(a.Provenance),
	}
}

func (r *AttendeeRepository) daoToDomain(a dao.Attendee) domain.Attendee {
	return domain.Attendee{
		ID:          a.ID,
		EventID:     a.EventID,
		Name:        a.Name,
		Email:       a.Email,
		TicketClass: domain.TicketClass(a.TicketClass),
		Status:      domain.CheckInStatus(a.Status),
		CheckedInAt: a.CheckedInAt,
		Provenance:  domain.Provenance(a.Provenance),
	}
}
