package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAttendeeNotFound = errors.New("attendee not found")
	ErrAttendeeExists   = errors.New("attendee already exists")
)

type Attendee struct {
	ID string `gorm:"primaryKey;size:36"`

	EventID uint  `gorm:"not null;index"`
	Event   Event `gorm:"foreignKey:EventID"`

	Name        string `gorm:"not null"`
	Email       string
	TicketClass string `gorm:"not null"`
	Status      string `gorm:"not null;default:not_arrived"`
	CheckedInAt *time.Time
	Provenance  string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AttendeeDAO struct {
	db *gorm.DB
}

func NewAttendeeDAO(db *gorm.DB) *AttendeeDAO {
	return &AttendeeDAO{
		db: db,
	}
}

func (d *AttendeeDAO) Insert(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Create(&attendee)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Attendee{}, ErrAttendeeExists
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

// Save upserts by primary key, so a completed check-in transition and a new
// walk-in take the same write path.
func (d *AttendeeDAO) Save(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Save(&attendee)
	if result.Error != nil {
		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByID(ctx context.Context, id string) (Attendee, error) {
	var attendee Attendee
	result := d.db.WithContext(ctx).First(&attendee, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendee{}, ErrAttendeeNotFound
		}

		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *AttendeeDAO) FindByEventID(ctx context.Context, eventID uint) ([]Attendee, error) {
	var attendees []Attendee
	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name asc, id asc").
		Find(&attendees)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendees, nil
}
