package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Free-text names must contain at least one letter; the lookahead keeps
// punctuation-only and digit-only submissions out.
var nameHasLetter = regexp2.MustCompile(`^(?=.*\p{L}).+$`, regexp2.None)

func validateNameHasLetter(value interface{}) error {
	name, _ := value.(string)

	ok, err := nameHasLetter.MatchString(name)
	if err != nil || !ok {
		return errors.New("must contain at least one letter")
	}

	return nil
}

type TokenCheckInRequest struct {
	Payload    string `json:"payload" binding:"required"`
	AttendeeID string `json:"attendee_id" binding:"required"`
}

func (req *TokenCheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Payload, validation.Required),
		validation.Field(&req.AttendeeID, validation.Required),
	)
}

type ManualCheckInRequest struct {
	AttendeeID string `json:"attendee_id" binding:"required"`
}

func (req *ManualCheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AttendeeID, validation.Required),
	)
}

type NameCheckInRequest struct {
	Name string `json:"name" binding:"required"`
}

func (req *NameCheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100), validation.By(validateNameHasLetter)),
	)
}

type CheckOutRequest struct {
	AttendeeID string `json:"attendee_id" binding:"required"`
}

func (req *CheckOutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AttendeeID, validation.Required),
	)
}

type RegisterAttendeeRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	TicketClass string `json:"ticket_class" binding:"required"`
}

func (req *RegisterAttendeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100), validation.By(validateNameHasLetter)),
		validation.Field(&req.Email, validation.Length(0, 254)),
		validation.Field(&req.TicketClass, validation.Required, validation.In("member", "guest", "vip")),
	)
}
