package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title    string `json:"title" binding:"required"`
	StartsAt string `json:"starts_at" binding:"required" format:"RFC3339"`
	Location string `json:"location" binding:"required"`
	Capacity int    `json:"capacity"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Capacity, validation.Min(0)),
	)
}
