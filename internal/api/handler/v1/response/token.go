package response

import "time"

type CheckInToken struct {
	EventID   uint      `json:"event_id"`
	Payload   string    `json:"payload"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
