package domain

// AttendanceSnapshot is derived from the registry on demand and never stored.
type AttendanceSnapshot struct {
	CheckedInCount int     `json:"checked_in_count"`
	TotalCount     int     `json:"total_count"`
	Rate           float64 `json:"rate"`
	Capacity       int     `json:"capacity,omitempty"`
}

// NewAttendanceSnapshot computes the rate, guarding the empty roster.
func NewAttendanceSnapshot(checkedIn, total int) AttendanceSnapshot {
	s := AttendanceSnapshot{
		CheckedInCount: checkedIn,
		TotalCount:     total,
	}
	if total > 0 {
		s.Rate = float64(checkedIn) / float64(total)
	}

	return s
}
