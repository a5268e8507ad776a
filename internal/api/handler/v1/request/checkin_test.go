package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameCheckInRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain name", input: "Emily Davis"},
		{name: "accented name", input: "Zoë Müller"},
		{name: "name with punctuation", input: "Zephyr Q. Nobody"},
		{name: "digits only", input: "12345", wantErr: true},
		{name: "punctuation only", input: "...", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := NameCheckInRequest{Name: tc.input}

			err := req.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterAttendeeRequest_Validate(t *testing.T) {
	valid := RegisterAttendeeRequest{Name: "Emily Davis", Email: "emily@example.com", TicketClass: "member"}
	assert.NoError(t, valid.Validate())

	badClass := RegisterAttendeeRequest{Name: "Emily Davis", TicketClass: "platinum"}
	assert.Error(t, badClass.Validate())

	noName := RegisterAttendeeRequest{TicketClass: "vip"}
	assert.Error(t, noName.Validate())
}
