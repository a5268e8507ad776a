package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueEncodeValidate(t *testing.T) {
	svc := NewTokenService([]byte("test-key"), 12*time.Hour)

	token := svc.Issue(42)
	assert.Equal(t, uint(42), token.EventID)
	assert.NotEmpty(t, token.Nonce)
	assert.Equal(t, 12*time.Hour, token.ExpiresAt.Sub(token.IssuedAt))

	payload, err := svc.Encode(token)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	eventID, err := svc.Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, uint(42), eventID)
}

func TestTokenService_Validate_ExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	svc := NewTokenService([]byte("test-key"), 12*time.Hour)
	svc.now = func() time.Time { return issuedAt }

	payload, err := svc.Encode(svc.Issue(7))
	require.NoError(t, err)

	// Still valid one minute before expiry.
	svc.now = func() time.Time { return issuedAt.Add(11*time.Hour + 59*time.Minute) }
	eventID, err := svc.Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, uint(7), eventID)

	// Invalid one minute after expiry.
	svc.now = func() time.Time { return issuedAt.Add(12*time.Hour + 1*time.Minute) }
	_, err = svc.Validate(payload)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Validate_Malformed(t *testing.T) {
	svc := NewTokenService([]byte("test-key"), time.Hour)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty payload", payload: ""},
		{name: "not a token", payload: "definitely-not-a-token"},
		{name: "truncated token", payload: "eyJhbGciOiJIUzI1NiJ9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(tc.payload)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_Validate_WrongKey(t *testing.T) {
	issuer := NewTokenService([]byte("key-one"), time.Hour)
	verifier := NewTokenService([]byte("key-two"), time.Hour)

	payload, err := issuer.Encode(issuer.Issue(3))
	require.NoError(t, err)

	_, err = verifier.Validate(payload)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Reissue_KeepsOldPayloadValid(t *testing.T) {
	svc := NewTokenService([]byte("test-key"), time.Hour)

	first := svc.Issue(5)
	firstPayload, err := svc.Encode(first)
	require.NoError(t, err)

	second := svc.Issue(5)
	assert.NotEqual(t, first.Nonce, second.Nonce)

	// Renewal replaces the displayed code only; already scanned payloads
	// stay verifiable until their own expiry.
	eventID, err := svc.Validate(firstPayload)
	require.NoError(t, err)
	assert.Equal(t, uint(5), eventID)
}
