package checkin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, expired and wrong-event payloads alike.
var ErrInvalidToken = errors.New("invalid check-in token")

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 12 * time.Hour

// Token is an event-scoped, time-limited check-in credential. Validation is
// stateless: re-issuing replaces the displayed code but old signed payloads
// stay verifiable until their own expiry.
type Token struct {
	EventID   uint      `json:"event_id"`
	Nonce     string    `json:"nonce"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type tokenClaims struct {
	EventID uint `json:"eid"`
	jwt.RegisteredClaims
}

// TokenService mints and validates check-in tokens as signed JWS payloads.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenService(signingKey []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue mints a fresh token for the event. Calling it again renews the
// displayed code with a new nonce.
func (s *TokenService) Issue(eventID uint) Token {
	now := s.now()

	return Token{
		EventID:   eventID,
		Nonce:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
}

// Encode renders the token into a compact scannable payload. Pure function,
// no side effects.
func (s *TokenService) Encode(token Token) (string, error) {
	claims := tokenClaims{
		EventID: token.EventID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.Nonce,
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
	}

	payload, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt.SignedString -> %w", err)
	}

	return payload, nil
}

// Validate parses the payload, verifies signature and expiry, and returns the
// event id it was issued for. Any failure yields ErrInvalidToken, never a
// partial result. The token proves only that the scanned surface belongs to
// the event; the attendee id is supplied separately by the scanning client.
func (s *TokenService) Validate(payload string) (uint, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(payload, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.EventID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.EventID, nil
}
