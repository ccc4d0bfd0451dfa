// Package jwt signs and verifies HS256 tokens against a shared secret,
// wrapping github.com/golang-jwt/jwt/v5 behind a small claims-agnostic
// surface: Generate accepts any JSON-serializable claims value and Parse
// decodes into any pointer, so applications define their own claim structs
// (usually embedding StandardClaims).
package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Errors returned by the service. Check with errors.Is.
var (
	// ErrInvalidSecret is returned when the signing secret is shorter than
	// 32 bytes.
	ErrInvalidSecret = errors.New("jwt: secret must be at least 32 bytes")

	// ErrInvalidToken is returned for malformed or otherwise unverifiable
	// tokens.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrExpiredToken is returned when the token's exp claim is in the past.
	ErrExpiredToken = errors.New("jwt: token expired")

	// ErrInvalidSignature is returned when the token was signed with a
	// different secret.
	ErrInvalidSignature = errors.New("jwt: invalid signature")
)

// StandardClaims mirrors the registered JWT claim set with Unix-second
// timestamps. Embed it in an application claims struct to inherit the
// registered names and time validation.
type StandardClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ID        string `json:"jti,omitempty"`
}

// Valid reports whether the time-based claims hold right now.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt != 0 && now >= c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	}
	return nil
}

// Service signs and verifies HS256 tokens with a shared secret.
type Service struct {
	secret []byte
}

// New creates a Service from a raw secret of at least 32 bytes.
func New(secret []byte) (*Service, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidSecret
	}
	return &Service{secret: secret}, nil
}

// NewFromString creates a Service from a string secret.
func NewFromString(secret string) (*Service, error) {
	return New([]byte(secret))
}

// Generate signs claims as an HS256 token. claims may be any
// JSON-serializable value whose encoding is a JSON object.
func (s *Service) Generate(claims any) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}
	mc := jwtlib.MapClaims{}
	if err := json.Unmarshal(raw, &mc); err != nil {
		return "", fmt.Errorf("jwt: claims must encode to a JSON object: %w", err)
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, mc).SignedString(s.secret)
}

// Parse verifies token's signature and standard time claims, then decodes
// the payload into claims, which must be a non-nil pointer. If the decoded
// claims implement interface{ Valid() error }, that check runs last.
func (s *Service) Parse(token string, claims any) error {
	mc := jwtlib.MapClaims{}
	_, err := jwtlib.ParseWithClaims(token, mc, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwt: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return ErrExpiredToken
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return ErrInvalidSignature
		default:
			return errors.Join(ErrInvalidToken, err)
		}
	}

	raw, err := json.Marshal(mc)
	if err != nil {
		return fmt.Errorf("jwt: re-encode claims: %w", err)
	}
	if err := json.Unmarshal(raw, claims); err != nil {
		return fmt.Errorf("jwt: decode claims: %w", err)
	}

	if v, ok := claims.(interface{ Valid() error }); ok {
		return v.Valid()
	}
	return nil
}
