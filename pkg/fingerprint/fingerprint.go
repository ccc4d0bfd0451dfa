// Package fingerprint derives stable device fingerprints from HTTP request
// attributes, used to detect session hijacking. Each mode hashes a
// different set of components, trading detection strength against false
// positives:
//
//   - Cookie: User-Agent plus Accept headers, excludes IP. Default for web apps.
//   - JWT: User-Agent and Accept-Language only, for API clients that vary
//     Accept per endpoint.
//   - HTMX: User-Agent only, since HTMX swaps vary the Accept headers.
//   - Strict: Cookie components plus the client IP. Strongest, but roaming
//     clients (mobile networks, VPNs) trip it.
package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"strings"
)

// ErrMismatch is returned by the Validate functions when the request's
// fingerprint does not match the stored one.
var ErrMismatch = errors.New("fingerprint: mismatch")

// Cookie fingerprints the request by User-Agent and Accept headers,
// excluding the client IP.
func Cookie(r *http.Request) string {
	return hash(
		r.UserAgent(),
		r.Header.Get("Accept"),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
	)
}

// JWT fingerprints the request by User-Agent and Accept-Language only.
func JWT(r *http.Request) string {
	return hash(r.UserAgent(), r.Header.Get("Accept-Language"))
}

// HTMX fingerprints the request by User-Agent alone.
func HTMX(r *http.Request) string {
	return hash(r.UserAgent())
}

// Strict fingerprints the request by the Cookie components plus the client
// IP address.
func Strict(r *http.Request) string {
	return hash(
		r.UserAgent(),
		r.Header.Get("Accept"),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		clientIP(r),
	)
}

// ValidateCookie checks the request against a stored Cookie fingerprint.
func ValidateCookie(r *http.Request, expected string) error {
	return compare(Cookie(r), expected)
}

// ValidateJWT checks the request against a stored JWT fingerprint.
func ValidateJWT(r *http.Request, expected string) error {
	return compare(JWT(r), expected)
}

// ValidateHTMX checks the request against a stored HTMX fingerprint.
func ValidateHTMX(r *http.Request, expected string) error {
	return compare(HTMX(r), expected)
}

// ValidateStrict checks the request against a stored Strict fingerprint.
func ValidateStrict(r *http.Request, expected string) error {
	return compare(Strict(r), expected)
}

func compare(got, expected string) error {
	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		return ErrMismatch
	}
	return nil
}

func hash(components ...string) string {
	h := sha256.New()
	for _, c := range components {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
