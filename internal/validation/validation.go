// Package validation provides functionality for validating Zoom webhook signatures and answering endpoint validation challenges.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampHeader carries the request timestamp used as part of the signed message.
	TimestampHeader = "X-Zm-Request-Timestamp"
	// SignatureHeader carries the versioned HMAC-SHA256 signature of the request.
	SignatureHeader = "X-Zm-Signature"

	signatureVersion = "v0"
)

var (
	ErrMissingSecret     = errors.New("missing webhook secret token")
	ErrMissingTimestamp  = errors.New("missing request timestamp")
	ErrMissingSignature  = errors.New("missing request signature")
	ErrSignatureMismatch = errors.New("request signature mismatch")
	ErrInvalidTimestamp  = errors.New("invalid request timestamp")
	ErrStaleTimestamp    = errors.New("request timestamp outside of the accepted window")
)

// WebhookSecret is the secret token shared with Zoom, used as the HMAC key for signatures and challenge responses.
type WebhookSecret string

// NewWebhookSecret creates a new WebhookSecret instance from the provided secret string and returns its address.
func NewWebhookSecret(secret string) *WebhookSecret {
	s := WebhookSecret(secret)
	return &s
}

// Sign returns the value Zoom would send in the X-Zm-Signature header for the given timestamp and raw body.
func (s *WebhookSecret) Sign(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(*s))
	mac.Write([]byte(signatureVersion + ":" + timestamp + ":"))
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// EncryptToken hashes the plain token of an endpoint.url_validation challenge.
func (s *WebhookSecret) EncryptToken(plainToken string) string {
	mac := hmac.New(sha256.New, []byte(*s))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidateSignature checks the signature headers against the raw request body.
// Header keys are expected to be lower-cased.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil || *s == "" {
		return ErrMissingSecret
	}
	timestamp := headers[strings.ToLower(TimestampHeader)]
	if timestamp == "" {
		return ErrMissingTimestamp
	}
	signature := headers[strings.ToLower(SignatureHeader)]
	if signature == "" {
		return ErrMissingSignature
	}

	if !hmac.Equal([]byte(s.Sign(timestamp, body)), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Verify reports whether the request carries a valid signature. Missing headers are not an error, just a failed verification.
func (s *WebhookSecret) Verify(body []byte, timestamp, signature string) bool {
	return s.ValidateSignature(body, map[string]string{
		strings.ToLower(TimestampHeader): timestamp,
		strings.ToLower(SignatureHeader): signature,
	}) == nil
}

// ValidateTimestamp rejects timestamps further than window away from now. A zero window disables the check.
// Zoom timestamps are accepted both in epoch seconds and epoch milliseconds.
func ValidateTimestamp(timestamp string, window time.Duration, now time.Time) error {
	if window <= 0 {
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64)
	if err != nil || v < 0 {
		return ErrInvalidTimestamp
	}
	var sent time.Time
	if v > 1e12 {
		sent = time.UnixMilli(v)
	} else {
		sent = time.Unix(v, 0)
	}
	if math.Abs(float64(now.Sub(sent))) > float64(window) {
		return ErrStaleTimestamp
	}
	return nil
}
