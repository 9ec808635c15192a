package validation_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/isometry/zoom-webhook-app/internal/validation"
	"github.com/stretchr/testify/assert"
)

const (
	testSecret    = "topsecret"
	testTimestamp = "1700000000"
	testBody      = `{"event":"meeting.started"}`
)

var (
	timestampKey = strings.ToLower(validation.TimestampHeader)
	signatureKey = strings.ToLower(validation.SignatureHeader)
)

func generateHmacSha256(payload, key string) string {
	mac := hmac.New(sha256.New, []byte(key))

	mac.Write([]byte(payload))
	b := make([]byte, hex.EncodedLen(sha256.Size))
	hex.Encode(b, mac.Sum(nil))
	return string(b)
}

func TestWebhookSecret_Sign(t *testing.T) {
	_inst := validation.WebhookSecret(testSecret)
	expected := "v0=" + generateHmacSha256("v0:"+testTimestamp+":"+testBody, testSecret)
	assert.Equal(t, expected, _inst.Sign(testTimestamp, []byte(testBody)))
}

func TestWebhookSecret_EncryptToken(t *testing.T) {
	testCases := []struct {
		Name  string
		Token string
	}{
		{
			Name:  "alphanumeric",
			Token: "qgg8vlvZRS6UYooatFL8Aw",
		},
		{
			Name:  "empty",
			Token: "",
		},
		{
			Name:  "unicode",
			Token: "jeton-éprouvé",
		},
	}

	_inst := validation.WebhookSecret(testSecret)
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, generateHmacSha256(tc.Token, testSecret), _inst.EncryptToken(tc.Token))
		})
	}
}

func TestWebhookSecret_ValidateSignature(t *testing.T) {
	validSignature := "v0=" + generateHmacSha256("v0:"+testTimestamp+":"+testBody, testSecret)

	testCases := []struct {
		Name     string
		Secret   string
		Headers  map[string]string
		Body     string
		Expected error
	}{
		{
			Name:     "missing_headers",
			Secret:   testSecret,
			Headers:  map[string]string{},
			Body:     testBody,
			Expected: validation.ErrMissingTimestamp,
		},
		{
			Name:   "missing_timestamp",
			Secret: testSecret,
			Headers: map[string]string{
				signatureKey: validSignature,
			},
			Body:     testBody,
			Expected: validation.ErrMissingTimestamp,
		},
		{
			Name:   "missing_signature",
			Secret: testSecret,
			Headers: map[string]string{
				timestampKey: testTimestamp,
			},
			Body:     testBody,
			Expected: validation.ErrMissingSignature,
		},
		{
			Name:   "empty_signature",
			Secret: testSecret,
			Headers: map[string]string{
				timestampKey: testTimestamp,
				signatureKey: "",
			},
			Body:     testBody,
			Expected: validation.ErrMissingSignature,
		},
		{
			Name:   "unprefixed_signature",
			Secret: testSecret,
			Headers: map[string]string{
				timestampKey: testTimestamp,
				signatureKey: strings.TrimPrefix(validSignature, "v0="),
			},
			Body:     testBody,
			Expected: validation.ErrSignatureMismatch,
		},
		{
			Name:   "wrong_secret",
			Secret: "othersecret",
			Headers: map[string]string{
				timestampKey: testTimestamp,
				signatureKey: validSignature,
			},
			Body:     testBody,
			Expected: validation.ErrSignatureMismatch,
		},
		{
			Name:   "empty_secret",
			Secret: "",
			Headers: map[string]string{
				timestampKey: testTimestamp,
				signatureKey: validSignature,
			},
			Body:     testBody,
			Expected: validation.ErrMissingSecret,
		},
		{
			Name:   "valid_signature",
			Secret: testSecret,
			Headers: map[string]string{
				timestampKey: testTimestamp,
				signatureKey: validSignature,
			},
			Body: testBody,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_inst := validation.WebhookSecret(tc.Secret)
			err := _inst.ValidateSignature([]byte(tc.Body), tc.Headers)
			assert.ErrorIs(t, err, tc.Expected)
			if tc.Expected == nil {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWebhookSecret_Verify_BitFlips(t *testing.T) {
	_inst := validation.NewWebhookSecret(testSecret)
	signature := _inst.Sign(testTimestamp, []byte(testBody))
	assert.True(t, _inst.Verify([]byte(testBody), testTimestamp, signature))

	flip := func(s string, i int, bit uint) string {
		b := []byte(s)
		b[i] ^= 1 << bit
		return string(b)
	}

	for i := range len(signature) {
		for bit := range uint(8) {
			assert.False(t, _inst.Verify([]byte(testBody), testTimestamp, flip(signature, i, bit)), "signature byte %d bit %d", i, bit)
		}
	}
	for i := range len(testTimestamp) {
		for bit := range uint(8) {
			assert.False(t, _inst.Verify([]byte(testBody), flip(testTimestamp, i, bit), signature), "timestamp byte %d bit %d", i, bit)
		}
	}
	for i := range len(testBody) {
		for bit := range uint(8) {
			assert.False(t, _inst.Verify([]byte(flip(testBody, i, bit)), testTimestamp, signature), "body byte %d bit %d", i, bit)
		}
	}
}

func TestWebhookSecret_Verify_MissingHeaders(t *testing.T) {
	for _, secret := range []string{testSecret, "", "another"} {
		_inst := validation.WebhookSecret(secret)
		for _, body := range []string{"", testBody, "not json"} {
			assert.False(t, _inst.Verify([]byte(body), "", _inst.Sign(testTimestamp, []byte(body))))
			assert.False(t, _inst.Verify([]byte(body), testTimestamp, ""))
			assert.False(t, _inst.Verify([]byte(body), "", ""))
		}
	}
}

func TestValidateTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)

	testCases := []struct {
		Name      string
		Timestamp string
		Window    time.Duration
		Expected  error
	}{
		{
			Name:      "disabled_window",
			Timestamp: "garbage",
		},
		{
			Name:      "seconds_within_window",
			Timestamp: strconv.FormatInt(now.Add(-time.Minute).Unix(), 10),
			Window:    5 * time.Minute,
		},
		{
			Name:      "milliseconds_within_window",
			Timestamp: strconv.FormatInt(now.Add(time.Minute).UnixMilli(), 10),
			Window:    5 * time.Minute,
		},
		{
			Name:      "seconds_too_old",
			Timestamp: strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10),
			Window:    5 * time.Minute,
			Expected:  validation.ErrStaleTimestamp,
		},
		{
			Name:      "milliseconds_in_future",
			Timestamp: strconv.FormatInt(now.Add(10*time.Minute).UnixMilli(), 10),
			Window:    5 * time.Minute,
			Expected:  validation.ErrStaleTimestamp,
		},
		{
			Name:      "not_a_number",
			Timestamp: "yesterday",
			Window:    5 * time.Minute,
			Expected:  validation.ErrInvalidTimestamp,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := validation.ValidateTimestamp(tc.Timestamp, tc.Window, now)
			if tc.Expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.Expected)
			}
		})
	}
}
