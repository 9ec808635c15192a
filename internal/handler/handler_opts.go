package handler

import (
	"io"
	"log/slog"
	"time"

	"github.com/isometry/zoom-webhook-app/internal/validation"
)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithWebhookSecret(secret string) Option {
	return func(h *Handler) {
		h.webhookSecret = validation.NewWebhookSecret(secret)
	}
}

// WithTimestampWindow rejects deliveries whose timestamp is further than window from now. Zero disables the check.
func WithTimestampWindow(window time.Duration) Option {
	return func(h *Handler) {
		h.timestampWindow = window
	}
}

// WithClock overrides the time source used by the timestamp window check.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithNotificationSink sets where validated notifications are printed. Defaults to stdout.
func WithNotificationSink(w io.Writer) Option {
	return func(h *Handler) {
		h.sink = w
	}
}

func WithLambdaPayloadType(payloadType string) Option {
	return func(h *Handler) {
		h.lambdaPayloadType = payloadType
	}
}
