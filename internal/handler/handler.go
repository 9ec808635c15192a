// Package handler dispatches Zoom webhook deliveries: signature verification, endpoint validation challenges and notification logging.
package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/isometry/zoom-webhook-app/internal/helpers"
	"github.com/isometry/zoom-webhook-app/internal/models"
	"github.com/isometry/zoom-webhook-app/internal/validation"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Option is a function that applies an option to a Handler.
type Option func(*Handler)

// Handler validates and answers a single Zoom webhook delivery at a time. It holds no mutable state besides the notification sink.
type Handler struct {
	logger            *slog.Logger
	webhookSecret     *validation.WebhookSecret
	timestampWindow   time.Duration
	now               func() time.Time
	lambdaPayloadType string

	sinkMu sync.Mutex
	sink   io.Writer

	rejected      atomic.Int64
	rejectedAudit *rate.Sometimes
}

// NewHandler creates a Handler. The webhook secret is mandatory.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:        helpers.NewNoopLogger(),
		now:           time.Now,
		sink:          os.Stdout,
		rejectedAudit: helpers.NewOnceAMinute(),
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.webhookSecret == nil || *_inst.webhookSecret == "" {
		return nil, config.NewConfigurationError("missing Zoom webhook secret token")
	}
	return _inst, nil
}

// Process dispatches a raw delivery. Header keys must be lower-cased.
// The returned error, when set, is an *AuthenticationError or a *MalformedRequestError matching the response status.
func (h *Handler) Process(body []byte, headers map[string]string) (models.Response, error) {
	logger := h.logger
	logger.Debug("processing request...")

	var notification models.Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		logger.Warn("parsing webhook payload", slog.Any("error", err))
		return models.Response{Body: "invalid JSON payload", StatusCode: http.StatusBadRequest, Headers: textPlain()},
			&MalformedRequestError{Cause: errors.Wrap(err, "failed to parse webhook payload")}
	}

	if err := h.authenticate(body, headers); err != nil {
		h.auditRejection(logger, err)
		// indistinguishable from an unknown route
		return models.Response{StatusCode: http.StatusNotFound}, &AuthenticationError{Cause: err}
	}
	logger.Debug("request signature is valid")

	if notification.Event == "" {
		logger.Warn("missing event type")
		return models.Response{Body: "missing event type", StatusCode: http.StatusBadRequest, Headers: textPlain()},
			NewMalformedRequestError("missing event type")
	}
	logger = logger.With(slog.String("event", notification.Event))

	if notification.Event == models.EventEndpointURLValidation {
		return h.respondURLValidation(logger, notification)
	}
	return h.emitNotification(logger, body)
}

// ChallengeResponse computes the answer to an endpoint.url_validation payload.
func (h *Handler) ChallengeResponse(payload json.RawMessage) (*models.URLValidationResponse, error) {
	if len(payload) == 0 {
		return nil, NewMalformedRequestError("missing payload")
	}
	var validationPayload models.URLValidationPayload
	if err := json.Unmarshal(payload, &validationPayload); err != nil {
		return nil, &MalformedRequestError{Cause: errors.Wrap(err, "failed to parse url validation payload")}
	}
	if validationPayload.PlainToken == "" {
		return nil, NewMalformedRequestError("missing payload.plainToken")
	}
	return &models.URLValidationResponse{
		PlainToken:     validationPayload.PlainToken,
		EncryptedToken: h.webhookSecret.EncryptToken(validationPayload.PlainToken),
	}, nil
}

// GetLambdaPayloadType returns the API Gateway payload flavour the Lambda runtime should answer with.
func (h *Handler) GetLambdaPayloadType() string {
	return h.lambdaPayloadType
}

func (h *Handler) authenticate(body []byte, headers map[string]string) error {
	if err := h.webhookSecret.ValidateSignature(body, headers); err != nil {
		return err
	}
	return validation.ValidateTimestamp(headers[strings.ToLower(validation.TimestampHeader)], h.timestampWindow, h.now())
}

func (h *Handler) auditRejection(logger *slog.Logger, err error) {
	h.rejected.Add(1)
	logger.Debug("rejecting unauthenticated request", slog.Any("error", err))
	h.rejectedAudit.Do(func() {
		logger.Warn("rejected unauthenticated requests", slog.Int64("count", h.rejected.Swap(0)), slog.Any("lastError", err))
	})
}

func (h *Handler) respondURLValidation(logger *slog.Logger, notification models.Notification) (models.Response, error) {
	logger.Debug("answering endpoint validation challenge...")
	challenge, err := h.ChallengeResponse(notification.Payload)
	if err != nil {
		logger.Warn("invalid endpoint validation request", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusBadRequest, Headers: textPlain()}, err
	}

	respBody, err := json.Marshal(challenge)
	if err != nil {
		return models.Response{StatusCode: http.StatusInternalServerError}, errors.Wrap(err, "failed to marshal url validation response")
	}
	logger.Info("endpoint validation challenge answered")

	// 204 with a body, as Zoom's reference receiver does
	return models.Response{
		Body:       string(respBody),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: http.StatusNoContent,
	}, nil
}

func (h *Handler) emitNotification(logger *slog.Logger, body []byte) (models.Response, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "    "); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	buf.WriteByte('\n')

	h.sinkMu.Lock()
	_, err := h.sink.Write(buf.Bytes())
	h.sinkMu.Unlock()
	if err != nil {
		logger.Error("failed to emit notification", slog.Any("error", err))
	}

	logger.Info("notification received", slog.Int("size", len(body)))
	return models.Response{StatusCode: http.StatusOK}, nil
}

func textPlain() map[string]string {
	return map[string]string{"Content-Type": "text/plain; charset=utf-8"}
}
