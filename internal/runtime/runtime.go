// Package runtime exposes the webhook handler over net/http and AWS Lambda.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/zoom-webhook-app/internal/handler"
	"github.com/isometry/zoom-webhook-app/internal/helpers"
	"github.com/isometry/zoom-webhook-app/internal/models"
	"github.com/pkg/errors"
)

const (
	PayloadTypeAPIGatewayV1 = "api-gateway-v1"
	PayloadTypeAPIGatewayV2 = "api-gateway-v2"
	PayloadTypeLambdaURL    = "lambda-url"
)

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

type Runtime struct {
	*handler.Handler
	logger *slog.Logger
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		resp.Header().Set("Allow", http.MethodPost)
		r.respond(models.Response{StatusCode: http.StatusMethodNotAllowed}, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		r.respond(models.Response{StatusCode: http.StatusInternalServerError}, resp)
		return
	}

	r.logger.Debug("processing request...", slog.String("body", helpers.Truncate(string(body), 256)))
	response, err := r.Handler.Process(body, normaliseHeaders(req.Header))
	r.logOutcome(response, err)
	r.respond(response, resp)
}

// Lambda is the AWS Lambda handler for the runtime. The incoming event is decoded according to the configured payload type.
func (r *Runtime) Lambda(_ context.Context, event json.RawMessage) (any, error) {
	r.logger.Info("received Lambda invocation")
	payloadType := r.Handler.GetLambdaPayloadType()

	var (
		method  string
		request models.Request
		encoded bool
	)
	switch payloadType {
	case PayloadTypeAPIGatewayV1:
		var e events.APIGatewayProxyRequest
		if err := json.Unmarshal(event, &e); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v1 request")
		}
		method, encoded = e.HTTPMethod, e.IsBase64Encoded
		request = models.Request{Body: e.Body, Headers: e.Headers}
	case PayloadTypeAPIGatewayV2:
		var e events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(event, &e); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v2 request")
		}
		method, encoded = e.RequestContext.HTTP.Method, e.IsBase64Encoded
		request = models.Request{Body: e.Body, Headers: e.Headers}
	case PayloadTypeLambdaURL:
		var e events.LambdaFunctionURLRequest
		if err := json.Unmarshal(event, &e); err != nil {
			return nil, errors.Wrap(err, "failed to decode Lambda function URL request")
		}
		method, encoded = e.RequestContext.HTTP.Method, e.IsBase64Encoded
		request = models.Request{Body: e.Body, Headers: e.Headers}
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", payloadType)
	}

	response, err := r.HandleRequest(method, request, encoded)
	r.logOutcome(response, err)

	switch payloadType {
	case PayloadTypeAPIGatewayV1:
		return events.APIGatewayProxyResponse{StatusCode: response.StatusCode, Headers: response.Headers, Body: response.Body}, nil
	case PayloadTypeAPIGatewayV2:
		return events.APIGatewayV2HTTPResponse{StatusCode: response.StatusCode, Headers: response.Headers, Body: response.Body}, nil
	default:
		return events.LambdaFunctionURLResponse{StatusCode: response.StatusCode, Headers: response.Headers, Body: response.Body}, nil
	}
}

// HandleRequest runs a request decoded from a Lambda event through the handler.
func (r *Runtime) HandleRequest(method string, request models.Request, base64Encoded bool) (models.Response, error) {
	if !strings.EqualFold(method, http.MethodPost) {
		return models.Response{StatusCode: http.StatusMethodNotAllowed, Headers: map[string]string{"Allow": http.MethodPost}}, nil
	}
	body := []byte(request.Body)
	if base64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return models.Response{Body: "invalid base64 body", StatusCode: http.StatusBadRequest},
				&handler.MalformedRequestError{Cause: errors.Wrap(err, "failed to decode base64 body")}
		}
		body = decoded
	}

	// Lower-case incoming headers for compatibility purposes
	lch := make(map[string]string, len(request.Headers))
	for k, v := range request.Headers {
		lch[strings.ToLower(k)] = v
	}
	return r.Handler.Process(body, lch)
}

func (r *Runtime) respond(response models.Response, resp http.ResponseWriter) {
	if err := helpers.RespondHTTP(response, resp, r.logger); err != nil {
		r.logger.Debug("failed to write response", slog.Any("error", err))
	}
}

func (r *Runtime) logOutcome(response models.Response, err error) {
	var authErr *handler.AuthenticationError
	switch {
	case err == nil:
		r.logger.Debug("handled request", slog.Int("status", response.StatusCode))
	case errors.As(err, &authErr):
		// already audited by the handler
	default:
		r.logger.Info("handled request", slog.Int("status", response.StatusCode), slog.Any("error", err))
	}
}

func normaliseHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}
	return headers
}
