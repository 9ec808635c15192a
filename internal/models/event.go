package models

import "encoding/json"

// EventEndpointURLValidation is the event Zoom sends to confirm ownership of the webhook endpoint.
const EventEndpointURLValidation = "endpoint.url_validation"

// Notification represents a Zoom webhook delivery. Payload is kept raw as its shape depends on Event.
type Notification struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// URLValidationPayload is the payload of an endpoint.url_validation event.
type URLValidationPayload struct {
	PlainToken string `json:"plainToken"`
}

// URLValidationResponse is the body returned to an endpoint.url_validation challenge.
type URLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}
