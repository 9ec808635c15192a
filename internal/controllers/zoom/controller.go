// Package zoom resolves the Zoom webhook secret token from its configured source.
package zoom

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/isometry/zoom-webhook-app/internal/helpers"
	"github.com/pkg/errors"
)

// SecretGetter fetches a stored secret by key.
type SecretGetter interface {
	GetSecret(key string, encrypted bool) (*string, error)
}

// Controller resolves the webhook secret token once, at startup.
type Controller struct {
	logger        *slog.Logger
	secretSource  string
	secretToken   string
	ssmKey        string
	secretsGetter SecretGetter
}

// Credentials is the JSON document accepted in the SSM parameter, as an alternative to the bare token.
type Credentials struct {
	SecretToken string `json:"secret_token"`
}

// Option configures a Controller.
type Option func(*Controller)

// NewController creates a Controller.
func NewController(opts ...Option) *Controller {
	_inst := &Controller{secretSource: config.SecretSourceEnv}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("secretSource", _inst.secretSource)
	return _inst
}

// RetrieveWebhookSecret returns the secret token. An empty token is a *config.ConfigurationError.
func (c *Controller) RetrieveWebhookSecret() (string, error) {
	switch strings.TrimSpace(strings.ToLower(c.secretSource)) {
	case config.SecretSourceEnv:
		token := strings.TrimSpace(c.secretToken)
		if token == "" {
			return "", config.NewConfigurationError("missing Zoom webhook secret token [ZOOM_WEBHOOK_SECRET_TOKEN]")
		}
		c.logger.Debug("using webhook secret token from the environment...")
		return token, nil
	case config.SecretSourceSSM:
		if c.secretsGetter == nil {
			return "", config.NewConfigurationError("no SSM client configured")
		}
		c.logger.Debug("retrieving webhook secret token from SSM...", slog.String("key", c.ssmKey))
		value, err := c.secretsGetter.GetSecret(c.ssmKey, true)
		if err != nil {
			return "", &config.ConfigurationError{Cause: errors.Wrap(err, "failed to fetch webhook secret token from SSM")}
		}
		token := parseSecret(helpers.String(value))
		if token == "" {
			return "", config.NewConfigurationError("empty Zoom webhook secret token in SSM parameter %s", c.ssmKey)
		}
		return token, nil
	default:
		return "", config.NewConfigurationError("unsupported secret source: %s", c.secretSource)
	}
}

func parseSecret(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		var creds Credentials
		if err := json.Unmarshal([]byte(value), &creds); err == nil {
			return strings.TrimSpace(creds.SecretToken)
		}
	}
	return value
}
