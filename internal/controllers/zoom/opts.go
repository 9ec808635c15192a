package zoom

import "log/slog"

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithSecretSource(source string) Option {
	return func(c *Controller) {
		c.secretSource = source
	}
}

func WithSecretToken(token string) Option {
	return func(c *Controller) {
		c.secretToken = token
	}
}

func WithSSMKey(key string) Option {
	return func(c *Controller) {
		c.ssmKey = key
	}
}

// WithSecretGetter sets the store queried when the secret source is 'ssm'.
func WithSecretGetter(getter SecretGetter) Option {
	return func(c *Controller) {
		c.secretsGetter = getter
	}
}
