package cmd

import (
	"github.com/isometry/zoom-webhook-app/internal/config"
	awsctl "github.com/isometry/zoom-webhook-app/internal/controllers/aws"
	"github.com/isometry/zoom-webhook-app/internal/controllers/zoom"
	"github.com/isometry/zoom-webhook-app/internal/handler"
	"github.com/isometry/zoom-webhook-app/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// retrieveWebhookSecret resolves the secret token from the configured source. AWS is only contacted for the 'ssm' source.
func retrieveWebhookSecret(cmd *cobra.Command) (string, error) {
	opts := []zoom.Option{
		zoom.WithLogger(logger.With("component", "zoom-controller")),
		zoom.WithSecretSource(config.Zoom.SecretSource),
		zoom.WithSecretToken(config.Zoom.SecretToken),
		zoom.WithSSMKey(config.Zoom.SSMKey),
	}
	if config.Zoom.SecretSource == config.SecretSourceSSM {
		logger.Debug("creating AWS controller...")
		awsCtl, err := awsctl.NewController(
			awsctl.WithContext(cmd.Context()),
			awsctl.WithLogger(logger.With("component", "aws-controller")))
		if err != nil {
			return "", errors.Wrap(err, "failed to create AWS controller")
		}
		opts = append(opts, zoom.WithSecretGetter(awsCtl))
	}
	return zoom.NewController(opts...).RetrieveWebhookSecret()
}

func setup(cmd *cobra.Command) (*runtime.Runtime, error) {
	secret, err := retrieveWebhookSecret(cmd)
	if err != nil {
		return nil, err
	}

	logger.Debug("creating webhook handler...")
	hdl, err := handler.NewHandler(
		handler.WithWebhookSecret(secret),
		handler.WithTimestampWindow(config.Zoom.MaxTimestampSkew),
		handler.WithLambdaPayloadType(config.Lambda.PayloadType),
		handler.WithLogger(logger.With("component", "webhook-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
