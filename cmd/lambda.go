package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
	}

	// lambdaHTTPCmd is the command for running the lambda-http mode.
	lambdaHTTPCmd := &cobra.Command{
		Use:         "http",
		Short:       "Answer API Gateway and Lambda function URL HTTP events",
		Annotations: map[string]string{annotationMode: config.ModeLambdaHTTP},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambdaHTTP(cmd)
		},
	}
	cmd.AddCommand(lambdaHTTPCmd)

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}

func runLambdaHTTP(cmd *cobra.Command) error {
	rtm, err := setup(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}

	logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
	lambda.StartWithOptions(rtm.Lambda,
		lambda.WithContext(cmd.Context()))

	return nil
}
