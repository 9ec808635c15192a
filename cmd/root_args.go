package cmd

import (
	"time"

	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/isometry/zoom-webhook-app/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda-http'",
		Short:       helpers.Ptr("m"),
	},
	&config.Global.EnvFile: {
		Name:        "env-file",
		Description: "The dotenv file to load into the environment at startup",
	},
	&config.Zoom.SecretSource: {
		Name:        "zoom-secret-source",
		Description: "Where the webhook secret token is read from. Supported values are 'env' and 'ssm'",
		Short:       helpers.Ptr("S"),
	},
	&config.Zoom.SecretToken: {
		Name:        "zoom-secret-token",
		Description: "The secret token of the Zoom app, used to validate incoming webhook signatures",
		Env:         helpers.Ptr("ZOOM_WEBHOOK_SECRET_TOKEN"),
		Aliases:     []string{"WEBHOOK_TOKEN"},
	},
	&config.Zoom.SSMKey: {
		Name:        "zoom-secret-ssm-key",
		Description: "The SSM parameter key holding the webhook secret token when the secret source is 'ssm'",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Zoom.MaxTimestampSkew: {
		Name:        "zoom-max-timestamp-skew",
		Description: "Reject deliveries whose X-Zm-Request-Timestamp is further away from now (0 disables the check)",
	},
}
