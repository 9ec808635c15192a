// Package cmd provides the entrypoint for the zoom-webhook-app cli.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/isometry/zoom-webhook-app/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const annotationMode = "mode"

var (
	configFilePath string
	logger         = helpers.NewNoopLogger()
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	// Aliases are additional environment variables consulted after Env.
	Aliases []string
	Hidden  bool
}

// New returns the root command for the zoom-webhook-app.
func New() *cobra.Command {
	overrides = nil

	cmd := &cobra.Command{
		Use:           "zoom-webhook-app",
		Short:         "Receive, authenticate and log Zoom webhook notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfiguration(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd)
			case config.ModeLambdaHTTP:
				return runLambdaHTTP(cmd)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "config.yaml", "path to the configuration file")

	if err := config.Reset(); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
		cmdSign(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapDuration)
}

// loadConfiguration resolves the configuration by precedence: defaults, configuration file, environment (including the dotenv file), flags.
// Subcommands pin the runtime mode through their "mode" annotation.
func loadConfiguration(cmd *cobra.Command) error {
	if err := config.LoadFromFile(configFilePath); err != nil {
		return err
	}

	envFile := config.Global.EnvFile
	if viper.IsSet("env-file") {
		envFile = viper.GetString("env-file")
	}
	if err := config.LoadDotenv(envFile); err != nil {
		return err
	}

	applyOverrides()
	config.Global.Mode = strings.TrimSpace(config.Global.Mode)
	if mode, ok := cmd.Annotations[annotationMode]; ok {
		config.Global.Mode = mode
	}

	logger = helpers.NewLogger(os.Stdout, config.Global.Logging.Verbosity, config.Global.Logging.CallerTrace).
		With("mode", config.Global.Mode)

	if err := config.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		return err
	}
	return nil
}
