// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the standalone HTTP server.
	ModeService = "service"
	// ModeLambdaHTTP runs the AWS Lambda adapter for HTTP payloads.
	ModeLambdaHTTP = "lambda-http"

	// SecretSourceEnv reads the webhook secret token from the environment, a .env file or the configuration file.
	SecretSourceEnv = "env"
	// SecretSourceSSM reads the webhook secret token from AWS SSM Parameter Store.
	SecretSourceSSM = "ssm"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Zoom is a struct that contains the configuration for Zoom webhook validation.
	Zoom zoom
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// EnvFile is the dotenv file loaded into the environment at startup. Missing files are ignored.
	EnvFile string `yaml:"envFile,omitempty" default:".env"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type zoom struct {
	// SecretSource selects where the webhook secret token is read from: 'env' or 'ssm'.
	SecretSource string `yaml:"secretSource,omitempty" default:"env"`
	// SecretToken is the webhook secret token of the Zoom app.
	SecretToken string `yaml:"secretToken,omitempty"`
	// SSMKey is the SSM parameter holding the secret token when SecretSource is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// MaxTimestampSkew rejects deliveries whose timestamp is further away from now. Zero disables the check.
	MaxTimestampSkew time.Duration `yaml:"maxTimestampSkew,omitempty" default:"0s"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/webhook"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8000"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// Reset clears the configuration back to its defaults.
func Reset() error {
	Global, Zoom, Service, Lambda = global{}, zoom{}, service{}, lambda{}
	return SetDefaults()
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Zoom),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile overlays the configuration with the content of a YAML file. Keys absent from the file keep their current value.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return NewConfigurationError("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return NewConfigurationError("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Zoom    zoom    `yaml:"zoom,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	a := all{Global: Global, Zoom: Zoom, Service: Service, Lambda: Lambda}
	if err = yaml.Unmarshal(content, &a); err != nil {
		return &ConfigurationError{Cause: fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)}
	}
	Global = a.Global
	Zoom = a.Zoom
	Service = a.Service
	Lambda = a.Lambda

	return nil
}

// Validate checks the settings that cannot be defaulted.
func Validate() error {
	switch Global.Mode {
	case ModeService, ModeLambdaHTTP:
	default:
		return NewConfigurationError("invalid mode: %q", Global.Mode)
	}
	switch Zoom.SecretSource {
	case SecretSourceEnv:
	case SecretSourceSSM:
		if Zoom.SSMKey == "" {
			return NewConfigurationError("secret source %q requires an SSM parameter key", SecretSourceSSM)
		}
	default:
		return NewConfigurationError("unsupported secret source: %q", Zoom.SecretSource)
	}
	if Zoom.MaxTimestampSkew < 0 {
		return NewConfigurationError("negative timestamp skew: %s", Zoom.MaxTimestampSkew)
	}
	return nil
}
