package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// LoadDotenv loads variables from a dotenv file into the process environment.
// Variables already present in the environment win. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if err := godotenv.Load(path); err != nil {
		return &ConfigurationError{Cause: errors.Wrapf(err, "failed to load dotenv file %s", path)}
	}
	return nil
}
