package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// SourceEnvPrefix is the prefix of per-source root override variables.
// DOCMIRROR_SOURCE_ENGINE=/srv/checkouts/engine overrides the configured root
// of the source named "engine".
const SourceEnvPrefix = "DOCMIRROR_SOURCE_"

// loadEnvFile loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first
// successfully parsed file. Existing process environment is not overwritten.
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}

// SourceEnvVar returns the environment variable name overriding the root of
// the named source.
func SourceEnvVar(name string) string {
	sanitized := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name))
	return SourceEnvPrefix + sanitized
}

// SourceRootOverride returns the env override for a source root, if set.
func SourceRootOverride(name string) (string, bool) {
	v := os.Getenv(SourceEnvVar(name))
	return v, v != ""
}
