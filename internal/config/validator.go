package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredDBEnvVars must be set unless DATABASE_URL is provided.
var RequiredDBEnvVars = []string{
	EnvDBUser,
	EnvDBPassword,
	EnvDBHost,
	EnvDBPort,
	EnvDBName,
}

// ValidateEnv checks that the environment can start the server: the schema
// version matches and the database is reachable by one of the two styles.
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	if os.Getenv(EnvDatabaseURL) != "" {
		return nil
	}

	var missing []string
	for _, envVar := range RequiredDBEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s (or set %s)", strings.Join(missing, ", "), EnvDatabaseURL)
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and reports non-fatal problems.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv(EnvDBPassword) == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	hasKey := false
	for _, name := range HW2APIKeyVars {
		if strings.TrimSpace(os.Getenv(name)) != "" {
			hasKey = true
			break
		}
	}
	if !hasKey {
		warnings = append(warnings, "no HW2_API_KEY_n is set - Halo Wars 2 endpoints will only serve cached data")
	}

	return warnings, nil
}
