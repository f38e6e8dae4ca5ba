package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearValidationEnv(t *testing.T) {
	t.Helper()
	for _, key := range append([]string{"ENV_SCHEMA_VERSION", EnvDatabaseURL}, append(RequiredDBEnvVars, HW2APIKeyVars...)...) {
		t.Setenv(key, "")
	}
}

func TestValidateEnv_MissingVersion(t *testing.T) {
	clearValidationEnv(t)

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION is not set")
}

func TestValidateEnv_VersionMismatch(t *testing.T) {
	clearValidationEnv(t)
	t.Setenv("ENV_SCHEMA_VERSION", "0.9")

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION mismatch")
	assert.Contains(t, err.Error(), "expected 1.0, got 0.9")
}

func TestValidateEnv_MissingRequired(t *testing.T) {
	clearValidationEnv(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv(EnvDBUser, "user")

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required environment variables")
	assert.NotContains(t, err.Error(), "DB_USER,")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateEnv_DatabaseURLSatisfiesDB(t *testing.T) {
	clearValidationEnv(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv(EnvDatabaseURL, "postgres://u:p@db:5432/statsgate")

	assert.NoError(t, ValidateEnv())
}

func TestValidateEnvWithWarnings(t *testing.T) {
	clearValidationEnv(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	for _, envVar := range RequiredDBEnvVars {
		t.Setenv(envVar, "test_value")
	}
	t.Setenv(EnvDBPassword, "change_this_secure_password")

	warnings, err := ValidateEnvWithWarnings()
	require.NoError(t, err, "Should not error even with warnings")
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "DB_PASSWORD")
	assert.Contains(t, warnings[1], "HW2_API_KEY")

	t.Setenv("HW2_API_KEY_2", "key")
	t.Setenv(EnvDBPassword, "s3cret")
	warnings, err = ValidateEnvWithWarnings()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
