package env

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("IZETTLE_TEST_VALUE", "value")
	defer os.Unsetenv("IZETTLE_TEST_VALUE")

	value, err := GetEnv("test value", "IZETTLE_TEST_VALUE")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	_, err = GetEnv("missing value", "IZETTLE_TEST_MISSING")
	assert.Error(t, err)
}

func TestGetOptionalEnv(t *testing.T) {
	os.Setenv("IZETTLE_TEST_OPTIONAL", "set")
	defer os.Unsetenv("IZETTLE_TEST_OPTIONAL")

	assert.Equal(t, "set", GetOptionalEnv("IZETTLE_TEST_OPTIONAL", "fallback"))
	assert.Equal(t, "fallback", GetOptionalEnv("IZETTLE_TEST_UNSET", "fallback"))
}

func TestGetOptionalDurationEnv(t *testing.T) {
	os.Setenv("IZETTLE_TEST_DURATION", "45s")
	defer os.Unsetenv("IZETTLE_TEST_DURATION")

	value, err := GetOptionalDurationEnv("test duration", "IZETTLE_TEST_DURATION", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, value)

	value, err = GetOptionalDurationEnv("test duration", "IZETTLE_TEST_DURATION_UNSET", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, value)

	os.Setenv("IZETTLE_TEST_DURATION_BAD", "not-a-duration")
	defer os.Unsetenv("IZETTLE_TEST_DURATION_BAD")

	_, err = GetOptionalDurationEnv("test duration", "IZETTLE_TEST_DURATION_BAD", time.Minute)
	assert.Error(t, err)
}
