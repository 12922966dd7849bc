package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GetEnv gets a required string value from the environment
func GetEnv(name string, varName string) (string, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return "", fmt.Errorf("No environment variable found for the %s ('%s')", name, varName)
	}

	return value, nil
}

// GetOptionalEnv gets a string value from the environment,
// falling back to the given default when it is unset
func GetOptionalEnv(varName string, defaultValue string) string {
	if value, exists := os.LookupEnv(varName); exists {
		return value
	}

	return defaultValue
}

// GetIntEnv gets an integer value from the environment and parses it
func GetIntEnv(name string, varName string) (int, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("Environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asInt, nil
}

// GetOptionalDurationEnv gets a duration value from the environment,
// falling back to the given default when it is unset
func GetOptionalDurationEnv(name string, varName string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return defaultValue, nil
	}

	asDuration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("Environment variable value '%s' invalid for the %s ('%s'):\n%s",
			value, name, varName, err)
	}

	return asDuration, nil
}
