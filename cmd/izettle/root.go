package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jd-116/izettle-go/env"
	"github.com/jd-116/izettle-go/izettle"
)

// Global flags shared by every subcommand
var (
	envPath   string
	logFormat string
)

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "izettle",
		Short:         "CLI for the iZettle point-of-sale API",
		Long:          `A command line interface for managing products, categories, discounts, and purchases via the iZettle API.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors (main.go handles it)
	}

	rootCmd.PersistentFlags().StringVar(&envPath, "env", "", "path to .env file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (one of 'json', 'console')")

	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newProductsCommand())
	rootCmd.AddCommand(newCategoriesCommand())
	rootCmd.AddCommand(newDiscountsCommand())
	rootCmd.AddCommand(newPurchasesCommand())
	rootCmd.AddCommand(newImagesCommand())

	return rootCmd
}

// setupLogger builds the structured logger
// according to the global log-format flag
func setupLogger() (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	switch logFormat {
	case "console":
		output := zerolog.ConsoleWriter{Out: os.Stderr}
		return zerolog.New(output).With().Timestamp().Logger(), nil
	case "json":
		return zerolog.New(os.Stderr).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format given: '%s'", logFormat)
	}
}

// newClient loads credentials and options from the environment
// and constructs an authenticated client.
// Construction performs the initial token grant,
// so a returned client is known to hold working credentials
func newClient() (*izettle.Client, zerolog.Logger, error) {
	logger, err := setupLogger()
	if err != nil {
		return nil, logger, err
	}

	// Load the .env file if it is specified
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, logger, fmt.Errorf("error loading .env file '%s': %v", envPath, err)
		}
		logger.Info().Str("env_path", envPath).Msg("loaded environment variables from file")
	}

	clientID, err := env.GetEnv("iZettle client ID", "IZETTLE_CLIENT_ID")
	if err != nil {
		return nil, logger, err
	}

	clientSecret, err := env.GetEnv("iZettle client secret", "IZETTLE_CLIENT_SECRET")
	if err != nil {
		return nil, logger, err
	}

	username, err := env.GetEnv("iZettle user", "IZETTLE_USER")
	if err != nil {
		return nil, logger, err
	}

	password, err := env.GetEnv("iZettle password", "IZETTLE_PASSWORD")
	if err != nil {
		return nil, logger, err
	}

	timeout, err := env.GetOptionalDurationEnv("iZettle request timeout", "IZETTLE_TIMEOUT", izettle.DefaultTimeout)
	if err != nil {
		return nil, logger, err
	}

	client, err := izettle.NewClient(izettle.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     username,
		Password:     password,

		// URL overrides let the CLI run against a local fake platform
		OAuthURL:    env.GetOptionalEnv("IZETTLE_OAUTH_URL", ""),
		ProductURL:  env.GetOptionalEnv("IZETTLE_PRODUCT_URL", ""),
		PurchaseURL: env.GetOptionalEnv("IZETTLE_PURCHASE_URL", ""),
		ImageURL:    env.GetOptionalEnv("IZETTLE_IMAGE_URL", ""),

		Timeout: timeout,
		Logger:  &logger,
	})
	if err != nil {
		return nil, logger, err
	}

	return client, logger, nil
}

// printJSON writes a value to stdout as indented JSON
func printJSON(value interface{}) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))
	return nil
}
