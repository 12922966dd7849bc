package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jd-116/izettle-go/env"
	"github.com/jd-116/izettle-go/izettletest"
)

// Runs a standalone fake iZettle platform,
// useful for developing against the client library
// without real credentials.
// This function blocks until a termination signal arrives
func main() {
	envPath := flag.String("env", "", "path to .env file")
	logFormat := flag.String("log-format", "console", "log format (one of 'json', 'console')")
	flag.Parse()

	// Set up structured logging
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var logger zerolog.Logger
	switch *logFormat {
	case "console":
		output := zerolog.ConsoleWriter{Out: os.Stdout}
		logger = zerolog.New(output).With().Timestamp().Logger()
	case "json":
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		fmt.Fprintf(os.Stderr, "unknown log format given: '%s'\n", *logFormat)
		os.Exit(1)
	}

	// Load the .env file if it is specified
	if envPath != nil && *envPath != "" {
		err := godotenv.Load(*envPath)
		if err != nil {
			logger.Fatal().Err(err).Str("env_path", *envPath).Msg("error loading .env file")
		} else {
			logger.Info().Str("env_path", *envPath).Msg("loaded environment variables from file")
		}
	}

	port, err := env.GetIntEnv("server port", "PORT")
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load PORT from env")
	}

	// The fake accepts whatever credentials it is configured with
	server := izettletest.New(izettletest.Config{
		ClientID:     env.GetOptionalEnv("IZETTLE_CLIENT_ID", "test-client"),
		ClientSecret: env.GetOptionalEnv("IZETTLE_CLIENT_SECRET", "test-secret"),
		Username:     env.GetOptionalEnv("IZETTLE_USER", "test-user"),
		Password:     env.GetOptionalEnv("IZETTLE_PASSWORD", "test-password"),
		Logger:       &logger,
	})

	serverCtx, cancel := context.WithCancel(context.Background())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Propagate termination signals to the cancellation of the server context
	go func() {
		<-done
		cancel()
	}()

	serve(serverCtx, logger, server, port)
}

// serve runs the HTTP server until the context is cancelled,
// then shuts it down gracefully
func serve(ctx context.Context, logger zerolog.Logger, server *izettletest.Server, port int) {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Router(),
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen failed")
		}
	}()
	logger.Info().Int("port", port).Msg("fake iZettle platform started")

	<-ctx.Done()
	logger.Info().Msg("fake iZettle platform stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("fake iZettle platform exited properly")
}
