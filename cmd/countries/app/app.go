// Package app provides the application context and dependency
// management for the countries CLI. It centralizes configuration,
// logging, and the pipeline construction behind one App type.
package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/countries"
	"github.com/agentstation/countries/pkg/errors"
)

// App represents the countries application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Pipeline builds a countries pipeline from the current configuration.
func (a *App) Pipeline() (*countries.Pipeline, error) {
	return countries.New(
		countries.WithCentroidsURL(a.config.CentroidsURL),
		countries.WithM49URL(a.config.M49URL),
		countries.WithOutputPath(a.config.OutputPath),
		countries.WithLogger(a.logger),
	)
}

// ExitOnError prints the error and exits with a non-zero status. Exit
// codes distinguish fetch and validation failures for scripting.
func ExitOnError(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	switch {
	case errors.IsSourceUnavailable(err):
		os.Exit(2)
	case errors.IsValidationError(err):
		os.Exit(3)
	default:
		os.Exit(1)
	}
}
