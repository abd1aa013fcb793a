package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/countries/pkg/constants"
)

// Config holds the application configuration loaded from environment
// variables and .env files. Every field has a default that reproduces
// the fixed-URL, fixed-path behavior of a bare invocation; flags and
// environment variables only override.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Pipeline configuration
	OutputPath   string
	CentroidsURL string
	M49URL       string

	// Logging configuration. LogLevelFromFlag records whether LogLevel
	// came from an explicit --log-level flag rather than the LOG_LEVEL
	// environment variable; only the flag outranks -v/-q.
	LogLevel         string
	LogLevelFromFlag bool
	LogFormat        string
}

// LoadConfig loads configuration from all sources in order of
// precedence:
//  1. Command-line flags (handled by cobra after loading)
//  2. Environment variables
//  3. .env files
//  4. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("COUNTRIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", constants.DefaultOutputPath)
	v.SetDefault("centroids_url", constants.CentroidsURL)
	v.SetDefault("m49_url", constants.M49OverviewURL)

	config := &Config{
		OutputPath:   v.GetString("output"),
		CentroidsURL: v.GetString("centroids_url"),
		M49URL:       v.GetString("m49_url"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
