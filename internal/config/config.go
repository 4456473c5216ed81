package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional env vars default to empty; the related integration is
	// disabled when unset.
	getEnvOptional := func(key string) string {
		return os.Getenv(key)
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:     getEnvOptional("SLACK_BOT_TOKEN"),
			ChannelID: getEnvOptional("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOptional("TURSO_PRIMARY_URL"),
			AuthToken:  getEnvOptional("TURSO_AUTH_TOKEN"),
		},
		ProjectID: getEnvOptional("GCP_PROJECT"),
	}
	return cfg
}
