package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mfreitas/podex/internal/oracle"
	"github.com/mfreitas/podex/internal/service"
	"github.com/mfreitas/podex/internal/storage"
)

// createOracleClient builds the retrying oracle client from config.
func createOracleClient() (oracle.Client, error) {
	apiKey := viper.GetString("oracle.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
	}

	client, err := oracle.NewOpenAIClient(oracle.Config{
		APIKey:      apiKey,
		Model:       viper.GetString("oracle.model"),
		BaseURL:     viper.GetString("oracle.base_url"),
		Temperature: viper.GetFloat64("oracle.temperature"),
		Timeout:     viper.GetDuration("oracle.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	opts := service.RetryOptions{
		MaxAttempts:  viper.GetInt("oracle.max_retries"),
		InitialDelay: viper.GetDuration("oracle.retry_delay"),
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay == 0 {
		opts.InitialDelay = time.Second
	}

	return oracle.NewRetryingClient(client, opts, nil), nil
}

// databasePath resolves the SQLite file location from config.
func databasePath() (string, error) {
	dbPath := viper.GetString("database.path")
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "podex", "podex.db"), nil
}

// openStorage opens the SQLite store and applies pending migrations.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}
