package commands

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fathomdata/saasforge/internal/cli/config"
	"github.com/fathomdata/saasforge/internal/store"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext resolves the configuration and logger for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// OpenStore opens the configured store, creating the parent directory of a
// file-backed database if needed. The caller closes the returned handle.
func (c *CommandContext) OpenStore() (*sql.DB, error) {
	if c.Cfg.Database != store.Memory {
		dir := filepath.Dir(c.Cfg.Database)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, err
			}
		}
	}
	return store.Open(store.Config{Driver: c.Cfg.Driver, Path: c.Cfg.Database})
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		DataDir:  getEnvOrDefault("SAASFORGE_DATA_DIR", config.DefaultDataDir),
		Database: getEnvOrDefault("SAASFORGE_DATABASE", config.DefaultDatabase),
		Driver:   getEnvOrDefault("SAASFORGE_DRIVER", config.DefaultDriver),
		Accounts: getEnvIntOrDefault("SAASFORGE_ACCOUNTS", config.DefaultAccounts),
		Months:   getEnvIntOrDefault("SAASFORGE_MONTHS", config.DefaultMonths),
		Seed:     uint64(getEnvIntOrDefault("SAASFORGE_SEED", config.DefaultSeed)),
		Verbose:  os.Getenv("SAASFORGE_VERBOSE") == "true",
		Format:   getEnvOrDefault("SAASFORGE_FORMAT", config.DefaultFormat),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
