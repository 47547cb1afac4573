package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ApplyConnectionEnv fills cfg from the standard libpq environment variables
// for every connection flag that was not set explicitly, then checks the
// required values.
func ApplyConnectionEnv(cmd *cobra.Command, cfg *config.ConnectionConfig) error {
	flags := cmd.Flags()

	if v := GetEnvWithDefault("PGHOST", ""); v != "" && !flags.Changed("host") {
		cfg.Host = v
	}
	if v := GetEnvIntWithDefault("PGPORT", 0); v != 0 && !flags.Changed("port") {
		cfg.Port = v
	}
	if v := GetEnvWithDefault("PGDATABASE", ""); v != "" && !flags.Changed("db") {
		cfg.Database = v
	}
	if v := GetEnvWithDefault("PGUSER", ""); v != "" && !flags.Changed("user") {
		cfg.User = v
	}
	if v := GetEnvWithDefault("PGPASSWORD", ""); v != "" && !flags.Changed("password") {
		cfg.Password = v
	}
	if v := GetEnvWithDefault("PGSSLMODE", ""); v != "" && !flags.Changed("sslmode") {
		cfg.SSLMode = v
	}
	if v := GetEnvWithDefault("PGAPPNAME", ""); v != "" && !flags.Changed("application-name") {
		cfg.ApplicationName = v
	}

	if cfg.Database == "" {
		return fmt.Errorf("database name is required (use --db flag or PGDATABASE environment variable)")
	}
	if cfg.User == "" {
		return fmt.Errorf("database user is required (use --user flag or PGUSER environment variable)")
	}
	return nil
}
