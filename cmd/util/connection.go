package util

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/logger"
)

// Connect establishes a database connection using the provided configuration
func Connect(ctx context.Context, cfg *config.ConnectionConfig) (*sql.DB, error) {
	log := logger.Get()

	log.Debug("Attempting database connection",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
		"user", cfg.User,
		"sslmode", cfg.SSLMode,
		"application_name", cfg.ApplicationName,
	)

	conn, err := sql.Open("pgx", BuildDSN(cfg))
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Database connection established successfully")
	return conn, nil
}

// BuildDSN constructs a PostgreSQL keyword/value connection string
func BuildDSN(cfg *config.ConnectionConfig) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", dsnValue(cfg.Host)))
	parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", dsnValue(cfg.Database)))
	parts = append(parts, fmt.Sprintf("user=%s", dsnValue(cfg.User)))

	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", dsnValue(cfg.Password)))
	}
	if cfg.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", dsnValue(cfg.SSLMode)))
	}
	if cfg.ApplicationName != "" {
		parts = append(parts, fmt.Sprintf("application_name=%s", dsnValue(cfg.ApplicationName)))
	}

	return strings.Join(parts, " ")
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// dsnValue quotes values that are empty or contain spaces or quotes.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + dsnEscaper.Replace(v) + "'"
}
