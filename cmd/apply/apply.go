package apply

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reaper-esi/esi2ddl/cmd/compile"
	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
	"github.com/reaper-esi/esi2ddl/internal/fingerprint"
	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	sourceFlags          compile.SourceFlags
	applySQLFile         string
	applyHost            string
	applyPort            int
	applyDB              string
	applyUser            string
	applyPassword        string
	applySSLMode         string
	applyApplicationName string
	applyDryRun          bool
)

var ApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision a database with the compiled schema",
	Long: `Compile an API document (or read a script written by compile) and execute it
against a PostgreSQL database in a single transaction. The schema owner, schema,
organization roles, tables, grants, policies and the swagger_mapping row are
created together; any failure rolls everything back.

The protected and public roles must already exist on the server.`,
	Example: `  esi2ddl apply --file swagger.json --host localhost --db horizon --user postgres
  esi2ddl apply --sql esi.sql --db horizon --user postgres --dry-run`,
	RunE:         runApply,
	SilenceUsage: true,
}

func init() {
	compile.AddSourceFlags(ApplyCmd, &sourceFlags)
	ApplyCmd.Flags().StringVar(&applySQLFile, "sql", "", "Apply this script instead of compiling a document")
	ApplyCmd.MarkFlagsMutuallyExclusive("sql", "file")
	ApplyCmd.MarkFlagsMutuallyExclusive("sql", "url")

	// Target database connection flags
	ApplyCmd.Flags().StringVar(&applyHost, "host", "localhost", "Database server host (env: PGHOST)")
	ApplyCmd.Flags().IntVar(&applyPort, "port", 5432, "Database server port (env: PGPORT)")
	ApplyCmd.Flags().StringVar(&applyDB, "db", "", "Database name (required) (env: PGDATABASE)")
	ApplyCmd.Flags().StringVar(&applyUser, "user", "", "Database user name (required) (env: PGUSER)")
	ApplyCmd.Flags().StringVar(&applyPassword, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	ApplyCmd.Flags().StringVar(&applySSLMode, "sslmode", "prefer", "SSL mode (env: PGSSLMODE)")
	ApplyCmd.Flags().StringVar(&applyApplicationName, "application-name", "esi2ddl", "Application name for database connection (visible in pg_stat_activity) (env: PGAPPNAME)")

	ApplyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the statements without connecting to the database")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, _ := util.ConfigFromContext(ctx)
	if err := sourceFlags.Apply(cmd, cfg); err != nil {
		return err
	}

	script, catalog, err := loadScript(ctx, cfg, applySQLFile)
	if err != nil {
		return err
	}
	statements, err := ddl.Split(script)
	if err != nil {
		return err
	}

	if applyDryRun {
		return PrintStatements(cmd.OutOrStdout(), statements)
	}

	applyConnectionFlags(cmd, &cfg.Connection)
	if err := util.ApplyConnectionEnv(cmd, &cfg.Connection); err != nil {
		return err
	}

	conn, err := util.Connect(ctx, &cfg.Connection)
	if err != nil {
		return err
	}
	defer conn.Close()

	if catalog != "" {
		current, err := CheckProvisioned(ctx, conn, cfg.Schema, catalog)
		if err != nil {
			return err
		}
		if current {
			fmt.Fprintf(cmd.OutOrStdout(), "No changes to apply. Schema %s is already up to date.\n", cfg.Schema)
			return nil
		}
	}

	if err := Execute(ctx, conn, statements); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d statements to %s.\n", len(statements), cfg.Connection.Database)
	return nil
}

func applyConnectionFlags(cmd *cobra.Command, conn *config.ConnectionConfig) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		conn.Host = applyHost
	}
	if flags.Changed("port") {
		conn.Port = applyPort
	}
	if flags.Changed("db") {
		conn.Database = applyDB
	}
	if flags.Changed("user") {
		conn.User = applyUser
	}
	if flags.Changed("password") {
		conn.Password = applyPassword
	}
	if flags.Changed("sslmode") {
		conn.SSLMode = applySSLMode
	}
	if flags.Changed("application-name") {
		conn.ApplicationName = applyApplicationName
	}
}

// loadScript reads sqlFile when set and compiles the configured document
// otherwise. The catalog is only known for compiled documents.
func loadScript(ctx context.Context, cfg *config.Config, sqlFile string) (script, catalog string, err error) {
	if sqlFile != "" {
		data, err := os.ReadFile(sqlFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read script: %w", err)
		}
		if err := ddl.Validate(string(data)); err != nil {
			return "", "", fmt.Errorf("%s: %w", sqlFile, err)
		}
		return string(data), "", nil
	}

	// Statements are split with the parser below, so the script is always
	// validated here.
	cfg.Script.Validate = true
	result, err := compile.Run(ctx, cfg)
	if err != nil {
		return "", "", err
	}
	catalog, err = ddl.CatalogJSON(result.Mapping)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	return result.Script, catalog, nil
}

// CheckProvisioned reports whether schema already holds a swagger_mapping
// with the same catalog. A schema provisioned from a different mapping is an
// error: the script creates its objects unconditionally and would fail
// halfway.
func CheckProvisioned(ctx context.Context, conn *sql.DB, schema, catalog string) (bool, error) {
	table := mappingTable(schema)

	var exists bool
	err := conn.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", table, err)
	}
	if !exists {
		return false, nil
	}

	var stored string
	err = conn.QueryRowContext(ctx, "SELECT mapping FROM "+table+" LIMIT 1").Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", table, err)
	}

	want, err := fingerprint.FromCatalogJSON(catalog)
	if err != nil {
		return false, err
	}
	got, err := fingerprint.FromCatalogJSON(stored)
	if err != nil {
		return false, err
	}
	if err := fingerprint.Compare(want, got); err != nil {
		return false, fmt.Errorf("schema %s was provisioned from a different mapping: %w", schema, err)
	}
	logger.Get().Debug("Schema already provisioned", "schema", schema, "fingerprint", want.Hash)
	return true, nil
}

// mappingTable names the swagger_mapping table of schema, quoted the way the
// script quotes it so a mixed-case name folds to the same schema.
func mappingTable(schema string) string {
	return ir.QuoteIdentifier(schema) + ".swagger_mapping"
}

// PrintStatements writes each statement terminated by a semicolon.
func PrintStatements(w io.Writer, statements []string) error {
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if !strings.HasSuffix(stmt, ";") {
			stmt += ";"
		}
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs statements in one transaction after checking that the server
// supports row level security.
func Execute(ctx context.Context, conn *sql.DB, statements []string) error {
	log := logger.Get()

	versionNum, err := util.ServerVersion(ctx, conn)
	if err != nil {
		return err
	}
	if err := util.CheckRowSecuritySupport(versionNum); err != nil {
		return err
	}
	log.Debug("Connected to PostgreSQL", "version", util.FormatVersion(versionNum))

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		desc := fmt.Sprintf("statement %d of %d", i+1, len(statements))
		if _, err := util.ExecContextWithLogging(ctx, tx, stmt, desc); err != nil {
			return fmt.Errorf("failed to apply statement '%s': %w", strings.TrimSpace(stmt), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	log.Info("Schema applied", "statements", len(statements))
	return nil
}

// ResetFlags resets all global flag variables to their default values for testing
func ResetFlags() {
	ApplyCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
