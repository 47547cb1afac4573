// Package esi2ddl provides a programmatic API for compiling OpenAPI 2.0
// documents into PostgreSQL provisioning scripts and applying them.
package esi2ddl

import (
	"context"
	"fmt"
	"time"

	"github.com/reaper-esi/esi2ddl/cmd/apply"
	"github.com/reaper-esi/esi2ddl/cmd/compile"
	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host            string // Database server host
	Port            int    // Database server port
	Database        string // Database name
	User            string // Database user
	Password        string // Database password (optional)
	SSLMode         string // SSL mode (default: "prefer")
	ApplicationName string // Application name for database connection (default: "esi2ddl")
}

// CompileOptions configures how a document is compiled. Empty fields take the
// configuration defaults.
type CompileOptions struct {
	File    string        // Path to the API document (JSON or YAML)
	URL     string        // URL of the API document (alternative to File)
	Timeout time.Duration // Timeout for fetching URL (default: 30s)

	Schema        string // Target schema, also created as its owning user (default: "esi")
	ProtectedRole string // Role reading caller-scoped tables (default: "esi_character")
	PublicRole    string // Role reading unprotected tables (default: "esi_public")

	OrganizationSetting string // Session setting holding the caller's organization (default: "corporation_id")
	CallerSetting       string // Session setting holding the caller's identity (default: "character_id")

	IgnoreFile string // Path to an ignore file (optional)

	Database       string // Database granted CONNECT to the schema owner (default: "horizon")
	OwnerPassword  string // Password of the schema owner (default: the schema name)
	SkipValidation bool   // Do not check the script with the PostgreSQL parser
}

// ApplyOptions configures how a compiled script is applied.
type ApplyOptions struct {
	CompileOptions
	Target *DatabaseConfig // Target database (default: the client's database)
}

// Client provides the main interface for esi2ddl operations.
type Client struct {
	defaultDB  DatabaseConfig
	defaultApp string
}

// NewClient creates a new esi2ddl client with default database configuration.
func NewClient(dbConfig DatabaseConfig) *Client {
	return &Client{
		defaultDB:  dbConfig,
		defaultApp: "esi2ddl",
	}
}

// Compile loads and compiles a document into its table mapping.
func (c *Client) Compile(ctx context.Context, opts CompileOptions) (*Mapping, error) {
	return compile.Compile(ctx, opts.config())
}

// Generate compiles a document and renders its provisioning script.
func (c *Client) Generate(ctx context.Context, opts CompileOptions) (string, error) {
	result, err := compile.Run(ctx, opts.config())
	if err != nil {
		return "", err
	}
	return result.Script, nil
}

// Apply compiles a document and executes its script against the database in
// a single transaction. A schema already provisioned from the same mapping is
// left untouched.
func (c *Client) Apply(ctx context.Context, opts ApplyOptions) error {
	db := c.defaultDB
	if opts.Target != nil {
		db = *opts.Target
	}
	if db.Database == "" || db.User == "" {
		return fmt.Errorf("database name and user are required")
	}

	cfg := opts.config()
	cfg.Script.Validate = true
	result, err := compile.Run(ctx, cfg)
	if err != nil {
		return err
	}
	statements, err := ddl.Split(result.Script)
	if err != nil {
		return err
	}
	catalog, err := ddl.CatalogJSON(result.Mapping)
	if err != nil {
		return err
	}

	conn, err := util.Connect(ctx, c.connection(db))
	if err != nil {
		return err
	}
	defer conn.Close()

	current, err := apply.CheckProvisioned(ctx, conn, cfg.Schema, catalog)
	if err != nil || current {
		return err
	}
	return apply.Execute(ctx, conn, statements)
}

func (c *Client) connection(db DatabaseConfig) *config.ConnectionConfig {
	conn := config.Default().Connection
	if db.Host != "" {
		conn.Host = db.Host
	}
	if db.Port != 0 {
		conn.Port = db.Port
	}
	conn.Database = db.Database
	conn.User = db.User
	conn.Password = db.Password
	if db.SSLMode != "" {
		conn.SSLMode = db.SSLMode
	}
	conn.ApplicationName = c.defaultApp
	if db.ApplicationName != "" {
		conn.ApplicationName = db.ApplicationName
	}
	return &conn
}

// config layers the options over the configuration defaults.
func (o CompileOptions) config() *config.Config {
	cfg := config.Default()
	cfg.Source.File = o.File
	cfg.Source.URL = o.URL
	if o.Timeout != 0 {
		cfg.Source.Timeout = o.Timeout
	}
	setIfNotEmpty(&cfg.Schema, o.Schema)
	setIfNotEmpty(&cfg.Roles.Protected, o.ProtectedRole)
	setIfNotEmpty(&cfg.Roles.Public, o.PublicRole)
	setIfNotEmpty(&cfg.Session.OrganizationSetting, o.OrganizationSetting)
	setIfNotEmpty(&cfg.Session.CallerSetting, o.CallerSetting)
	setIfNotEmpty(&cfg.Script.Database, o.Database)
	setIfNotEmpty(&cfg.Script.OwnerPassword, o.OwnerPassword)
	cfg.IgnoreFile = o.IgnoreFile
	cfg.Script.Validate = !o.SkipValidation
	return cfg
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
