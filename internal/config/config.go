// Package config loads esi2ddl settings from defaults, an esi2ddl.yaml file and
// ESI2DDL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reaper-esi/esi2ddl/internal/compiler"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
	"github.com/reaper-esi/esi2ddl/internal/ignore"
	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25

	// EnvPrefix prefixes environment overrides: ESI2DDL_SCHEMA,
	// ESI2DDL_SESSION_CALLER_SETTING, ...
	EnvPrefix = "ESI2DDL"
)

// FileNames are the config file names looked up during discovery.
var FileNames = []string{"esi2ddl.yaml", "esi2ddl.yml"}

// Config is the effective configuration.
type Config struct {
	Source     SourceConfig     `mapstructure:"source" json:"source"`
	Schema     string           `mapstructure:"schema" json:"schema"`
	Roles      RolesConfig      `mapstructure:"roles" json:"roles"`
	Script     ScriptConfig     `mapstructure:"script" json:"script"`
	IgnoreFile string           `mapstructure:"ignore_file" json:"ignore_file"`
	Session    SessionConfig    `mapstructure:"session" json:"session"`
	Connection ConnectionConfig `mapstructure:"connection" json:"connection"`
}

// SourceConfig locates the API document.
type SourceConfig struct {
	File    string        `mapstructure:"file" json:"file"`
	URL     string        `mapstructure:"url" json:"url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// RolesConfig names the two fixed roles.
type RolesConfig struct {
	Protected string `mapstructure:"protected" json:"protected"`
	Public    string `mapstructure:"public" json:"public"`
}

// ScriptConfig controls script generation.
type ScriptConfig struct {
	Database      string `mapstructure:"database" json:"database"`
	OwnerPassword string `mapstructure:"owner_password" json:"owner_password"`
	Output        string `mapstructure:"output" json:"output"`
	Validate      bool   `mapstructure:"validate" json:"validate"`
}

// SessionConfig names the session settings read by row-level security
// policies.
type SessionConfig struct {
	OrganizationSetting string `mapstructure:"organization_setting" json:"organization_setting"`
	CallerSetting       string `mapstructure:"caller_setting" json:"caller_setting"`
}

// ConnectionConfig holds the database used by apply.
type ConnectionConfig struct {
	Host            string `mapstructure:"host" json:"host"`
	Port            int    `mapstructure:"port" json:"port"`
	Database        string `mapstructure:"database" json:"database"`
	User            string `mapstructure:"user" json:"user"`
	Password        string `mapstructure:"password" json:"password,omitempty"`
	SSLMode         string `mapstructure:"sslmode" json:"sslmode"`
	ApplicationName string `mapstructure:"application_name" json:"application_name"`
}

// Load discovers and loads configuration with precedence
// env > config file > defaults. Command-line flags are applied on top by the
// commands themselves.
//
// It returns the config, the path of the config file (empty if none was
// found) and any error.
func Load(explicitPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, configPath, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	defaults := compiler.DefaultOptions()

	v.SetDefault("source.file", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.timeout", "30s")

	v.SetDefault("schema", defaults.Schema)
	v.SetDefault("roles.protected", defaults.ProtectedRole)
	v.SetDefault("roles.public", defaults.PublicRole)

	v.SetDefault("script.database", ddl.DefaultDatabase)
	v.SetDefault("script.owner_password", "")
	v.SetDefault("script.output", "")
	v.SetDefault("script.validate", true)

	v.SetDefault("ignore_file", ignore.IgnoreFileName)

	v.SetDefault("session.organization_setting", defaults.OrganizationSetting)
	v.SetDefault("session.caller_setting", defaults.CallerSetting)

	v.SetDefault("connection.host", "localhost")
	v.SetDefault("connection.port", 5432)
	v.SetDefault("connection.database", "")
	v.SetDefault("connection.user", "")
	v.SetDefault("connection.password", "")
	v.SetDefault("connection.sslmode", "prefer")
	v.SetDefault("connection.application_name", "esi2ddl")
}

// findConfigFile returns explicitPath if it exists. Otherwise it walks up from
// the working directory looking for esi2ddl.yaml or esi2ddl.yml, stopping at a
// .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break // repo root
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// CompilerOptions returns the compiler options described by c.
func (c *Config) CompilerOptions(ignoreConfig *ignore.Config) compiler.Options {
	return compiler.Options{
		Schema:              c.Schema,
		ProtectedRole:       c.Roles.Protected,
		PublicRole:          c.Roles.Public,
		OrganizationSetting: c.Session.OrganizationSetting,
		CallerSetting:       c.Session.CallerSetting,
		Ignore:              ignoreConfig,
	}
}

// ScriptOptions returns the script generation options described by c.
func (c *Config) ScriptOptions() ddl.Options {
	return ddl.Options{
		Database:      c.Script.Database,
		OwnerPassword: c.Script.OwnerPassword,
	}
}

// SetRoles parses a "protected,public" pair.
func (c *Config) SetRoles(pair string) error {
	parts := strings.Split(pair, ",")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("roles must be two comma-separated names (protected,public), got %q", pair)
	}
	c.Roles.Protected = strings.TrimSpace(parts[0])
	c.Roles.Public = strings.TrimSpace(parts[1])
	return nil
}
