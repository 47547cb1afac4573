package compile

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/ignore"
	"github.com/reaper-esi/esi2ddl/internal/swagger"
	"github.com/spf13/cobra"
)

// SourceFlags are the flags shared by every command that compiles a document.
type SourceFlags struct {
	File       string
	URL        string
	Timeout    time.Duration
	Schema     string
	Roles      string
	IgnoreFile string
}

// AddSourceFlags registers the document and compiler flags on cmd.
func AddSourceFlags(cmd *cobra.Command, f *SourceFlags) {
	cmd.Flags().StringVar(&f.File, "file", "", "Path to the API document (JSON or YAML)")
	cmd.Flags().StringVar(&f.URL, "url", "", "URL of the API document")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 30*time.Second, "Timeout for fetching --url")
	cmd.Flags().StringVar(&f.Schema, "schema", "", "Target schema, also created as its owning user")
	cmd.Flags().StringVar(&f.Roles, "roles", "", "Protected and public role names, comma separated (e.g. esi_character,esi_public)")
	cmd.Flags().StringVar(&f.IgnoreFile, "ignore-file", "", "Path to the ignore file (default .esi2ddlignore)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
}

// Apply copies every explicitly set flag onto cfg.
func (f *SourceFlags) Apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Source.File = f.File
		cfg.Source.URL = ""
	}
	if flags.Changed("url") {
		cfg.Source.URL = f.URL
		cfg.Source.File = ""
	}
	if flags.Changed("timeout") {
		cfg.Source.Timeout = f.Timeout
	}
	if flags.Changed("schema") {
		cfg.Schema = f.Schema
	}
	if flags.Changed("roles") {
		if err := cfg.SetRoles(f.Roles); err != nil {
			return err
		}
	}
	if flags.Changed("ignore-file") {
		cfg.IgnoreFile = f.IgnoreFile
	}
	return nil
}

// LoadDocument reads the document named by the source configuration.
func LoadDocument(ctx context.Context, src config.SourceConfig) (*swagger.Document, error) {
	switch {
	case src.File != "":
		return swagger.LoadFile(src.File)
	case src.URL != "":
		client := &http.Client{Timeout: src.Timeout}
		return swagger.LoadURL(ctx, client, src.URL)
	default:
		return nil, fmt.Errorf("an API document is required (use --file or --url)")
	}
}

// LoadIgnore reads the ignore file, if any.
func LoadIgnore(path string) (*ignore.Config, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := ignore.LoadIgnoreFileFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore file %s: %w", path, err)
	}
	return cfg, nil
}
