package compile

import (
	"context"
	"fmt"
	"os"

	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/compiler"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/ddl"
	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/reaper-esi/esi2ddl/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	sourceFlags   SourceFlags
	outFile       string
	database      string
	ownerPassword string
	validate      bool
)

var CompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile an API document into a PostgreSQL script",
	Long: `Compile the GET operations of an OpenAPI 2.0 document into a PostgreSQL script:
one table per operation, grants and row level security policies derived from the
operation's authentication, and a swagger_mapping catalog row.`,
	Example: `  # Compile a local document to stdout
  esi2ddl compile --file swagger.json --schema esi --roles esi_character,esi_public

  # Fetch the live document and write the script to a file
  esi2ddl compile --url https://esi.evetech.net/latest/swagger.json --out esi.sql`,
	RunE:         runCompile,
	SilenceUsage: true,
}

func init() {
	AddSourceFlags(CompileCmd, &sourceFlags)
	CompileCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the script to this file instead of stdout")
	CompileCmd.Flags().StringVar(&database, "database", "", "Database the schema owner may connect to (default horizon)")
	CompileCmd.Flags().StringVar(&ownerPassword, "owner-password", "", "Password of the schema owner (default: the schema name)")
	CompileCmd.Flags().BoolVar(&validate, "validate", true, "Check the generated script with the PostgreSQL parser")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, _ := util.ConfigFromContext(cmd.Context())
	if err := sourceFlags.Apply(cmd, cfg); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Script.Output = outFile
	}
	if flags.Changed("database") {
		cfg.Script.Database = database
	}
	if flags.Changed("owner-password") {
		cfg.Script.OwnerPassword = ownerPassword
	}
	if flags.Changed("validate") {
		cfg.Script.Validate = validate
	}

	result, err := Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if cfg.Script.Output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), result.Script)
		return err
	}
	if err := os.WriteFile(cfg.Script.Output, []byte(result.Script), 0o644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	logger.Get().Info("Script written", "file", cfg.Script.Output, "tables", len(result.Mapping.Tables))
	return nil
}

// Result is one compiled document.
type Result struct {
	Mapping *ir.Mapping
	Script  string
}

// Compile loads the configured document and compiles it to a mapping.
func Compile(ctx context.Context, cfg *config.Config) (*ir.Mapping, error) {
	doc, err := LoadDocument(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	ignoreConfig, err := LoadIgnore(cfg.IgnoreFile)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(doc, cfg.CompilerOptions(ignoreConfig))
}

// Run compiles the configured document and renders its script, validating it
// when cfg.Script.Validate is set.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	mapping, err := Compile(ctx, cfg)
	if err != nil {
		return nil, err
	}

	script, err := ddl.Generate(mapping, cfg.ScriptOptions())
	if err != nil {
		return nil, err
	}
	if cfg.Script.Validate {
		if err := ddl.Validate(script); err != nil {
			return nil, err
		}
	}
	return &Result{Mapping: mapping, Script: script}, nil
}

// ResetFlags resets all global flag variables to their default values for testing
func ResetFlags() {
	CompileCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
