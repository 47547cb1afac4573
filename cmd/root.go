package cmd

import (
	"fmt"
	"os"

	"github.com/reaper-esi/esi2ddl/cmd/apply"
	"github.com/reaper-esi/esi2ddl/cmd/compile"
	"github.com/reaper-esi/esi2ddl/cmd/inspect"
	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/config"
	"github.com/reaper-esi/esi2ddl/internal/logger"
	"github.com/reaper-esi/esi2ddl/internal/version"
	"github.com/spf13/cobra"
)

var (
	Debug   bool
	cfgFile string
)

var RootCmd = &cobra.Command{
	Use:   "esi2ddl",
	Short: "Compile an OpenAPI 2.0 document into a PostgreSQL schema",
	Long: fmt.Sprintf(`esi2ddl compiles the GET operations of an OpenAPI 2.0 (Swagger) document into
PostgreSQL tables, grants, row level security policies and a swagger_mapping
catalog used to load API responses into those tables.

Version: %s

Use "esi2ddl [command] --help" for more information about a command.`, version.String()),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(Debug)

		// help and version work without a valid config
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, path, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if path != "" {
			logger.Get().Debug("Loaded config file", "path", path)
		}
		cmd.SetContext(util.WithConfig(cmd.Context(), cfg, path))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: auto-discover esi2ddl.yaml)")
	RootCmd.AddCommand(compile.CompileCmd)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(apply.ApplyCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
