package cmd

import (
	"fmt"

	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var configShowSource bool

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
	Example: `  # Show effective configuration
  esi2ddl config show

  # Show configuration with source file path
  esi2ddl config show --source`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath := util.ConfigFromContext(cmd.Context())
		out := cmd.OutOrStdout()

		if configShowSource {
			if configPath != "" {
				fmt.Fprintf(out, "Config file: %s\n\n", configPath)
			} else {
				fmt.Fprintln(out, "Config file: (none, using defaults)")
				fmt.Fprintln(out)
			}
		}

		maskSecret(&cfg.Connection.Password)
		maskSecret(&cfg.Script.OwnerPassword)
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
		return nil
	},
}

func maskSecret(s *string) {
	if *s != "" {
		*s = "********"
	}
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowSource, "source", false, "show config file source")
	ConfigCmd.AddCommand(configShowCmd)
}
