package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reaper-esi/esi2ddl/cmd/compile"
	"github.com/reaper-esi/esi2ddl/cmd/util"
	"github.com/reaper-esi/esi2ddl/internal/color"
	"github.com/reaper-esi/esi2ddl/internal/ir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	sourceFlags compile.SourceFlags
	outputJSON  bool
	noColor     bool
)

var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the tables an API document compiles to",
	Long: `Compile an API document and print the resulting tables without generating SQL:
each table with its operation, access kind (public, caller or organization),
granted roles and columns.`,
	Example: `  esi2ddl inspect --file swagger.json
  esi2ddl inspect --url https://esi.evetech.net/latest/swagger.json --json`,
	RunE:         runInspect,
	SilenceUsage: true,
}

func init() {
	compile.AddSourceFlags(InspectCmd, &sourceFlags)
	InspectCmd.Flags().BoolVar(&outputJSON, "json", false, "Print the compiled mapping as JSON")
	InspectCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, _ := util.ConfigFromContext(cmd.Context())
	if err := sourceFlags.Apply(cmd, cfg); err != nil {
		return err
	}

	mapping, err := compile.Compile(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	var content string
	if outputJSON {
		content, err = RenderJSON(mapping)
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
	} else {
		content = Render(mapping, color.New(!noColor))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), content)
	return err
}

// Access classifies a table by who may read its rows.
func Access(t *ir.Table) string {
	switch {
	case !t.Protected:
		return color.AccessPublic
	case t.OrganizationScoped():
		return color.AccessOrganization
	default:
		return color.AccessCaller
	}
}

// Render formats m as a tree of tables and columns followed by a summary.
func Render(m *ir.Mapping, c *color.Color) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", c.Bold(m.Title), c.Dim("v"+m.Version))
	fmt.Fprintf(&b, "Schema: %s, protected role: %s, public role: %s\n\n", m.Schema, m.ProtectedRole, m.PublicRole)

	counts := make(map[string]int)
	for _, t := range m.Tables {
		access := Access(t)
		counts[access]++

		var grantees []string
		if t.Grant != nil {
			grantees = t.Grant.Grantees
		}
		b.WriteString(c.FormatTableLine(t.Name, t.Operation, access, grantees))
		b.WriteString("\n")

		columns := t.Columns()
		for i, col := range columns {
			b.WriteString(c.FormatColumnLine(i == len(columns)-1, col.Identifier, col.TypeSQL(), columnFlags(col)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(c.FormatSummaryLine(counts[color.AccessPublic], counts[color.AccessCaller],
		counts[color.AccessOrganization], len(m.Roles)))
	b.WriteString("\n")
	return b.String()
}

func columnFlags(col *ir.Column) []string {
	var flags []string
	if constraint := col.ConstraintSQL(); constraint != "" {
		flags = append(flags, constraint)
	}
	if col.Path {
		flags = append(flags, "path")
	}
	return flags
}

// RenderJSON encodes m as indented JSON.
func RenderJSON(m *ir.Mapping) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ResetFlags resets all global flag variables to their default values for testing
func ResetFlags() {
	InspectCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}
