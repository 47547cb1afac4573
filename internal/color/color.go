package color

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
)

// Access kinds of a compiled table
const (
	AccessPublic       = "public"
	AccessCaller       = "caller"
	AccessOrganization = "organization"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a new Color instance
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

// Enabled reports whether escape codes are written
func (c *Color) Enabled() bool {
	return c.enabled
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + Reset
}

// Bold makes text bold
func (c *Color) Bold(text string) string {
	return c.wrap(Bold, text)
}

// Dim renders secondary text
func (c *Color) Dim(text string) string {
	return c.wrap(Dim, text)
}

// Cyan colors text cyan (for headers and labels)
func (c *Color) Cyan(text string) string {
	return c.wrap(Cyan, text)
}

// Error colors text red
func (c *Color) Error(text string) string {
	return c.wrap(Red, text)
}

// Access colors an access kind: public green, caller yellow, organization
// magenta
func (c *Color) Access(kind string) string {
	switch kind {
	case AccessPublic:
		return c.wrap(Green, kind)
	case AccessCaller:
		return c.wrap(Yellow, kind)
	case AccessOrganization:
		return c.wrap(Magenta, kind)
	default:
		return kind
	}
}

// FormatTableLine formats the heading of one table in the inspect tree
func (c *Color) FormatTableLine(name, operation, access string, roles []string) string {
	line := fmt.Sprintf("%s %s [%s]", c.Bold(name), c.Dim("("+operation+")"), c.Access(access))
	if len(roles) > 0 {
		line += " " + c.wrap(Blue, strings.Join(roles, ","))
	}
	return line
}

// FormatColumnLine formats one column in the inspect tree
func (c *Color) FormatColumnLine(last bool, identifier, dataType string, flags []string) string {
	branch := "├──"
	if last {
		branch = "└──"
	}
	line := fmt.Sprintf("  %s %s %s", branch, identifier, c.Cyan(dataType))
	if len(flags) > 0 {
		line += " " + c.Dim(strings.Join(flags, " "))
	}
	return line
}

// FormatSummaryLine formats table counts by access kind
func (c *Color) FormatSummaryLine(public, caller, organization, roles int) string {
	parts := []string{
		c.Access(AccessPublic) + fmt.Sprintf(": %d", public),
		c.Access(AccessCaller) + fmt.Sprintf(": %d", caller),
		c.Access(AccessOrganization) + fmt.Sprintf(": %d", organization),
	}
	return fmt.Sprintf("Tables: %s. Roles: %d.", strings.Join(parts, ", "), roles)
}
