package ddl

import "strings"

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Literal renders s as an escape string constant. Quotes and backslashes are
// backslash-escaped, so the result is valid whatever the server's
// standard_conforming_strings setting.
func Literal(s string) string {
	return "E'" + literalEscaper.Replace(s) + "'"
}

// Comment flattens s to a single line fit for a -- comment.
func Comment(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CommentLine renders s as a complete comment line.
func CommentLine(s string) string {
	if c := Comment(s); c != "" {
		return "-- " + c
	}
	return "--"
}
