// Package ignore decides which API operations are left out of compilation.
package ignore

import (
	"path"
	"path/filepath"
	"strings"
)

// Config lists the patterns of operations to skip
type Config struct {
	Operations []string
	Paths      []string
}

// ShouldIgnoreOperation checks if an operation id should be ignored
func (c *Config) ShouldIgnoreOperation(operationID string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(operationID, c.Operations, filepath.Match)
}

// ShouldIgnorePath checks if an API path should be ignored. Surrounding
// slashes are not significant: "/status/" and "/status" match the same patterns.
func (c *Config) ShouldIgnorePath(apiPath string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(strings.Trim(apiPath, "/"), trimPatterns(c.Paths), path.Match)
}

// ShouldIgnore reports whether either the path or the operation id is ignored
func (c *Config) ShouldIgnore(apiPath, operationID string) bool {
	return c.ShouldIgnorePath(apiPath) || c.ShouldIgnoreOperation(operationID)
}

func trimPatterns(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			out[i] = "!" + strings.Trim(neg, "/")
			continue
		}
		out[i] = strings.Trim(p, "/")
	}
	return out
}

// shouldIgnore checks if a name should be ignored based on the patterns.
// Patterns support wildcards (*) and negation (!).
// Negation patterns take precedence over inclusion patterns.
func shouldIgnore(name string, patterns []string, match func(pattern, name string) (bool, error)) bool {
	if len(patterns) == 0 {
		return false
	}

	matched := false

	// First pass: positive matches
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(match, pattern, name) {
			matched = true
			break
		}
	}

	// Second pass: negations exclude from ignore
	for _, pattern := range patterns {
		negPattern, ok := strings.CutPrefix(pattern, "!")
		if !ok {
			continue
		}
		if matchPattern(match, negPattern, name) {
			return false
		}
	}

	return matched
}

func matchPattern(match func(pattern, name string) (bool, error), pattern, name string) bool {
	matched, err := match(pattern, name)
	if err != nil {
		// Invalid pattern, treat it as a literal
		return pattern == name
	}
	return matched
}
