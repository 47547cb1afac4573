package ir

import (
	"strings"
	"unicode"

	"github.com/lib/pq"
)

// reservedWords lists PostgreSQL keywords that cannot be used as bare column,
// table or role names.
var reservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true, "authorization": true,
	"between": true, "binary": true, "both": true, "case": true, "cast": true,
	"check": true, "collate": true, "collation": true, "column": true, "concurrently": true,
	"constraint": true, "create": true, "cross": true, "current_catalog": true, "current_date": true,
	"current_role": true, "current_schema": true, "current_time": true, "current_timestamp": true, "current_user": true,
	"default": true, "deferrable": true, "desc": true, "distinct": true, "do": true,
	"else": true, "end": true, "except": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "freeze": true, "from": true, "full": true,
	"grant": true, "group": true, "having": true, "ilike": true, "in": true,
	"initially": true, "inner": true, "intersect": true, "into": true, "is": true,
	"isnull": true, "join": true, "lateral": true, "leading": true, "left": true,
	"like": true, "limit": true, "localtime": true, "localtimestamp": true, "natural": true,
	"not": true, "notnull": true, "null": true, "offset": true, "on": true,
	"only": true, "or": true, "order": true, "outer": true, "overlaps": true,
	"placing": true, "primary": true, "references": true, "returning": true, "right": true,
	"select": true, "session_user": true, "similar": true, "some": true, "symmetric": true,
	"system_user": true, "table": true, "tablesample": true, "then": true, "to": true,
	"trailing": true, "true": true, "union": true, "unique": true, "user": true,
	"using": true, "variadic": true, "verbose": true, "when": true, "where": true,
	"window": true, "with": true,
}

// IsReserved reports whether name is a reserved keyword, ignoring case.
func IsReserved(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

// NeedsQuoting reports whether identifier must be double-quoted to be used as
// written. Upper-case letters do not force quoting: unquoted names fold to
// lower case, which is how role names such as CEO are meant to be created.
func NeedsQuoting(identifier string) bool {
	if identifier == "" || IsQuoted(identifier) {
		return false
	}
	if IsReserved(identifier) {
		return true
	}
	for i, r := range identifier {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return true
		}
	}
	return false
}

// IsQuoted reports whether identifier is already a quoted identifier.
func IsQuoted(identifier string) bool {
	return len(identifier) >= 2 && identifier[0] == '"' && identifier[len(identifier)-1] == '"'
}

// QuoteIdentifier quotes identifier when needed and leaves it alone otherwise.
func QuoteIdentifier(identifier string) string {
	if NeedsQuoting(identifier) {
		return pq.QuoteIdentifier(identifier)
	}
	return identifier
}
