package compiler

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/lib/pq"
	"github.com/reaper-esi/esi2ddl/internal/ir"
)

// abbreviations shortens the first path segment. Each entry replaces its
// first occurrence, applied in order.
var abbreviations = []struct{ long, short string }{
	{"alliance", "alli"},
	{"calendar", "cal"},
	{"character", "chr"},
	{"corporation", "crp"},
	{"dogma", "dgm"},
	{"fleet", "flt"},
	{"incursions", "inc"},
	{"industry", "ind"},
	{"insurance", "ins"},
	{"killmail", "km"},
	{"loyalty", "loy"},
	{"market", "mkt"},
	{"opportunity", "opp"},
	{"search", "srch"},
	{"sovereignty", "sov"},
	{"universe", "uv"},
	{"contract", "ctr"},
}

// TableName derives a table name from an API path:
//
//	/widgets/{widget_id}/             -> widget
//	/characters/{character_id}/assets/ -> chr_asset
//	/universe/types/{type_id}/        -> uv_type_dtl
func TableName(apiPath string) (string, error) {
	tokens := strings.Split(strings.Trim(strings.TrimSpace(apiPath), "/"), "/")

	var b strings.Builder
	for i, raw := range tokens {
		tk := stemToken(raw)

		switch {
		case len(tokens) == 1:
			b.WriteString(raw)
		case i == 0:
			// A lone "{x_id}" after its collection keeps the bare stem.
			// The abbreviation dictionary is not applied here.
			if len(tokens) == 2 && strings.HasPrefix(tokens[1], "{") && strings.Contains(tokens[1], tk) {
				b.WriteString(tk)
			} else {
				b.WriteString(abbreviate(tk))
				b.WriteString("_")
			}
		case i == len(tokens)-1:
			if strings.Contains(tokens[i-1], tk) {
				if strings.HasSuffix(b.String(), "_") {
					b.WriteString("dtl")
				}
			} else {
				b.WriteString(tk)
			}
		case !strings.Contains(tokens[i-1], tk):
			b.WriteString(tk)
			b.WriteString("_")
		}
	}

	name := b.String()
	if len(name) > ir.MaxTableNameLength {
		return "", errorf(ErrIdentifierTooLong, "table name %q exceeds %d characters, tokens %v",
			name, ir.MaxTableNameLength, tokens)
	}
	return name, nil
}

// stemToken strips placeholder braces and "_id", shortens "division" and
// singularizes the token.
func stemToken(token string) string {
	tk := strings.NewReplacer("{", "", "}", "", "_id", "").Replace(token)
	tk = strings.Replace(tk, "division", "div", 1)
	if stem, ok := strings.CutSuffix(tk, "ies"); ok {
		tk = stem + "y"
	}
	if !strings.HasSuffix(tk, "us") {
		tk = strings.TrimSuffix(tk, "s")
	}
	return tk
}

func abbreviate(token string) string {
	for _, a := range abbreviations {
		token = strings.Replace(token, a.long, a.short, 1)
	}
	return token
}

// ColumnIdentifier derives the SQL identifier of a column from its semantic
// name. Names longer than ir.MaxColumnIdentifierLength get the decimal hash of
// the full name spliced into their middle so the result is exactly that long.
// Distinct names may collide.
func ColumnIdentifier(name string) string {
	if name == "from" {
		name = pq.QuoteIdentifier(name)
	}

	runes := []rune(name)
	if len(runes) <= ir.MaxColumnIdentifierLength {
		return name
	}

	hash := strconv.FormatInt(hashCode(name), 10)
	n := len(runes)
	cut := n - ir.MaxColumnIdentifierLength + len(hash)
	return string(runes[:(n-cut)/2]) + hash + string(runes[(n+cut)/2:])
}

// hashCode is the absolute value of the 32-bit polynomial string hash
// s[0]*31^(n-1) + ... + s[n-1] over UTF-16 code units.
func hashCode(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
