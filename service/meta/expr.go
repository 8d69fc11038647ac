package meta

import (
	"os"
	"strings"
	"unicode"
)

// expandEnvExpr substitutes every ${env.KEY} occurrence with the value of
// the environment variable KEY.  Unset variables expand to the empty string.
// An expression with no closing brace is kept as literal text; a key holding
// characters other than letters, digits and '_' keeps the marker literal but
// still expands any well-formed expression nested after it.
func expandEnvExpr(value string) string {
	const marker = "${env."
	var out strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:idx])
		body := rest[idx+len(marker):]
		end := strings.IndexByte(body, '}')
		if end < 0 {
			// unterminated, keep the tail as is
			out.WriteString(rest[idx:])
			return out.String()
		}
		key := body[:end]
		if !validEnvKey(key) {
			// keep the marker literal and rescan what follows it
			out.WriteString(marker)
			rest = body
			continue
		}
		out.WriteString(os.Getenv(key))
		rest = body[end+1:]
	}
}

func validEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
