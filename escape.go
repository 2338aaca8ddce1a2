package dbprocessor

import "strings"

// EscapeForLiteral doubles single quotes so raw can sit inside a
// single-quoted SQL literal without terminating it.
//
// It is a literal escape, not a sanitizer. Names must come from migration
// authors, never from end users.
func EscapeForLiteral(raw string) string {
	return strings.ReplaceAll(raw, "'", "''")
}

// escapeBackslashLiteral is EscapeForLiteral for engines that also treat a
// backslash as an escape character inside string literals.
func escapeBackslashLiteral(raw string) string {
	return EscapeForLiteral(strings.ReplaceAll(raw, `\`, `\\`))
}
