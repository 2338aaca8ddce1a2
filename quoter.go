package dbprocessor

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// Quoter quotes and unquotes identifiers for one dialect.
type Quoter interface {
	// Quote wraps name in the dialect's quote characters, doubling any
	// embedded quote character.
	Quote(name string) string

	// Unquote strips one layer of quoting from a well-formed quoted
	// identifier. Anything else is returned unchanged. Only one layer is
	// removed: a name whose content is itself quoted, such as """a""",
	// unquotes to "a", so Unquote is not idempotent for such names.
	Unquote(name string) string

	// QuoteTableName returns "schema"."table", or "table" when schema is empty.
	QuoteTableName(table, schema string) string

	// QuoteSchemaName quotes a schema name.
	QuoteSchemaName(schema string) string

	// UnquoteSchemaName unquotes a schema name, mapping an empty name to the
	// dialect's default schema.
	UnquoteSchemaName(schema string) string
}

// identQuoter is a Quoter for dialects that quote with a single pair of
// delimiters (" for SQLite, ` for MySQL).
type identQuoter struct {
	left, right   string
	defaultSchema string
}

func (q identQuoter) Quote(name string) string {
	return q.left + strings.ReplaceAll(name, q.right, q.right+q.right) + q.right
}

func (q identQuoter) Unquote(name string) string {
	if !q.isQuoted(name) {
		return name
	}
	inner := name[len(q.left) : len(name)-len(q.right)]
	return strings.ReplaceAll(inner, q.right+q.right, q.right)
}

// isQuoted reports whether name is wrapped in the delimiters and every
// quote character inside it is doubled.
func (q identQuoter) isQuoted(name string) bool {
	if len(name) < len(q.left)+len(q.right) {
		return false
	}
	if !strings.HasPrefix(name, q.left) || !strings.HasSuffix(name, q.right) {
		return false
	}
	inner := name[len(q.left) : len(name)-len(q.right)]
	return !strings.Contains(strings.ReplaceAll(inner, q.right+q.right, ""), q.right)
}

func (q identQuoter) QuoteTableName(table, schema string) string {
	if schema == "" {
		return q.Quote(table)
	}
	return q.Quote(schema) + "." + q.Quote(table)
}

func (q identQuoter) QuoteSchemaName(schema string) string {
	if schema == "" {
		schema = q.defaultSchema
	}
	if schema == "" {
		return ""
	}
	return q.Quote(schema)
}

func (q identQuoter) UnquoteSchemaName(schema string) string {
	if schema == "" {
		return q.defaultSchema
	}
	return q.Unquote(schema)
}

// pgQuoter quotes PostgreSQL identifiers with pgx so the processor and the
// driver agree on sanitisation.
type pgQuoter struct {
	identQuoter
}

func newPgQuoter() pgQuoter {
	return pgQuoter{identQuoter{left: `"`, right: `"`, defaultSchema: "public"}}
}

func (q pgQuoter) Quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func (q pgQuoter) QuoteTableName(table, schema string) string {
	if schema == "" {
		return pgx.Identifier{table}.Sanitize()
	}
	return pgx.Identifier{schema, table}.Sanitize()
}

func (q pgQuoter) QuoteSchemaName(schema string) string {
	if schema == "" {
		schema = q.defaultSchema
	}
	return pgx.Identifier{schema}.Sanitize()
}
