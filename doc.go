// SPDX-License-Identifier: MIT

// Package dbprocessor executes schema changes and schema introspection for
// a single SQL dialect.  It is the piece of a migration runner that sits
// between generated DDL and the database: it quotes identifiers, renders
// catalog queries, runs statements over one pinned connection (optionally
// inside a transaction) and honours a preview mode that logs SQL without
// applying it.
//
// Dialects for PostgreSQL, SQLite and MySQL are registered by default;
// RegisterDialect adds more.  The postgres and mysql dialects import their
// drivers (pgx and go-sql-driver/mysql); for sqlite register a driver with
// a blank import.
//
// # Install
//
//	go get github.com/bcomnes/dbprocessor@latest
//
// # Quick start
//
//	import (
//	    "context"
//	    "os"
//
//	    _ "github.com/mattn/go-sqlite3" // sqlite only; pgx and mysql are built in
//	    "github.com/bcomnes/dbprocessor"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    p, _ := dbprocessor.Open(dbprocessor.Config{Dialect: "postgres"}, "", os.Getenv("DATABASE_URL"))
//	    defer p.Close()
//
//	    ok, _ := p.TableExists(ctx, "public", "users")
//	    if !ok {
//	        p.Execute(ctx, "CREATE TABLE %s (id BIGINT PRIMARY KEY)", p.Quoter().QuoteTableName("users", "public"))
//	    }
//	}
//
// # Configuration
//
// Use Config to tweak behaviour:
//
//   - Dialect            "postgres" (default), "sqlite" or "mysql"
//   - PreviewOnly        log statements without executing them
//   - Transactional      run mutating statements in one transaction
//   - ConnectionTimeout  bound on opening the connection (default 30s)
//   - CommandTimeout     bound on each statement
//   - Announcer          where SQL and status messages go
//
// # Preview mode
//
// With PreviewOnly set, Execute, Process and Perform log what they would do
// and return without touching the database.  Existence probes and reads
// still run, so code that generates conditional DDL sees real state.  Pair
// preview mode with a ScriptAnnouncer (or CreateScriptFile) to capture a
// runnable script.
//
// # Existence probes
//
//	SchemaExists, TableExists, ColumnExists, ConstraintExists,
//	IndexExists, SequenceExists, DefaultValueExists
//
// Each renders a fixed catalog query for the dialect.  Names are unquoted
// and escaped for a string literal before they are substituted; callers are
// expected to pass names from migration code, not end-user input.
//
// # Errors
//
// Statement and catalog failures are *ExecutionError values carrying the
// SQL text and the driver error.  A connection that cannot be opened is a
// *ConnectionError.  Nothing is retried.
//
// # CLI
//
// cmd/dbprocessor wraps the package for shell use:
//
//	go install github.com/bcomnes/dbprocessor/cmd/dbprocessor@latest
//
// Generated documentation; update whenever public API or CLI flags change.
package dbprocessor
