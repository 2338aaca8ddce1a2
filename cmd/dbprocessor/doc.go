// SPDX-License-Identifier: MIT

// Package main provides dbprocessor, a command-line interface for the
// dbprocessor library: run SQL against PostgreSQL, SQLite or MySQL and ask
// the catalog whether schema objects exist.
//
// # Install
//
//	go install github.com/bcomnes/dbprocessor/cmd/dbprocessor@latest
//
// # Synopsis
//
//	dbprocessor [command] [arguments] [flags]
//
// # Commands
//
//	exec [sql...] [-f file.sql...]   Execute statements, then scripts, in order.
//	exists <kind> <target> [name]    Print whether a schema object exists.
//	read [[schema.]table] [-q sql]   Print the rows of a table or query.
//	config show                      Print the effective configuration as YAML.
//	version                          Print version information.
//
// # Global flags
//
//	--config string               YAML config file (default ./dbprocessor.yaml).
//	--dialect string              postgres, sqlite or mysql (default "postgres").
//	--driver string               database/sql driver: pgx or postgres (lib/pq)
//	                              for postgres, sqlite3, mysql.
//	--conn string                 Connection string. Overrides $DATABASE_URL and
//	                              the connection parameters below.
//	--host, --port, --username, --password, --ssl, --database
//	                              Connection parameters used to build a connection
//	                              string when --conn is empty. For SQLite,
//	                              --database is the file (default ":memory:").
//	--preview                     Log statements without executing them.
//	--transactional               Run everything in one transaction.
//	--connection-timeout duration Bound on opening the connection (default 30s).
//	--command-timeout duration    Bound on each statement.
//	--script-dir string           Write each run's statements to NNN.preview.<desc>.sql.
//	--script-mode string          Script numbering: "int" or "timestamp".
//	--newline string              Convert script line endings: LF, CR or CRLF.
//	-v, --verbose                 Debug logging.
//
// *Precedence:* flags ➜ DBPROCESSOR_* environment ➜ $DATABASE_URL ➜ config file ➜ defaults
//
// # Environment
//
//	DBPROCESSOR_<KEY>  Any config key, e.g. DBPROCESSOR_COMMAND_TIMEOUT=2m.
//	DATABASE_URL       Connection string used when no conn is configured.
//
// # Examples
//
//	# Create a table unless it is already there
//	dbprocessor exists table public.users --fail-missing || \
//	    dbprocessor exec -f sql/001.create-users.sql
//
//	# Run two scripts atomically
//	dbprocessor exec --transactional -f 001.sql -f 002.sql
//
//	# Capture what a run would do without touching the database
//	dbprocessor exec --preview --script-dir previews -f 003.drop-legacy.sql
//
// # Configuration file
//
//	dialect: sqlite
//	database: app.db
//	transactional: true
//	command_timeout: 2m
//
// # Exit status
//
// The program exits non-zero on any error, and from exists when the object is
// missing and --fail-missing is set.
//
// Generated documentation; update when flags or behaviour change.
package main
