package dbprocessor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDatabase is returned when a processor has no *sql.DB to open.
	ErrNoDatabase = errors.New("database connection not established")

	// ErrNoTransaction is returned by CommitTransaction and
	// RollbackTransaction when no transaction is active.
	ErrNoTransaction = errors.New("no transaction in progress")

	// ErrUnsupportedProbe is returned when a dialect has no catalog query
	// for a probe kind.
	ErrUnsupportedProbe = errors.New("probe not supported by dialect")
)

// ExecutionError reports a statement or catalog query that failed against
// the database. The offending SQL is kept verbatim and the driver error is
// the cause.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("An error occurred executing the following sql:\n%s\nThe error was %v", e.SQL, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ConnectionError reports a connection that could not be opened. It is
// fatal to the current run.
type ConnectionError struct {
	Dialect string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open %s connection: %v", e.Dialect, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// UnknownDialectError is returned when a dialect name is not registered.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("db dialect '%s' not supported. Must be one of: %v", e.Name, e.Available)
}
