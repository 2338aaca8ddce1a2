package dbprocessor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Operation is a programmatic database step that cannot be written as
// static SQL. tx is nil when no transaction is active.
type Operation func(ctx context.Context, conn *sql.Conn, tx *sql.Tx) error

// Execute formats a statement with fmt.Sprintf and processes it. With no
// args the format is used verbatim.
func (p *Processor) Execute(ctx context.Context, format string, args ...any) error {
	return p.Process(ctx, formatSQL(format, args))
}

// Process logs query and, unless the processor is in preview mode or query
// is blank, executes it as a non-query. Failures are returned as
// *ExecutionError.
func (p *Processor) Process(ctx context.Context, query string) error {
	p.announcer.SQL(query)

	if p.cfg.PreviewOnly || strings.TrimSpace(query) == "" {
		return nil
	}

	if err := p.ensureCommandReady(ctx); err != nil {
		return err
	}

	cmdCtx, cancel := p.commandContext(ctx)
	defer cancel()
	if _, err := p.command().ExecContext(cmdCtx, query); err != nil {
		return &ExecutionError{SQL: query, Err: err}
	}
	return nil
}

// Perform runs op with the live connection and active transaction. It is
// skipped in preview mode.
func (p *Processor) Perform(ctx context.Context, op Operation) error {
	p.announcer.Say("Performing DB Operation")

	if p.cfg.PreviewOnly || op == nil {
		return nil
	}

	if err := p.ensureCommandReady(ctx); err != nil {
		return err
	}
	if err := op(ctx, p.conn, p.tx); err != nil {
		return fmt.Errorf("database operation failed: %w", err)
	}
	return nil
}

// ensureCommandReady opens the connection and, for transactional
// processors, the transaction a mutating command runs in.
func (p *Processor) ensureCommandReady(ctx context.Context) error {
	if err := p.EnsureOpen(ctx); err != nil {
		return err
	}
	if p.cfg.Transactional {
		return p.BeginTransaction(ctx)
	}
	return nil
}

func formatSQL(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
