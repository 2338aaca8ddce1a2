package dbprocessor

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Config holds settings for a Processor.
type Config struct {
	// Dialect is the registered dialect name, e.g. "postgres", "sqlite" or "mysql".
	Dialect string

	// PreviewOnly logs statements without executing them. Existence probes
	// and reads still run so callers can make decisions on real state.
	PreviewOnly bool

	// Transactional begins a transaction on the first mutating command.
	// The caller commits it with CommitTransaction.
	Transactional bool

	// ConnectionTimeout bounds opening the connection.
	ConnectionTimeout time.Duration

	// CommandTimeout bounds each statement. Zero means no limit.
	CommandTimeout time.Duration

	// Announcer receives SQL and status output. Nil discards it.
	Announcer Announcer
}

// DefaultConfig provides default values for configuration.
var DefaultConfig = Config{
	Dialect:           "postgres",
	ConnectionTimeout: 30 * time.Second,
}

// execQuerier is implemented by *sql.Conn and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Processor executes SQL and catalog probes for one dialect over a single
// pinned connection. It owns that connection and its transaction for the
// lifetime of a migration run.
//
// A Processor is not safe for concurrent use.
type Processor struct {
	cfg       Config
	dialect   Dialect
	announcer Announcer

	db     *sql.DB
	ownsDB bool
	conn   *sql.Conn
	tx     *sql.Tx
}

// NewProcessor creates a Processor for db. The database is not contacted
// until the first command runs.
func NewProcessor(cfg Config, db *sql.DB) (*Processor, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = DefaultConfig.Dialect
	}
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = DefaultConfig.ConnectionTimeout
	}
	d, err := LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	announcer := cfg.Announcer
	if announcer == nil {
		announcer = NewSlogAnnouncer(nil, false)
	}
	return &Processor{
		cfg:       cfg,
		dialect:   d,
		announcer: announcer,
		db:        db,
	}, nil
}

// Open opens a database through the configured dialect and returns a
// Processor that owns it; Close closes the database as well. An empty
// driver selects the dialect's default driver.
func Open(cfg Config, driver, dsn string) (*Processor, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = DefaultConfig.Dialect
	}
	d, err := LookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	db, err := d.Open(driver, dsn, cfg.ConnectionTimeout)
	if err != nil {
		return nil, &ConnectionError{Dialect: d.Name(), Err: err}
	}
	p, err := NewProcessor(cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	p.ownsDB = true
	return p, nil
}

// Dialect returns the processor's dialect.
func (p *Processor) Dialect() Dialect {
	return p.dialect
}

// Quoter returns the dialect's identifier quoter.
func (p *Processor) Quoter() Quoter {
	return p.dialect.Quoter()
}

// PreviewOnly reports whether mutating statements are suppressed.
func (p *Processor) PreviewOnly() bool {
	return p.cfg.PreviewOnly
}

// EnsureOpen opens the processor's connection if it is not already open.
func (p *Processor) EnsureOpen(ctx context.Context) error {
	if p.conn != nil {
		return nil
	}
	if p.db == nil {
		return &ConnectionError{Dialect: p.dialect.Name(), Err: ErrNoDatabase}
	}
	if p.cfg.ConnectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ConnectionTimeout)
		defer cancel()
	}
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return &ConnectionError{Dialect: p.dialect.Name(), Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return &ConnectionError{Dialect: p.dialect.Name(), Err: err}
	}
	p.conn = conn
	return nil
}

// BeginTransaction starts a transaction on the processor's connection. It
// is a no-op when one is already active. The transaction lasts until it is
// committed, rolled back or the processor is closed; canceling ctx does
// not end it.
func (p *Processor) BeginTransaction(ctx context.Context) error {
	if p.tx != nil {
		return nil
	}
	if err := p.EnsureOpen(ctx); err != nil {
		return err
	}
	p.announcer.Say("Beginning Transaction")
	tx, err := p.conn.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	p.tx = tx
	return nil
}

// CommitTransaction commits the active transaction.
func (p *Processor) CommitTransaction() error {
	if p.tx == nil {
		return ErrNoTransaction
	}
	p.announcer.Say("Committing Transaction")
	tx := p.tx
	p.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the active transaction.
func (p *Processor) RollbackTransaction() error {
	if p.tx == nil {
		return ErrNoTransaction
	}
	p.announcer.Say("Rolling back transaction")
	tx := p.tx
	p.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// InTransaction reports whether a transaction is active.
func (p *Processor) InTransaction() bool {
	return p.tx != nil
}

// Close rolls back any uncommitted transaction and releases the connection.
// A processor created by Open also closes its database.
func (p *Processor) Close() error {
	var firstErr error
	if p.tx != nil {
		if err := p.RollbackTransaction(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close connection: %w", err)
		}
		p.conn = nil
	}
	if p.ownsDB && p.db != nil {
		if err := p.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
		p.db = nil
	}
	return firstErr
}

// command returns the target for the next statement: the active
// transaction if there is one, else the pinned connection.
func (p *Processor) command() execQuerier {
	if p.tx != nil {
		return p.tx
	}
	return p.conn
}

// commandContext applies the configured command timeout.
func (p *Processor) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.CommandTimeout > 0 {
		return context.WithTimeout(ctx, p.cfg.CommandTimeout)
	}
	return context.WithCancel(ctx)
}
