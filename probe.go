package dbprocessor

import (
	"context"
	"fmt"
	"strings"
)

// ProbeKind identifies the kind of schema object an existence probe
// looks for.
type ProbeKind int

const (
	ProbeSchema ProbeKind = iota
	ProbeTable
	ProbeColumn
	ProbeConstraint
	ProbeIndex
	ProbeSequence
	ProbeDefaultValue
)

var probeKindNames = [...]string{
	ProbeSchema:       "schema",
	ProbeTable:        "table",
	ProbeColumn:       "column",
	ProbeConstraint:   "constraint",
	ProbeIndex:        "index",
	ProbeSequence:     "sequence",
	ProbeDefaultValue: "default",
}

func (k ProbeKind) String() string {
	if k < 0 || int(k) >= len(probeKindNames) {
		return fmt.Sprintf("ProbeKind(%d)", int(k))
	}
	return probeKindNames[k]
}

// ParseProbeKind converts a name such as "table" or "default" to a ProbeKind.
func ParseProbeKind(s string) (ProbeKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "default-value" || name == "default_value" {
		name = "default"
	}
	for k, n := range probeKindNames {
		if n == name {
			return ProbeKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown probe kind %q", s)
}

// ObjectRef names a schema object. Schema may be empty for the dialect's
// default schema. Name is the column, constraint, index or sequence name;
// Table is unused for schema and sequence probes.
type ObjectRef struct {
	Schema string
	Table  string
	Name   string

	// Default is the value looked for by ProbeDefaultValue.
	Default any
}

// params binds ref to the placeholders of kind's template. Names are
// unquoted here; escaping happens when the template is rendered.
func (p *Processor) params(kind ProbeKind, ref ObjectRef) map[string]string {
	q := p.dialect.Quoter()
	params := map[string]string{"schema": q.UnquoteSchemaName(ref.Schema)}
	switch kind {
	case ProbeSchema:
	case ProbeTable:
		params["table"] = q.Unquote(ref.Table)
	case ProbeSequence:
		params["name"] = q.Unquote(ref.Name)
	case ProbeDefaultValue:
		params["table"] = q.Unquote(ref.Table)
		params["name"] = q.Unquote(ref.Name)
		params["default"] = "%" + fmt.Sprint(ref.Default) + "%"
	default:
		params["table"] = q.Unquote(ref.Table)
		params["name"] = q.Unquote(ref.Name)
	}
	return params
}

// ProbeSQL renders the catalog query for kind and ref without running it.
func (p *Processor) ProbeSQL(kind ProbeKind, ref ObjectRef) (string, error) {
	tmpl, ok := p.dialect.ProbeTemplate(kind)
	if !ok {
		return "", fmt.Errorf("%s %s: %w", p.dialect.Name(), kind, ErrUnsupportedProbe)
	}
	return renderTemplate(tmpl, p.params(kind, ref), p.dialect.EscapeLiteral)
}

// Probe reports whether the object described by kind and ref exists.
// Probes run in preview mode too.
func (p *Processor) Probe(ctx context.Context, kind ProbeKind, ref ObjectRef) (bool, error) {
	query, err := p.ProbeSQL(kind, ref)
	if err != nil {
		return false, err
	}
	return p.exists(ctx, query)
}

// SchemaExists reports whether schema exists.
func (p *Processor) SchemaExists(ctx context.Context, schema string) (bool, error) {
	return p.Probe(ctx, ProbeSchema, ObjectRef{Schema: schema})
}

// TableExists reports whether schema.table exists.
func (p *Processor) TableExists(ctx context.Context, schema, table string) (bool, error) {
	return p.Probe(ctx, ProbeTable, ObjectRef{Schema: schema, Table: table})
}

// ColumnExists reports whether column exists on schema.table.
func (p *Processor) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	return p.Probe(ctx, ProbeColumn, ObjectRef{Schema: schema, Table: table, Name: column})
}

// ConstraintExists reports whether the named constraint exists on schema.table.
func (p *Processor) ConstraintExists(ctx context.Context, schema, table, constraint string) (bool, error) {
	return p.Probe(ctx, ProbeConstraint, ObjectRef{Schema: schema, Table: table, Name: constraint})
}

// IndexExists reports whether the named index exists on schema.table.
func (p *Processor) IndexExists(ctx context.Context, schema, table, index string) (bool, error) {
	return p.Probe(ctx, ProbeIndex, ObjectRef{Schema: schema, Table: table, Name: index})
}

// SequenceExists reports whether the named sequence exists in schema.
func (p *Processor) SequenceExists(ctx context.Context, schema, sequence string) (bool, error) {
	return p.Probe(ctx, ProbeSequence, ObjectRef{Schema: schema, Name: sequence})
}

// DefaultValueExists reports whether column's stored default contains
// defaultValue. The match is a LIKE '%value%' because engines wrap stored
// defaults in casts and parentheses.
func (p *Processor) DefaultValueExists(ctx context.Context, schema, table, column string, defaultValue any) (bool, error) {
	return p.Probe(ctx, ProbeDefaultValue, ObjectRef{Schema: schema, Table: table, Name: column, Default: defaultValue})
}

// Exists formats a query with fmt.Sprintf and reports whether it returns
// at least one row.
func (p *Processor) Exists(ctx context.Context, format string, args ...any) (bool, error) {
	return p.exists(ctx, formatSQL(format, args))
}

func (p *Processor) exists(ctx context.Context, query string) (bool, error) {
	if err := p.EnsureOpen(ctx); err != nil {
		return false, err
	}

	cmdCtx, cancel := p.commandContext(ctx)
	defer cancel()
	rows, err := p.command().QueryContext(cmdCtx, query)
	if err != nil {
		return false, &ExecutionError{SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, &ExecutionError{SQL: query, Err: err}
	}
	return found, nil
}

// Read formats a query with fmt.Sprintf and returns every result set it
// produces.
func (p *Processor) Read(ctx context.Context, format string, args ...any) (*DataSet, error) {
	query := formatSQL(format, args)
	if err := p.EnsureOpen(ctx); err != nil {
		return nil, err
	}

	cmdCtx, cancel := p.commandContext(ctx)
	defer cancel()
	//nolint:rowserrcheck // readDataSet checks rows.Err for every result set
	rows, err := p.command().QueryContext(cmdCtx, query)
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	ds, err := readDataSet(rows)
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	return ds, nil
}

// ReadTableData returns every row of schema.table.
func (p *Processor) ReadTableData(ctx context.Context, schema, table string) (*DataSet, error) {
	q := p.dialect.Quoter()
	return p.Read(ctx, "SELECT * FROM %s", q.QuoteTableName(q.Unquote(table), q.Unquote(schema)))
}
