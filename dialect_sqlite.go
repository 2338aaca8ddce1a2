package dbprocessor

import (
	"database/sql"
	"time"
)

// sqliteDialect reads the pragma table-valued functions. SQLite keeps no
// catalog of named constraints and has no sequences, so those probes are
// unsupported.
type sqliteDialect struct {
	quoter identQuoter
}

var sqliteProbes = map[ProbeKind]string{
	ProbeSchema:       "select * from pragma_database_list where name = '{schema}'",
	ProbeTable:        "select * from pragma_table_list where schema = '{schema}' and name = '{table}' and type = 'table'",
	ProbeColumn:       "select * from pragma_table_info('{table}', '{schema}') where name = '{name}'",
	ProbeIndex:        "select * from pragma_index_list('{table}', '{schema}') where name = '{name}'",
	ProbeDefaultValue: "select * from pragma_table_info('{table}', '{schema}') where name = '{name}' and dflt_value like '{default}'",
}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite3" }

func (d sqliteDialect) Quoter() Quoter { return d.quoter }

func (sqliteDialect) EscapeLiteral(raw string) string { return EscapeForLiteral(raw) }

func (sqliteDialect) ProbeTemplate(kind ProbeKind) (string, bool) {
	tmpl, ok := sqliteProbes[kind]
	return tmpl, ok
}

// Open has no connect timeout to pass on; SQLite opens a local file.
func (d sqliteDialect) Open(driver, dsn string, _ time.Duration) (*sql.DB, error) {
	if driver == "" {
		driver = d.DriverName()
	}
	return openDB(driver, dsn)
}
