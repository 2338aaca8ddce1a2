package dbprocessor

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Dialect supplies the engine-specific parts of a Processor: identifier
// quoting, literal escaping, catalog templates and connection setup.
type Dialect interface {
	// Name is the registry name, e.g. "postgres".
	Name() string

	// DriverName is the database/sql driver used when none is configured.
	DriverName() string

	Quoter() Quoter

	// EscapeLiteral escapes a value for a single-quoted string literal.
	EscapeLiteral(raw string) string

	// ProbeTemplate returns the catalog query for kind. Templates use the
	// named placeholders {schema}, {table}, {name} and {default}.
	ProbeTemplate(kind ProbeKind) (string, bool)

	// Open builds a *sql.DB for dsn without connecting, passing timeout to
	// the driver's connect logic where the driver supports it.
	Open(driver, dsn string, timeout time.Duration) (*sql.DB, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

func init() {
	RegisterDialect(postgresDialect{quoter: newPgQuoter()})
	RegisterDialect(sqliteDialect{quoter: identQuoter{left: `"`, right: `"`, defaultSchema: "main"}})
	RegisterDialect(mysqlDialect{quoter: identQuoter{left: "`", right: "`"}})
}

// RegisterDialect adds d to the registry under d.Name(), replacing any
// dialect already registered with that name.
func RegisterDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name())] = d
}

// LookupDialect finds a registered dialect by name, case-insensitively.
// "pg" and "postgresql" are accepted for postgres and "sqlite3" for sqlite.
func LookupDialect(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "pg", "postgresql":
		key = "postgres"
	case "sqlite3":
		key = "sqlite"
	}
	dialectsMu.RLock()
	d, ok := dialects[key]
	dialectsMu.RUnlock()
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: Dialects()}
	}
	return d, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var placeholderRe = regexp.MustCompile(`\{([a-z]+)\}`)

// renderTemplate substitutes every {placeholder} in tmpl with the matching
// bound value escaped for a string literal. A placeholder without a binding
// is an error.
func renderTemplate(tmpl string, params map[string]string, escape func(string) string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := params[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return escape(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template has unbound placeholders %v", missing)
	}
	return out, nil
}

// openDB is the Dialect.Open fallback for drivers without a connect-timeout
// hook. The processor still bounds the first connection with the timeout.
func openDB(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	return db, nil
}
