// Package config loads settings for the dbprocessor command.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/bcomnes/dbprocessor"
)

// Defaults for keys that have one.
const (
	DefaultDialect           = "postgres"
	DefaultHost              = "localhost"
	DefaultConnectionTimeout = 30 * time.Second
	DefaultScriptMode        = "int"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect string `koanf:"dialect"`
	Driver  string `koanf:"driver"`

	// Conn is a full connection string. When empty one is built from the
	// connection parameters below.
	Conn string `koanf:"conn"`

	// Connection parameters.
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSL      bool   `koanf:"ssl"`
	Database string `koanf:"database"`

	Preview           bool          `koanf:"preview"`
	Transactional     bool          `koanf:"transactional"`
	ConnectionTimeout time.Duration `koanf:"connection_timeout"`
	CommandTimeout    time.Duration `koanf:"command_timeout"`

	// ScriptDir receives a preview script for every run when set.
	ScriptDir  string `koanf:"script_dir"`
	ScriptMode string `koanf:"script_mode"`

	Newline string `koanf:"newline"`
	Verbose bool   `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dbprocessor.LookupDialect(c.Dialect); err != nil {
		return err
	}
	switch c.Newline {
	case "", "LF", "CR", "CRLF":
	default:
		return fmt.Errorf("newline must be one of: LF, CR, CRLF (got %q)", c.Newline)
	}
	switch strings.ToLower(c.ScriptMode) {
	case "", "int", "timestamp":
	default:
		return fmt.Errorf("script_mode must be int or timestamp (got %q)", c.ScriptMode)
	}
	if c.ConnectionTimeout < 0 || c.CommandTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// ConnString returns Conn, or builds a connection string for the dialect
// from the connection parameters.
func (c *Config) ConnString() (string, error) {
	if c.Conn != "" {
		return c.Conn, nil
	}
	d, err := dbprocessor.LookupDialect(c.Dialect)
	if err != nil {
		return "", err
	}

	switch d.Name() {
	case "sqlite":
		// For SQLite, the database field is the filename.
		if c.Database == "" {
			return ":memory:", nil
		}
		return c.Database, nil
	case "postgres":
		if c.Database == "" {
			return "", fmt.Errorf("database name must be provided for dialect %s", d.Name())
		}
		sslMode := "disable"
		if c.SSL {
			sslMode = "require"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(c.host(), strconv.Itoa(c.port(5432))),
			Path:     "/" + c.Database,
			RawQuery: "sslmode=" + sslMode,
		}
		if c.Username != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.Username, c.Password)
			} else {
				u.User = url.User(c.Username)
			}
		}
		return u.String(), nil
	case "mysql":
		if c.Database == "" {
			return "", fmt.Errorf("database name must be provided for dialect %s", d.Name())
		}
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.host(), strconv.Itoa(c.port(3306)))
		mc.DBName = c.Database
		if c.SSL {
			mc.TLSConfig = "true"
		}
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("no connection string builder for dialect %s; set conn", d.Name())
	}
}

// ProcessorConfig converts c into the settings for a Processor.
func (c *Config) ProcessorConfig(announcer dbprocessor.Announcer) dbprocessor.Config {
	return dbprocessor.Config{
		Dialect:           c.Dialect,
		PreviewOnly:       c.Preview,
		Transactional:     c.Transactional,
		ConnectionTimeout: c.ConnectionTimeout,
		CommandTimeout:    c.CommandTimeout,
		Announcer:         announcer,
	}
}

// Redacted returns a copy of c with secrets masked, for display.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "****"
	}
	if c.Conn != "" {
		c.Conn = redactConn(c.Conn)
	}
	return c
}

func (c *Config) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

func (c *Config) port(fallback int) int {
	if c.Port == 0 {
		return fallback
	}
	return c.Port
}

// redactConn masks the password of URL-style and MySQL-style DSNs.
func redactConn(conn string) string {
	if u, err := url.Parse(conn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return u.String()
		}
		return conn
	}
	if mc, err := mysql.ParseDSN(conn); err == nil && mc.Passwd != "" {
		mc.Passwd = "****"
		return mc.FormatDSN()
	}
	return conn
}
