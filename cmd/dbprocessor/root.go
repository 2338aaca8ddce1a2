package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcomnes/dbprocessor"
	"github.com/bcomnes/dbprocessor/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dbprocessor",
		Short: "Run SQL and schema existence checks against a database",
		Long: `dbprocessor runs SQL statements and script files over a single connection,
optionally inside one transaction, and answers whether schemas, tables,
columns, constraints, indexes, sequences and column defaults exist.

With --preview statements are logged instead of executed; --script-dir
captures them as a runnable script.`,
		Version: dbprocessor.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				a.logger.Debug("using config file", slog.String("path", cfg.File))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./dbprocessor.yaml)")
	pf.String("dialect", "", "SQL dialect: "+strings.Join(dbprocessor.Dialects(), ", ")+" (default \"postgres\")")
	pf.String("driver", "", "database/sql driver name (default depends on dialect)")
	pf.String("conn", "", "connection string; overrides $DATABASE_URL and the connection parameters")
	pf.String("host", "", "database host (default \"localhost\")")
	pf.Int("port", 0, "database port (default depends on dialect)")
	pf.String("username", "", "database username")
	pf.String("password", "", "database password")
	pf.Bool("ssl", false, "require SSL")
	pf.String("database", "", "database name, or SQLite file")
	pf.Bool("preview", false, "log statements without executing them")
	pf.Bool("transactional", false, "run all statements in one transaction")
	pf.Duration("connection-timeout", 0, "bound on opening the connection (default 30s)")
	pf.Duration("command-timeout", 0, "bound on each statement (default none)")
	pf.String("script-dir", "", "write the statements of each run to a script in this directory")
	pf.String("script-mode", "", "script numbering mode: int or timestamp (default \"int\")")
	pf.String("newline", "", "convert script line endings: LF, CR or CRLF")
	pf.BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dbprocessor.Dialects(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("newline", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"LF", "CR", "CRLF"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newExecCommand(a))
	rootCmd.AddCommand(newExistsCommand(a))
	rootCmd.AddCommand(newReadCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// session is an open processor plus the preview script it writes, if any.
type session struct {
	*dbprocessor.Processor

	announcer dbprocessor.Announcer
	script    *dbprocessor.ScriptFile
}

// open connects a processor using the loaded configuration. description
// names the preview script when --script-dir is set.
func (a *app) open(description string) (*session, error) {
	dsn, err := a.cfg.ConnString()
	if err != nil {
		return nil, err
	}

	s := &session{}
	s.announcer = dbprocessor.NewSlogAnnouncer(a.logger, a.cfg.Verbose || a.cfg.Preview)
	if a.cfg.ScriptDir != "" {
		s.script, err = dbprocessor.CreateScriptFile(a.cfg.ScriptDir, description, a.cfg.ScriptMode)
		if err != nil {
			return nil, err
		}
		s.announcer = dbprocessor.MultiAnnouncer{s.announcer, s.script}
	}

	s.Processor, err = dbprocessor.Open(a.cfg.ProcessorConfig(s.announcer), a.cfg.Driver, dsn)
	if err != nil {
		if s.script != nil {
			_ = s.script.Close()
		}
		return nil, err
	}
	return s, nil
}

// Close rolls back anything uncommitted, disconnects and finishes the
// preview script.
func (s *session) Close() error {
	err := s.Processor.Close()
	if s.script != nil {
		err = errors.Join(err, s.script.Close())
	}
	return err
}

// fail reports err through the announcer so it also lands in the preview
// script, and returns it.
func (s *session) fail(err error) error {
	s.announcer.Error(err)
	return err
}

// splitQualified splits "schema.table" at the first dot outside quotes.
// A name without a dot is returned as the table with an empty schema.
func splitQualified(name string) (schema, table string) {
	var quote rune
	for i, r := range name {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '`':
			quote = r
		case r == '[':
			quote = ']'
		case r == '.':
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
