package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcomnes/dbprocessor"
)

func newExecCommand(a *app) *cobra.Command {
	var (
		files       []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "exec [sql...]",
		Short: "Execute SQL statements and script files",
		Long: `Execute each SQL argument, then each --file script, in the order given.

With --transactional everything runs in one transaction that is committed
only when every statement succeeds. With --preview nothing is executed.`,
		Example: `  dbprocessor exec "CREATE TABLE users (id int)"
  dbprocessor exec --file 001.create-users.sql --file 002.seed.sql --transactional
  dbprocessor exec --preview --script-dir previews --file 003.drop-legacy.sql`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(files) == 0 {
				return errors.New("nothing to execute: pass SQL arguments or --file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			scripts, err := dbprocessor.LoadScripts(files, a.cfg.Newline)
			if err != nil {
				return err
			}

			s, err := a.open(description)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.Close())
			}()

			ctx := cmd.Context()
			start := time.Now()
			for _, query := range args {
				if err := s.Process(ctx, query); err != nil {
					return s.fail(err)
				}
			}
			for _, script := range scripts {
				if err := s.ProcessScript(ctx, script); err != nil {
					return s.fail(err)
				}
			}
			if s.InTransaction() {
				if err := s.CommitTransaction(); err != nil {
					return s.fail(err)
				}
			}
			s.announcer.ElapsedTime(time.Since(start))

			verb := "Executed"
			if s.PreviewOnly() {
				verb = "Previewed"
			}
			printf(cmd, "%s %d statement(s) and %d script(s)\n", verb, len(args), len(scripts))
			if s.script != nil {
				printf(cmd, "Script written to %s\n", s.script.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "SQL script to execute (repeatable)")
	cmd.Flags().StringVar(&description, "description", "exec", "description used to name the --script-dir script")
	return cmd
}
