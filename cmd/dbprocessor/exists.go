package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bcomnes/dbprocessor"
)

// errMissing makes exists exit non-zero under --fail-missing.
var errMissing = errors.New("object does not exist")

func newExistsCommand(a *app) *cobra.Command {
	var (
		defaultValue string
		failMissing  bool
	)

	cmd := &cobra.Command{
		Use:   "exists <kind> <target> [name]",
		Short: "Check whether a schema object exists",
		Long: `Check whether a schema object exists and print true or false.

Kinds and their arguments:
  schema     <schema>
  table      <[schema.]table>
  sequence   <[schema.]sequence>
  column     <[schema.]table> <column>
  constraint <[schema.]table> <constraint>
  index      <[schema.]table> <index>
  default    <[schema.]table> <column> --default <value>

Probes run in preview mode too.`,
		Example: `  dbprocessor exists table public.users
  dbprocessor exists column users email --fail-missing
  dbprocessor exists default users status --default active`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			kind, err := dbprocessor.ParseProbeKind(args[0])
			if err != nil {
				return err
			}
			ref, err := objectRef(kind, args[1:])
			if err != nil {
				return err
			}
			if kind == dbprocessor.ProbeDefaultValue {
				if !cmd.Flags().Changed("default") {
					return errors.New("default probe needs --default")
				}
				ref.Default = defaultValue
			}

			s, err := a.open("exists " + kind.String())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.Close())
			}()

			found, err := s.Probe(cmd.Context(), kind, ref)
			if err != nil {
				return s.fail(err)
			}
			printf(cmd, "%s\n", strconv.FormatBool(found))
			if !found && failMissing {
				return errMissing
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultValue, "default", "", "default value to look for (default kind only)")
	cmd.Flags().BoolVar(&failMissing, "fail-missing", false, "exit non-zero when the object does not exist")
	return cmd
}

// objectRef maps the positional arguments of exists onto an ObjectRef.
func objectRef(kind dbprocessor.ProbeKind, args []string) (dbprocessor.ObjectRef, error) {
	switch kind {
	case dbprocessor.ProbeSchema:
		if len(args) != 1 {
			return dbprocessor.ObjectRef{}, fmt.Errorf("%s probe takes exactly one argument", kind)
		}
		return dbprocessor.ObjectRef{Schema: args[0]}, nil
	case dbprocessor.ProbeTable, dbprocessor.ProbeSequence:
		if len(args) != 1 {
			return dbprocessor.ObjectRef{}, fmt.Errorf("%s probe takes exactly one argument", kind)
		}
		schema, name := splitQualified(args[0])
		if kind == dbprocessor.ProbeTable {
			return dbprocessor.ObjectRef{Schema: schema, Table: name}, nil
		}
		return dbprocessor.ObjectRef{Schema: schema, Name: name}, nil
	default:
		if len(args) != 2 {
			return dbprocessor.ObjectRef{}, fmt.Errorf("%s probe takes a table and a name", kind)
		}
		schema, table := splitQualified(args[0])
		return dbprocessor.ObjectRef{Schema: schema, Table: table, Name: args[1]}, nil
	}
}
