package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bcomnes/dbprocessor"
)

func newReadCommand(a *app) *cobra.Command {
	var (
		query  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "read [[schema.]table]",
		Short: "Print the rows of a table or query",
		Example: `  dbprocessor read public.users
  dbprocessor read --query "SELECT id, email FROM users WHERE active" -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if (len(args) == 1) == (query != "") {
				return errors.New("pass either a table or --query")
			}
			if output != "table" && output != "yaml" {
				return fmt.Errorf("unknown output format %q (table|yaml)", output)
			}

			s, err := a.open("read")
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.Close())
			}()

			var ds *dbprocessor.DataSet
			if query != "" {
				ds, err = s.Read(cmd.Context(), query)
			} else {
				schema, table := splitQualified(args[0])
				ds, err = s.ReadTableData(cmd.Context(), schema, table)
			}
			if err != nil {
				return s.fail(err)
			}

			if output == "yaml" {
				return writeYAML(cmd.OutOrStdout(), ds)
			}
			return writeTables(cmd.OutOrStdout(), ds)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "query to run instead of reading a table")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// writeTables prints each result set as aligned columns, separated by a
// blank line.
func writeTables(w io.Writer, ds *dbprocessor.DataSet) error {
	for i, t := range ds.Tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for j, c := range t.Columns {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
		for r := range t.Rows {
			for j := range t.Columns {
				if j > 0 {
					fmt.Fprint(tw, "\t")
				}
				v := t.At(r, j)
				if v == nil {
					v = "NULL"
				}
				fmt.Fprint(tw, v)
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// writeYAML prints the result sets as a list of row lists. A repeated
// column name gets a _2, _3, ... suffix so no value is lost.
func writeYAML(w io.Writer, ds *dbprocessor.DataSet) error {
	out := make([][]map[string]any, 0, len(ds.Tables))
	for _, t := range ds.Tables {
		keys := uniqueKeys(t.Columns)
		rows := make([]map[string]any, 0, len(t.Rows))
		for r := range t.Rows {
			row := make(map[string]any, len(keys))
			for j, k := range keys {
				row[k] = t.At(r, j)
			}
			rows = append(rows, row)
		}
		out = append(out, rows)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func uniqueKeys(columns []string) []string {
	keys := make([]string, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		k := c
		for n := 2; seen[k]; n++ {
			k = fmt.Sprintf("%s_%d", c, n)
		}
		seen[k] = true
		keys[i] = k
	}
	return keys
}
