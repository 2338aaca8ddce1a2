package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcomnes/dbprocessor"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display dbprocessor version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dbprocessor %s\n", dbprocessor.Version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", dbprocessor.GitCommit)
		},
	}
}
