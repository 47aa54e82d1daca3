package main

import (
	"github.com/erraggy/apiflow"
	"github.com/erraggy/apiflow/internal/cliutil"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version and build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				cliutil.Writef(cmd.OutOrStdout(), "apiflow v%s\n", apiflow.Version())
				return nil
			}
			cliutil.Writef(cmd.OutOrStdout(), "%s", apiflow.BuildInfo())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}
