package main

import (
	"strings"

	"github.com/erraggy/apiflow/internal/cliutil"
	"github.com/erraggy/apiflow/loader"
	"github.com/spf13/cobra"
)

type formatEntry struct {
	Format     string   `json:"format" yaml:"format"`
	Versions   []string `json:"versions,omitempty" yaml:"versions,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Read       bool     `json:"read" yaml:"read"`
	Write      bool     `json:"write" yaml:"write"`
}

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List the supported formats",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(format); err != nil {
				return err
			}

			caps := ctx.registry(loader.NopLogger{}).Capabilities()
			entries := make([]formatEntry, 0, len(caps))
			for _, c := range caps {
				entries = append(entries, formatEntry{
					Format:     string(c.Format),
					Versions:   c.Versions,
					Extensions: c.Extensions,
					Read:       c.Read,
					Write:      c.Write,
				})
			}
			if format != outputText {
				return writeStructured(cmd.OutOrStdout(), entries, format)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Format,
					strings.Join(e.Versions, ", "),
					strings.Join(e.Extensions, ", "),
					yesNo(e.Read),
					yesNo(e.Write),
				})
			}
			cliutil.WriteTable(cmd.OutOrStdout(), []string{"Format", "Version", "Extensions", "Read", "Write"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", outputText, "Output format: text, json or yaml")
	return cmd
}
