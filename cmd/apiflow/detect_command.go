package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/erraggy/apiflow/internal/cliutil"
	"github.com/erraggy/apiflow/registry"
	"github.com/spf13/cobra"
)

type detectScore struct {
	Format  string  `json:"format" yaml:"format"`
	Version string  `json:"version,omitempty" yaml:"version,omitempty"`
	Score   float64 `json:"score" yaml:"score"`
	Match   bool    `json:"match" yaml:"match"`
}

type detectReport struct {
	Detected string        `json:"detected,omitempty" yaml:"detected,omitempty"`
	Scores   []detectScore `json:"scores" yaml:"scores"`
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detect <file|url|->",
		Short: "Score a document against every format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(format); err != nil {
				return err
			}
			conv, release, err := ctx.openConverter(cmd, nil)
			if err != nil {
				return err
			}
			defer release()

			var content []byte
			if args[0] == stdinPath {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = conv.Fetch(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			report := buildDetectReport(conv.Registry().Scores(content))
			if format != outputText {
				return writeStructured(cmd.OutOrStdout(), report, format)
			}

			rows := make([][]string, 0, len(report.Scores))
			for _, s := range report.Scores {
				rows = append(rows, []string{s.Format, s.Version, strconv.FormatFloat(s.Score, 'f', 2, 64), yesNo(s.Match)})
			}
			out := cmd.OutOrStdout()
			cliutil.WriteTable(out, []string{"Format", "Version", "Score", "Match"}, rows,
				[]cliutil.Align{cliutil.AlignLeft, cliutil.AlignLeft, cliutil.AlignRight, cliutil.AlignLeft})
			if report.Detected == "" {
				cliutil.Writef(out, "No format scored above %.2f\n", registry.MatchThreshold)
			} else {
				cliutil.Writef(out, "Detected: %s\n", report.Detected)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", outputText, "Output format: text, json or yaml")
	return cmd
}

func buildDetectReport(scores []registry.Score) detectReport {
	report := detectReport{Scores: make([]detectScore, 0, len(scores))}
	for _, s := range scores {
		report.Scores = append(report.Scores, detectScore{
			Format:  string(s.Descriptor.Format),
			Version: s.Descriptor.Version,
			Score:   s.Score,
			Match:   s.Match,
		})
		if s.Match && report.Detected == "" {
			report.Detected = s.Descriptor.String()
		}
	}
	return report
}
