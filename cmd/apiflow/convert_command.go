package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/apiflow/converter"
	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/internal/cliutil"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/registry"
	"github.com/spf13/cobra"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		target string
		output string
		depth  int
	)

	cmd := &cobra.Command{
		Use:   "convert <file|url|->",
		Short: "Convert an API description to another format",
		Long: `Convert an API description to another format.

The source format is detected from the document. The target is taken from
--target, else from the extension of --output, else from the configured
default target.

Examples:
  apiflow convert swagger.yaml -t postman -o api.postman_collection.json
  apiflow convert https://example.com/openapi.json -o api.raml
  cat api.raml | apiflow convert -q -t apib - > api.apib`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var depthOverride *int
			if cmd.Flags().Changed("depth") {
				depthOverride = &depth
			}
			conv, release, err := ctx.openConverter(cmd, depthOverride)
			if err != nil {
				return err
			}
			defer release()

			format, err := resolveTarget(conv.Registry(), target, output, cfg.Convert.DefaultTarget)
			if err != nil {
				return err
			}

			var res *converter.Result
			if args[0] == stdinPath {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("reading stdin: %w", readErr)
				}
				res, err = conv.ConvertContent(cmd.Context(), data, "", format)
			} else {
				res, err = conv.Convert(cmd.Context(), args[0], format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(res.Output)
				return err
			}

			path, err := pathutil.SanitizeOutputPath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, res.Output, 0o644); err != nil { //nolint:gosec // G306: converted documents are not secrets
				return fmt.Errorf("writing output file: %w", err)
			}
			cliutil.Statusf(cmd.ErrOrStderr(), ctx.flags.quiet, "Converted %s (%s) to %s: %s\n", args[0], res.Source, res.Target, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target format: swagger, raml, internal, postman or api-blueprint")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&depth, "depth", converter.DefaultResolveDepth, "Chained $ref hops to resolve; negative keeps references")
	return cmd
}

// resolveTarget picks the target format from the flag, then the output file
// name, then the configured default.
func resolveTarget(reg *registry.Registry, flag, output, fallback string) (registry.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return registry.ParseFormat(flag)
	}
	if output != "" {
		if f, ok := formatForPath(reg, output); ok {
			return f, nil
		}
	}
	if fallback != "" {
		return registry.ParseFormat(fallback)
	}
	return "", &flowerrors.ConfigError{Option: "target", Message: "no target format given; use --target"}
}

// formatForPath matches the longest extension of path, so that
// "api.postman_collection.json" selects postman rather than the plain
// "json" extension.
func formatForPath(reg *registry.Registry, path string) (registry.Format, bool) {
	base := strings.ToLower(filepath.Base(path))
	for i := 0; i < len(base); i++ {
		if base[i] != '.' {
			continue
		}
		if f, ok := reg.ExtensionFormat(base[i+1:]); ok {
			return f, true
		}
	}
	return "", false
}
