package main

import (
	"github.com/erraggy/apiflow/internal/mcpserver"
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/resolver"
	"github.com/spf13/cobra"
)

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the apiflow tools over MCP on stdio",
		Long: `Serve the convert, detect, formats and list_requests tools to an MCP client
over stdio. Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := loader.NewSlogAdapter(ctx.logger(cmd.ErrOrStderr()))

			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			settings := mcpserver.Settings{
				ResolveDepth: cfg.Convert.ResolveDepth,
				HTTP:         ctx.httpOptions(),
				Logger:       log,
			}
			if cache != nil {
				settings.Wrap = func(next resolver.Resolver) resolver.Resolver { return cache.Wrap(next) }
			}

			srv, err := mcpserver.New(ctx.registry(log), settings)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
}
