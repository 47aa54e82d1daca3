package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/erraggy/apiflow/converter"
	"github.com/erraggy/apiflow/formats"
	"github.com/erraggy/apiflow/internal/config"
	"github.com/erraggy/apiflow/loader"
	"github.com/erraggy/apiflow/registry"
	"github.com/erraggy/apiflow/resolver"
	"github.com/spf13/cobra"
)

// stdinPath is the document argument that reads from stdin.
const stdinPath = "-"

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
	quiet     bool
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration file once, then applies the logging
// flags on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			cfg.Logging.Level = strings.ToLower(v)
		}
		if v := strings.TrimSpace(c.flags.logFormat); v != "" {
			cfg.Logging.Format = strings.ToLower(v)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		d := config.Default()
		return &d
	}
	return cfg
}

// logger returns the diagnostic logger writing to w. --quiet keeps only
// errors.
func (c *commandContext) logger(w io.Writer) *slog.Logger {
	cfg := *c.configValue()
	if c.flags.quiet {
		cfg.Logging.Level = "error"
	}
	return cfg.NewLogger(w)
}

// httpOptions configures the HTTP resolver from the resolver settings.
func (c *commandContext) httpOptions() []resolver.Option {
	cfg := c.configValue()
	return []resolver.Option{
		resolver.WithTimeout(cfg.Timeout()),
		resolver.WithMaxFileSize(cfg.Resolver.MaxFileSize),
		resolver.WithUserAgent(cfg.Resolver.UserAgent),
		resolver.WithInsecureSkipVerify(cfg.Resolver.InsecureSkipVerify),
	}
}

// openCache opens the remote document cache, or returns nil when it is
// disabled.
func (c *commandContext) openCache() (*resolver.Cache, error) {
	cfg := c.configValue()
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	return resolver.OpenCache(cfg.Cache.Path, cfg.CacheTTL())
}

// registry returns the built-in plugins logging to log.
func (c *commandContext) registry(log loader.Logger) *registry.Registry {
	return formats.Default(formats.WithLogger(log))
}

// openConverter builds a converter from the configuration. depth overrides
// the configured resolve depth when not nil. The returned func releases the
// document cache.
func (c *commandContext) openConverter(cmd *cobra.Command, depth *int) (*converter.Converter, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	log := loader.NewSlogAdapter(c.logger(cmd.ErrOrStderr()))

	resolvers := resolver.Default(c.httpOptions()...)
	cache, err := c.openCache()
	if err != nil {
		return nil, nil, err
	}
	if cache != nil {
		resolvers.HTTP = cache.Wrap(resolvers.HTTP)
	}
	release := func() { _ = cache.Close() }

	d := cfg.Convert.ResolveDepth
	if depth != nil {
		d = *depth
	}
	conv, err := converter.New(c.registry(log),
		converter.WithResolvers(resolvers),
		converter.WithResolveDepth(d),
		converter.WithLogger(log),
	)
	if err != nil {
		release()
		return nil, nil, err
	}
	return conv, release, nil
}

// shouldSkipConfig reports whether cmd or one of its parents opts out of
// loading the configuration file.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
