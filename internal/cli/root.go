// Package cli implements the shopctl commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/shopcart/internal/client"
	"github.com/example/shopcart/internal/config"
	"github.com/example/shopcart/internal/session"
)

// RootOptions holds global flags plus the wiring every command shares.
type RootOptions struct {
	ConfigPath string
	Endpoint   string
	Verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	client   *client.Client
	sessions *session.Store
}

// NewRootCommand creates the root command for shopctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shopctl",
		Short: "shopctl - terminal client for the QKart catalog/cart service",
		Long: `shopctl browses a remote product catalog and maintains a cart whose
authoritative state lives on the server. Quantities shown by shopctl are
always the server's answer, never a locally computed guess.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.Endpoint, "endpoint", "", "backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newBrowseCommand(opts))

	return cmd
}

func (o *RootOptions) setup() error {
	path := o.ConfigPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	o.cfg = cfg

	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	logger, err := newLogger(level)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	o.logger = logger

	o.client = client.New(cfg.Endpoint, cfg.RequestTimeout(), logger)

	store, err := session.DefaultStore()
	if err != nil {
		return err
	}
	o.sessions = store
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// currentSession resolves the credential for this invocation. A token from
// config or SHOPCTL_TOKEN takes precedence over the saved session; an absent
// session is returned as an empty (unauthenticated) one so local guards do
// the refusing.
func (o *RootOptions) currentSession() session.Session {
	if o.cfg != nil && o.cfg.Token != "" {
		return session.Session{Token: o.cfg.Token}
	}
	s, err := o.sessions.Load()
	if err != nil {
		return session.Session{}
	}
	return s
}
