// Command shapes serves and renders the Car shape demo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-shapes/internal/config"
	"github.com/goliatone/go-shapes/internal/demo"
	"github.com/goliatone/go-shapes/pkg/render"
	"github.com/goliatone/go-shapes/pkg/site"
)

type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "shapes",
		Short:         "Render shapes through bound templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := newLogger(cfg, a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "shapes.yaml", "Configuration file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newServeCmd(a), newRenderCmd(a))
	return root
}

func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// buildSite assembles the demo site from configuration.
func (a *app) buildSite(observer render.Observer) (*site.Site, error) {
	opts := demo.Options()
	cfgOpts, err := a.cfg.SiteOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, cfgOpts...)
	opts = append(opts, site.WithLogger(a.logger))
	if observer != nil {
		opts = append(opts, site.WithObserver(observer))
	}

	st, err := site.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := demo.Register(st); err != nil {
		return nil, err
	}
	return st, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shapes:", err)
		os.Exit(1)
	}
}
