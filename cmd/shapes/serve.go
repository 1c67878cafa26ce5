package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-shapes/internal/metrics"
	"github.com/goliatone/go-shapes/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		grace time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendered Car shape over HTTP",
		Long: `Starts an HTTP server rendering the Car shape on GET /.

Query parameters:
  variant        bag (default), model or default
  view           summary renders the compact alternate
  theme          theme name, e.g. acme
  theme_variant  theme variant, e.g. dark`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			shutdownGrace := a.cfg.ShutdownGrace()
			if cmd.Flags().Changed("grace") {
				shutdownGrace = grace
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			recorder, err := metrics.NewRecorder(reg)
			if err != nil {
				return err
			}

			st, err := a.buildSite(recorder)
			if err != nil {
				return err
			}

			srv, err := server.New(st,
				server.WithAddr(a.cfg.Server.Addr),
				server.WithShutdownGrace(shutdownGrace),
				server.WithReadHeaderTimeout(a.cfg.ReadTimeout()),
				server.WithLogger(a.logger.Named("server")),
				server.WithGatherer(reg),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("starting shapes server",
				zap.String("addr", srv.Addr()),
				zap.Strings("shapes", st.Registry().Names()),
				zap.Strings("themes", st.Catalog().Names()),
			)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().DurationVar(&grace, "grace", 10*time.Second, "Shutdown grace period")
	return cmd
}
