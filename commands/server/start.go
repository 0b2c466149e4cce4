package server

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/supersig/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
)

const (
	flagBind    = "bind"
	flagMetrics = "metrics"
)

// StartCmd runs the ABCI server of the application until the process is
// interrupted. When a metrics address is given, the prometheus registry is
// exposed on /metrics.
func StartCmd(gen AppGenerator, opts *Options) *cobra.Command {
	var (
		bind        string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				opts.Metrics = reg
				go serveMetrics(opts, reg, metricsAddr)
			}

			// Generate the app in the proper dir
			app, err := gen(opts)
			if err != nil {
				return err
			}

			opts.Logger.Info("Starting ABCI app", "bind", bind)
			svr, err := server.NewServer(bind, "socket", app)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
			}
			svr.SetLogger(opts.Logger.With("module", "abci-server"))
			if err := svr.Start(); err != nil {
				return errors.Wrap(errors.ErrState, err.Error())
			}

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)
			s := <-signals
			opts.Logger.Info("Stopping ABCI app", "signal", s.String())
			return svr.Stop()
		},
	}
	cmd.Flags().StringVar(&bind, flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().StringVar(&metricsAddr, flagMetrics, "", "address of the prometheus /metrics endpoint, disabled when empty")
	return cmd
}

func serveMetrics(opts *Options, reg *prometheus.Registry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	opts.Logger.Info("Serving prometheus metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		opts.Logger.Error("metrics listener failed", "err", err)
	}
}
