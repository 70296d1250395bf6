package server

import (
	"context"
	"flag"
	"net/http"
	"path/filepath"
	"time"

	"github.com/iov-one/capcall/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagMetrics  = "metrics"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Metrics
// collectors are registered with reg when it is not nil.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// parseFlags reads the node configuration and overrides it with
// command line flags.
func parseFlags(home string, args []string) (Config, error) {
	cfg, err := LoadConfig(filepath.Join(home, "config", configFile))
	if err != nil {
		return cfg, err
	}

	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.Bind, flagBind, cfg.Bind, "address server listens on")
	startFlags.BoolVar(&cfg.Debug, flagDebug, cfg.Debug, "call stack returned on error")
	startFlags.StringVar(&cfg.LogLevel, flagLogLevel, cfg.LogLevel, "log level: debug, info, error or none")
	startFlags.StringVar(&cfg.Metrics, flagMetrics, cfg.Metrics, "prometheus metrics listen address, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	return cfg, nil
}

// filterLogger limits given logger to the configured level.
func filterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// StartCmd initializes the application, and runs the ABCI server until
// the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := parseFlags(home, args)
	if err != nil {
		return err
	}
	logger, err = filterLogger(logger, cfg.LogLevel)
	if err != nil {
		return err
	}

	var (
		reg        prometheus.Registerer
		metricsSrv *http.Server
	)
	if cfg.Metrics != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		metricsSrv = &http.Server{
			Addr:    cfg.Metrics,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, cfg.Debug, reg)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}

	if metricsSrv != nil {
		logger.Info("Serving metrics", "addr", cfg.Metrics)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		logger.Info("Shutting down")
		shutdownMetrics(logger, metricsSrv)
		if err := svr.Stop(); err != nil {
			logger.Error("ABCI server shutdown", "err", err)
		}
	})
	return nil
}

// shutdownMetrics stops the metrics endpoint, if one is running.
func shutdownMetrics(logger log.Logger, srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown", "err", err)
	}
}
