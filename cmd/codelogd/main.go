package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/commitproof/internal/codelog"
	"github.com/tansive/commitproof/internal/common/logtrace"
	"github.com/tansive/commitproof/internal/config"
	"github.com/tansive/commitproof/internal/otp"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("code logger failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	cfg := config.Config()
	level, err := logtrace.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logtrace.InitLoggerTo(os.Stderr, level)

	runner, err := createRunner(cfg)
	if err != nil {
		return fmt.Errorf("creating code runner: %w", err)
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	metricsErrors := make(chan error, 1)
	shutdownMetrics := func() {}
	if cfg.Code.MetricsAddr != "" {
		metricsErrors, shutdownMetrics = createMetricsServer(ctx, cfg.Code.MetricsAddr, runner.Metrics)
	}

	runnerDone := make(chan error, 1)
	go func() {
		runnerDone <- runner.Run(ctx)
	}()
	slog.Info().
		Str("seed_path", cfg.Code.SeedPath).
		Str("log_path", cfg.Code.LogPath).
		Dur("interval", runner.Interval).
		Msg("code logger started")

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-metricsErrors:
		stop()
		<-runnerDone
		return fmt.Errorf("metrics server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		stop()
		shutdownMetrics()
		<-runnerDone
	}

	slog.Info().Msg("code logger stopped")
	return nil
}

func createRunner(cfg *config.ConfigParam) (*codelog.Runner, error) {
	deriver, err := otp.NewDeriver(otp.Options{
		Period:    cfg.Code.Period,
		Digits:    cfg.Code.Digits,
		Algorithm: cfg.Code.Algorithm,
	})
	if err != nil {
		return nil, err
	}
	interval, err := cfg.Code.GetInterval()
	if err != nil {
		return nil, err
	}
	return &codelog.Runner{
		Source:   otp.FileSeedSource{Path: cfg.Code.SeedPath},
		Sink:     codelog.SinkFor(cfg.Code.LogPath),
		Deriver:  deriver,
		Interval: interval,
		Metrics:  codelog.NewMetrics(),
	}, nil
}

func createMetricsServer(ctx context.Context, addr string, m *codelog.Metrics) (chan error, func()) {
	slog := log.With().Str("state", "init").Logger()
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info().Str("addr", addr).Msg("metrics server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := func() {
		// Give outstanding scrapes 5 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop metrics server gracefully")
		}
	}

	return serverErrors, shutdown
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.configFile, "config", "", "Path to the config file (TOML or YAML)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
