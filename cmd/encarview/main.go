// Package main implements the encarview binary: a web front end (serve) and
// a terminal front end (browse) over the car catalog API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WessleyAI/encarview/cmd/encarview/tui"
	"github.com/WessleyAI/encarview/cmd/encarview/web"
	"github.com/WessleyAI/encarview/engine/encar"
	"github.com/WessleyAI/encarview/pkg/config"
	"github.com/WessleyAI/encarview/pkg/logx"
	"github.com/WessleyAI/encarview/pkg/metrics"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	root := &cobra.Command{
		Use:           "encarview",
		Short:         "Browse Encar vehicle listings on the web or in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindFlags(v, cmd.Flags())
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newServeCmd(v), newBrowseCmd(v))
	return root
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the listing as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, closeLog, err := buildLogger(cfg, os.Stdout)
			if err != nil {
				return err
			}
			defer closeLog()
			slog.SetDefault(logger)

			if err := serve(cmd.Context(), cfg, logger); err != nil {
				logger.Error("server exited with error", "err", err)
				return err
			}
			return nil
		},
	}
}

func newBrowseCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the listing in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			// The terminal belongs to the UI, so logs go to a file.
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			logger, closeLog, err := buildLogger(cfg, f)
			if err != nil {
				return err
			}
			defer closeLog()
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			client, err := encar.New(encar.Options{
				BaseURL: cfg.APIBaseURL,
				Timeout: cfg.APITimeout,
				Strict:  cfg.APIStrict,
			}, logger)
			if err != nil {
				return err
			}
			logger.Info("browse starting", "api", client.BaseURL())
			return tui.Run(ctx, client, cfg.PageSize, logger)
		},
	}
}

// buildLogger returns the process logger and a function releasing its
// resources.
func buildLogger(cfg config.Config, w io.Writer) (*slog.Logger, func(), error) {
	color := false
	if f, ok := w.(*os.File); ok && cfg.LogFormat == "text" {
		color = isatty.IsTerminal(f.Fd())
	}
	opts := logx.Options{
		Level:  logx.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Writer: w,
		Color:  color,
	}
	if !cfg.FluentEnabled {
		return logx.New(opts), func() {}, nil
	}

	fc, err := logx.NewFluent(logx.FluentConfig{
		Host:      cfg.FluentHost,
		Port:      cfg.FluentPort,
		TagPrefix: cfg.ServiceName,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create fluentbit client: %w", err)
	}
	logger := logx.New(opts, logx.NewFluentHandler(fc, opts.Level))
	return logger, func() {
		if err := fc.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close fluent client: %v\n", err)
		}
	}, nil
}

func serve(parent context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	m := metrics.New("encarview")
	client, err := encar.New(encar.Options{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.APITimeout,
		Strict:   cfg.APIStrict,
		Recorder: m,
	}, logger)
	if err != nil {
		return err
	}

	site, err := web.New(client, web.Config{
		PageSize:    cfg.PageSize,
		OptionsTTL:  cfg.OptionsTTL,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		ServiceName: cfg.ServiceName,
	}, m, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      site.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web server starting", "addr", cfg.ListenAddr, "api", client.BaseURL())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
