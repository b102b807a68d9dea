package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sungwon/log-revolve/internal/admin"
	"github.com/sungwon/log-revolve/internal/config"
	"github.com/sungwon/log-revolve/internal/logger"
	"github.com/sungwon/log-revolve/internal/router"
	"github.com/sungwon/log-revolve/internal/tail"
)

func main() {
	// Load configuration from the "config" directory, or from the
	// directory given as the first argument.
	configPath := "config"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured JSON logger.
	log := logger.NewFromConfig(logger.LoggingConfig{
		Level:     cfg.Logging.Level,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	log.Info().Msg("log-revolve started")

	// Configuration errors are fatal before any input is consumed.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Eagerly open every channel file plus the fallback; any failure
	// aborts startup.
	channels := cfg.Channels.AcceptedChannels()
	rt, err := router.New(cfg.Channels.Directory, channels, cfg.Channels.FallbackName, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open channel files")
	}
	log.Info().
		Strs("channels", channels).
		Str("fallback", cfg.Channels.FallbackName).
		Str("dir", cfg.Channels.Directory).
		Msg("channel files opened")

	// Serve health and metrics alongside the consumer.
	mux := admin.NewRouter(log, func() error {
		return config.ProbeWritable(cfg.Channels.Directory)
	})
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Admin.Host, cfg.Admin.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Admin.ReadTimeout,
		WriteTimeout: cfg.Admin.WriteTimeout,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("admin server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("admin server error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	// Consume stdin until EOF. Any routing or read error is fatal;
	// lines already written stay in their flushed files.
	if err := tail.Run(ctx, os.Stdin, rt); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("line routing failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin server shutdown")
	}

	log.Info().Msg("log-revolve finished")
}
