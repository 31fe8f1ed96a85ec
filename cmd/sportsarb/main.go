// Command sportsarb scans Polymarket and Kalshi sports markets for
// cross-platform arbitrage. It loads configuration, validates it, sets up
// signal handling and runs the application in the configured mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/sportsarb/internal/app"
	"github.com/alanyoungcy/sportsarb/internal/config"
	"github.com/alanyoungcy/sportsarb/internal/crypto"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file (optional)")
	mode := flag.String("mode", "", "override mode: scan, once or server")
	sealKey := flag.String("seal-key", "", "encrypt a PEM key file with SPORTSARB_KALSHI_RSA_KEY_PASSWORD and print it")
	flag.Parse()

	if *sealKey != "" {
		if err := sealKeyFile(*sealKey, os.Getenv("SPORTSARB_KALSHI_RSA_KEY_PASSWORD"), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "seal-key: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := newLogger(os.Stdout, "info")
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
	}

	// The once report goes to stdout, so logs move out of its way.
	logOut := io.Writer(os.Stdout)
	if cfg.Mode == "once" {
		logOut = os.Stderr
	}
	logger = newLogger(logOut, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sportsarb starting",
		slog.String("mode", cfg.Mode),
		slog.String("config", *configPath),
		slog.Any("effective", config.RedactedConfig(cfg)),
	)

	application := app.New(cfg, logger)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error", slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			application.Close()
			os.Exit(1)
		}
	}

	logger.Info("sportsarb stopped")
}

func newLogger(w io.Writer, lvl string) *slog.Logger {
	var level slog.Level
	switch lvl {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func sealKeyFile(path, password string, out io.Writer) error {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sealed, err := crypto.Seal(pemBytes, password)
	if err != nil {
		return err
	}
	_, err = out.Write(append(sealed, '\n'))
	return err
}
