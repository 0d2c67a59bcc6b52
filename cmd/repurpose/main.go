package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
)

const version = "0.3.0"

const usage = `Usage: repurpose [-config path] <command> [flags]

Commands:
  analyze   analyze one link or file and print or export the results
  watch     process every media file dropped into the input folder
  tui       interactive terminal session
  mcp       serve the session as MCP tools over stdio
`

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	// Secrets may live in a .env file next to the binary
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return 2
	}
	command, args := flag.Arg(0), flag.Args()[1:]
	if !knownCommand(command) {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, closeLog, err := newLogger(cfg, command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return 1
	}

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		log.Error(ctx, "Failed to initialize telemetry: %v", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn(sctx, "Telemetry shutdown: %v", err)
		}
	}()

	if cfg.Metrics.Listen != "" {
		srv := observe.NewMetricsServer(cfg.Metrics.Listen)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "Metrics server: %v", err)
			}
		}()
		defer srv.Close()
		log.Info(ctx, "Metrics: http://%s/metrics", cfg.Metrics.Listen)
	}

	log.Debug(ctx, "System: %s/%s, %d cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	app, err := newApp(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize: %v", err)
		return 1
	}

	switch command {
	case "analyze":
		err = app.runAnalyze(ctx, args)
	case "watch":
		err = app.runWatch(ctx)
	case "tui":
		err = app.runTUI(ctx, args)
	case "mcp":
		err = app.runMCP(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "%s: %v", command, err)
		return 1
	}
	return 0
}

func knownCommand(name string) bool {
	switch name {
	case "analyze", "watch", "tui", "mcp":
		return true
	}
	return false
}

// newLogger keeps log lines off stdout for the interactive and MCP surfaces.
func newLogger(cfg *config.Config, command string) (logger.Logger, func(), error) {
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		return logger.NewWithWriter(cfg.Logging.Level, f), func() { f.Close() }, nil
	}

	switch command {
	case "tui":
		return logger.NewWithWriter(cfg.Logging.Level, io.Discard), func() {}, nil
	case "mcp":
		return logger.NewWithWriter(cfg.Logging.Level, os.Stderr), func() {}, nil
	default:
		return logger.New(cfg.Logging.Level), func() {}, nil
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
