// Package main provides the entry point for vfsnap-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vfsnap/vfsnap-go/internal/infra/buildinfo"
	"github.com/vfsnap/vfsnap-go/internal/infra/confloader"
	"github.com/vfsnap/vfsnap-go/internal/infra/shutdown"
	"github.com/vfsnap/vfsnap-go/internal/server/config"
	"github.com/vfsnap/vfsnap-go/internal/server/toolserver"
	"github.com/vfsnap/vfsnap-go/internal/snapshot"
	"github.com/vfsnap/vfsnap-go/internal/telemetry/logger"
	"github.com/vfsnap/vfsnap-go/internal/telemetry/metric"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
	"github.com/vfsnap/vfsnap-go/internal/vfs/badgerfs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vfsnap-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := logger.Slog(log)

	log.Info("starting vfsnap-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"provider", cfg.Storage.Provider,
		"config", *configFile)

	// Open the storage backend
	fs, err := vfs.Open(vfs.Options{
		Provider:  cfg.Storage.Provider,
		LocalRoot: cfg.Storage.Local.Root,
		Badger: badgerfs.Config{
			Dir:        cfg.Storage.Badger.Dir,
			GCInterval: cfg.Storage.Badger.GCInterval,
		},
		Logger: slogLogger,
	})
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}

	// The manager reloads persisted snapshots from the reserved namespace
	snaps, err := snapshot.NewManager(context.Background(), fs, snapshot.Config{
		Dir:       cfg.Snapshot.Dir,
		Ephemeral: cfg.Snapshot.Ephemeral,
		Logger:    slogLogger,
	})
	if err != nil {
		fs.Close()
		return fmt.Errorf("init snapshot manager: %w", err)
	}

	metrics := metric.Global().RegisterStats(fs)

	srv, err := toolserver.New(fs, snaps, toolserver.Config{
		Version: buildinfo.Version,
		RPS:     cfg.Limit.RPS,
		Burst:   cfg.Limit.Burst,
		Logger:  slogLogger,
		Metrics: metrics,
	})
	if err != nil {
		fs.Close()
		return fmt.Errorf("init tool server: %w", err)
	}

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Start metrics listener
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics listener")
			return metricsServer.Shutdown(ctx)
		})

		go func() {
			log.Info("metrics listening", "addr", cfg.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics listener error", "error", err)
			}
		}()
	}

	// Watch the config file so the log level can change without a restart
	if *configFile != "" {
		if err := watchLogLevel(*configFile, log, slogLogger, shutdownHandler); err != nil {
			log.Warn("config watcher unavailable", "error", err)
		}
	}

	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("closing storage backend")
		return fs.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hooks run in reverse registration order, so the MCP session stops
	// before the backend closes.
	shutdownHandler.OnShutdown(func(context.Context) error {
		log.Info("stopping MCP session")
		cancel()
		return nil
	})

	// Serve MCP over stdio; logging stays on stderr
	go func() {
		log.Info("MCP server listening on stdio")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			log.Error("MCP session error", "error", err)
		}
		// The client hung up or the transport failed: wind the process down
		shutdownHandler.Trigger()
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger. Output goes to stderr:
// stdout carries the MCP protocol stream.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// watchLogLevel re-reads the config file on change and applies the log
// level. Only the level is hot-reloaded; backend changes need a restart.
func watchLogLevel(configFile string, log logger.Logger, slogLogger *slog.Logger, handler *shutdown.Handler) error {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slogLogger))
	if err != nil {
		return err
	}

	watcher.OnChange(func(string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level applied", "level", cfg.Log.Level)
	})

	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return err
	}
	watcher.StartAsync()

	handler.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})
	return nil
}
