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

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ironsheep/store-map-mcp/internal/config"
	"github.com/ironsheep/store-map-mcp/internal/detection"
	"github.com/ironsheep/store-map-mcp/internal/imaging"
	"github.com/ironsheep/store-map-mcp/internal/logging"
	"github.com/ironsheep/store-map-mcp/internal/ocr"
	"github.com/ironsheep/store-map-mcp/internal/registry"
	"github.com/ironsheep/store-map-mcp/internal/server"
	"github.com/ironsheep/store-map-mcp/internal/session"
	"github.com/ironsheep/store-map-mcp/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	fs := pflag.NewFlagSet("store-map-mcp", pflag.ContinueOnError)
	showVersion := fs.BoolP("version", "v", false, "Print version information")
	showHelp := fs.BoolP("help", "h", false, "Print this help message")
	httpMode := fs.Bool("http", false, "Serve the HTTP API instead of MCP over stdio")
	configPath := fs.StringP("config", "c", os.Getenv(config.EnvPrefix+"_CONFIG"), "Path to a YAML config file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch {
	case *showVersion:
		fmt.Printf("store-map-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case *showHelp:
		fmt.Println("store-map-mcp - shelf detection for store floor plans")
		fmt.Println()
		fmt.Println("Usage: store-map-mcp [options]")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Print(fs.FlagUsages())
		fmt.Println()
		fmt.Println("Environment variables:")
		fmt.Printf("  %s_CONFIG=path             Config file (same as --config)\n", config.EnvPrefix)
		fmt.Printf("  %s_SERVER_MODE=release     JSON logs\n", config.EnvPrefix)
		fmt.Printf("  %s_VISION_CANNY_LOW=40     Any config key, upper-cased with _\n", config.EnvPrefix)
		fmt.Println()
		fmt.Println("Without --http the server communicates via MCP over stdin/stdout.")
		return
	}

	cfg, cfgErr := config.Load(*configPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	logger, err := logging.New(cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	if cfgErr != nil {
		logger.Warn("using built-in configuration", zap.String("path", *configPath), zap.Error(cfgErr))
	}
	logger.Info("starting store-map-mcp",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.Bool("http", *httpMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *httpMode); err != nil {
		logger.Error("server error", zap.Error(err))
		logging.Sync(logger)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, httpMode bool) error {
	rt := vision.Start(ctx, vision.DefaultLoader())
	go func() {
		backend, err := rt.Await(ctx, cfg.Vision.InitTimeout)
		if err != nil {
			logger.Error("vision runtime unavailable", zap.Duration("timeout", cfg.Vision.InitTimeout), zap.Error(err))
			return
		}
		logger.Info("vision runtime ready", zap.String("backend", backend.Name()))
	}()

	reg, err := registry.New(ctx, cfg.Registry, logger)
	if err != nil {
		return fmt.Errorf("failed to open shelf registry: %w", err)
	}
	defer reg.Close()

	var hinter detection.TextHinter
	if cfg.OCR.Enabled {
		reader := ocr.NewReader(cfg.OCR.Language)
		if info := reader.Info(); info.Available {
			logger.Info("shelf text hints enabled", zap.String("backend", info.Backend), zap.String("version", info.Version))
			hinter = reader
		} else {
			logger.Warn("ocr requested but unavailable", zap.String("backend", info.Backend), zap.String("error", info.Error))
		}
	}

	sess := session.New(rt, reg, hinter, sessionOptions(cfg), logger)

	if !httpMode {
		return server.New(sess, logger, Version).Run(ctx)
	}
	return serveHTTP(ctx, cfg.Server, sess, logger)
}

func serveHTTP(ctx context.Context, cfg config.ServerConfig, sess *session.Session, logger *zap.Logger) error {
	if cfg.Mode == gin.ReleaseMode || cfg.Mode == gin.DebugMode || cfg.Mode == gin.TestMode {
		gin.SetMode(cfg.Mode)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.NewRouter(sess, logger, Version),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sessionOptions maps configuration onto detection options. Zero values keep
// the package defaults.
func sessionOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()

	ex := &opts.Detection.Extract
	if v := cfg.Vision.BlurKernel; v > 0 {
		ex.BlurKernel = v
	}
	if v := cfg.Vision.CannyLow; v > 0 {
		ex.CannyLow = v
	}
	if v := cfg.Vision.CannyHigh; v > 0 {
		ex.CannyHigh = v
	}
	if v := cfg.Vision.MinArea; v > 0 {
		ex.MinArea = v
	}
	if v := cfg.Vision.EpsilonRatio; v > 0 {
		ex.EpsilonRatio = v
	}
	if v := cfg.Vision.IoUThreshold; v > 0 {
		opts.Detection.IoUThreshold = v
	}

	opts.Limits = imaging.Limits{
		MaxSize: orDefault(cfg.Upload.MaxSize, opts.Limits.MaxSize),
		MaxSide: orDefault(cfg.Upload.MaxSide, opts.Limits.MaxSide),
		PDFDPI:  orDefault(cfg.Upload.PDFDPI, opts.Limits.PDFDPI),
	}
	return opts
}

func orDefault[T int | int64](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}
