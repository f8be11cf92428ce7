package main

import (
	"context"
	"embed"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/roadwatch/trafficdash/internal/api"
	"github.com/roadwatch/trafficdash/internal/config"
	"github.com/roadwatch/trafficdash/internal/fsutil"
	"github.com/roadwatch/trafficdash/internal/store"
	"github.com/roadwatch/trafficdash/internal/timeutil"
	"github.com/roadwatch/trafficdash/internal/version"
)

var (
	//go:embed static/*
	staticFiles embed.FS
	devMode     = flag.Bool("dev", false, "Run in dev mode (serve ./static from disk)")
	configPath  = flag.String("config", "", "Path to JSON config file")
	listenFlag  = flag.String("listen", "", "Listen address (overrides config)")
	dataDirFlag = flag.String("data-dir", "", "Snapshot data directory (overrides config)")
)

func main() {
	flag.Parse()

	// A .env file is optional; environment variables layered on top of the
	// config file are the usual deployment path.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	listen := cfg.GetListen()
	if *listenFlag != "" {
		listen = *listenFlag
	}
	dataDir := cfg.GetDataDir()
	if *dataDirFlag != "" {
		dataDir = *dataDirFlag
	}

	log.Printf("trafficdash %s (%s) starting on %s, data in %s", version.Version, version.GitSHA, listen, dataDir)

	fs := fsutil.OSFileSystem{}
	clock := timeutil.RealClock{}

	st, err := store.New(fs, dataDir)
	if err != nil {
		log.Fatalf("failed to open data directory: %v", err)
	}

	history, err := store.OpenHistory(cfg.GetHistoryDB(), clock)
	if err != nil {
		log.Fatalf("failed to open history database: %v", err)
	}
	defer history.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Watch the data directory for snapshots dropped in by the capture
	// pipeline.
	poller := store.NewPoller(st, history, clock, cfg.GetPollInterval())
	g.Go(func() error {
		if err := poller.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		log.Print("poller stopped")
		return nil
	})

	g.Go(func() error {
		mux := http.NewServeMux()

		apiMux := api.NewServer(st, history, fs, clock, cfg.GetUnits()).ServeMux()
		mux.Handle("/api/", apiMux)
		mux.Handle("/charts", apiMux)
		mux.Handle("/charts/", apiMux)
		mux.Handle("/admin/", apiMux)

		// In dev the static files come from disk so the frontend can be
		// edited without restarting the server.
		if *devMode {
			mux.Handle("/", http.FileServer(http.Dir("./static")))
		} else {
			mux.Handle("/", http.FileServer(http.FS(staticFiles)))
		}

		server := &http.Server{
			Addr:    listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			<-ctx.Done()
			log.Println("shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}
