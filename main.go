package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herolab/roster/internal/api"
	"github.com/herolab/roster/internal/config"
	"github.com/herolab/roster/internal/db"
	"github.com/herolab/roster/internal/version"
)

var (
	dbPath       = flag.String("db", "", "Path to the SQLite database file (overrides ROSTER_DB_PATH)")
	listen       = flag.String("listen", "", "Listen address (overrides ROSTER_LISTEN)")
	devMode      = flag.Bool("dev", false, "Run in dev mode (migrations read from local files)")
	adminRoutes  = flag.Bool("admin", false, "Mount the admin debug routes")
	printVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Flags win over the environment.
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *devMode {
		cfg.DevMode = true
	}
	if *adminRoutes {
		cfg.AdminRoutes = true
	}

	db.DevMode = cfg.DevMode

	// The migrate subcommand manages schema state and exits.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], cfg.DBPath)
		return
	}

	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	if cfg.AdminRoutes {
		database.AttachAdminRoutes(mux)
	}

	server := api.NewServer(database)
	mux.Handle("/", server.Handler())

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("serving roster API on %s (db %s)", cfg.Listen, cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		os.Exit(1)
	}

	log.Println("graceful shutdown complete")
}
