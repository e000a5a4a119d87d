package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/tune-survey/auth"
	"github.com/danielhkuo/tune-survey/catalog"
	"github.com/danielhkuo/tune-survey/cliparse"
	"github.com/danielhkuo/tune-survey/db"
	"github.com/danielhkuo/tune-survey/middleware"
	"github.com/danielhkuo/tune-survey/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Description tables are loaded once and never reloaded
	descs, err := catalog.LoadDescriptions(cfg.DescriptionFiles...)
	if err != nil {
		slog.Error("loading descriptions failed", "error", err)
		os.Exit(1)
	}

	songs, err := catalog.ListSongs(cfg.AudioDir, cfg.AudioExt)
	if err != nil {
		slog.Warn("audio directory unreadable", "dir", cfg.AudioDir, "error", err)
	}
	slog.Info("Survey ready",
		"songs", len(songs),
		"description_sources", descs.Sources(),
		"response_cap", cfg.ResponseCap,
		"progress_mode", cfg.ProgressMode,
		"allow_list", auth.NewAllowList(cfg.AllowList).Len(),
		"reservation_ttl", cfg.ReservationTTL,
	)

	// Create router
	mux := router.NewRouter(conn, cfg, descs)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigin)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
