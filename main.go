package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	dbPath := flag.String("db", "hideseek.db", "Path to SQLite database ('' disables persistence)")
	logPath := flag.String("log", "", "Path to rotating log file ('' logs to stderr)")
	flag.Parse()

	InitLogger(*logPath)
	defer SyncLogger()

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	var db *DB
	var analytics *Analytics
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			Log.Fatalw("open database", "path", *dbPath, "err", err)
		}
		defer db.Close()
		analytics = NewAnalytics(db)
		defer analytics.Stop()
	}

	hub := NewHub(db, analytics)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		Log.Infow("server starting", "addr", *addr, "client", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			Log.Fatalw("listen", "err", err)
		}
	}()

	<-stop
	Log.Infow("shutting down")
	server.Close()
}
