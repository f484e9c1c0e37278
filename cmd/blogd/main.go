package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawvriksh-blog/backend/internal/auth"
	"lawvriksh-blog/backend/internal/config"
	"lawvriksh-blog/backend/internal/httpapi"
	"lawvriksh-blog/backend/internal/store"
	"lawvriksh-blog/backend/internal/store/memory"
	"lawvriksh-blog/backend/internal/store/postgres"
	"lawvriksh-blog/backend/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to init token service: %v", err)
	}

	var st store.Store
	var closer func()

	switch {
	case cfg.DatabaseURL != "":
		pg, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to init postgres store: %v", err)
		}
		st = pg
		closer = pg.Close
		log.Printf("using postgres store")
	case cfg.SQLitePath != "":
		sq, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to init sqlite store: %v", err)
		}
		st = sq
		closer = func() { _ = sq.Close() }
		log.Printf("using sqlite store at %s", cfg.SQLitePath)
	default:
		st = memory.NewStore()
		log.Printf("using memory store")
	}

	if closer != nil {
		defer closer()
	}

	srv := httpapi.NewServer(cfg, st, tokens)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("blog api listening on %s", cfg.ListenAddr())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Printf("shutdown requested")
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}
