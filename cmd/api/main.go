package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lkoster/screenlens/internal/config"
	"github.com/lkoster/screenlens/internal/handler"
	aiservice "github.com/lkoster/screenlens/internal/service/ai"
	analyzerservice "github.com/lkoster/screenlens/internal/service/analyzer"
	notifyservice "github.com/lkoster/screenlens/internal/service/notify"
	sessionstore "github.com/lkoster/screenlens/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store := openStore(cfg.Store)
	defer store.Close()

	if cfg.AI.Enabled() {
		log.Println("Mistral gateway initialized with API credentials")
	} else {
		log.Println("no Mistral API key configured, AI responses will use mock content")
	}
	gateway := aiservice.NewService(cfg.AI)

	bus := notifyservice.NewBus(cfg.Notify.ToastTTL)
	analyzerSvc := analyzerservice.NewService(ctx, gateway, store, bus)

	router := handler.NewRouter(analyzerSvc, bus)

	startServer(ctx, cfg.Server, router)
}

// openStore falls back to the no-op store when persistence is disabled or
// the database cannot be opened, mirroring environments without a storage
// facility.
func openStore(cfg config.StoreConfig) sessionstore.Store {
	if cfg.Path == "" {
		log.Println("session persistence disabled, sessions will not survive restarts")
		return sessionstore.NewNoopStore()
	}

	store, err := sessionstore.NewSQLiteStore(cfg.Path)
	if err != nil {
		log.Printf("warning: failed to open session store at %s: %v", cfg.Path, err)
		log.Println("continuing without session persistence")
		return sessionstore.NewNoopStore()
	}

	log.Printf("session store opened at %s", cfg.Path)
	return store
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ScreenLens backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
