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

	"github.com/cdcsn/portal/internal/devserver"
	"github.com/cdcsn/portal/internal/logging"
)

func main() {

	_ = godotenv.Load()

	cfg := devserver.LoadConfig()
	logger := logging.NewJSON(cfg.LogLevel)

	service := devserver.NewService(devserver.NewMemoryRepository(), logger, cfg)
	handler := devserver.NewHandler(service, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(ctx, "dev api server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("%v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown", "error", err)
	}
	logger.Info(context.Background(), "server stopped")

}
