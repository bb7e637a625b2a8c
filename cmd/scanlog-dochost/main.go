package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scanlog/internal/adapters/dochost"
	"scanlog/internal/config"
	"scanlog/internal/logging"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("scanlog-dochost: %v", err)
	}

	flag.StringVar(&cfg.DocHostAddr, "addr", cfg.DocHostAddr, "listen address")
	flag.StringVar(&cfg.DocHostToken, "tokens", cfg.DocHostToken, "comma separated bearer tokens; empty accepts any token")
	publicURL := flag.String("public-url", os.Getenv("SCANLOG_DOCHOST_PUBLIC_URL"), "externally visible base URL for raw links")
	flag.Parse()

	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		log.Fatalf("scanlog-dochost: %v", err)
	}
	logger := logging.New("dochost")

	opts := []dochost.Option{
		dochost.WithLogger(logger),
		dochost.WithTokens(strings.Split(cfg.DocHostToken, ",")...),
	}
	if *publicURL != "" {
		opts = append(opts, dochost.WithPublicURL(*publicURL))
	}

	srv, err := dochost.NewServer(opts...)
	if err != nil {
		log.Fatalf("scanlog-dochost: %v", err)
	}
	if srv.Open() {
		logger.Warnw("no tokens configured, every bearer token is accepted as its own account")
	}

	httpServer := &http.Server{
		Addr:              cfg.DocHostAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infow("listening", "addr", cfg.DocHostAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown failed", "error", err)
	}
	logger.Infow("stopped")
}
