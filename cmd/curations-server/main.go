package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-curations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("curations server: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	server, module, cfg, err := buildServer(args)
	if err != nil {
		return err
	}
	logger := module.Logger("curations.server")

	errs := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("server.shutdown")
	return server.Shutdown(shutdownCtx)
}

func buildServer(args []string) (*http.Server, *curations.Module, curations.Config, error) {
	fs := flag.NewFlagSet("curations-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file (defaults apply when empty)")
	addr := fs.String("addr", "", "Listen address, overrides server.address")
	baseURL := fs.String("base-url", "", "Public base URL used for response links, overrides api.base_url")
	actorID := fs.String("actor", "", "Default acting user id, overrides server.actor.id")

	if err := fs.Parse(args); err != nil {
		return nil, nil, curations.Config{}, err
	}

	cfg := curations.DefaultConfig()
	if *configPath != "" {
		loaded, err := curations.LoadConfig(*configPath)
		if err != nil {
			return nil, nil, cfg, err
		}
		cfg = loaded
	}
	cfg.Features.Server = true
	cfg.Features.Logger = true
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *actorID != "" {
		cfg.Server.Actor.ID = *actorID
	}

	module, err := curations.New(cfg)
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("initialise curations: %w", err)
	}
	handler, err := module.APIHandler()
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("register api: %w", err)
	}
	return &http.Server{Addr: cfg.Server.Address, Handler: handler}, module, cfg, nil
}
