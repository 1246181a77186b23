/*
Package main is the entry point for the mobhub game server.

It loads configuration, initializes the global logger, starts the Hub event loop,
the TCP game listener and the HTTP/WebSocket server, and handles SIGINT/SIGTERM
with a graceful shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"mobhub/internal/app/game"
	"mobhub/internal/configs"
	"mobhub/internal/handler"
	"mobhub/internal/pkg/limiter"
	"mobhub/internal/pkg/logx"
	"mobhub/internal/pkg/randx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("game_addr", cfg.GameAddr()).
		Str("http_addr", cfg.HTTPAddr()).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("mob_poll_interval", cfg.MobPollInterval).
		Dur("combat_delay", cfg.CombatDelay).
		Int("starting_cash", cfg.StartingCash).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the hub
	hub := game.NewHub(game.Settings{
		PollInterval: cfg.MobPollInterval,
		CombatDelay:  cfg.CombatDelay,
		StartingCash: cfg.StartingCash,
	}, randx.Crypto{})
	go hub.Run()

	deps := &handler.AppDeps{
		Hub:         hub,
		Config:      cfg,
		ConnLimiter: limiter.NewIPRateLimiter(ctx, rate.Limit(cfg.ConnRate), cfg.ConnBurst),
	}

	// TCP game listener
	ln, err := net.Listen("tcp", cfg.GameAddr())
	if err != nil {
		logx.Fatal(err, "Game listener failed to start", "addr", cfg.GameAddr())
	}

	tcpDone := make(chan struct{})
	go func() {
		defer close(tcpDone)
		if err := handler.ServeTCP(ctx, ln, deps); err != nil {
			logx.Error(err, "Game listener stopped unexpectedly")
		}
	}()

	// HTTP server (health, stats, WebSocket)
	var server *http.Server
	if addr := cfg.HTTPAddr(); addr != "" {
		server = &http.Server{
			Addr:         addr,
			Handler:      handler.Router(deps),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			logx.Info(fmt.Sprintf("HTTP server starting on http://%s", addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logx.Fatal(err, "Server failed to start")
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			logx.Error(err, "Server forced to shutdown")
		}
	}

	<-tcpDone

	hub.Stop()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
		logx.Warn("Hub did not stop before the shutdown deadline")
	}

	logx.Info("Server gracefully stopped.")
}
