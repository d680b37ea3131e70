/*
Package main is the entry point for the FriendHub application.

It is responsible for loading configuration, initializing the global logging system,
opening the record store, wiring the identity service, message log, and tab hub
together, setting up the HTTP server, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"friendhub/internal/app/chat"
	"friendhub/internal/app/gemini"
	"friendhub/internal/app/identity"
	"friendhub/internal/app/store"
	"friendhub/internal/app/tabs"
	"friendhub/internal/app/view"
	"friendhub/internal/configs"
	"friendhub/internal/handler"
	"friendhub/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("data_dir", cfg.DataDir).
		Str("gemini_model", cfg.GeminiModel).
		Bool("gemini_key_set", cfg.GeminiAPIKey != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store backing the user directory, session, and message log.
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		logx.Fatal(err, "Failed to open record store")
	}

	generator, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logx.Fatal(err, "Failed to initialize Gemini client")
	}

	identitySvc := identity.NewService(st)
	chatLog := chat.NewLog(st, identitySvc, generator)
	viewCtrl := view.NewController(identitySvc)

	// The hub relays record-changed and thinking events to every connected tab.
	hub := tabs.NewHub()
	unbindHub := hub.BindStore(st)
	chatLog.SetThinkingListener(func(thinking bool) {
		hub.Broadcast(tabs.Event{Type: tabs.EventThinking, Thinking: thinking})
	})

	deps := &handler.AppDeps{
		Config:   cfg,
		Identity: identitySvc,
		Log:      chatLog,
		Hub:      hub,
		View:     viewCtrl,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("FriendHub Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	unbindHub()
	hub.Shutdown()
	chatLog.Close()
	identitySvc.Close()

	if err := st.Close(); err != nil {
		logx.Error(err, "Failed to close record store")
	}

	logx.Info("Server gracefully stopped.")
}
