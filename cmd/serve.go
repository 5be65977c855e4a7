package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abjohnson5f/The-Mirror/internal/credential"
	"github.com/abjohnson5f/The-Mirror/internal/gemini"
	"github.com/abjohnson5f/The-Mirror/internal/handlers"
	"github.com/abjohnson5f/The-Mirror/internal/media"
	"github.com/abjohnson5f/The-Mirror/internal/orchestrator"
	"github.com/abjohnson5f/The-Mirror/internal/relay"
	"github.com/abjohnson5f/The-Mirror/internal/veo"
	"github.com/abjohnson5f/The-Mirror/internal/wardrobe"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fitting room server",
		Long: `Starts the Mirror fitting room on the specified port.

The session engine drives the upload → analyze → avatar/wardrobe pipeline
and exposes try-on, product-link, consultant chat, and cart operations.`,
		Example: `  # Start server on default port 8888
  mirror serve

  # Start server on custom port
  mirror serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path := os.Getenv("MIRROR_WARDROBE_IMAGES"); path != "" {
				if err := wardrobe.LoadImageMap(path); err != nil {
					return err
				}
				slog.Info("Loaded wardrobe image map", "path", path)
			}

			store := media.NewStore("uploads")
			ai := gemini.New(store)
			fetcher := relay.NewFetcher()

			orch := orchestrator.New(orchestrator.Config{
				Probe:       credential.NewEnvProbe(),
				Analyzer:    ai,
				Curator:     ai,
				Synthesizer: veo.NewSynthesizer(store),
				Renderer:    ai,
				Describer:   ai,
				Chat:        ai,
				Fetcher:     fetcher,
			})
			orch.Start(cmd.Context())

			handler := handlers.New(orch, fetcher, store)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/state", handler.HandleState)
			mux.HandleFunc("/api/credential", handler.HandleCredential)
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/api/reset", handler.HandleReset)
			mux.HandleFunc("/api/error/dismiss", handler.HandleDismissError)
			mux.HandleFunc("/api/tryon", handler.HandleTryOn)
			mux.HandleFunc("/api/link", handler.HandleLink)
			mux.HandleFunc("/api/chat", handler.HandleChat)
			mux.HandleFunc("/api/chat/mode", handler.HandleChatMode)
			mux.HandleFunc("/api/carts", handler.HandleCreateCart)
			mux.HandleFunc("/api/carts/add", handler.HandleAddToCart)
			mux.HandleFunc("/api/carts/remove", handler.HandleRemoveFromCart)
			mux.HandleFunc("/api/relay-image", handler.HandleRelayImage)
			mux.HandleFunc("/static/uploads/", handler.HandleMedia)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Mirror fitting room available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
