package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/njchilds90/ndspace/config"
	"github.com/njchilds90/ndspace/scene"
	"github.com/njchilds90/ndspace/tool"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scene over HTTP as JSON tool calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	sc := scene.New(logger)
	for _, path := range cfg.Scene.Preload {
		f, err := scene.Load(path)
		if err != nil {
			return err
		}
		if _, err := sc.Apply(f); err != nil {
			return fmt.Errorf("preload %s: %w", path, err)
		}
		logger.Info("Scene preloaded", slog.String("path", path), slog.Int("spaces", sc.Len()))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newMux(sc, cfg.Server, logger),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ndspace server listening",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", Version),
			slog.Bool("metrics", cfg.Server.Metrics))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMux(sc *scene.Scene, cfg config.ServerConfig, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /tool — handle a tool call
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in /tool", slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req tool.ToolRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := tool.HandleToolCall(sc, req)
		logger.Debug("Tool call",
			slog.String("tool", req.Tool),
			slog.Bool("ok", resp.Error == ""),
			slog.Duration("duration", time.Since(start)))
		writeJSON(w, http.StatusOK, resp)
	})

	// GET /schema — return tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tool.Spec())
	})

	// GET /health — liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"spaces": sc.Len(),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	if cfg.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
