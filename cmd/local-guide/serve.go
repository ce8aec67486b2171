// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanguk-labs/local-guide/internal/profile"
	"github.com/hanguk-labs/local-guide/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recommendation HTTP API",
	Long: `Serve starts the HTTP API: recommendation, neighborhood, amenity,
profile, and status endpoints. The server shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	g, maps := buildGuide(cfg)

	store, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(g, store, maps, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config, default :8080)")

	rootCmd.AddCommand(serveCmd)
}
