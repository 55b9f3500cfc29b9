package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/partners/internal/config"
	"github.com/edvin/partners/internal/logging"
	"github.com/edvin/partners/internal/mockstore"
	"github.com/edvin/partners/internal/model"
)

var mockStoreCmd = &cobra.Command{
	Use:   "mock-store",
	Short: "Run an in-memory partner collection speaking the remote store protocol",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if mockListen != "" {
			cfg.MockListenAddr = mockListen
		}
		if mockBasePath != "" {
			cfg.MockBasePath = mockBasePath
		}
		if mockSeed != "" {
			cfg.SeedFile = mockSeed
		}
		if err := cfg.ValidateMock(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger := logging.NewLogger(cfg)
		seed, err := loadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		g, ctx := errgroup.WithContext(ctx)

		srv := &http.Server{
			Addr:              cfg.MockListenAddr,
			Handler:           mockstore.New(logger, cfg.MockBasePath, seed),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info().
			Str("addr", cfg.MockListenAddr).
			Str("base_path", cfg.MockBasePath).
			Int("seeded", len(seed)).
			Msg("starting mock store")
		runServer(ctx, g, srv, srv.ListenAndServe)

		return g.Wait()
	},
}

// loadSeed reads the seed file, or starts empty when none is configured.
func loadSeed(path string) ([]model.Partner, error) {
	if path == "" {
		return nil, nil
	}
	return mockstore.LoadSeed(path)
}
