package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/partners/internal/api"
	"github.com/edvin/partners/internal/config"
	"github.com/edvin/partners/internal/core"
	"github.com/edvin/partners/internal/logging"
	"github.com/edvin/partners/internal/metrics"
	"github.com/edvin/partners/internal/mockstore"
	"github.com/edvin/partners/internal/model"
	"github.com/edvin/partners/internal/store"
	"github.com/edvin/partners/internal/view"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionIdle     = time.Hour
	pruneInterval   = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if serveListen != "" {
			cfg.HTTPListenAddr = serveListen
		}
		if serveSeed != "" {
			cfg.SeedFile = serveSeed
		}
		if serveWithMock {
			if err := cfg.ValidateMock(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if cfg.PartnersAPIURL == "" {
				cfg.PartnersAPIURL = cfg.MockURL()
			}
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logging.NewLogger(cfg))
	},
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	// The mock listener is bound before the first fetch so it cannot race it.
	if serveWithMock {
		seed, err := loadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", cfg.MockListenAddr)
		if err != nil {
			return fmt.Errorf("listen mock store: %w", err)
		}
		mock := &http.Server{
			Addr:              cfg.MockListenAddr,
			Handler:           mockstore.New(logger.With().Str("component", "mockstore").Logger(), cfg.MockBasePath, seed),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info().Str("addr", ln.Addr().String()).Int("seeded", len(seed)).Msg("starting mock store")
		runServer(ctx, g, mock, func() error { return mock.Serve(ln) })
	}

	srv, partners, loaded, err := newAdmin(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer partners.Close()

	if err := metrics.RegisterCollectionMetrics(prometheus.DefaultRegisterer, partners); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting partners admin")
	runServer(ctx, g, httpServer, httpServer.ListenAndServe)

	if cfg.MetricsListenAddr != "" {
		metricsServer := metrics.NewServer(cfg.MetricsListenAddr)
		logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
		runServer(ctx, g, metricsServer, metricsServer.ListenAndServe)
	}

	g.Go(func() error {
		select {
		case res := <-loaded:
			if res.OK() {
				logger.Info().Int("count", len(res.Value)).Msg("initial fetch complete")
			}
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := srv.Sessions().Prune(sessionIdle); n > 0 {
					logger.Debug().Int("sessions", n).Msg("pruned idle sessions")
				}
			}
		}
	})

	err = g.Wait()
	logger.Info().Msg("shut down")
	return err
}

// newAdmin builds the partner service and the admin handler. The initial
// fetch is already in flight when it returns, so the first page served
// shows the loading placeholder.
func newAdmin(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*api.Server, *core.PartnerService, <-chan core.Result[[]model.Partner], error) {
	client := store.NewClient(cfg.PartnersAPIURL, cfg.StoreTimeout)
	partners := core.NewPartnerService(client, logger)
	loaded := partners.Start(ctx)
	logger.Info().Str("store", client.Endpoint()).Msg("initial fetch started")

	srv, err := api.NewServer(logger, partners, view.Options{})
	if err != nil {
		partners.Close()
		return nil, nil, nil, err
	}
	return srv, partners, loaded, nil
}

// runServer serves until ctx is done, then shuts the server down gracefully.
func runServer(ctx context.Context, g *errgroup.Group, srv *http.Server, listen func() error) {
	g.Go(func() error {
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
