package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crowdfund3r/donorx/internal/api"
	"github.com/crowdfund3r/donorx/internal/app/progression"
	"github.com/crowdfund3r/donorx/internal/daemon"
	"github.com/crowdfund3r/donorx/internal/domain"
	"github.com/crowdfund3r/donorx/internal/infra/memstore"
	"github.com/crowdfund3r/donorx/internal/infra/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progression HTTP server",
	Long:  `Start the donorx daemon: opens the store and serves the progression API until interrupted.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath())
	if err != nil {
		return err
	}

	log, err := cfg.Log.BuildLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	donors, ledger, campaigns, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := progression.New(progression.Config{
		Donors:    donors,
		Ledger:    ledger,
		Campaigns: campaigns,
		Awards:    cfg.Awards.Table(),
		Logger:    log,
	})

	srv := api.NewServer(svc, log)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}
	srv.SetLeaderboardLimit(cfg.Leaderboard.DefaultLimit)

	httpServer := &http.Server{
		Addr:              cfg.API.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("donorx listening",
			zap.String("addr", cfg.API.Addr()),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("metrics", cfg.API.Metrics),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// openStore builds the configured persistence backend. The memory driver
// is for development and tests; sqlite is the default.
func openStore(cfg daemon.StoreConfig, log *zap.Logger) (domain.DonorStore, domain.DonationLedger, domain.CampaignStore, func() error, error) {
	switch cfg.Driver {
	case "memory":
		s := memstore.New()
		return s, s, s, func() error { return nil }, nil
	case "sqlite", "":
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("sqlite store opened", zap.String("path", cfg.Path))
		return db, db, db, db.Close, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
