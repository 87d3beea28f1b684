package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/financing-advisor/internal/advisor"
	"github.com/sells-group/financing-advisor/internal/catalog"
	"github.com/sells-group/financing-advisor/internal/server"
	"github.com/sells-group/financing-advisor/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the financing advisor API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		vehicles := catalog.LoadVehicles(cfg.Data.VehiclesPath)
		lenders := catalog.LoadLenders(cfg.Data.LendersPath)
		if len(lenders) == 0 {
			zap.L().Warn("no lender data loaded; financing options will be empty",
				zap.String("path", cfg.Data.LendersPath))
		}

		var client anthropic.Client
		if cfg.Anthropic.Key != "" {
			client = anthropic.NewClient(cfg.Anthropic.Key)
		} else {
			zap.L().Warn("no Anthropic API key configured; advice will use the rule-based fallback")
		}
		adv := advisor.New(client, cfg.Anthropic.Model, time.Duration(cfg.Advisor.TimeoutSecs)*time.Second)

		srv := server.New(server.Options{
			Vehicles:       vehicles,
			Lenders:        lenders,
			Advisor:        adv,
			SessionTTL:     time.Duration(cfg.Session.TTLMinutes) * time.Minute,
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server",
				zap.Int("port", port),
				zap.Int("vehicles", len(vehicles)),
				zap.Int("lenders", len(lenders)),
			)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		// Expired conversations are swept in the background.
		g.Go(func() error {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := srv.Sessions().Sweep(); n > 0 {
						zap.L().Debug("swept expired sessions", zap.Int("count", n))
					}
				}
			}
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
