package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"govcheck/internal/api"
	"govcheck/internal/config"
	"govcheck/internal/session"
	"govcheck/internal/verifier"
	"govcheck/pkg/logger"
	"govcheck/pkg/whitelist"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadWhitelist reads the allow-list file. A missing or unreadable file is
// not fatal: the service starts with an unavailable allow-list, membership
// reports as unknown and nothing is ever trusted.
func loadWhitelist(ctx context.Context, cfg *config.Config) *whitelist.Set {
	allow, err := whitelist.Load(cfg.Whitelist.Path)
	if err != nil {
		logger.Warn(ctx, "could not load allow-list, membership will be unknown",
			zap.String("path", cfg.Whitelist.Path), zap.Error(err))

		return nil
	}

	logger.Info(ctx, "allow-list loaded",
		zap.String("path", cfg.Whitelist.Path), zap.Int("domains", allow.Len()))

	return allow
}

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server and the session sweeper",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			allow := loadWhitelist(ctx, cfg)

			normalizer := verifier.NewNormalizer(cfg.Verifier.MaxURLLength, cfg.Verifier.DNSTimeout)
			svc := verifier.New(allow, nil, verifier.NewOptions(cfg))

			engine := session.New(normalizer, session.NewOptions(cfg))
			go engine.Run(ctx)

			deps := api.Deps{}
			deps.Verifier = svc
			deps.Sessions = engine
			deps.CompanionSecret = cfg.JWT.Secret

			stopWebserver := setupServer(ctx, cfg, deps)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
		},
	}

	return cmd
}
