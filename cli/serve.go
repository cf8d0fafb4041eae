package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cayo/controllers"
	"cayo/database"
	"cayo/jobs"
	"cayo/metrics"
	"cayo/routes"
	"cayo/services/auth"
	"cayo/services/policy"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the metrics server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			st, closeStore, err := openStore(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeStore()

			hasher := auth.NewBcrypt(cfg.Auth.BcryptCost)
			if _, err := database.EnsureAdmin(ctx, st, hasher, cfg.Auth, log); err != nil {
				return err
			}

			limiter, closeLimiter := newLimiter(ctx, cfg, log)
			defer closeLimiter()
			publisher := newPublisher(cfg, log)
			defer publisher.Close()

			pol, err := policy.New()
			if err != nil {
				return err
			}
			codec := auth.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			deps := controllers.Deps{
				Store:  st,
				Auth:   auth.NewResolver(st, hasher, codec, limiter, log),
				Events: publisher,
				Log:    log,
			}
			app := routes.NewApp(cfg, deps, pol)

			jobCtx, stopJobs := context.WithCancel(ctx)
			defer stopJobs()
			jobs.StartIntegrityScheduler(jobCtx, st, cfg.IntegrityInterval, log)

			metricsSrv := metrics.StartServer(":"+cfg.MetricsPort, st.Ping, func(err error) {
				log.Error("metrics server stopped", zap.Error(err))
			})
			log.Info("metrics/health", zap.String("port", cfg.MetricsPort))

			go func() {
				log.Info("server running", zap.String("addr", cfg.Addr()))
				if err := app.Listen(cfg.Addr()); err != nil {
					log.Panic("failed to start server", zap.Error(err))
				}
			}()

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			<-c

			log.Info("gracefully shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error("server forced to shutdown", zap.Error(err))
				return err
			}
			log.Info("server exited cleanly")
			return nil
		},
	}
}
