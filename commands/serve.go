package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pg-portal/config"
	"pg-portal/routes"
	"pg-portal/services"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			kv, closeStore, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					config.Log.WithError(err).Error("❌ Storage shutdown error")
				}
			}()

			var archiver services.Archiver
			if config.ArchiveEnabled() {
				if err := config.LoadAWSConfig(); err != nil {
					return err
				}
				archiver = services.NewS3Archiver()
			}

			if port, _ := cmd.Flags().GetString("port"); port != "" {
				config.Port = port
			}

			srv := &http.Server{
				Addr:              ":" + config.Port,
				Handler:           routes.NewRouter(NewPortal(ctx, kv, archiver)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				config.Log.WithField("addr", srv.Addr).Info("🚀 Portal starting")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			config.Log.Info("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("port", "", "Listen port (overrides PORT)")

	return cmd
}
