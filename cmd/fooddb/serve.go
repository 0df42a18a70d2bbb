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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_delivery/internal/httpserver"
	"github.com/Skotchmaster/food_delivery/pkg/config"
	loggingmw "github.com/Skotchmaster/food_delivery/pkg/middleware/logging"
)

func makeServeCommand(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			l := root.logger
			if err := config.RequireNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET"); err != nil {
				return err
			}
			if port == 0 {
				port = cfg.ServerPort
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			a, err := openApp(ctx, cfg, l)
			cancel()
			if err != nil {
				return err
			}
			defer a.close(l)

			handler := &httpserver.FoodHTTP{Svc: a.svc}
			if a.index != nil {
				handler.Search = a.index
			}

			e := echo.New()
			e.HideBanner = true
			e.Pre(echomw.RemoveTrailingSlash())
			e.Use(echomw.Recover())
			e.Use(echomw.RequestID())
			e.Use(loggingmw.RequestLogger(l))
			e.Use(echomw.CORS())

			httpserver.Register(e, &httpserver.Deps{
				FoodHandler: handler,
				JWTSecret:   cfg.JWTAccessSecret,
				DB:          a.db,
			})

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           e,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      15 * time.Second,
				ReadHeaderTimeout: 3 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				l.Info("http_listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
			case <-stop:
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				l.Warn("http_shutdown_error", "error", err)
			}
			l.Info("http_stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (defaults to SERVER_PORT)")
	return cmd
}
