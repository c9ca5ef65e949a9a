// serve.go - The serve command: HTTP API with graceful shutdown

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-manager/auth"
	"store-manager/handlers"
	"store-manager/metrics"
	"store-manager/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.CreateOwner {
		created, err := a.users.EnsureOwner(ctx, a.ownerInput())
		if err != nil {
			return fmt.Errorf("create owner: %w", err)
		}
		if created {
			a.log.Info("store owner created", "email", a.cfg.OwnerEmail)
		}
	}

	if err := a.connectMQTT(); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	h := handlers.New(
		a.users,
		service.NewProducts(a.store, a.productPub, a.log),
		service.NewSales(a.store, a.salesPub, a.log),
		a.hub,
		a.log,
	)
	router, err := handlers.NewRouter(h, handlers.Options{
		Resolver:  auth.NewResolver(a.tokens, a.store),
		Metrics:   metrics.New(),
		LoginRate: a.cfg.LoginRateLimit,
		Logger:    a.log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
