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

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/spf13/cobra"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport/rest"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func startHTTPServer() error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}

	router := setupRoutes(app)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("server failed", "error", err)
			app.Close(context.Background())
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.Logger.Error("server shutdown error", "error", err)
	}
	app.Close(ctx)

	app.Logger.Info("server stopped")
	return nil
}

func setupRoutes(app *App) *chi.Mux {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RealIP)
	if app.Config.Server.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(app.Config.Server.RequestTimeout))
	}

	base := transport.NewBaseHandler(app.Logger)
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:      rest.NewHealthHandler(base, app.SQL),
		User:        user.NewHandler(base, app.Users),
		Role:        role.NewHandler(base, app.Roles),
		Designation: designation.NewHandler(base, app.Designations),
		Bulk:        bulk.NewHandler(base, app.Importer, app.Exporter, app.Config.Accounts.MaxUploadBytes),
	}, app.Logger)

	return router
}
