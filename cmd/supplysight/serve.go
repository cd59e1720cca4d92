package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/supplysight/internal/config"
	"github.com/fairyhunter13/supplysight/internal/graph"
	httpapi "github.com/fairyhunter13/supplysight/internal/http"
	"github.com/fairyhunter13/supplysight/internal/inventory"
	"github.com/fairyhunter13/supplysight/internal/obs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GraphQL HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

// buildHandler loads the store and wires service, schema and router.
func buildHandler(ctx context.Context, c config.Config) (*httpapi.App, http.Handler, func() error, error) {
	st, err := openStore(ctx, c)
	if err != nil {
		return nil, nil, nil, err
	}
	snap := st.All()
	obs.Logger.Info("store_loaded", "driver", string(st.Driver()), "records", snap.Len(), "revision", snap.Revision())

	metrics := obs.NewMetrics()
	svc := inventory.NewService(st, inventory.NewKPISynthesizer(c.KPISeed, c.KPIMaxRange), metrics)
	schema, err := graph.NewSchema(svc)
	if err != nil {
		_ = st.Close()
		return nil, nil, nil, err
	}
	app := httpapi.NewApp(c, svc, graph.NewExecutor(schema), metrics)
	return app, httpapi.NewRouter(app), st.Close, nil
}

func serve(ctx context.Context, c config.Config) error {
	obs.Logger.Info("service_starting", "env", c.AppEnv, "driver", c.DataDriver)
	app, handler, closeStore, err := buildHandler(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			obs.Logger.Warn("store_close_error", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              c.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", c.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_signal")
		app.StartShutdown()
		ctxSrv, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err)
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	obs.Logger.Info("service_stopped")
	return nil
}
