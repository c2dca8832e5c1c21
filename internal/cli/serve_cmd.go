package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/siteplan/internal/api"
	httptransport "github.com/alexanderramin/siteplan/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// NewHTTPHandler builds the API mux with health and metrics endpoints.
func NewHTTPHandler(app *App) http.Handler {
	mux := http.NewServeMux()
	api.NewHandler(app.Engine, api.Services{
		Projects:     app.Projects,
		Activities:   app.Activities,
		Dependencies: app.Dependencies,
		DailyLogs:    app.DailyLogs,
	}, app.logger()).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	return requestLogger(app, mux)
}

func requestLogger(app *App, next http.Handler) http.Handler {
	logger := app.logger()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.DebugContext(r.Context(), "http request", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.HTTPAddress
			}
			server := httptransport.NewServer(httptransport.ServerConfig{
				Address:      addr,
				ReadTimeout:  app.Config.HTTPReadTimeout,
				WriteTimeout: app.Config.HTTPWriteTimeout,
			}, NewHTTPHandler(app))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.logger().Info("http server listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serving http: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down http server: %w", err)
			}
			app.logger().Info("http server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SITEPLAN_HTTP_ADDR)")
	return cmd
}
