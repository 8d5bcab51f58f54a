package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/camphagood-web/Room-Visualizer-Hosted/internal/config"
	"github.com/camphagood-web/Room-Visualizer-Hosted/internal/server"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/prefs"
)

// shutdownGrace bounds graceful shutdown after the context is cancelled.
const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the visualization API server",
		Long: `Run the visualization API server.

The server hydrates the gallery from the durable store, then exposes the
product catalog, room upload, visualization, and export endpoints. It shuts
down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	comps, err := c.newComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	prog := newProgress(c.Logger)
	if err := comps.gallery.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrate gallery: %w", err)
	}
	prog.done(fmt.Sprintf("Hydrated %d cached artifacts", comps.gallery.Len()))

	favorites, err := prefs.NewFileStore(dataDir(cfg))
	if err != nil {
		return err
	}

	handler := server.New(comps.service, comps.compositor, favorites, c.Logger)
	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", cfg.Server.Listen, "products", comps.catalog.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
