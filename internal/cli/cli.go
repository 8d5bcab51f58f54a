package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/camphagood-web/Room-Visualizer-Hosted/internal/config"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/asset"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/buildinfo"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/export"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/genclient"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/httputil"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/store"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/visualizer"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "roomviz"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag value; empty uses the default lookup.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Roomviz visualizes flooring products in room photos",
		Long:         `Roomviz generates previews of flooring products composited into a customer's room photo, caches the generated artifacts per product SKU, and produces branded download images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/roomviz/config.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.productsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the effective configuration for a command run.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// =============================================================================
// Component Factory
// =============================================================================

// components bundles the wired pipeline for one command run.
type components struct {
	cfg        config.Config
	catalog    *catalog.Catalog
	store      store.Store
	gallery    *visualizer.Gallery
	service    *visualizer.Service
	compositor *export.Compositor
}

// newComponents wires the pipeline from configuration: catalog, asset
// resolver, durable store, gallery, generation client, and compositor.
// The gallery is not hydrated; callers decide when.
func (c *CLI) newComponents(ctx context.Context, cfg config.Config) (*components, error) {
	cat, err := catalog.Load(cfg.Assets.Catalog)
	if err != nil {
		return nil, err
	}

	httpClient := httputil.New(httputil.Options{Timeout: cfg.GeneratorTimeout()})
	source, err := asset.NewSource(cfg.Assets.Base, httpClient)
	if err != nil {
		return nil, err
	}
	resolver := asset.NewResolver(source, c.Logger)

	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	gallery := visualizer.NewGallery(st, c.Logger)

	genOpts := []genclient.Option{
		genclient.WithHTTPClient(httpClient),
		genclient.WithLogger(c.Logger),
	}
	if cfg.Generator.RatePerSec > 0 {
		genOpts = append(genOpts, genclient.WithRateLimit(rate.Limit(cfg.Generator.RatePerSec), 1))
	}
	gen := genclient.New(cfg.Generator.BaseURL, resolver, genOpts...)

	return &components{
		cfg:        cfg,
		catalog:    cat,
		store:      st,
		gallery:    gallery,
		service:    visualizer.NewService(gallery, gen, cat, c.Logger),
		compositor: export.NewCompositor(resolver, cfg.Assets.LogoPath, c.Logger),
	}, nil
}

// Close releases the durable store.
func (cp *components) Close() error {
	return cp.store.Close()
}

// newStore creates the durable store for the configured backend.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{Addr: cfg.Store.RedisAddr})
	case "none":
		return store.NewNullStore(), nil
	default:
		return store.NewFileStore(dataDir(cfg))
	}
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the artifact store directory from config, falling back to
// the XDG data path.
func dataDir(cfg config.Config) string {
	if cfg.Store.Dir != "" {
		return cfg.Store.Dir
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName + "-data"
	}
	return filepath.Join(home, ".local", "share", appName)
}
