package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// cacheCommand creates the artifact cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List SKUs with cached previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			comps, err := c.newComponents(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer comps.Close()

			if err := comps.gallery.Hydrate(cmd.Context()); err != nil {
				return fmt.Errorf("hydrate gallery: %w", err)
			}

			skus := comps.gallery.SKUs()
			if len(skus) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			sort.Strings(skus)
			for _, sku := range skus {
				name := sku
				if p, ok := comps.catalog.Get(sku); ok {
					name = p.Name
				}
				printKeyValue(sku, name)
			}
			printDetail("%d cached previews", len(skus))
			return nil
		},
	}
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached previews",
		Long: `Clear all cached previews.

The room photo is kept; only generated artifacts are removed, from memory
and from the durable store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			comps, err := c.newComponents(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer comps.Close()

			if err := comps.gallery.Hydrate(cmd.Context()); err != nil {
				return fmt.Errorf("hydrate gallery: %w", err)
			}
			count := comps.gallery.Len()
			if err := comps.gallery.ClearAll(cmd.Context()); err != nil {
				return err
			}

			printSuccess("Cleared %d cached previews", count)
			printDetail("Store: %s", cfg.Store.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the artifact store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(dataDir(cfg))
			return nil
		},
	}
}
