package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camphagood-web/Room-Visualizer-Hosted/internal/config"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// exportCommand creates the export command for branded download images.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <sku>",
		Short: "Compose a branded download image from a cached preview",
		Long: `Compose a branded download image from a cached preview.

The preview must already exist in the artifact cache (run 'generate' first).
The export adds the brand mark and a product info card sized from real text
metrics, and writes a PNG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), cfg, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <sku>-export.png)")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, cfg config.Config, sku, output string) error {
	if err := errors.ValidateSKU(sku); err != nil {
		return err
	}

	comps, err := c.newComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	product, ok := comps.catalog.Get(sku)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown product %s", sku)
	}

	if err := comps.gallery.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrate gallery: %w", err)
	}
	artifact, ok := comps.gallery.Get(sku)
	if !ok {
		return errors.New(errors.ErrCodeNotFound,
			"no cached preview for %s (run '%s generate' first)", sku, appName)
	}

	spinner := newSpinnerWithContext(ctx, "Composing export image...")
	spinner.Start()
	composed, err := comps.compositor.Compose(ctx, artifact, &product)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = sku + "-export.png"
	}
	if err := os.WriteFile(output, composed, 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", output, err)
	}

	printSuccess("Exported %s", product.Name)
	printFile(output)
	return nil
}
