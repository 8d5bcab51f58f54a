package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/camphagood-web/Room-Visualizer-Hosted/internal/config"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// generateCommand creates the generate command for terminal-driven previews.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output string
		skus   []string
	)

	cmd := &cobra.Command{
		Use:   "generate [room-photo]",
		Short: "Generate product previews for a room photo",
		Long: `Generate product previews for a room photo.

The room photo replaces the current room: previously cached previews are
invalidated. Products are selected with --sku (repeatable); without it an
interactive picker opens. Generated previews are written to the output
directory and cached for later export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, args[0], skus, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory for generated previews")
	cmd.Flags().StringArrayVar(&skus, "sku", nil, "product SKU to generate (repeatable)")
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, cfg config.Config, roomPath string, skus []string, output string) error {
	comps, err := c.newComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	room, err := os.ReadFile(roomPath)
	if err != nil {
		return fmt.Errorf("read room photo %s: %w", roomPath, err)
	}

	if err := comps.gallery.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrate gallery: %w", err)
	}
	comps.gallery.SetRoom(ctx, room)
	printInfo("Room photo set (%d bytes), previous previews invalidated", len(room))

	if len(skus) == 0 {
		picked, err := pickProducts(comps.catalog.Products())
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			printWarning("No products selected")
			return nil
		}
		skus = picked
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	failed := 0
	for _, sku := range skus {
		if err := ctx.Err(); err != nil {
			return err
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s...", sku))
		spinner.Start()

		artifact, cached, err := comps.service.Visualize(ctx, sku)
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("%s: %s", sku, errors.UserMessage(err)))
			failed++
			continue
		}
		spinner.Stop()

		path := filepath.Join(output, sku+".png")
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			printError("%s: write %s: %v", sku, path, err)
			failed++
			continue
		}
		printSuccess("%s", sku)
		printFile(path)
		printStats(len(artifact), cached)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d previews failed", failed, len(skus))
	}
	printNewline()
	printNextStep("Compose a branded download image", appName+" export <sku>")
	return nil
}

// pickProducts runs the interactive product picker and returns the chosen
// SKUs.
func pickProducts(products []catalog.Product) ([]string, error) {
	model := NewProductListModel(products)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("product picker: %w", err)
	}
	m, ok := final.(ProductListModel)
	if !ok {
		return nil, nil
	}
	return m.SelectedSKUs(), nil
}
