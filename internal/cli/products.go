package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
)

// productsCommand creates the products command for catalog browsing.
func (c *CLI) productsCommand() *cobra.Command {
	var (
		brand       string
		collection  string
		showFilters bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Assets.Catalog)
			if err != nil {
				return err
			}
			if showFilters {
				printCatalogFilters(cat)
				return nil
			}
			printCatalogTable(cat, brand, collection)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "filter by brand")
	cmd.Flags().StringVar(&collection, "collection", "", "filter by collection")
	cmd.Flags().BoolVar(&showFilters, "filters", false, "list distinct filter values instead of products")
	return cmd
}

func printCatalogFilters(cat *catalog.Catalog) {
	groups := []struct {
		label string
		field string
	}{
		{"Brands", catalog.FieldBrand},
		{"Collections", catalog.FieldCollection},
		{"Types", catalog.FieldType},
		{"Colors", catalog.FieldColor},
		{"Species", catalog.FieldSpecies},
	}
	for _, g := range groups {
		values := cat.FilterValues(g.field)
		if len(values) == 0 {
			continue
		}
		fmt.Println(StyleTitle.Render(g.label))
		fmt.Println("  " + StyleValue.Render(strings.Join(values, ", ")))
		printNewline()
	}
}

func printCatalogTable(cat *catalog.Catalog, brand, collection string) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for _, p := range cat.Products() {
		if brand != "" && p.Brand != brand {
			continue
		}
		if collection != "" && p.Collection != collection {
			continue
		}
		rows = append(rows, []string{p.SKU, p.Name, p.Brand, p.Collection, p.Type})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("SKU", "Name", "Brand", "Collection", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleValue
		})

	fmt.Println(t.Render())
	printDetail("%d products", len(rows))
}
