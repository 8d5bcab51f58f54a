package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
)

// List styles
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ProductListModel - Interactive product selection
// =============================================================================

// ProductListModel is the bubbletea model for picking products to generate.
// Space toggles a product, enter confirms the selection.
type ProductListModel struct {
	Products []catalog.Product
	Cursor   int
	Checked  map[int]bool
	Done     bool
	Height   int
	Offset   int
}

// NewProductListModel creates a new product list model.
func NewProductListModel(products []catalog.Product) ProductListModel {
	return ProductListModel{
		Products: products,
		Checked:  make(map[int]bool),
		Height:   15,
	}
}

// SelectedSKUs returns the toggled SKUs in catalog order. Empty when the
// picker was quit without confirming.
func (m ProductListModel) SelectedSKUs() []string {
	if !m.Done {
		return nil
	}
	var skus []string
	for i, p := range m.Products {
		if m.Checked[i] {
			skus = append(skus, p.SKU)
		}
	}
	return skus
}

func (m ProductListModel) Init() tea.Cmd {
	return nil
}

func (m ProductListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Products)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "enter":
			if len(m.Products) > 0 {
				// Enter with nothing toggled selects the cursor row.
				if len(m.SelectedSKUsRaw()) == 0 {
					m.Checked[m.Cursor] = true
				}
				m.Done = true
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// SelectedSKUsRaw returns toggled SKUs regardless of confirmation.
func (m ProductListModel) SelectedSKUsRaw() []string {
	var skus []string
	for i, p := range m.Products {
		if m.Checked[i] {
			skus = append(skus, p.SKU)
		}
	}
	return skus
}

func (m ProductListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Products"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Products) {
		end = len(m.Products)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Products[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		checked := " "
		if m.Checked[i] {
			checked = "✓"
		}

		rows = append(rows, []string{cursor, checked, p.SKU, p.Name, p.Brand, p.Collection})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "SKU", "Name", "Brand", "Collection").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Products) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if m.Checked[actualIdx] {
				base = base.Foreground(colorGreen)
			}
			if actualIdx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected",
		m.Cursor+1, len(m.Products), len(m.SelectedSKUsRaw()))))

	return b.String()
}
