// Package export composites branded, information-card-annotated download
// images from generated visualization artifacts.
//
// The package splits layout from rendering: [Compute] is a pure function
// from canvas dimensions, card content, and measured text metrics to a list
// of positioned drawing instructions. The gg-based [Renderer] consumes the
// instructions; tests exercise the layout math against a fake measurer
// without a rendering surface.
package export

import (
	"image/color"
	"strings"
)

// Reference width the overlay proportions were designed against. The
// global scale factor is canvasWidth / layoutReferenceWidth, boosted by
// 1.4 on portrait canvases to keep the overlay legible.
const (
	layoutReferenceWidth = 1920.0
	portraitBoost        = 1.4
)

// FontRole selects one of the three embedded faces.
type FontRole int

// Font roles used by the info card.
const (
	FontBold    FontRole = iota // brand pill and product name
	FontRegular                 // collection line
	FontMono                    // SKU
)

// ImageRole identifies which auxiliary image an ImageOp draws.
type ImageRole int

// Image roles.
const (
	ImageLogo ImageRole = iota
	ImageThumbnail
)

// TextMeasurer reports the rendered width of a string. Implementations use
// real font metrics; layout math must never estimate.
type TextMeasurer interface {
	Width(role FontRole, size float64, text string) float64
}

// Card is the product content of the info card. Empty-able fields carry
// the same fallbacks the product grid shows.
type Card struct {
	Brand        string
	SKU          string
	Name         string
	Collection   string
	HasThumbnail bool // false draws the flat placeholder rectangle
}

// Op is a single positioned drawing instruction.
type Op interface{ isOp() }

// RectOp draws a (rounded) rectangle with optional fill and stroke.
type RectOp struct {
	X, Y, W, H  float64
	Radius      float64
	Fill        color.NRGBA
	HasFill     bool
	Stroke      color.NRGBA
	StrokeWidth float64
}

// ImageOp draws an auxiliary image cover-fit inside a rounded clip region.
type ImageOp struct {
	X, Y, W, H float64
	Radius     float64
	Role       ImageRole
	Border     bool
	BorderCol  color.NRGBA
}

// TextOp draws a single text run. Y is the top edge of the line box (the
// renderer adds the face ascent), matching top-baseline layout.
type TextOp struct {
	X, Y  float64
	Size  float64
	Role  FontRole
	Color color.NRGBA
	Text  string
}

func (RectOp) isOp()  {}
func (ImageOp) isOp() {}
func (TextOp) isOp()  {}

// Overlay colors.
var (
	colorCardFill      = color.NRGBA{R: 255, G: 255, B: 255, A: 242} // white at 95%
	colorCardStroke    = color.NRGBA{R: 255, G: 255, B: 255, A: 51}  // white at 20%
	colorPillFill      = color.NRGBA{R: 234, G: 88, B: 12, A: 26}    // brand orange at 10%
	colorBrandText     = color.NRGBA{R: 234, G: 88, B: 12, A: 255}   // brand orange
	colorSKUText       = color.NRGBA{R: 107, G: 114, B: 128, A: 255} // gray-500
	colorNameText      = color.NRGBA{R: 17, G: 24, B: 39, A: 255}    // gray-900
	colorCollection    = color.NRGBA{R: 75, G: 85, B: 99, A: 255}    // gray-600
	colorThumbBorder   = color.NRGBA{R: 229, G: 231, B: 235, A: 255} // gray-200
	colorPlaceholder   = color.NRGBA{R: 243, G: 244, B: 246, A: 255} // gray-100
	defaultBrandText   = "Unknown Brand"
	defaultNameText    = "Unknown Product"
	defaultCollectText = "Unknown Collection"
)

// Compute lays out the export overlay for a canvas of the given pixel
// dimensions. logoAspect is the brand mark's height/width ratio (0 when
// the logo failed to load, which omits it). A nil card skips the info card
// entirely: only the brand mark is drawn.
//
// The instruction list is ordered back to front.
func Compute(canvasW, canvasH int, logoAspect float64, card *Card, m TextMeasurer) []Op {
	w := float64(canvasW)
	h := float64(canvasH)

	mult := 1.0
	if h > w {
		mult = portraitBoost
	}
	scale := (w / layoutReferenceWidth) * mult
	edgeMargin := 40 * scale

	var ops []Op

	// Brand mark, top-right. Sized to 15% of canvas width (boosted on
	// portrait canvases), aspect preserved.
	if logoAspect > 0 {
		logoW := w * 0.15 * mult
		logoH := logoW * logoAspect
		ops = append(ops, ImageOp{
			X:    w - logoW - edgeMargin,
			Y:    edgeMargin,
			W:    logoW,
			H:    logoH,
			Role: ImageLogo,
		})
	}

	if card == nil {
		return ops
	}

	contentPadding := 24 * scale
	thumbSize := 120 * scale
	textGap := 20 * scale

	brandFontSize := 16 * scale
	skuFontSize := 16 * scale
	nameFontSize := 28 * scale
	collectionFontSize := 20 * scale

	brandText := card.Brand
	if brandText == "" {
		brandText = defaultBrandText
	}
	brandText = strings.ToUpper(brandText)
	nameText := card.Name
	if nameText == "" {
		nameText = defaultNameText
	}
	collectionText := card.Collection
	if collectionText == "" {
		collectionText = defaultCollectText
	}

	// Row 1: brand pill + SKU, measured with real font metrics.
	brandPillPadding := 10 * scale
	brandPillWidth := m.Width(FontBold, brandFontSize, brandText) + brandPillPadding*2
	brandHeight := 28 * scale
	skuGap := 12 * scale
	skuWidth := m.Width(FontMono, skuFontSize, card.SKU)
	row1Width := brandPillWidth + skuGap + skuWidth

	nameWidth := m.Width(FontBold, nameFontSize, nameText)
	collectionWidth := m.Width(FontRegular, collectionFontSize, collectionText)

	row1BottomMargin := 12 * scale
	nameBottomMargin := 12 * scale
	textBlockHeight := brandHeight + row1BottomMargin + nameFontSize + nameBottomMargin + collectionFontSize

	maxTextWidth := max3(row1Width, nameWidth, collectionWidth)
	cardWidth := contentPadding + thumbSize + textGap + maxTextWidth + contentPadding

	maxContentHeight := textBlockHeight
	if thumbSize > maxContentHeight {
		maxContentHeight = thumbSize
	}
	cardHeight := maxContentHeight + contentPadding*2
	cardRadius := 16 * scale

	cardX := w - cardWidth - edgeMargin
	cardY := h - cardHeight - edgeMargin

	ops = append(ops, RectOp{
		X: cardX, Y: cardY, W: cardWidth, H: cardHeight,
		Radius:      cardRadius,
		Fill:        colorCardFill,
		HasFill:     true,
		Stroke:      colorCardStroke,
		StrokeWidth: 1 * scale,
	})

	// Thumbnail and text block are each vertically centered within the
	// taller of the two.
	thumbX := cardX + contentPadding
	thumbY := cardY + contentPadding + (maxContentHeight-thumbSize)/2
	textBlockStartY := cardY + contentPadding + (maxContentHeight-textBlockHeight)/2

	if card.HasThumbnail {
		ops = append(ops, ImageOp{
			X: thumbX, Y: thumbY, W: thumbSize, H: thumbSize,
			Radius:    10 * scale,
			Role:      ImageThumbnail,
			Border:    true,
			BorderCol: colorThumbBorder,
		})
	} else {
		ops = append(ops, RectOp{
			X: thumbX, Y: thumbY, W: thumbSize, H: thumbSize,
			Fill:    colorPlaceholder,
			HasFill: true,
		})
	}

	textX := cardX + contentPadding + thumbSize + textGap
	rowY := textBlockStartY

	// Brand pill behind the brand text; fully rounded ends.
	ops = append(ops, RectOp{
		X: textX, Y: rowY, W: brandPillWidth, H: brandHeight,
		Radius:  brandHeight / 2,
		Fill:    colorPillFill,
		HasFill: true,
	})
	ops = append(ops, TextOp{
		X:     textX + brandPillPadding,
		Y:     rowY + (brandHeight-brandFontSize)/2 - 2*scale,
		Size:  brandFontSize,
		Role:  FontBold,
		Color: colorBrandText,
		Text:  brandText,
	})
	ops = append(ops, TextOp{
		X:     textX + brandPillWidth + skuGap,
		Y:     rowY + (brandHeight-skuFontSize)/2,
		Size:  skuFontSize,
		Role:  FontMono,
		Color: colorSKUText,
		Text:  card.SKU,
	})

	rowY += brandHeight + row1BottomMargin
	ops = append(ops, TextOp{
		X:     textX,
		Y:     rowY,
		Size:  nameFontSize,
		Role:  FontBold,
		Color: colorNameText,
		Text:  nameText,
	})

	rowY += nameFontSize + nameBottomMargin
	ops = append(ops, TextOp{
		X:     textX,
		Y:     rowY,
		Size:  collectionFontSize,
		Role:  FontRegular,
		Color: colorCollection,
		Text:  collectionText,
	})

	return ops
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
