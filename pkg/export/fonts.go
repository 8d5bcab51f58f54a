package export

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// The card text is set in the Go font family: Go Bold for the brand pill
// and product name, Go Regular for the collection line, Go Mono for the
// SKU. The faces ship with golang.org/x/image, so no font files need to be
// located at runtime.
var (
	fontsOnce sync.Once
	fontsErr  error
	fontBold  *truetype.Font
	fontReg   *truetype.Font
	fontMono  *truetype.Font
)

// loadFonts parses the embedded TTFs once.
func loadFonts() error {
	fontsOnce.Do(func() {
		if fontBold, fontsErr = truetype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		if fontReg, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		fontMono, fontsErr = truetype.Parse(gomono.TTF)
	})
	return fontsErr
}

// fontFor returns the parsed font for a role. loadFonts must have
// succeeded first.
func fontFor(role FontRole) *truetype.Font {
	switch role {
	case FontMono:
		return fontMono
	case FontRegular:
		return fontReg
	default:
		return fontBold
	}
}
