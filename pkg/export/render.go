package export

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Renderer executes layout instructions onto a base image with gg.
// It also implements TextMeasurer with the same faces it draws with, so
// measured widths and rendered widths agree exactly.
type Renderer struct {
	logo      image.Image // may be nil
	thumbnail image.Image // may be nil
	faces     map[faceKey]font.Face
}

type faceKey struct {
	role FontRole
	size float64
}

// NewRenderer creates a renderer. Either auxiliary image may be nil; the
// corresponding ImageOps are then skipped (layout omits them anyway).
func NewRenderer(logo, thumbnail image.Image) (*Renderer, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &Renderer{
		logo:      logo,
		thumbnail: thumbnail,
		faces:     make(map[faceKey]font.Face),
	}, nil
}

// face returns a cached font.Face for a role at a size.
func (r *Renderer) face(role FontRole, size float64) font.Face {
	key := faceKey{role: role, size: size}
	if f, ok := r.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(fontFor(role), &truetype.Options{Size: size})
	r.faces[key] = f
	return f
}

// Width implements TextMeasurer using the rendering faces.
func (r *Renderer) Width(role FontRole, size float64, text string) float64 {
	return float64(font.MeasureString(r.face(role, size), text)) / 64.0
}

// ascent returns the face ascent in pixels, used to convert top-anchored
// text positions to baselines.
func (r *Renderer) ascent(role FontRole, size float64) float64 {
	return float64(r.face(role, size).Metrics().Ascent) / 64.0
}

// Render draws the base image and executes ops over it, returning the
// composed image.
func (r *Renderer) Render(base image.Image, ops []Op) image.Image {
	bounds := base.Bounds()
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(base, 0, 0)

	for _, op := range ops {
		switch o := op.(type) {
		case RectOp:
			r.drawRect(dc, o)
		case ImageOp:
			r.drawImage(dc, o)
		case TextOp:
			r.drawText(dc, o)
		}
	}
	return dc.Image()
}

func (r *Renderer) drawRect(dc *gg.Context, o RectOp) {
	if o.Radius > 0 {
		dc.DrawRoundedRectangle(o.X, o.Y, o.W, o.H, o.Radius)
	} else {
		dc.DrawRectangle(o.X, o.Y, o.W, o.H)
	}
	if o.HasFill {
		dc.SetColor(o.Fill)
		if o.StrokeWidth > 0 {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if o.StrokeWidth > 0 {
		dc.SetColor(o.Stroke)
		dc.SetLineWidth(o.StrokeWidth)
		dc.Stroke()
	}
}

func (r *Renderer) drawImage(dc *gg.Context, o ImageOp) {
	var src image.Image
	switch o.Role {
	case ImageLogo:
		src = r.logo
	case ImageThumbnail:
		src = r.thumbnail
	}
	if src == nil {
		return
	}

	// Cover-fit: crop to the target box, never letterbox.
	fitted := imaging.Fill(src, int(o.W+0.5), int(o.H+0.5), imaging.Center, imaging.Lanczos)

	if o.Radius > 0 {
		dc.Push()
		dc.DrawRoundedRectangle(o.X, o.Y, o.W, o.H, o.Radius)
		dc.Clip()
		dc.DrawImage(fitted, int(o.X+0.5), int(o.Y+0.5))
		dc.ResetClip()
		dc.Pop()
	} else {
		dc.DrawImage(fitted, int(o.X+0.5), int(o.Y+0.5))
	}

	if o.Border {
		dc.DrawRectangle(o.X, o.Y, o.W, o.H)
		dc.SetColor(o.BorderCol)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func (r *Renderer) drawText(dc *gg.Context, o TextOp) {
	dc.SetFontFace(r.face(o.Role, o.Size))
	dc.SetColor(o.Color)
	dc.DrawString(o.Text, o.X, o.Y+r.ascent(o.Role, o.Size))
}
