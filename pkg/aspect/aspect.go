// Package aspect negotiates image aspect ratios with the remote generator.
//
// The generator accepts a fixed set of ten aspect ratios. Uploaded room
// photos rarely match one exactly, so the negotiator maps the photo's pixel
// dimensions to the closest supported ratio, preferring candidates with the
// same orientation. The matching is deterministic: identical dimensions
// always yield the same descriptor, and ties resolve to the first-listed
// candidate. That ordering is policy, not an accident - the table lists the
// more common ratios first within each orientation.
package aspect

import (
	"math"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Orientation classifies a ratio as landscape, portrait, or square.
type Orientation string

// Orientation values.
const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Square    Orientation = "square"
)

// Ratio is an immutable aspect ratio descriptor supported by the generator.
type Ratio struct {
	Label       string      // Wire label sent to the generator (e.g. "16:9")
	Value       float64     // Numeric width/height ratio
	Orientation Orientation // Orientation bucket used for candidate filtering
	Description string      // Human-readable description
}

// squareThreshold is the tolerance for classifying a ratio as square.
const squareThreshold = 0.05

// Supported is the fixed set of aspect ratios accepted by the generator,
// grouped by orientation. Order within a group is significant: ties during
// negotiation resolve to the earlier entry.
var Supported = []Ratio{
	// Square
	{Label: "1:1", Value: 1.0, Orientation: Square, Description: "Square"},

	// Landscape
	{Label: "21:9", Value: 21.0 / 9.0, Orientation: Landscape, Description: "Ultrawide / Cinema"},
	{Label: "16:9", Value: 16.0 / 9.0, Orientation: Landscape, Description: "Widescreen / Landscape"},
	{Label: "3:2", Value: 3.0 / 2.0, Orientation: Landscape, Description: "Standard Photography"},
	{Label: "4:3", Value: 4.0 / 3.0, Orientation: Landscape, Description: "Standard Fullscreen"},
	{Label: "5:4", Value: 5.0 / 4.0, Orientation: Landscape, Description: "Traditional Print"},

	// Portrait
	{Label: "9:16", Value: 9.0 / 16.0, Orientation: Portrait, Description: "Portrait / Mobile"},
	{Label: "2:3", Value: 2.0 / 3.0, Orientation: Portrait, Description: "Portrait Photography"},
	{Label: "3:4", Value: 3.0 / 4.0, Orientation: Portrait, Description: "Portrait Fullscreen"},
	{Label: "4:5", Value: 4.0 / 5.0, Orientation: Portrait, Description: "Portrait Print"},
}

// Default is the descriptor used when the room image's dimensions cannot be
// determined. Aspect mismatch degrades output quality but is never fatal.
var Default = MustLookup("16:9")

// Negotiate maps pixel dimensions to the closest supported ratio.
// Dimensions must be positive; non-positive dimensions return
// DECODE_FAILURE so the caller can fall back to Default.
func Negotiate(width, height int) (Ratio, error) {
	if width <= 0 || height <= 0 {
		return Ratio{}, errors.New(errors.ErrCodeDecodeFailure,
			"cannot negotiate aspect ratio for %dx%d image", width, height)
	}

	input := float64(width) / float64(height)
	orientation := classify(input)

	candidates := make([]Ratio, 0, len(Supported))
	for _, r := range Supported {
		if r.Orientation == orientation {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		candidates = Supported
	}

	// Strict < keeps the first-listed candidate on ties.
	closest := candidates[0]
	minDiff := math.Abs(input - closest.Value)
	for _, c := range candidates[1:] {
		if diff := math.Abs(input - c.Value); diff < minDiff {
			minDiff = diff
			closest = c
		}
	}
	return closest, nil
}

// classify determines the orientation bucket for a numeric ratio.
func classify(ratio float64) Orientation {
	if math.Abs(ratio-1.0) < squareThreshold {
		return Square
	}
	if ratio > 1.0 {
		return Landscape
	}
	return Portrait
}

// Valid reports whether label is one of the supported wire labels.
func Valid(label string) bool {
	for _, r := range Supported {
		if r.Label == label {
			return true
		}
	}
	return false
}

// Lookup returns the descriptor for a wire label.
func Lookup(label string) (Ratio, bool) {
	for _, r := range Supported {
		if r.Label == label {
			return r, true
		}
	}
	return Ratio{}, false
}

// MustLookup returns the descriptor for a wire label, panicking if the
// label is not in the supported set. Intended for package-level defaults.
func MustLookup(label string) Ratio {
	r, ok := Lookup(label)
	if !ok {
		panic("aspect: unsupported ratio label " + label)
	}
	return r
}
