package aspect

import (
	"bytes"
	"image"

	// Registered decoders for the formats room photos arrive in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Detect decodes the pixel dimensions of an image and negotiates the
// closest supported ratio. Returns DECODE_FAILURE when the image header
// cannot be read; callers on the generation path should degrade to Default
// rather than abort.
func Detect(data []byte) (Ratio, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Ratio{}, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode image dimensions")
	}
	return Negotiate(cfg.Width, cfg.Height)
}

// DetectOrDefault is Detect with the documented degradation applied: any
// decode or negotiation failure yields the Default descriptor.
func DetectOrDefault(data []byte) Ratio {
	r, err := Detect(data)
	if err != nil {
		return Default
	}
	return r
}
