// Package clipboard copies rendered overlays to the system clipboard.
package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}
