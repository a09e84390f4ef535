// Package linkback draws the scan-to-view code printed on plan documents.
package linkback

import (
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length of the generated PNG in pixels.
const DefaultSize = 256

// Encoder turns URLs into QR code PNGs.
type Encoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// New returns an Encoder with medium error correction.
func New() *Encoder {
	return &Encoder{Size: DefaultSize, Level: qrcode.Medium}
}

// Image encodes url as a PNG QR code. Its signature matches render.ImageFunc.
func (e *Encoder) Image(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, fmt.Errorf("linkback: empty url")
	}
	size := e.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(url, e.Level, size)
	if err != nil {
		return nil, fmt.Errorf("linkback: encoding %q: %w", url, err)
	}
	return png, nil
}
