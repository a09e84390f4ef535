package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// bannerDPMM is the raster resolution of the banner in pixels per millimetre.
const bannerDPMM = 6

// banner rasterizes the header background of the enhanced theme: a
// horizontal gradient from the header color to the accent color with
// faint diagonal stripes.
func banner(t Theme, widthMM, heightMM float64) ([]byte, error) {
	w, h := int(widthMM*bannerDPMM), int(heightMM*bannerDPMM)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("banner size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(0, 0, float64(w), 0)
	grad.AddColorStop(0, rgba(t.HeaderColor))
	grad.AddColorStop(1, rgba(t.AccentColor))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.06)
	dc.SetLineWidth(float64(h) / 6)
	step := float64(h) / 1.5
	for x := -float64(h); x < float64(w); x += step {
		dc.DrawLine(x, float64(h), x+float64(h), 0)
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode banner: %w", err)
	}
	return buf.Bytes(), nil
}

func rgba(c RGB) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
