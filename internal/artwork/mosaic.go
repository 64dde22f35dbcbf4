package artwork

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func init() {
	registry.Register("mosaic", "Mosaic", Mosaic)
}

// Mosaic is a tile grid whose hue walks across the picture, crossed by a
// diagonal stripe from the top left.
func Mosaic(w, h int) image.Image {
	stripe := hex("#fafafa")
	const cols, rows = 12, 8

	return paint(w, h, func(u, v float64) colorful.Color {
		if d := u - v*0.7; d > 0.05 && d < 0.12 {
			return stripe
		}
		cx, cy := int(u*cols), int(v*rows)
		hue := float64((cx*37+cy*71)%360)*0.25 + 200*u
		light := 0.45 + 0.1*float64((cx+cy)%3)
		return colorful.Hsl(hue, 0.65, light)
	})
}
