package artwork

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func init() {
	registry.Register("compass", "Compass Rose", Compass)
}

// Compass is a colour wheel with a needle pointing north.
func Compass(w, h int) image.Image {
	bg := hex("#f5f5f4")
	needle, tail := hex("#b91c1c"), hex("#1f2937")
	aspect := float64(w) / float64(h)

	return paint(w, h, func(u, v float64) colorful.Color {
		x, y := (u-0.5)*aspect, v-0.5
		r := math.Hypot(x, y)
		if r > 0.45 {
			return bg
		}

		// Needle: a thin diamond, red above the centre.
		if math.Abs(x) < 0.06*(1-math.Abs(y)/0.4) && math.Abs(y) < 0.4 {
			if y < 0 {
				return needle
			}
			return tail
		}

		deg := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
		return colorful.Hsv(deg, 0.35+0.5*r/0.45, 0.95)
	})
}
