package artwork

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func init() {
	registry.Register("sunset", "Sunset Ridge", Sunset)
}

// Sunset is a sky gradient with a sun in the upper right and a ridge line
// rising to the left.
func Sunset(w, h int) image.Image {
	top, horizon := hex("#1e1b4b"), hex("#f97316")
	sun := hex("#fde047")
	ridge, ground := hex("#3b0764"), hex("#0f172a")
	aspect := float64(w) / float64(h)

	return paint(w, h, func(u, v float64) colorful.Color {
		sky := top.BlendLuv(horizon, smoothstep(0, 0.75, v))

		dx, dy := (u-0.72)*aspect, v-0.3
		if d := math.Hypot(dx, dy); d < 0.12 {
			sky = sky.BlendLuv(sun, 1-smoothstep(0.09, 0.12, d))
		}

		line := 0.62 + 0.22*u - 0.05*math.Sin(u*11)
		if v > line {
			return ridge.BlendLuv(ground, smoothstep(line, 1, v))
		}
		return sky
	})
}
