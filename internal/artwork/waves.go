package artwork

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func init() {
	registry.Register("waves", "Open Sea", Waves)
}

// Waves draws hue-shifting sea bands under a pale sky with a sail on the left.
func Waves(w, h int) image.Image {
	sky := hex("#e0f2fe")
	sail := hex("#dc2626")
	aspect := float64(w) / float64(h)

	return paint(w, h, func(u, v float64) colorful.Color {
		surface := 0.35 + 0.03*math.Sin(u*18)
		if v < surface {
			// Triangular sail leaning right.
			if u > 0.18 && u < 0.3 && v > 0.12 && (u-0.18)*aspect < (v-0.12)*0.9 {
				return sail
			}
			return sky
		}
		depth := (v - surface) / (1 - surface)
		band := math.Sin(u*14+depth*30) * 0.5
		hue := 190 + 40*u + 10*band
		return colorful.Hcl(hue, 0.45-0.2*depth, 0.75-0.5*depth)
	})
}
