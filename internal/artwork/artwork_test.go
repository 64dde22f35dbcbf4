package artwork

import (
	"image"
	"image/draw"
	"testing"

	"github.com/vovakirdan/tui-blocka/internal/registry"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"sunset", "waves", "compass", "mosaic"} {
		if !registry.Exists(name) {
			t.Errorf("%s not registered", name)
		}
	}
}

// A picture that looks the same after a half turn would make rotated
// pieces indistinguishable from solved ones.
func TestBuiltinsAreAsymmetric(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.Name, func(t *testing.T) {
			img, err := registry.Generate(info.Name, 64, 48)
			if err != nil {
				t.Fatal(err)
			}
			rgba := image.NewRGBA(img.Bounds())
			draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)

			w, h := 64, 48
			diff := 0
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					a := rgba.RGBAAt(x, y)
					b := rgba.RGBAAt(w-1-x, h-1-y)
					if a != b {
						diff++
					}
				}
			}
			if diff < w*h/10 {
				t.Errorf("only %d of %d pixels change under a half turn", diff, w*h)
			}
		})
	}
}

func TestBuiltinsDeterministic(t *testing.T) {
	a := Sunset(32, 32).(*image.RGBA)
	b := Sunset(32, 32).(*image.RGBA)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("Sunset is not deterministic")
		}
	}
}
