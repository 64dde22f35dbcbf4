package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrBadFilter is returned when a filter string cannot be parsed.
var ErrBadFilter = errors.New("render: bad filter")

// FilterKind names a single colour effect.
type FilterKind string

const (
	FilterGrayscale  FilterKind = "grayscale"
	FilterBrightness FilterKind = "brightness"
	FilterContrast   FilterKind = "contrast"
	FilterInvert     FilterKind = "invert"
	FilterSepia      FilterKind = "sepia"
	FilterSaturate   FilterKind = "saturate"
	FilterHueRotate  FilterKind = "hue-rotate"
	FilterOpacity    FilterKind = "opacity"
)

// Filter is one effect with its amount (degrees for hue-rotate).
type Filter struct {
	Kind   FilterKind
	Amount float64
}

// FilterChain is an ordered list of effects applied left to right.
// The zero value applies nothing.
type FilterChain []Filter

// ParseFilterChain parses a CSS-like filter string such as
// "invert(1) grayscale(1) brightness(0.3)". Percentages are accepted
// ("50%" == 0.5) and hue-rotate takes an optional "deg" suffix.
func ParseFilterChain(s string) (FilterChain, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}

	var chain FilterChain
	for s != "" {
		open := strings.IndexByte(s, '(')
		closing := strings.IndexByte(s, ')')
		if open <= 0 || closing < open {
			return nil, fmt.Errorf("%w: %q", ErrBadFilter, s)
		}

		kind := FilterKind(strings.ToLower(strings.TrimSpace(s[:open])))
		arg := strings.TrimSpace(s[open+1 : closing])
		s = strings.TrimSpace(s[closing+1:])

		amount, err := parseAmount(kind, arg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, Filter{Kind: kind, Amount: amount})
	}
	return chain, nil
}

// MustParseFilterChain is ParseFilterChain for literals known to be valid.
func MustParseFilterChain(s string) FilterChain {
	c, err := ParseFilterChain(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseAmount(kind FilterKind, arg string) (float64, error) {
	switch kind {
	case FilterGrayscale, FilterBrightness, FilterContrast, FilterInvert,
		FilterSepia, FilterSaturate, FilterOpacity:
		if arg == "" {
			return 1, nil
		}
		if strings.HasSuffix(arg, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %s(%s)", ErrBadFilter, kind, arg)
			}
			return v / 100, nil
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %s(%s)", ErrBadFilter, kind, arg)
		}
		return v, nil
	case FilterHueRotate:
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "deg"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s(%s)", ErrBadFilter, kind, arg)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unknown effect %q", ErrBadFilter, kind)
	}
}

// String renders the chain back into its textual form.
func (c FilterChain) String() string {
	parts := make([]string, len(c))
	for i, f := range c {
		if f.Kind == FilterHueRotate {
			parts[i] = fmt.Sprintf("%s(%gdeg)", f.Kind, f.Amount)
		} else {
			parts[i] = fmt.Sprintf("%s(%g)", f.Kind, f.Amount)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the chain leaves colours untouched.
func (c FilterChain) Empty() bool {
	return len(c) == 0
}

// Apply runs every effect on a non-premultiplied colour.
func (c FilterChain) Apply(in color.NRGBA) color.NRGBA {
	if len(c) == 0 {
		return in
	}
	col := colorful.Color{R: float64(in.R) / 255, G: float64(in.G) / 255, B: float64(in.B) / 255}
	a := float64(in.A) / 255

	for _, f := range c {
		switch f.Kind {
		case FilterGrayscale:
			amt := math.Min(f.Amount, 1)
			l := luminance(col)
			col = col.BlendRgb(colorful.Color{R: l, G: l, B: l}, amt)
		case FilterBrightness:
			col = colorful.Color{R: col.R * f.Amount, G: col.G * f.Amount, B: col.B * f.Amount}
		case FilterContrast:
			col = colorful.Color{
				R: (col.R-0.5)*f.Amount + 0.5,
				G: (col.G-0.5)*f.Amount + 0.5,
				B: (col.B-0.5)*f.Amount + 0.5,
			}
		case FilterInvert:
			amt := math.Min(f.Amount, 1)
			col = col.BlendRgb(colorful.Color{R: 1 - col.R, G: 1 - col.G, B: 1 - col.B}, amt)
		case FilterSepia:
			amt := math.Min(f.Amount, 1)
			sep := colorful.Color{
				R: 0.393*col.R + 0.769*col.G + 0.189*col.B,
				G: 0.349*col.R + 0.686*col.G + 0.168*col.B,
				B: 0.272*col.R + 0.534*col.G + 0.131*col.B,
			}
			col = col.BlendRgb(sep.Clamped(), amt)
		case FilterSaturate:
			h, s, l := col.Clamped().Hsl()
			col = colorful.Hsl(h, math.Min(1, s*f.Amount), l)
		case FilterHueRotate:
			h, s, l := col.Clamped().Hsl()
			col = colorful.Hsl(math.Mod(math.Mod(h+f.Amount, 360)+360, 360), s, l)
		case FilterOpacity:
			a *= math.Min(f.Amount, 1)
		}
		col = col.Clamped()
	}

	r, g, b := col.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))}
}

// luminance uses the Rec. 709 weights also used by CSS grayscale().
func luminance(c colorful.Color) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// FilterForSlot picks the chain a slot is drawn with. One chain applies to
// every slot; several chains are distributed round-robin by slot index.
func FilterForSlot(chains []FilterChain, slot int) FilterChain {
	switch len(chains) {
	case 0:
		return nil
	case 1:
		return chains[0]
	default:
		return chains[slot%len(chains)]
	}
}
