package renderer

import "image/color"

// Strain gradient stops. A link at rest keeps its particle color, fades to
// StrainWarn at half its break ratio and reaches StrainHot just before it
// snaps.
var (
	StrainWarn = color.RGBA{R: 255, G: 210, B: 60, A: 255}
	StrainHot  = color.RGBA{R: 230, G: 40, B: 30, A: 255}
)

// StrainColor maps a link's elongation onto the strain gradient.
// Links at or below rest length get base unchanged.
func StrainColor(elongation, maxElongation float64, base color.RGBA) color.RGBA {
	span := maxElongation - 1
	if span <= 0 || elongation <= 1 {
		return base
	}
	t := (elongation - 1) / span
	switch {
	case t >= 1:
		return StrainHot
	case t < 0.5:
		return lerpColor(base, StrainWarn, t*2)
	default:
		return lerpColor(StrainWarn, StrainHot, (t-0.5)*2)
	}
}

// lerpColor blends a toward b by t in [0, 1].
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
