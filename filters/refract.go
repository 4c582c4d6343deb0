package filters

import (
	"image"
	"image/color"
	"math"

	"github.com/janpfeifer/liquidglass/glass"
)

// Refract displaces the pixels under a glass element according to a
// displacement map, with a different displacement scale for each color
// channel (chromatic aberration). The displaced result is mixed with the
// untouched image by the alpha channel of the map, so only the edges of the
// glass are distorted.
type Refract struct {
	// Rect where the glass is placed. The map is stretched over it.
	Rect image.Rectangle

	// Map is the displacement map: red is the horizontal offset, green the
	// vertical one, alpha the edge mask. Read as non-premultiplied.
	Map image.Image

	// Params give the per-channel displacement scales.
	Params glass.FilterParams
}

// NewRefract creates a Refract filter.
func NewRefract(rect image.Rectangle, displacementMap image.Image, params glass.FilterParams) *Refract {
	return &Refract{Rect: rect, Map: displacementMap, Params: params}
}

// mapTexel returns the map texel covering (x, y).
func (r *Refract) mapTexel(x, y int) color.NRGBA {
	mb := r.Map.Bounds()
	mx := mb.Min.X + (x-r.Rect.Min.X)*mb.Dx()/r.Rect.Dx()
	my := mb.Min.Y + (y-r.Rect.Min.Y)*mb.Dy()/r.Rect.Dy()
	return color.NRGBAModel.Convert(r.Map.At(mx, my)).(color.NRGBA)
}

// sample reads img at the nearest pixel of (fx, fy), clamped to its bounds.
func sample(img image.Image, fx, fy float64) (r, g, b, a uint32) {
	bounds := img.Bounds()
	x := int(math.Floor(fx + 0.5))
	y := int(math.Floor(fy + 0.5))
	if x < bounds.Min.X {
		x = bounds.Min.X
	} else if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	} else if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	return img.At(x, y).RGBA()
}

// at is the function given to the filterImage object.
func (r *Refract) at(source image.Image, x, y int, under color.Color) color.Color {
	if !image.Pt(x, y).In(r.Rect) {
		return under
	}
	texel := r.mapTexel(x, y)
	if texel.A == 0 {
		return under
	}
	dx := float64(texel.R)/255 - 0.5
	dy := float64(texel.G)/255 - 0.5
	fx, fy := float64(x), float64(y)

	red, _, _, _ := sample(source, fx+r.Params.RedScale*dx, fy+r.Params.RedScale*dy)
	_, green, _, _ := sample(source, fx+r.Params.GreenScale*dx, fy+r.Params.GreenScale*dy)
	_, _, blue, alpha := sample(source, fx+r.Params.BlueScale*dx, fy+r.Params.BlueScale*dy)
	aberrated := color.RGBA64{R: uint16(red), G: uint16(green), B: uint16(blue), A: uint16(alpha)}

	mask := float64(texel.A) / 255
	ur, ug, ub, ua := under.RGBA()
	mix := func(u uint32, d uint16) uint16 {
		return uint16(float64(d)*mask + float64(u)*(1-mask) + 0.5)
	}
	return color.RGBA64{
		R: mix(ur, aberrated.R),
		G: mix(ug, aberrated.G),
		B: mix(ub, aberrated.B),
		A: mix(ua, aberrated.A),
	}
}

// Apply implements the ImageFilter interface.
func (r *Refract) Apply(source image.Image) image.Image {
	if r.Rect.Empty() {
		return source
	}
	return &filterImage{source, func(x, y int, under color.Color) color.Color {
		return r.at(source, x, y, under)
	}}
}
