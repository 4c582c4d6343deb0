package displacement

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Size of the map being generated, in pixels.
type Size struct {
	Width, Height int
}

// Sample is the output of a FragmentFn for one texel.
type Sample struct {
	// DX, DY are the horizontal and vertical displacement, nominally in
	// [-1, 1]. Values outside are clamped when encoded.
	DX, DY float64

	// Intensity is the edge/alpha value, nominally in [0, 1].
	Intensity float64
}

// FragmentFn maps normalized coordinates (u, v) in [0,1]x[0,1] to the
// displacement of that texel. It must be a pure function.
type FragmentFn func(u, v float64, size Size) Sample

// Channel encoding.
const (
	// BlueNeutral is the fixed blue channel value: the neutral reference
	// plane of the map.
	BlueNeutral = 128

	// channelScale maps a displacement in [-1, 1] to [0, 255].
	channelScale = 127.5
)

func clamp255(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// EncodeDisplacement maps a signed displacement to a color channel value.
func EncodeDisplacement(d float64) uint8 {
	return clamp255(channelScale + d*channelScale)
}

// DecodeDisplacement is the inverse of EncodeDisplacement, up to quantization.
func DecodeDisplacement(c uint8) float64 {
	return (float64(c) - channelScale) / channelScale
}

// EncodeIntensity maps an intensity in [0, 1] to an alpha value.
func EncodeIntensity(intensity float64) uint8 {
	return clamp255(intensity * 255)
}

// fragmentImage is an image.Image whose pixels are computed on demand by a
// FragmentFn.
type fragmentImage struct {
	size     Size
	fragment FragmentFn

	// feather is the width in pixels of the frame border over which the
	// displacement (not the intensity) fades to zero.
	feather float64
}

// Lazy returns an image whose texels are computed by fragment when read, with
// no edge feathering. Each At call evaluates the fragment: rasterize it with a
// Generator if it's going to be read more than once.
func Lazy(size Size, fragment FragmentFn) image.Image {
	return &fragmentImage{size: size, fragment: fragment}
}

// ColorModel implements image.Image.
func (f *fragmentImage) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (f *fragmentImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.size.Width, f.size.Height)
}

// At implements image.Image.
func (f *fragmentImage) At(x, y int) color.Color { return f.texel(x, y) }

// texel computes the pixel at (x, y). It is non-premultiplied: the alpha
// channel carries the intensity, not coverage.
func (f *fragmentImage) texel(x, y int) color.NRGBA {
	u := float64(x) / float64(f.size.Width)
	v := float64(y) / float64(f.size.Height)
	s := f.fragment(u, v, f.size)

	if f.feather > 0 {
		edge := math.Min(
			math.Min(float64(x), float64(y)),
			math.Min(float64(f.size.Width-x-1), float64(f.size.Height-y-1)))
		factor := math.Min(1, edge/f.feather)
		s.DX *= factor
		s.DY *= factor
	}
	return color.NRGBA{
		R: EncodeDisplacement(s.DX),
		G: EncodeDisplacement(s.DY),
		B: BlueNeutral,
		A: EncodeIntensity(s.Intensity),
	}
}

// RoundedRect is a fragment producing a lens-like refraction concentrated on
// the border of a rounded rectangle centered in the map.
//
// Lengths are in units of the smaller side of the map, so a non-square map
// keeps circular corners and a constant band width in pixels.
type RoundedRect struct {
	// Inset is the distance from the map frame to the rectangle.
	Inset float64

	// Radius of the corners. It is clamped to half the rectangle's smaller
	// side, so a large value gives a pill.
	Radius float64

	// Band is the distance from the rectangle border over which the intensity
	// falls from 1 to 0, both inwards and outwards.
	Band float64

	// FrameBand is the distance from the map frame over which the intensity
	// rises from 0.
	FrameBand float64

	// Inward flips the encoded displacement so it points into the shape. Maps
	// built this way are read with a negative scale.
	Inward bool
}

// DefaultRoundedRect is the shape used by LiquidGlass.
var DefaultRoundedRect = RoundedRect{
	Inset:     0.1,
	Radius:    0.5,
	Band:      0.15,
	FrameBand: 0.08,
}

// StandardRoundedRect is the shape used by Standard: a thin rim hugging the
// frame.
var StandardRoundedRect = RoundedRect{
	Inset:     0.05,
	Radius:    0.5,
	Band:      0.1,
	FrameBand: 0.04,
	Inward:    true,
}

// ProminentRoundedRect is the shape used by Prominent: a wide band reaching
// deep into the glass.
var ProminentRoundedRect = RoundedRect{
	Inset:     0.1,
	Radius:    0.5,
	Band:      0.3,
	FrameBand: 0.08,
	Inward:    true,
}

// LiquidGlass is the bundled fragment: DefaultRoundedRect.Fragment.
func LiquidGlass(u, v float64, size Size) Sample {
	return DefaultRoundedRect.Fragment(u, v, size)
}

// Standard is StandardRoundedRect.Fragment.
func Standard(u, v float64, size Size) Sample {
	return StandardRoundedRect.Fragment(u, v, size)
}

// Prominent is ProminentRoundedRect.Fragment.
func Prominent(u, v float64, size Size) Sample {
	return ProminentRoundedRect.Fragment(u, v, size)
}

// Polar is a fragment displacing radially from the center of the map, with
// the strength growing towards the frame. Displacement points inwards, like
// Standard.
func Polar(u, v float64, size Size) Sample {
	p, frame := aspectSpace(u, v, size)
	r := p.Len() / frame.Len()
	intensity := SmoothStep(0.3, 1, r) * SmoothStep(0, 0.08, frameDistance(p, frame))
	if intensity == 0 || p.Len() == 0 {
		return Sample{}
	}
	n := p.Normalize().Mul(-intensity)
	return Sample{DX: n.X(), DY: n.Y(), Intensity: intensity}
}

// aspectSpace maps (u, v) to coordinates centered in the map and measured in
// units of its smaller side. It also returns the half size of the map in the
// same units. An empty size is taken as square.
func aspectSpace(u, v float64, size Size) (p, frame mgl64.Vec2) {
	w, h := float64(size.Width), float64(size.Height)
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	m := math.Min(w, h)
	frame = mgl64.Vec2{w / (2 * m), h / (2 * m)}
	return mgl64.Vec2{(u - 0.5) * 2 * frame.X(), (v - 0.5) * 2 * frame.Y()}, frame
}

// frameDistance is the distance from p to the closest side of the frame.
func frameDistance(p, frame mgl64.Vec2) float64 {
	return math.Min(frame.X()-math.Abs(p.X()), frame.Y()-math.Abs(p.Y()))
}

// gradientStep is the finite difference step used to estimate the SDF normal.
const gradientStep = 1e-4

// Fragment implements FragmentFn.
func (r RoundedRect) Fragment(u, v float64, size Size) Sample {
	p, frame := aspectSpace(u, v, size)
	half := mgl64.Vec2{frame.X() - r.Inset, frame.Y() - r.Inset}
	d := RoundedRectSDF(p, half, r.Radius)

	intensity := 1 - SmoothStep(0, r.Band, math.Abs(d))
	intensity *= SmoothStep(0, r.FrameBand, frameDistance(p, frame))
	if intensity == 0 {
		return Sample{}
	}

	// Outward normal: the gradient of the distance field.
	ex, ey := mgl64.Vec2{gradientStep, 0}, mgl64.Vec2{0, gradientStep}
	grad := mgl64.Vec2{
		RoundedRectSDF(p.Add(ex), half, r.Radius) - RoundedRectSDF(p.Sub(ex), half, r.Radius),
		RoundedRectSDF(p.Add(ey), half, r.Radius) - RoundedRectSDF(p.Sub(ey), half, r.Radius),
	}
	if grad.Len() == 0 {
		return Sample{Intensity: intensity}
	}
	n := grad.Normalize().Mul(intensity)
	if r.Inward {
		n = n.Mul(-1)
	}
	return Sample{DX: n.X(), DY: n.Y(), Intensity: intensity}
}

// RoundedRectSDF is the signed distance from p to a rounded rectangle centered
// at the origin with the given half size and corner radius: negative inside,
// positive outside.
func RoundedRectSDF(p, half mgl64.Vec2, radius float64) float64 {
	radius = math.Max(0, math.Min(radius, math.Min(half.X(), half.Y())))
	qx := math.Abs(p.X()) - half.X() + radius
	qy := math.Abs(p.Y()) - half.Y() + radius
	outside := mgl64.Vec2{math.Max(qx, 0), math.Max(qy, 0)}
	return math.Min(math.Max(qx, qy), 0) + outside.Len() - radius
}

// SmoothStep is the cubic Hermite interpolation between edge0 and edge1. It
// also accepts edge0 > edge1, for a descending ramp.
func SmoothStep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := math.Max(0, math.Min(1, (x-edge0)/(edge1-edge0)))
	return t * t * (3 - 2*t)
}
