package filters

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/janpfeifer/liquidglass/displacement"
)

// Border draws the rim of a rounded rectangle: the thin highlight around a
// glass element.
type Border struct {
	// Rect enclosing the rounded rectangle.
	Rect image.Rectangle

	// Radius of the corners, in pixels.
	Radius float64

	// Color of the rim.
	Color color.Color

	// Thickness of the rim, in pixels, drawn inwards from the border.
	Thickness float64

	// Opacity multiplies the alpha of Color.
	Opacity float64

	// Gradient, if set, further multiplies the alpha of Color along the
	// diagonal from the top-left to the bottom-right corner of Rect.
	Gradient []GradientStop

	// Generated by SetRect.
	center, half mgl64.Vec2
}

// NewBorder creates a new Border filter.
func NewBorder(rect image.Rectangle, radius float64, color color.Color, thickness, opacity float64) *Border {
	b := &Border{Radius: radius, Color: color, Thickness: thickness, Opacity: opacity}
	b.SetRect(rect)
	return b
}

func (b *Border) SetRect(rect image.Rectangle) {
	b.Rect = rect.Canon()
	b.center = mgl64.Vec2{
		float64(b.Rect.Min.X+b.Rect.Max.X) / 2,
		float64(b.Rect.Min.Y+b.Rect.Max.Y) / 2,
	}
	b.half = mgl64.Vec2{float64(b.Rect.Dx()) / 2, float64(b.Rect.Dy()) / 2}
}

// at is the function given to the filterImage object.
func (b *Border) at(x, y int, under color.Color) color.Color {
	if !image.Pt(x, y).In(b.Rect) {
		return under
	}
	// Pixel centers.
	p := mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}.Sub(b.center)
	d := displacement.RoundedRectSDF(p, b.half, b.Radius)
	if d > 0 || d < -b.Thickness {
		return under
	}
	alpha := b.Opacity
	if len(b.Gradient) > 0 {
		t := (p.X()+p.Y())/(2*(b.half.X()+b.half.Y())) + 0.5
		alpha *= GradientAt(b.Gradient, t)
	}
	if alpha <= 0 {
		return under
	}
	return blendOver(under, b.Color, alpha)
}

// GradientStop is a point of a linear alpha gradient. Offset is in [0, 1].
type GradientStop struct {
	Offset, Alpha float64
}

// GradientAt interpolates linearly the stops, sorted by offset, at t. Beyond
// the first and last stops the gradient is flat.
func GradientAt(stops []GradientStop, t float64) float64 {
	if len(stops) == 0 {
		return 1
	}
	if t <= stops[0].Offset {
		return stops[0].Alpha
	}
	for ii := 1; ii < len(stops); ii++ {
		s0, s1 := stops[ii-1], stops[ii]
		if t > s1.Offset {
			continue
		}
		if s1.Offset == s0.Offset {
			return s1.Alpha
		}
		f := (t - s0.Offset) / (s1.Offset - s0.Offset)
		return s0.Alpha + f*(s1.Alpha-s0.Alpha)
	}
	return stops[len(stops)-1].Alpha
}

// Apply implements the ImageFilter interface.
func (b *Border) Apply(image image.Image) image.Image {
	return &filterImage{image, b.at}
}
