package filters

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/janpfeifer/liquidglass/displacement"
)

// Tint covers the inside of a rounded rectangle with a translucent color. It
// darkens glass shown over light backgrounds.
type Tint struct {
	Rect    image.Rectangle
	Radius  float64
	Color   color.Color
	Opacity float64
}

// NewTint creates a new Tint filter.
func NewTint(rect image.Rectangle, radius float64, color color.Color, opacity float64) *Tint {
	return &Tint{Rect: rect.Canon(), Radius: radius, Color: color, Opacity: opacity}
}

func (t *Tint) at(x, y int, under color.Color) color.Color {
	if !image.Pt(x, y).In(t.Rect) {
		return under
	}
	center := mgl64.Vec2{float64(t.Rect.Min.X+t.Rect.Max.X) / 2, float64(t.Rect.Min.Y+t.Rect.Max.Y) / 2}
	half := mgl64.Vec2{float64(t.Rect.Dx()) / 2, float64(t.Rect.Dy()) / 2}
	p := mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}.Sub(center)
	if displacement.RoundedRectSDF(p, half, t.Radius) > 0 {
		return under
	}
	return blendOver(under, t.Color, t.Opacity)
}

// Apply implements the ImageFilter interface.
func (t *Tint) Apply(image image.Image) image.Image {
	return &filterImage{image, t.at}
}
