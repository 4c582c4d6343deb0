// Package elastic computes the pointer-driven stretch of a glass element:
// when the pointer gets close to the element it is pulled (scaled and
// translated) towards it, fading in linearly from the border of an
// activation zone around the element.
//
// Everything here is a pure function of its inputs.
package elastic

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/glog"
)

const (
	// MinScale is the floor of ScaleX and ScaleY: elements are never
	// compressed below 80%.
	MinScale = 0.8

	// Weights of the directional stretch: the axis aligned with the pointer
	// direction grows by primaryStretch, the other shrinks by
	// secondaryStretch.
	primaryStretch   = 0.3
	secondaryStretch = 0.15

	// translationFactor is the weaker pull applied to the element position.
	translationFactor = 0.1
)

// Rect is the axis-aligned bounding box of the glass element.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the center of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Point is a pointer position, in the same coordinate space as Rect.
type Point struct {
	X, Y float64
}

// Params configures the calculator.
type Params struct {
	// Elasticity is the strength of the pointer pull, >= 0.
	Elasticity float64

	// ActivationZoneRadius is the distance from the element edges beyond which
	// there is no effect at all.
	ActivationZoneRadius float64

	// MaxCenterDistanceForFullEffect is the pointer distance from the element
	// center at which the stretch saturates.
	MaxCenterDistanceForFullEffect float64
}

// DefaultParams returns the default elasticity configuration.
func DefaultParams() Params {
	return Params{
		Elasticity:                     0.15,
		ActivationZoneRadius:           200,
		MaxCenterDistanceForFullEffect: 300,
	}
}

// Result is the transform to apply to the element: a scale around its center
// followed by a translation.
type Result struct {
	ScaleX, ScaleY         float64
	TranslateX, TranslateY float64
}

// Identity is the no-effect transform.
var Identity = Result{ScaleX: 1, ScaleY: 1}

// IsIdentity returns whether r leaves the element untouched.
func (r Result) IsIdentity() bool {
	return r == Identity
}

// String renders r as a CSS transform.
func (r Result) String() string {
	return fmt.Sprintf("translate(%.2fpx, %.2fpx) scale(%.4f, %.4f)",
		r.TranslateX, r.TranslateY, r.ScaleX, r.ScaleY)
}

// Matrix returns the homogeneous 2D matrix of r when applied to rect: scale
// around the rectangle center, then translate.
func (r Result) Matrix(rect Rect) mgl64.Mat3 {
	c := rect.Center()
	m := mgl64.Translate2D(c.X+r.TranslateX, c.Y+r.TranslateY)
	m = m.Mul3(mgl64.Scale2D(r.ScaleX, r.ScaleY))
	return m.Mul3(mgl64.Translate2D(-c.X, -c.Y))
}

// Apply returns the bounding box of rect once transformed by r.
func (r Result) Apply(rect Rect) Rect {
	m := r.Matrix(rect)
	p0 := m.Mul3x1(mgl64.Vec3{rect.X, rect.Y, 1})
	p1 := m.Mul3x1(mgl64.Vec3{rect.X + rect.Width, rect.Y + rect.Height, 1})
	return Rect{
		X:      math.Min(p0.X(), p1.X()),
		Y:      math.Min(p0.Y(), p1.Y()),
		Width:  math.Abs(p1.X() - p0.X()),
		Height: math.Abs(p1.Y() - p0.Y()),
	}
}

// EdgeDistance is the distance from p to the nearest edge of rect, zero if p
// is inside it.
func EdgeDistance(rect Rect, p Point) float64 {
	c := rect.Center()
	outside := mgl64.Vec2{
		math.Max(0, math.Abs(p.X-c.X)-rect.Width/2),
		math.Max(0, math.Abs(p.Y-c.Y)-rect.Height/2),
	}
	return outside.Len()
}

// fadeIn is 1 at the rectangle edge and 0 at the activation zone border. ok
// is false if p is outside the activation zone.
func fadeIn(rect Rect, p Point, params Params) (fade float64, ok bool) {
	if params.ActivationZoneRadius <= 0 {
		return 0, false
	}
	edgeDistance := EdgeDistance(rect, p)
	if !(edgeDistance <= params.ActivationZoneRadius) {
		// Also catches NaN geometry.
		return 0, false
	}
	return 1 - edgeDistance/params.ActivationZoneRadius, true
}

// ComputeTransform returns the elastic transform of rect for the given pointer
// position. It never fails: positions outside the activation zone, or exactly
// at the rectangle center, yield Identity.
func ComputeTransform(rect Rect, pointer Point, params Params) Result {
	fade, ok := fadeIn(rect, pointer, params)
	if !ok {
		return Identity
	}

	c := rect.Center()
	delta := mgl64.Vec2{pointer.X - c.X, pointer.Y - c.Y}
	centerDistance := delta.Len()
	if centerDistance == 0 {
		// No direction to stretch towards.
		return Identity
	}
	n := delta.Mul(1 / centerDistance)

	saturation := 1.0
	if params.MaxCenterDistanceForFullEffect > 0 {
		saturation = math.Min(centerDistance/params.MaxCenterDistanceForFullEffect, 1)
	}
	stretch := saturation * params.Elasticity * fade
	if math.IsNaN(stretch) || math.IsInf(stretch, 0) {
		return Identity
	}
	ax, ay := math.Abs(n.X()), math.Abs(n.Y())

	res := Result{
		ScaleX: math.Max(MinScale, 1+ax*stretch*primaryStretch-ay*stretch*secondaryStretch),
		ScaleY: math.Max(MinScale, 1+ay*stretch*primaryStretch-ax*stretch*secondaryStretch),
	}
	res.TranslateX, res.TranslateY = translation(rect, pointer, params)
	if math.IsNaN(res.TranslateX+res.TranslateY) || math.IsInf(res.TranslateX+res.TranslateY, 0) {
		return Identity
	}
	if glog.V(3) {
		glog.Infof("elastic: fade=%.3f stretch=%.3f -> %s", fade, stretch, res)
	}
	return res
}

// translation is the pull of the element towards the pointer. It recomputes
// its own fade-in so it can be used independently of the stretch.
func translation(rect Rect, pointer Point, params Params) (tx, ty float64) {
	fade, ok := fadeIn(rect, pointer, params)
	if !ok {
		return 0, 0
	}
	c := rect.Center()
	k := params.Elasticity * translationFactor * fade
	return (pointer.X - c.X) * k, (pointer.Y - c.Y) * k
}
