// Package filters composes a preview of a glass element over a background:
// each filter wraps an image and changes the pixels it covers, lazily, when
// the resulting image is read.
package filters

import (
	"image"
	"image/color"

	"github.com/golang/glog"
	"golang.org/x/image/draw"
)

// ImageFilter transforms an image into another of the same bounds.
type ImageFilter interface {
	Apply(image image.Image) image.Image
}

// Apply chains filters over img, in order.
func Apply(img image.Image, filters ...ImageFilter) image.Image {
	for _, filter := range filters {
		img = filter.Apply(img)
	}
	return img
}

// Render evaluates img into a new RGBA image.
func Render(img image.Image) *image.RGBA {
	glog.V(2).Infof("Render(%v)", img.Bounds())
	dst := image.NewRGBA(img.Bounds())
	draw.Copy(dst, dst.Rect.Min, img, img.Bounds(), draw.Src, nil)
	return dst
}

type filterImage struct {
	source image.Image
	atFn   func(x, y int, under color.Color) color.Color
}

// ColorModel returns the Image's color model.
func (f *filterImage) ColorModel() color.Model { return f.source.ColorModel() }

// Bounds returns the domain for which At can return non-zero color.
// The bounds do not necessarily contain the point (0, 0).
func (f *filterImage) Bounds() image.Rectangle { return f.source.Bounds() }

// At returns the color of the pixel at (x, y).
// At(Bounds().Min.X, Bounds().Min.Y) returns the upper-left pixel of the grid.
// At(Bounds().Max.X-1, Bounds().Max.Y-1) returns the lower-right one.
func (f *filterImage) At(x, y int) color.Color {
	return f.atFn(x, y, f.source.At(x, y))
}

const maxC = 1<<16 - 1

// blendOver composes over on top of under, both taken as premultiplied.
// alpha further attenuates over, in [0, 1].
func blendOver(under, over color.Color, alpha float64) color.Color {
	ur, ug, ub, ua := under.RGBA()
	or, og, ob, oa := over.RGBA()
	mix := func(u, o uint32) uint16 {
		v := float64(o)*alpha + float64(u)*(1-float64(oa)*alpha/maxC)
		if v > maxC {
			v = maxC
		}
		return uint16(v + 0.5)
	}
	return color.RGBA64{R: mix(ur, or), G: mix(ug, og), B: mix(ub, ob), A: mix(ua, oa)}
}
