package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/golang/glog"
	"github.com/janpfeifer/liquidglass/displacement"
	"github.com/janpfeifer/liquidglass/elastic"
	"github.com/janpfeifer/liquidglass/filters"
	"github.com/janpfeifer/liquidglass/glass"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	stripeLight = color.RGBA{R: 230, G: 236, B: 245, A: 255}
	stripeDark  = color.RGBA{R: 40, G: 60, B: 110, A: 255}

	// overLightTint darkens the glass over light backgrounds.
	overLightTint = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

	// Diagonal highlights of the two rim layers.
	rimGradient = []filters.GradientStop{{Offset: 0, Alpha: 0}, {Offset: 0.33, Alpha: 0.12}, {Offset: 0.66, Alpha: 0.4}, {Offset: 1, Alpha: 0}}
	rimGlow     = []filters.GradientStop{{Offset: 0, Alpha: 0}, {Offset: 0.33, Alpha: 0.15}, {Offset: 0.66, Alpha: 0.3}, {Offset: 1, Alpha: 0}}
)

const overLightOpacity = 0.2

// loadBackground reads the preview background from path. If path is empty, it
// generates a striped background large enough to hold a glass element of
// glassW x glassH with room around it.
func loadBackground(path string, glassW, glassH int) (*image.RGBA, error) {
	if path == "" {
		return stripedBackground(2*glassW, 3*glassH), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, kind, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	glog.V(1).Infof("Background %s: %s, %v", path, kind, img.Bounds())

	// Rebase to (0, 0).
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Rect, img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// stripedBackground draws diagonal stripes, which make refraction visible.
func stripedBackground(w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, image.NewUniform(stripeDark), image.Point{}, draw.Src)
	const period = 24
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%period < period/2 {
				img.SetRGBA(x, y, stripeLight)
			}
		}
	}
	return img
}

// centeredRect returns a w x h rectangle centered in bounds.
func centeredRect(bounds image.Rectangle, w, h int) elastic.Rect {
	return elastic.Rect{
		X:      float64(bounds.Min.X) + float64(bounds.Dx()-w)/2,
		Y:      float64(bounds.Min.Y) + float64(bounds.Dy()-h)/2,
		Width:  float64(w),
		Height: float64(h),
	}
}

// toImageRect rounds r to integer pixel coordinates.
func toImageRect(r elastic.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)))
}

// renderPreview composes the glass element, placed at placed, over bg.
func renderPreview(bg *image.RGBA, placed elastic.Rect, mapImg *displacement.Image, cfg glass.Config,
	label string, labelSize float64) (*image.RGBA, error) {
	rect := toImageRect(placed)
	radius := cfg.Radius(placed.Width, placed.Height)
	chain := []filters.ImageFilter{filters.NewRefract(rect, mapImg.Texels, cfg.FilterParams())}
	if cfg.OverLight {
		chain = append(chain, filters.NewTint(rect, radius, overLightTint, overLightOpacity))
	}
	rim := filters.NewBorder(rect, radius, color.White, 1.5, 0.2)
	rim.Gradient = rimGradient
	glow := filters.NewBorder(rect, radius, color.White, 1.5, 1)
	glow.Gradient = rimGlow
	chain = append(chain, rim, glow, filters.NewBorder(rect, radius, color.White, 1.5, 0.5))
	if label != "" {
		textColor := color.Color(color.White)
		if cfg.OverLight {
			textColor = color.Black
		}
		center := rect.Min.Add(rect.Max).Div(2)
		l, err := filters.NewLabel(label, center, textColor, labelSize)
		if err != nil {
			return nil, err
		}
		chain = append(chain, l)
	}
	return filters.Render(filters.Apply(bg, chain...)), nil
}
