// Package displacement generates displacement map images: rasters whose color
// channels encode a per-pixel offset (red: horizontal, green: vertical), used
// by a displacement filter to refract whatever is behind a glass element.
//
// Maps are produced by evaluating a FragmentFn for every texel, a software
// rendition of a fragment shader.
package displacement

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/golang/glog"
)

var (
	// ErrInvalidDimensions is returned for non-positive map dimensions. It's
	// not fatal: callers skip rendering the effect for that frame.
	ErrInvalidDimensions = errors.New("displacement: invalid map dimensions")

	// ErrDestroyed is returned when a Generator is used after Destroy.
	ErrDestroyed = errors.New("displacement: generator destroyed")
)

// Image is a generated displacement map. It's immutable once produced.
type Image struct {
	Width, Height int

	// Texels holds the map, non-premultiplied: alpha is the edge intensity.
	Texels *image.NRGBA

	// Format and Encoded hold the transportable representation of Texels.
	Format  Format
	Encoded []byte
}

// Generator owns the drawing surface on which a map is rendered. Create it
// with New, call Generate, and release it with Destroy.
//
// Generation cost grows with the number of pixels: callers should bound the
// dimensions to the rendered size of the glass element.
type Generator struct {
	size     Size
	fragment FragmentFn
	opts     options

	surface *image.NRGBA
}

type options struct {
	dpi     float64
	format  Format
	feather float64
}

// Option configures a Generator.
type Option func(*options)

// WithDPI multiplies the surface dimensions by dpi. Default is 1.
func WithDPI(dpi float64) Option {
	return func(o *options) { o.dpi = dpi }
}

// WithFormat selects the encoding of the generated image. Default is FormatPNG.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithEdgeFeather sets the width in pixels of the frame border over which the
// displacement fades out. Intensity is not affected. Default is 2, 0 disables
// it.
func WithEdgeFeather(px float64) Option {
	return func(o *options) { o.feather = px }
}

// New creates a Generator for a width x height map rendered by fragment.
func New(width, height int, fragment FragmentFn, opts ...Option) (*Generator, error) {
	g := &Generator{
		fragment: fragment,
		opts:     options{dpi: 1, format: FormatPNG, feather: 2},
	}
	for _, opt := range opts {
		opt(&g.opts)
	}
	if width <= 0 || height <= 0 || !(g.opts.dpi > 0) {
		glog.Warningf("Invalid dimensions for displacement map: %dx%d (dpi=%g)", width, height, g.opts.dpi)
		return nil, fmt.Errorf("%w: %dx%d at dpi %g", ErrInvalidDimensions, width, height, g.opts.dpi)
	}
	g.size = Size{
		Width:  int(math.Round(float64(width) * g.opts.dpi)),
		Height: int(math.Round(float64(height) * g.opts.dpi)),
	}
	if g.size.Width <= 0 || g.size.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at dpi %g rounds to %dx%d",
			ErrInvalidDimensions, width, height, g.opts.dpi, g.size.Width, g.size.Height)
	}
	if fragment == nil {
		return nil, errors.New("displacement: nil fragment function")
	}
	g.surface = image.NewNRGBA(image.Rect(0, 0, g.size.Width, g.size.Height))
	return g, nil
}

// Size returns the surface dimensions, in pixels.
func (g *Generator) Size() Size { return g.size }

// Generate renders the map and encodes it.
func (g *Generator) Generate() (*Image, error) {
	if g.surface == nil {
		return nil, ErrDestroyed
	}
	glog.V(2).Infof("displacement: generating %dx%d map", g.size.Width, g.size.Height)
	src := &fragmentImage{size: g.size, fragment: g.fragment, feather: g.opts.feather}
	for y := 0; y < g.size.Height; y++ {
		for x := 0; x < g.size.Width; x++ {
			g.surface.SetNRGBA(x, y, src.texel(x, y))
		}
	}

	texels := image.NewNRGBA(g.surface.Rect)
	copy(texels.Pix, g.surface.Pix)
	encoded, err := Encode(texels, g.opts.format)
	if err != nil {
		return nil, err
	}
	return &Image{
		Width:   g.size.Width,
		Height:  g.size.Height,
		Texels:  texels,
		Format:  g.opts.format,
		Encoded: encoded,
	}, nil
}

// Destroy releases the drawing surface. It's safe to call more than once; the
// Generator must not be used for anything else afterwards.
func (g *Generator) Destroy() {
	if g.surface == nil {
		return
	}
	glog.V(2).Infof("displacement: releasing %dx%d surface", g.size.Width, g.size.Height)
	g.surface = nil
}

// Generate is a one-shot New, Generate, Destroy.
func Generate(width, height int, fragment FragmentFn, opts ...Option) (*Image, error) {
	g, err := New(width, height, fragment, opts...)
	if err != nil {
		return nil, err
	}
	defer g.Destroy()
	return g.Generate()
}
