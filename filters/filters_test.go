package filters

import (
	"image"
	"image/color"
	"testing"

	"github.com/janpfeifer/liquidglass/glass"
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for ii := 0; ii < len(img.Pix); ii += 4 {
		r, g, b, a := c.RGBA()
		img.Pix[ii], img.Pix[ii+1], img.Pix[ii+2], img.Pix[ii+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	}
	return img
}

// stripes returns an image with vertical stripes: white on even columns.
func stripes(w, h int) *image.RGBA {
	img := uniform(w, h, black)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x += 2 {
			img.SetRGBA(x, y, white)
		}
	}
	return img
}

func flatMap(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func rgba8(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRefract(t *testing.T) {
	bg := stripes(20, 10)
	rect := image.Rect(5, 2, 15, 8)
	params := glass.FilterParams{RedScale: 2, GreenScale: 2, BlueScale: 2}

	// Displacement of +0.5 (R=255) times scale 2 shifts sampling one pixel
	// to the right: stripes flip inside the glass.
	m := flatMap(4, 4, color.NRGBA{R: 255, G: 128, B: 128, A: 255})
	out := Render(Apply(bg, NewRefract(rect, m, params)))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			want := rgba8(bg.At(x, y))
			if image.Pt(x, y).In(rect) {
				want = rgba8(bg.At(x+1, y))
			}
			if got := out.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d)=%v, wanted %v", x, y, got, want)
			}
		}
	}

	// Transparent map: no change at all.
	m = flatMap(4, 4, color.NRGBA{R: 255, G: 0, B: 128, A: 0})
	out = Render(Apply(bg, NewRefract(rect, m, params)))
	for ii := range bg.Pix {
		if out.Pix[ii] != bg.Pix[ii] {
			t.Fatalf("transparent map changed the image at byte %d", ii)
		}
	}
}

func TestRefractAberration(t *testing.T) {
	bg := stripes(20, 10)
	rect := image.Rect(4, 0, 16, 10)
	// Red displaced by one pixel, green and blue not displaced.
	params := glass.FilterParams{RedScale: 2, GreenScale: 0, BlueScale: 0}
	m := flatMap(1, 1, color.NRGBA{R: 255, G: 128, B: 128, A: 255})
	out := Render(Apply(bg, NewRefract(rect, m, params)))
	got := out.RGBAAt(6, 5) // White column, red comes from the black one.
	if got.R != 0 || got.G != 255 || got.B != 255 {
		t.Errorf("pixel (6, 5)=%v, wanted cyan", got)
	}
}

func TestBorder(t *testing.T) {
	bg := uniform(40, 20, black)
	rect := image.Rect(10, 5, 30, 15)
	out := Render(Apply(bg, NewBorder(rect, 3, white, 1.5, 1)))

	tests := []struct {
		p    image.Point
		want color.RGBA
	}{
		{image.Pt(20, 5), white},  // Top rim.
		{image.Pt(10, 10), white}, // Left rim.
		{image.Pt(20, 10), black}, // Inside.
		{image.Pt(10, 5), black},  // Rounded corner: outside the shape.
		{image.Pt(5, 5), black},   // Outside the rect.
	}
	for _, tc := range tests {
		if got := out.RGBAAt(tc.p.X, tc.p.Y); got != tc.want {
			t.Errorf("pixel %v=%v, wanted %v", tc.p, got, tc.want)
		}
	}

	// Half opacity.
	out = Render(Apply(bg, NewBorder(rect, 3, white, 1.5, 0.5)))
	if got := out.RGBAAt(20, 5); got.R < 126 || got.R > 129 || got.A != 255 {
		t.Errorf("half opacity rim=%v", got)
	}
}

func TestLabel(t *testing.T) {
	bg := uniform(200, 60, black)
	l, err := NewLabel("Glass", image.Pt(100, 30), white, 16)
	if err != nil {
		t.Fatalf("NewLabel failed: %v", err)
	}
	if !l.rect.In(bg.Bounds()) || l.rect.Empty() {
		t.Fatalf("label rect %v not inside %v", l.rect, bg.Bounds())
	}
	if c := l.rect.Min.Add(l.rect.Max).Div(2); c.Sub(l.Center).X > 1 || c.Sub(l.Center).Y > 1 {
		t.Errorf("label rect %v not centered on %v", l.rect, l.Center)
	}
	out := Render(Apply(bg, l))
	var lit int
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if out.RGBAAt(x, y).R > 0 {
				lit++
				if !image.Pt(x, y).In(l.rect) {
					t.Fatalf("text pixel (%d, %d) outside label rect %v", x, y, l.rect)
				}
			}
		}
	}
	if lit == 0 {
		t.Fatalf("no text rendered")
	}
}

func TestGradientAt(t *testing.T) {
	stops := []GradientStop{{0, 0}, {0.33, 0.12}, {0.66, 0.4}, {1, 0}}
	tests := []struct{ t, want float64 }{
		{-1, 0},
		{0, 0},
		{0.165, 0.06},
		{0.66, 0.4},
		{0.83, 0.2},
		{2, 0},
	}
	for _, tc := range tests {
		if got := GradientAt(stops, tc.t); got < tc.want-1e-9 || got > tc.want+1e-9 {
			t.Errorf("GradientAt(%g)=%g, wanted %g", tc.t, got, tc.want)
		}
	}
	if got := GradientAt(nil, 0.5); got != 1 {
		t.Errorf("GradientAt without stops=%g, wanted 1", got)
	}
}

func TestBorderGradient(t *testing.T) {
	bg := uniform(40, 20, black)
	rect := image.Rect(10, 5, 30, 15)
	b := NewBorder(rect, 3, white, 1.5, 1)
	b.Gradient = []GradientStop{{0, 0}, {0.5, 1}, {1, 0}}
	out := Render(Apply(bg, b))

	// Top rim sits at 37% of the diagonal, left rim at 20%.
	if got := out.RGBAAt(20, 5).R; got < 185 || got > 189 {
		t.Errorf("top rim R=%d, wanted ~187", got)
	}
	if got := out.RGBAAt(10, 10).R; got < 100 || got > 104 {
		t.Errorf("left rim R=%d, wanted ~102", got)
	}
	if got := out.RGBAAt(20, 10); got != black {
		t.Errorf("inside=%v, wanted untouched", got)
	}
}

func TestTint(t *testing.T) {
	bg := uniform(40, 20, white)
	rect := image.Rect(10, 5, 30, 15)
	out := Render(Apply(bg, NewTint(rect, 3, color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}, 0.2)))

	if got := out.RGBAAt(20, 10); got.R < 207 || got.R > 209 || got.R != got.B || got.A != 255 {
		t.Errorf("tinted pixel=%v, wanted ~208 gray", got)
	}
	for _, p := range []image.Point{{10, 5}, {5, 5}, {35, 18}} {
		if got := out.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("pixel %v=%v, wanted untouched", p, got)
		}
	}
}
