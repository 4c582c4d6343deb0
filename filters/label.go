package filters

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"github.com/golang/glog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"
)

// DPI constant. Ideally it would be read from the system.
const DPI = 96

// Label draws text centered on a point: the content of the glass element,
// which stays sharp on top of the refraction.
type Label struct {
	// Text to render.
	Text string

	// Center (horizontal and vertical) where to draw the text.
	Center image.Point

	// Color of the text.
	Color color.Color

	// Font size, in points.
	Size float64

	// Rectangle enclosing text.
	rect image.Rectangle

	// Coverage of the rendered text.
	mask *image.Alpha
}

// NewLabel creates a new Label filter.
func NewLabel(text string, center image.Point, color color.Color, size float64) (*Label, error) {
	l := &Label{
		Center: center,
		Color:  color,
		Size:   size}
	if err := l.SetText(text); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Label) SetText(text string) error {
	l.Text = text
	goboldFont, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse gobold font: %w", err)
	}
	d := &font.Drawer{
		Src: image.Opaque,
		Face: truetype.NewFace(goboldFont, &truetype.Options{
			Size:       l.Size,
			DPI:        DPI,
			Hinting:    font.HintingFull,
			SubPixelsX: 8,
			SubPixelsY: 8,
		}),
	}
	metrics := d.Face.Metrics()
	d.Dot = fixed.Point26_6{X: 0, Y: metrics.Ascent}

	boundingRect, _ := d.BoundString(text)
	w := boundingRect.Max.X.Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	l.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = l.mask
	d.DrawString(text)
	normalizeAlpha(l.mask)

	cx, cy := l.Center.X, l.Center.Y
	l.rect = image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
	glog.V(2).Infof("Label %q: %v", text, l.rect)
	return nil
}

// normalizeAlpha stretches the coverage so that its maximum is opaque.
func normalizeAlpha(img *image.Alpha) {
	var maxAlpha uint8
	for _, alpha := range img.Pix {
		if alpha > maxAlpha {
			maxAlpha = alpha
		}
	}
	if maxAlpha == 0 {
		return
	}
	const M = 1<<8 - 1
	maxAlpha16 := uint16(maxAlpha)
	for ii := range img.Pix {
		img.Pix[ii] = uint8(uint16(img.Pix[ii]) * M / maxAlpha16)
	}
}

// at is the function given to the filterImage object.
func (l *Label) at(x, y int, under color.Color) color.Color {
	if !image.Pt(x, y).In(l.rect) {
		return under
	}
	coverage := l.mask.AlphaAt(x-l.rect.Min.X, y-l.rect.Min.Y).A
	if coverage == 0 {
		return under
	}
	return blendOver(under, l.Color, float64(coverage)/255)
}

// Apply implements the ImageFilter interface.
func (l *Label) Apply(image image.Image) image.Image {
	return &filterImage{image, l.at}
}
