package displacement

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format of the encoded map.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

// ErrUnknownFormat is returned for formats not listed above.
var ErrUnknownFormat = errors.New("displacement: unknown image format")

var formatNames = map[Format]string{
	FormatPNG:  "png",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// MIMEType returns the media type of the format, used in data URLs.
func (f Format) MIMEType() string {
	return "image/" + f.String()
}

// Extension returns the usual file name extension, with the dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat converts a name ("png", "bmp", "tiff" or "tif") to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if name == "tif" {
		return FormatTIFF, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Encode serializes img in the given format.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("displacement: encoding %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the encoded map as a data URL, suitable as the href of an
// SVG feImage.
func (img *Image) DataURL() string {
	return "data:" + img.Format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img.Encoded)
}

// Texel returns the texel at (x, y).
func (img *Image) Texel(x, y int) (r, g, b, a uint8) {
	c := img.Texels.NRGBAAt(x, y)
	return c.R, c.G, c.B, c.A
}
