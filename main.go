// liquidglass generates the displacement map of a liquid glass element,
// prints the elastic transform for a pointer position and, optionally,
// renders a preview of the glass over a background image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/janpfeifer/liquidglass/displacement"
	"github.com/janpfeifer/liquidglass/elastic"
	"github.com/janpfeifer/liquidglass/glass"
)

var (
	flagWidth  = flag.Int("width", 320, "Width of the glass element, in pixels.")
	flagHeight = flag.Int("height", 96, "Height of the glass element, in pixels.")
	flagDPI    = flag.Float64("dpi", 1, "Resolution multiplier of the displacement map.")
	flagFormat = flag.String("format", "png", "Encoding of the displacement map: png, bmp or tiff.")
	flagMapOut = flag.String("map_out", "", "File where to save the displacement map.")
	flagURL    = flag.Bool("data_url", false, "Print the displacement map as a data URL.")

	flagPointer = flag.String("pointer", "", "Pointer position \"x,y\", in background coordinates. "+
		"If set, the elastic transform of the glass is printed and applied to the preview.")
	flagMode       = flag.String("mode", "shader", "Displacement mode: standard, polar, prominent or shader. "+
		"Each mode generates its own map.")
	flagElasticity = flag.Float64("elasticity", glass.DefaultConfig().Elasticity, "Strength of the pointer pull.")
	flagScale      = flag.Float64("displacement_scale", glass.DefaultConfig().DisplacementScale,
		"Maximum displacement, in pixels.")
	flagAberration = flag.Float64("aberration", glass.DefaultConfig().AberrationIntensity,
		"Chromatic aberration intensity.")
	flagRadius    = flag.Float64("corner_radius", glass.DefaultConfig().CornerRadius, "Corner radius, in pixels.")
	flagOverLight = flag.Bool("over_light", false, "Glass is over a light background.")
	flagContainer = flag.Bool("container", false, "Start from the reduced, non elastic, container configuration.")

	flagBackground = flag.String("background", "", "Background image for the preview. "+
		"If empty a striped background is generated.")
	flagOut       = flag.String("out", "", "File where to save the preview (png, bmp or tiff).")
	flagLabel     = flag.String("label", "", "Text drawn on the glass in the preview.")
	flagLabelSize = flag.Float64("label_size", 16, "Font size of the label, in points.")
)

// configFromFlags builds the glass configuration from the command line.
func configFromFlags() (glass.Config, error) {
	cfg := glass.DefaultConfig()
	if *flagContainer {
		cfg = glass.ContainerConfig()
	}
	var err error
	cfg.Mode, err = glass.ParseMode(*flagMode)
	if err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "elasticity":
			cfg.Elasticity = *flagElasticity
		case "displacement_scale":
			cfg.DisplacementScale = *flagScale
		case "aberration":
			cfg.AberrationIntensity = *flagAberration
		case "corner_radius":
			cfg.CornerRadius = *flagRadius
		}
	})
	cfg.OverLight = *flagOverLight
	return cfg, cfg.Validate()
}

// parsePoint parses "x,y".
func parsePoint(s string) (elastic.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return elastic.Point{}, fmt.Errorf("invalid point %q, expected \"x,y\"", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return elastic.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return elastic.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return elastic.Point{X: x, Y: y}, nil
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := configFromFlags()
	if err != nil {
		glog.Fatalf("Invalid configuration: %v", err)
	}
	format, err := displacement.ParseFormat(*flagFormat)
	if err != nil {
		glog.Fatalf("Invalid -format: %v", err)
	}

	bg, err := loadBackground(*flagBackground, *flagWidth, *flagHeight)
	if err != nil {
		glog.Fatalf("Failed to load background: %v", err)
	}
	rect := centeredRect(bg.Bounds(), *flagWidth, *flagHeight)

	transform := elastic.Identity
	if *flagPointer != "" {
		pointer, err := parsePoint(*flagPointer)
		if err != nil {
			glog.Fatalf("Invalid -pointer: %v", err)
		}
		transform = elastic.ComputeTransform(rect, pointer, cfg.ElasticityParams())
		fmt.Printf("transform: %s\n", transform)
	}
	placed := transform.Apply(rect)
	glog.V(1).Infof("Glass placed at %+v", placed)

	mapImg, err := displacement.Generate(
		int(math.Round(placed.Width)), int(math.Round(placed.Height)),
		cfg.Mode.Fragment(),
		displacement.WithDPI(*flagDPI), displacement.WithFormat(format))
	if errors.Is(err, displacement.ErrInvalidDimensions) {
		// Nothing to render, as a UI skipping the effect for this frame.
		glog.Warningf("Displacement map not generated: %v", err)
		return
	} else if err != nil {
		glog.Fatalf("Failed to generate displacement map: %v", err)
	}
	fmt.Printf("map: %dx%d %s, %d bytes\n", mapImg.Width, mapImg.Height, mapImg.Format, len(mapImg.Encoded))
	params := cfg.FilterParams()
	fmt.Printf("filter: mode=%s scales(r,g,b)=(%.2f, %.2f, %.2f) edge_mask_stop=%.0f%% "+
		"aberration_blur=%.2f backdrop=blur(%.1fpx) saturate(%.0f%%)\n",
		cfg.Mode, params.RedScale, params.GreenScale, params.BlueScale, params.EdgeMaskStop,
		params.AberrationBlur, params.BackdropBlur, params.Saturation)

	if *flagURL {
		fmt.Println(mapImg.DataURL())
	}
	if *flagMapOut != "" {
		if err := os.WriteFile(*flagMapOut, mapImg.Encoded, 0644); err != nil {
			glog.Fatalf("Failed to save displacement map: %v", err)
		}
		glog.Infof("Displacement map saved to %s", *flagMapOut)
	}

	if *flagOut != "" {
		if err := savePreview(*flagOut, bg, placed, mapImg, cfg); err != nil {
			glog.Fatalf("Failed to save preview: %v", err)
		}
		glog.Infof("Preview saved to %s", *flagOut)
	}
}

// savePreview renders the preview and writes it to path, encoded according to
// the file extension.
func savePreview(path string, bg *image.RGBA, placed elastic.Rect, mapImg *displacement.Image, cfg glass.Config) error {
	format, err := displacement.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	preview, err := renderPreview(bg, placed, mapImg, cfg, *flagLabel, *flagLabelSize)
	if err != nil {
		return err
	}
	encoded, err := displacement.Encode(preview, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0644)
}
