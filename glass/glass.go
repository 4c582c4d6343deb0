// Package glass holds the configuration of a liquid glass element and the
// parameters derived from it for the filter compositing stage: per-channel
// displacement scales for the chromatic aberration, edge mask, and blur.
package glass

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/janpfeifer/liquidglass/displacement"
	"github.com/janpfeifer/liquidglass/elastic"
)

// Mode selects the displacement map used by the filter.
type Mode int

const (
	// Standard, Polar and Prominent use maps encoding an inward
	// displacement, read with a negative scale.
	Standard Mode = iota
	Polar
	Prominent
	// Shader uses the outward LiquidGlass map.
	Shader
)

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("glass: invalid mode")

var modeNames = []string{"standard", "polar", "prominent", "shader"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Fragment returns the fragment generating the displacement map of mode m.
func (m Mode) Fragment() displacement.FragmentFn {
	switch m {
	case Polar:
		return displacement.Polar
	case Prominent:
		return displacement.Prominent
	case Shader:
		return displacement.LiquidGlass
	default:
		return displacement.Standard
	}
}

// ParseMode converts a mode name to a Mode. Empty defaults to Standard.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Standard, nil
	}
	for ii, n := range modeNames {
		if n == name {
			return Mode(ii), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Config of a glass element.
type Config struct {
	// DisplacementScale is the maximum displacement, in pixels.
	DisplacementScale float64

	// BlurAmount of the backdrop.
	BlurAmount float64

	// Saturation of the backdrop, in percent.
	Saturation float64

	// AberrationIntensity controls the spread between color channels.
	AberrationIntensity float64

	// Elasticity of the pointer response; zero disables it.
	Elasticity float64

	// CornerRadius in pixels; clamped to half the smaller side when drawn.
	CornerRadius float64

	// OverLight is set when the glass sits on a light background.
	OverLight bool

	Mode Mode
}

// DefaultConfig returns the configuration of the full, elastic, glass element.
func DefaultConfig() Config {
	return Config{
		DisplacementScale:   70,
		BlurAmount:          0.0625,
		Saturation:          140,
		AberrationIntensity: 2,
		Elasticity:          0.15,
		CornerRadius:        999,
		Mode:                Standard,
	}
}

// ContainerConfig returns the reduced configuration of a bare glass container:
// no elasticity, weaker displacement, stronger blur.
func ContainerConfig() Config {
	return Config{
		DisplacementScale:   25,
		BlurAmount:          12,
		Saturation:          180,
		AberrationIntensity: 2,
		CornerRadius:        999,
		Mode:                Standard,
	}
}

// Validate checks that the configuration values are in range.
func (c Config) Validate() error {
	switch {
	case c.DisplacementScale < 0:
		return fmt.Errorf("glass: negative displacement scale %g", c.DisplacementScale)
	case c.BlurAmount < 0:
		return fmt.Errorf("glass: negative blur amount %g", c.BlurAmount)
	case c.Saturation < 0:
		return fmt.Errorf("glass: negative saturation %g", c.Saturation)
	case c.AberrationIntensity < 0:
		return fmt.Errorf("glass: negative aberration intensity %g", c.AberrationIntensity)
	case c.Elasticity < 0:
		return fmt.Errorf("glass: negative elasticity %g", c.Elasticity)
	case c.CornerRadius < 0:
		return fmt.Errorf("glass: negative corner radius %g", c.CornerRadius)
	case c.Mode < Standard || c.Mode > Shader:
		return fmt.Errorf("%w: %s", ErrInvalidMode, c.Mode)
	}
	return nil
}

// ElasticityParams returns the pointer response parameters for this glass.
func (c Config) ElasticityParams() elastic.Params {
	p := elastic.DefaultParams()
	p.Elasticity = c.Elasticity
	return p
}

// Radius returns the corner radius for a width x height element.
func (c Config) Radius(width, height float64) float64 {
	return math.Max(0, math.Min(c.CornerRadius, math.Min(width, height)/2))
}

// FilterParams are the values feeding the displacement filter.
type FilterParams struct {
	// RedScale, GreenScale and BlueScale are the displacement scales of each
	// color channel. They differ by the aberration.
	RedScale, GreenScale, BlueScale float64

	// EdgeMaskStop is the offset, in percent, of the radial gradient stop
	// where the edge mask starts.
	EdgeMaskStop float64

	// EdgeMaskTable is the discrete alpha transfer table of the edge mask.
	EdgeMaskTable [3]float64

	// AberrationBlur is the standard deviation of the blur softening the
	// aberration.
	AberrationBlur float64

	// BackdropBlur is the blur radius of the backdrop, in pixels.
	BackdropBlur float64

	// Saturation of the backdrop, in percent.
	Saturation float64
}

// FilterParams derives the filter values from c.
func (c Config) FilterParams() FilterParams {
	scale := c.DisplacementScale
	if c.OverLight {
		scale *= 0.5
	}
	// Only the Shader map encodes an outward displacement.
	sign := -1.0
	if c.Mode == Shader {
		sign = 1
	}
	ab := c.AberrationIntensity
	backdrop := 4.0
	if c.OverLight {
		backdrop = 12
	}
	return FilterParams{
		RedScale:       scale * sign,
		GreenScale:     scale * (sign - ab*0.05),
		BlueScale:      scale * (sign - ab*0.1),
		EdgeMaskStop:   math.Max(30, 80-ab*2),
		EdgeMaskTable:  [3]float64{0, ab * 0.05, 1},
		AberrationBlur: math.Max(0.1, 0.5-ab*0.1),
		BackdropBlur:   backdrop + c.BlurAmount*32,
		Saturation:     c.Saturation,
	}
}
