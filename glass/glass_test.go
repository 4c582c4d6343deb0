package glass

import (
	"errors"
	"math"
	"testing"

	"github.com/janpfeifer/liquidglass/displacement"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{"": Standard, "standard": Standard, "Polar": Polar, " prominent ": Prominent, "shader": Shader}
	for name, want := range tests {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q)=%v, %v; wanted %v", name, got, err, want)
		}
	}
	if _, err := ParseMode("wobbly"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ParseMode(wobbly): err=%v, wanted ErrInvalidMode", err)
	}
	if s := Shader.String(); s != "shader" {
		t.Errorf("Shader.String()=%q", s)
	}
}

func TestFilterParams(t *testing.T) {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	c := DefaultConfig()
	p := c.FilterParams()
	if !near(p.RedScale, -70) || !near(p.GreenScale, 70*(-1-0.1)) || !near(p.BlueScale, 70*(-1-0.2)) {
		t.Errorf("standard mode scales: %+v", p)
	}
	if !near(p.EdgeMaskStop, 76) || p.EdgeMaskTable != [3]float64{0, 0.1, 1} {
		t.Errorf("edge mask: stop=%g table=%v", p.EdgeMaskStop, p.EdgeMaskTable)
	}
	if !near(p.AberrationBlur, 0.3) || !near(p.BackdropBlur, 6) {
		t.Errorf("blur: aberration=%g backdrop=%g", p.AberrationBlur, p.BackdropBlur)
	}

	c.Mode = Shader
	c.OverLight = true
	c.AberrationIntensity = 10
	p = c.FilterParams()
	if !near(p.RedScale, 35) || !near(p.GreenScale, 35*0.5) || !near(p.BlueScale, 0) {
		t.Errorf("shader over light scales: %+v", p)
	}
	if !near(p.EdgeMaskStop, 60) || !near(p.AberrationBlur, 0.1) || !near(p.BackdropBlur, 14) {
		t.Errorf("shader over light: %+v", p)
	}

	c.AberrationIntensity = 40
	if p := c.FilterParams(); p.EdgeMaskStop != 30 {
		t.Errorf("edge mask stop floor: %g", p.EdgeMaskStop)
	}
}

func TestConfigs(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
	container := ContainerConfig()
	if err := container.Validate(); err != nil {
		t.Errorf("ContainerConfig invalid: %v", err)
	}
	if container.Elasticity != 0 || container.ElasticityParams().Elasticity != 0 {
		t.Errorf("container should not be elastic")
	}
	if got := DefaultConfig().ElasticityParams(); got.Elasticity != 0.15 || got.ActivationZoneRadius != 200 {
		t.Errorf("ElasticityParams()=%+v", got)
	}

	bad := DefaultConfig()
	bad.AberrationIntensity = -1
	if err := bad.Validate(); err == nil {
		t.Errorf("negative aberration accepted")
	}
	bad = DefaultConfig()
	bad.Mode = Mode(9)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Validate with bad mode: err=%v", err)
	}

	if r := DefaultConfig().Radius(300, 120); r != 60 {
		t.Errorf("Radius(300, 120)=%g, wanted 60", r)
	}
}

func TestModeFragment(t *testing.T) {
	size := displacement.Size{Width: 100, Height: 100}
	modes := []Mode{Standard, Polar, Prominent, Shader}
	samples := make([]displacement.Sample, len(modes))
	for ii, m := range modes {
		samples[ii] = m.Fragment()(0.88, 0.5, size)
		if samples[ii].Intensity <= 0 {
			t.Fatalf("mode %s: no displacement near the right border", m)
		}

		// Combined with the filter scale sign, every mode pushes the sampling
		// position the same way.
		c := DefaultConfig()
		c.Mode = m
		if effective := c.FilterParams().RedScale * samples[ii].DX; effective <= 0 {
			t.Errorf("mode %s: scale*DX=%g, wanted > 0", m, effective)
		}
	}
	for ii := range modes {
		for jj := ii + 1; jj < len(modes); jj++ {
			if samples[ii] == samples[jj] {
				t.Errorf("modes %s and %s share the same map", modes[ii], modes[jj])
			}
		}
	}
	if got := Mode(9).Fragment()(0.88, 0.5, size); got != samples[0] {
		t.Errorf("unknown mode should fall back to the standard map")
	}
}
