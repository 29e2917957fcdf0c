package validation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/caraudioevents/subdesigner/pkg/spec"
)

func validDesign() *spec.Design {
	return &spec.Design{
		SpecVersion: "0.1.0",
		Name:        "test build",
		Driver: spec.DriverSpecs{
			Fs: 32, Qts: 0.45, Vas: 50, Sd: 506.7, Xmax: 18,
			Displacement: 3.5, Impedance: 4, RMSWatts: 1000,
			NominalSizeIn: 12, Shape: spec.ShapeRound,
		},
		Enclosure: spec.EnclosureDef{
			Type:     spec.EnclosurePorted,
			Box:      &spec.BoxDimensions{Width: 36, Height: 16, Depth: 20, Thickness: 0.75},
			Port:     &spec.PortDimensions{Shape: spec.ShapeSlot, Width: 3, Height: 14.5, Count: 1},
			TargetHz: 33,
		},
		Wiring: spec.WiringConfig{DriverCount: 2, Topology: spec.TopologyParallel},
		Competition: &spec.Competition{
			Organization: "meca",
		},
	}
}

func TestValidateDesignValid(t *testing.T) {
	r := ValidateDesign(validDesign())
	if !r.Valid {
		t.Errorf("expected valid report, got %d errors: %v", len(r.Errors), r.Errors)
	}
}

func TestValidateDesignDriverZero(t *testing.T) {
	d := validDesign()
	d.Driver.Qts = 0
	r := ValidateDesign(d)
	if r.Valid {
		t.Error("expected invalid report for qts=0")
	}
	assertHasError(t, r, "driver.qts")
}

func TestValidateDesignPeakBelowRMS(t *testing.T) {
	d := validDesign()
	d.Driver.PeakWatts = 500
	r := ValidateDesign(d)
	if !r.Valid {
		t.Errorf("peak below rms should only warn, got errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 || r.Warnings[0].SpecPath != "driver.peak_watts" {
		t.Errorf("expected one warning on driver.peak_watts, got %v", r.Warnings)
	}
}

func TestValidateDesignNeedsVolume(t *testing.T) {
	d := validDesign()
	d.Enclosure.Box = nil
	r := ValidateDesign(d)
	assertHasError(t, r, "enclosure")

	d.Enclosure.NetVolumeL = 80
	if r := ValidateDesign(d); !r.Valid {
		t.Errorf("net_volume_l alone should be enough, got %v", r.Errors)
	}
}

func TestValidateDesignRejectsNonFinite(t *testing.T) {
	tests := []struct {
		path string
		set  func(d *spec.Design)
	}{
		{"driver.fs", func(d *spec.Design) { d.Driver.Fs = math.NaN() }},
		{"driver.vas_l", func(d *spec.Design) { d.Driver.Vas = math.Inf(1) }},
		{"driver.displacement_l", func(d *spec.Design) { d.Driver.Displacement = math.NaN() }},
		{"enclosure.box.depth_in", func(d *spec.Design) { d.Enclosure.Box.Depth = math.Inf(1) }},
		{"enclosure.port.height_in", func(d *spec.Design) { d.Enclosure.Port.Height = math.NaN() }},
		{"enclosure.target_hz", func(d *spec.Design) { d.Enclosure.TargetHz = math.Inf(1) }},
		{"enclosure.net_volume_l", func(d *spec.Design) {
			d.Enclosure.Box = nil
			d.Enclosure.NetVolumeL = math.NaN()
		}},
		{"competition.power_watts", func(d *spec.Design) { d.Competition.PowerWatts = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d := validDesign()
			tt.set(d)
			r := ValidateDesign(d)
			if r.Valid {
				t.Fatalf("%s: non-finite value passed validation", tt.path)
			}
			assertHasError(t, r, tt.path)
			if _, err := json.Marshal(r); err != nil {
				t.Errorf("report does not encode: %v", err)
			}
		})
	}
}

func TestValidateDesignPortedNeedsPort(t *testing.T) {
	d := validDesign()
	d.Enclosure.Port = nil
	r := ValidateDesign(d)
	assertHasError(t, r, "enclosure.port")

	d.Enclosure.Type = spec.EnclosureSealed
	if r := ValidateDesign(d); !r.Valid {
		t.Errorf("sealed design without port should be valid, got %v", r.Errors)
	}
}

func TestValidateDesignPortNeedsTuning(t *testing.T) {
	d := validDesign()
	d.Enclosure.TargetHz = 0
	r := ValidateDesign(d)
	assertHasError(t, r, "enclosure.target_hz")

	d.Enclosure.Port.Length = 20
	if r := ValidateDesign(d); !r.Valid {
		t.Errorf("port length alone should be enough, got %v", r.Errors)
	}
}

func TestValidateDesignPortShape(t *testing.T) {
	d := validDesign()
	d.Enclosure.Port.Shape = "oval"
	r := ValidateDesign(d)
	assertHasError(t, r, "enclosure.port.shape")
}

func TestValidateDesignSeriesParallelOdd(t *testing.T) {
	d := validDesign()
	d.Wiring.DriverCount = 3
	d.Wiring.Topology = spec.TopologySeriesParallel
	r := ValidateDesign(d)
	if r.Valid {
		t.Error("expected invalid report for odd series_parallel")
	}
	assertHasError(t, r, "wiring.topology")
}

func TestValidateDesignDualVoiceCoil(t *testing.T) {
	d := validDesign()
	d.Wiring.VoiceCoils = 2
	r := ValidateDesign(d)
	assertHasError(t, r, "wiring.coil_wiring")

	d.Wiring.CoilWiring = spec.TopologySeries
	if r := ValidateDesign(d); !r.Valid {
		t.Errorf("dvc with coil wiring should be valid, got %v", r.Errors)
	}
}

func TestValidateDesignCompetition(t *testing.T) {
	d := validDesign()
	d.Competition.Organization = ""
	d.Competition.FuseAmps = -10
	r := ValidateDesign(d)
	assertHasError(t, r, "competition.organization")
	assertHasError(t, r, "competition.fuse_amps")
}

func assertHasError(t *testing.T, r *Report, specPath string) {
	t.Helper()
	for _, e := range r.Errors {
		if e.SpecPath == specPath {
			return
		}
	}
	t.Errorf("expected error at %s, got errors: %v", specPath, r.Errors)
}
