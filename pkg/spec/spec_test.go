package spec

import (
	"testing"
)

func TestLoadProject(t *testing.T) {
	d, err := LoadProject("../../examples/default-design")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if d.SpecVersion != "0.1.0" {
		t.Errorf("spec_version = %q, want %q", d.SpecVersion, "0.1.0")
	}
	if d.Driver.Fs != 32 {
		t.Errorf("fs = %v, want 32", d.Driver.Fs)
	}
	if d.Driver.Vas != 50 {
		t.Errorf("vas_l = %v, want 50", d.Driver.Vas)
	}
	if d.Driver.Shape != ShapeRound {
		t.Errorf("shape = %q, want %q", d.Driver.Shape, ShapeRound)
	}

	// Enclosure
	if d.Enclosure.Type != EnclosurePorted {
		t.Errorf("enclosure.type = %q, want %q", d.Enclosure.Type, EnclosurePorted)
	}
	if d.Enclosure.Box == nil {
		t.Fatal("missing enclosure.box")
	}
	if d.Enclosure.Box.Thickness != 0.75 {
		t.Errorf("thickness_in = %v, want 0.75", d.Enclosure.Box.Thickness)
	}
	if d.Enclosure.Port == nil {
		t.Fatal("missing enclosure.port")
	}
	if d.Enclosure.Port.Shape != ShapeSlot || d.Enclosure.Port.Count != 1 {
		t.Errorf("port = %s x%d, want slot x1", d.Enclosure.Port.Shape, d.Enclosure.Port.Count)
	}

	// Wiring
	if d.Wiring.DriverCount != 2 || d.Wiring.Topology != TopologyParallel {
		t.Errorf("wiring = %d %s, want 2 parallel", d.Wiring.DriverCount, d.Wiring.Topology)
	}

	// Competition
	if d.Competition == nil || d.Competition.Organization != "meca" {
		t.Fatalf("competition = %+v, want organization meca", d.Competition)
	}
	if d.Competition.Flags["modified"] {
		t.Error("modified flag should be false")
	}
}

func TestLoadProjectMissing(t *testing.T) {
	_, err := LoadProject("/nonexistent/path")
	if err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("driver: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEffectivePeakWatts(t *testing.T) {
	tests := []struct {
		name string
		d    DriverSpecs
		want float64
	}{
		{"defaults to twice rms", DriverSpecs{RMSWatts: 500}, 1000},
		{"explicit peak", DriverSpecs{RMSWatts: 500, PeakWatts: 1200}, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.EffectivePeakWatts(); got != tt.want {
				t.Errorf("EffectivePeakWatts() = %v, want %v", got, tt.want)
			}
		})
	}
}
