package wiring

import (
	"errors"
	"math"
	"testing"

	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

func TestTwoFourOhmDrivers(t *testing.T) {
	par, err := Calculate(Input{Impedance: 4, Count: 2, Topology: spec.TopologyParallel, RMSWatts: 500})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	ser, err := Calculate(Input{Impedance: 4, Count: 2, Topology: spec.TopologySeries, RMSWatts: 500})
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if par.TotalImpedance != 2 {
		t.Errorf("parallel = %v, want 2", par.TotalImpedance)
	}
	if ser.TotalImpedance != 8 {
		t.Errorf("series = %v, want 8", ser.TotalImpedance)
	}
	if got := par.TotalImpedance * ser.TotalImpedance; got != 16 {
		t.Errorf("series x parallel = %v, want 16", got)
	}
	if par.TotalRMSWatts != 1000 || par.TotalPeakWatts != 2000 {
		t.Errorf("power = %v/%v, want 1000/2000", par.TotalRMSWatts, par.TotalPeakWatts)
	}
}

func TestSeriesTimesParallelIsSquare(t *testing.T) {
	for _, z := range []float64{1, 2, 4, 8, 16} {
		for n := 1; n <= 12; n++ {
			if got := Parallel(z, n) * Series(z, n); math.Abs(got-z*z) > 1e-9 {
				t.Errorf("Parallel(%v,%d)*Series(%v,%d) = %v, want %v", z, n, z, n, got, z*z)
			}
		}
	}
}

func TestSeriesParallel(t *testing.T) {
	tests := []struct {
		z    float64
		n    int
		want float64
	}{
		{4, 2, 8},
		{4, 4, 4},
		{2, 4, 2},
		{4, 6, 8.0 / 3},
		{4, 8, 2},
	}
	for _, tt := range tests {
		got, err := SeriesParallel(tt.z, tt.n)
		if err != nil {
			t.Fatalf("SeriesParallel(%v, %d): %v", tt.z, tt.n, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SeriesParallel(%v, %d) = %v, want %v", tt.z, tt.n, got, tt.want)
		}
	}
}

func TestSeriesParallelRejectsOddCount(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		_, err := Calculate(Input{Impedance: 4, Count: n, Topology: spec.TopologySeriesParallel})
		var ie *validation.InputError
		if !errors.As(err, &ie) || ie.Field != "count" {
			t.Errorf("count %d: err = %v, want InputError on count", n, err)
		}
	}
}

func TestDualVoiceCoil(t *testing.T) {
	tests := []struct {
		name   string
		coilZ  float64
		coil   string
		count  int
		topo   string
		driver float64
		total  float64
	}{
		{"dvc2 series, two in parallel", 2, spec.TopologySeries, 2, spec.TopologyParallel, 4, 2},
		{"dvc2 parallel, two in parallel", 2, spec.TopologyParallel, 2, spec.TopologyParallel, 1, 0.5},
		{"dvc4 series, single", 4, spec.TopologySeries, 1, spec.TopologySeries, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(Input{Impedance: tt.coilZ, Count: tt.count, Topology: tt.topo, VoiceCoils: 2, CoilWiring: tt.coil})
			if err != nil {
				t.Fatalf("Calculate failed: %v", err)
			}
			if res.DriverImpedance != tt.driver {
				t.Errorf("driver impedance = %v, want %v", res.DriverImpedance, tt.driver)
			}
			if res.TotalImpedance != tt.total {
				t.Errorf("total impedance = %v, want %v", res.TotalImpedance, tt.total)
			}
		})
	}
}

func TestAmpMinimumLoadWarning(t *testing.T) {
	res, err := Calculate(Input{Impedance: 2, Count: 4, Topology: spec.TopologyParallel, RMSWatts: 1500, AmpMinLoad: 1})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res.TotalImpedance != 0.5 {
		t.Errorf("total = %v, want 0.5", res.TotalImpedance)
	}
	if !res.Advisories.HasCategory(validation.CategoryLoad) {
		t.Error("expected load warning")
	}
	if res.TotalPeakWatts != 12000 {
		t.Errorf("peak = %v, want 12000", res.TotalPeakWatts)
	}
}

func TestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"zero impedance", Input{Count: 2, Topology: spec.TopologySeries}, "impedance_ohms"},
		{"zero count", Input{Impedance: 4, Topology: spec.TopologySeries}, "count"},
		{"unknown topology", Input{Impedance: 4, Count: 2, Topology: "daisy"}, "topology"},
		{"three coils", Input{Impedance: 4, Count: 2, Topology: spec.TopologySeries, VoiceCoils: 3}, "voice_coils"},
		{"dvc without coil wiring", Input{Impedance: 4, Count: 2, Topology: spec.TopologySeries, VoiceCoils: 2}, "coil_wiring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in)
			var ie *validation.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("err = %v, want InputError", err)
			}
			if ie.Field != tt.field {
				t.Errorf("field = %q, want %q", ie.Field, tt.field)
			}
		})
	}
}
