// Package wiring combines driver impedances and power ratings for the
// series, parallel and series-parallel topologies.
package wiring

import (
	"fmt"

	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Input describes N identical drivers and how they are wired.
type Input struct {
	Impedance  float64 `json:"impedance_ohms"` // per voice coil
	Count      int     `json:"count"`
	Topology   string  `json:"topology"`
	RMSWatts   float64 `json:"rms_watts,omitempty"`
	PeakWatts  float64 `json:"peak_watts,omitempty"` // 0 means 2×RMS
	VoiceCoils int     `json:"voice_coils,omitempty"`
	CoilWiring string  `json:"coil_wiring,omitempty"`
	AmpMinLoad float64 `json:"amp_min_load_ohms,omitempty"`
}

// Result is the load presented to the amplifier and the combined power handling.
type Result struct {
	DriverImpedance float64 `json:"driver_impedance_ohms"`
	TotalImpedance  float64 `json:"total_impedance_ohms"`
	TotalRMSWatts   float64 `json:"total_rms_watts"`
	TotalPeakWatts  float64 `json:"total_peak_watts"`

	Advisories *validation.Report `json:"advisories"`
}

// Series returns Z×N.
func Series(z float64, n int) float64 { return z * float64(n) }

// Parallel returns Z/N.
func Parallel(z float64, n int) float64 { return z / float64(n) }

// SeriesParallel wires drivers in series pairs and parallels the pairs:
// (Z×2)/(N/2). N must be even.
func SeriesParallel(z float64, n int) (float64, error) {
	if n < 2 || n%2 != 0 {
		return 0, validation.Invalid("count", n, "even count for series_parallel")
	}
	return Series(z, 2) / float64(n/2), nil
}

// FromConfig builds an Input from a design's wiring block and driver.
func FromConfig(w spec.WiringConfig, d spec.DriverSpecs) Input {
	return Input{
		Impedance:  d.Impedance,
		Count:      w.DriverCount,
		Topology:   w.Topology,
		RMSWatts:   d.RMSWatts,
		PeakWatts:  d.PeakWatts,
		VoiceCoils: w.VoiceCoils,
		CoilWiring: w.CoilWiring,
		AmpMinLoad: w.AmpMinLoad,
	}
}

// Calculate returns the final load and total power for the configuration.
func Calculate(in Input) (*Result, error) {
	if err := validation.FirstError(
		validation.RequirePositive("impedance_ohms", in.Impedance),
		validation.RequireCount("count", in.Count),
		validation.RequireNonNegative("rms_watts", in.RMSWatts),
		validation.RequireNonNegative("peak_watts", in.PeakWatts),
		validation.RequireNonNegative("amp_min_load_ohms", in.AmpMinLoad),
	); err != nil {
		return nil, err
	}

	zd, err := driverImpedance(in)
	if err != nil {
		return nil, err
	}

	var total float64
	switch in.Topology {
	case spec.TopologySeries:
		total = Series(zd, in.Count)
	case spec.TopologyParallel:
		total = Parallel(zd, in.Count)
	case spec.TopologySeriesParallel:
		if total, err = SeriesParallel(zd, in.Count); err != nil {
			return nil, err
		}
	default:
		return nil, validation.Invalid("topology", in.Topology, "series|parallel|series_parallel")
	}

	peak := in.PeakWatts
	if peak == 0 {
		peak = 2 * in.RMSWatts
	}
	res := &Result{
		DriverImpedance: zd,
		TotalImpedance:  total,
		TotalRMSWatts:   in.RMSWatts * float64(in.Count),
		TotalPeakWatts:  peak * float64(in.Count),
		Advisories:      validation.NewReport(),
	}

	if in.AmpMinLoad > 0 && total < in.AmpMinLoad {
		res.Advisories.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryLoad,
			Message:     fmt.Sprintf("final load %.2f Ω is below the amplifier's %.2f Ω minimum", total, in.AmpMinLoad),
			SpecPath:    "wiring.topology",
			ActualValue: total,
			Expected:    fmt.Sprintf(">= %.2f", in.AmpMinLoad),
			Suggestions: []string{"Rewire toward series or choose higher-impedance coils"},
		})
	}
	return res, nil
}

// driverImpedance folds dual voice coils into one per-driver impedance.
func driverImpedance(in Input) (float64, error) {
	switch in.VoiceCoils {
	case 0, 1:
		return in.Impedance, nil
	case 2:
		switch in.CoilWiring {
		case spec.TopologySeries:
			return Series(in.Impedance, 2), nil
		case spec.TopologyParallel:
			return Parallel(in.Impedance, 2), nil
		default:
			return 0, validation.Invalid("coil_wiring", in.CoilWiring, "series|parallel for dual voice coils")
		}
	default:
		return 0, validation.Invalid("voice_coils", in.VoiceCoils, "1|2")
	}
}
