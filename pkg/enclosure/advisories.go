package enclosure

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/units"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// VelocityCeiling returns the chuffing threshold for the port type.
func VelocityCeiling(flared bool) float64 {
	if flared {
		return MaxVelocityFlared
	}
	return MaxVelocityStraight
}

func advise(in TuningInput, port area.Area, res *TuningResult) {
	r := res.Advisories

	if res.Clamped {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryFit,
			Message:     fmt.Sprintf("target %.1f Hz unreachable with %.1f in² of port: length clamped to %.2f m, tuning is %.1f Hz", in.TargetHz, port.Total, MinPortLengthM, res.TuningHz),
			SpecPath:    "enclosure.port.length_in",
			ActualValue: res.LengthIn,
			Suggestions: []string{"Reduce port area or increase box volume to tune this high"},
		})
	}

	adviseVelocity(in, port, res)

	if in.LargestInternalIn > 0 && res.LengthIn > in.LargestInternalIn {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryFit,
			Message:     fmt.Sprintf("port may not fit: %.1f in long but the largest internal dimension is %.1f in", res.LengthIn, in.LargestInternalIn),
			SpecPath:    "enclosure.port.length_in",
			ActualValue: res.LengthIn,
			Expected:    fmt.Sprintf("<= %.1f", in.LargestInternalIn),
			Suggestions: []string{
				"Fold the port with an elbow or an L-shaped slot",
				"Reduce port area to shorten the port",
			},
		})
	}

	if res.PortVolumeL >= in.NetVolumeL {
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryFit,
			Message:     fmt.Sprintf("port displaces %.1f L, more than the %.1f L net volume", res.PortVolumeL, in.NetVolumeL),
			SpecPath:    "enclosure.port",
			ActualValue: res.PortVolumeL,
			Expected:    fmt.Sprintf("< %.1f", in.NetVolumeL),
		})
	}

	ratio := res.TuningHz / in.Driver.Fs
	switch {
	case ratio < MinTuningRatio:
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryTuningRatio,
			Message:     fmt.Sprintf("tuning %.1f Hz is %.2fx Fs: limited extension and low output near tuning", res.TuningHz, ratio),
			SpecPath:    "enclosure.target_hz",
			ActualValue: ratio,
			Expected:    fmt.Sprintf("%.1f-%.1f x Fs", MinTuningRatio, MaxTuningRatio),
		})
	case ratio > MaxTuningRatio:
		r.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryTuningRatio,
			Message:     fmt.Sprintf("tuning %.1f Hz is %.2fx Fs: peaky response and unstable cone control below tuning", res.TuningHz, ratio),
			SpecPath:    "enclosure.target_hz",
			ActualValue: ratio,
			Expected:    fmt.Sprintf("%.1f-%.1f x Fs", MinTuningRatio, MaxTuningRatio),
			Suggestions: []string{"Use a subsonic filter below tuning"},
		})
	}

	cuFt := units.LitersToCubicFeet(in.NetVolumeL)
	perCuFt := port.Total / cuFt
	switch {
	case perCuFt < MinPortAreaPerCuFt:
		r.AddRecommendation(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryPortArea,
			Message:     fmt.Sprintf("port area %.1f in² is %.1f in²/ft³: increase to at least %.0f in²", port.Total, perCuFt, math.Ceil(MinPortAreaPerCuFt*cuFt)),
			SpecPath:    "enclosure.port",
			ActualValue: perCuFt,
			Expected:    fmt.Sprintf("%.0f-%.0f in²/ft³", MinPortAreaPerCuFt, MaxPortAreaPerCuFt),
		})
	case perCuFt > MaxPortAreaPerCuFt:
		r.AddRecommendation(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryPortArea,
			Message:     fmt.Sprintf("port area %.1f in² is %.1f in²/ft³: reduce to at most %.0f in²", port.Total, perCuFt, math.Floor(MaxPortAreaPerCuFt*cuFt)),
			SpecPath:    "enclosure.port",
			ActualValue: perCuFt,
			Expected:    fmt.Sprintf("%.0f-%.0f in²/ft³", MinPortAreaPerCuFt, MaxPortAreaPerCuFt),
		})
	}

	if in.Port.Shape == spec.ShapeRound && in.Port.Count > MaxRoundPorts {
		r.AddRecommendation(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryPortCount,
			Message:     fmt.Sprintf("%d round ports: a single slot port of %.1f in² is easier to build", in.Port.Count, port.Total),
			SpecPath:    "enclosure.port.count",
			ActualValue: in.Port.Count,
			Expected:    fmt.Sprintf("<= %d", MaxRoundPorts),
		})
	}
}

func adviseVelocity(in TuningInput, port area.Area, res *TuningResult) {
	ceiling := VelocityCeiling(in.Port.Flared)
	if res.VelocityMS <= ceiling {
		return
	}
	res.Advisories.AddWarning(validation.Result{
		Level:       validation.LevelAnalytical,
		Category:    validation.CategoryVelocity,
		Message:     fmt.Sprintf("port noise likely: air velocity %.1f m/s exceeds %.0f m/s", res.VelocityMS, ceiling),
		SpecPath:    "enclosure.port",
		ActualValue: res.VelocityMS,
		Expected:    fmt.Sprintf("<= %.0f m/s", ceiling),
	})

	// Velocity scales inversely with area, so the area needed is linear in the overshoot.
	needed := port.Total * res.VelocityMS / ceiling
	ports := int(math.Ceil(needed / port.PerUnit))
	res.Advisories.AddRecommendation(validation.Result{
		Level:       validation.LevelAnalytical,
		Category:    validation.CategoryPortCount,
		Message:     fmt.Sprintf("increase port area to %.1f in² (%d ports of this size) to stay under %.0f m/s", needed, ports, ceiling),
		SpecPath:    "enclosure.port.count",
		ActualValue: in.Port.Count,
		Expected:    fmt.Sprintf(">= %d", ports),
	})
}
