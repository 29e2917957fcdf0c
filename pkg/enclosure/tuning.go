package enclosure

import (
	"math"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/units"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Mode selects which side of the Helmholtz equation is solved.
type Mode string

const (
	ModeSolveLength    Mode = "solve_length"
	ModeSolveFrequency Mode = "solve_frequency"
)

// TuningInput is everything needed to tune a vented enclosure.
type TuningInput struct {
	Mode        Mode                `json:"mode"`
	NetVolumeL  float64             `json:"net_volume_l"`
	Driver      spec.DriverSpecs    `json:"driver"`
	DriverCount int                 `json:"driver_count"` // 0 means 1
	Port        spec.PortDimensions `json:"port"`
	TargetHz    float64             `json:"target_hz,omitempty"`

	// LargestInternalIn enables the fit check when > 0.
	LargestInternalIn float64 `json:"largest_internal_in,omitempty"`
}

// TuningResult is the solved port plus its advisories.
type TuningResult struct {
	Mode             Mode    `json:"mode"`
	TuningHz         float64 `json:"tuning_hz"`
	LengthIn         float64 `json:"length_in"`
	LengthM          float64 `json:"length_m"`
	EndCorrectionM   float64 `json:"end_correction_m"`
	PortAreaIn2      float64 `json:"port_area_in2"`
	TotalPortAreaIn2 float64 `json:"total_port_area_in2"`
	VelocityMS       float64 `json:"velocity_ms"`
	PortVolumeL      float64 `json:"port_volume_l"`
	Clamped          bool    `json:"clamped"`

	Advisories *validation.Report `json:"advisories"`
}

// EndCorrection returns ΔL in meters for a single port of the given area.
func EndCorrection(portAreaM2 float64, flared bool) float64 {
	k := EndCorrectionStraight
	if flared {
		k = EndCorrectionFlared
	}
	return k * math.Sqrt(portAreaM2)
}

// PortLength solves the effective-length form of the Helmholtz equation for
// the physical port length in meters. The result may be non-physical.
func PortLength(targetHz, totalAreaM2, volumeM3, endCorrectionM float64) float64 {
	w := units.SpeedOfSound / (2 * math.Pi * targetHz)
	return w*w*totalAreaM2/volumeM3 - endCorrectionM
}

// TuningFrequency solves the Helmholtz equation for the tuning frequency.
func TuningFrequency(lengthM, totalAreaM2, volumeM3, endCorrectionM float64) float64 {
	return units.SpeedOfSound / (2 * math.Pi) * math.Sqrt(totalAreaM2/(volumeM3*(lengthM+endCorrectionM)))
}

// PortVelocity returns the peak air velocity in the port in m/s.
func PortVelocity(sdM2, xmaxM, freqHz, totalAreaM2 float64) float64 {
	return sdM2 * xmaxM * freqHz / totalAreaM2
}

// Tune solves the port for the requested mode and attaches advisories.
// Physically odd results are returned with warnings, never rejected.
func Tune(in TuningInput) (*TuningResult, error) {
	if err := validateTuning(in); err != nil {
		return nil, err
	}
	port, err := area.PortArea(in.Port.Shape, area.PortDims(in.Port), in.Port.Count)
	if err != nil {
		return nil, err
	}
	drivers := in.DriverCount
	if drivers == 0 {
		drivers = 1
	}

	volumeM3 := units.LitersToCubicMeters(in.NetVolumeL)
	perM2 := units.SquareInchesToSquareMeters(port.PerUnit)
	totalM2 := units.SquareInchesToSquareMeters(port.Total)
	dL := EndCorrection(perM2, in.Port.Flared)

	res := &TuningResult{
		Mode:             in.Mode,
		EndCorrectionM:   dL,
		PortAreaIn2:      port.PerUnit,
		TotalPortAreaIn2: port.Total,
		Advisories:       validation.NewReport(),
	}

	switch in.Mode {
	case ModeSolveLength:
		res.LengthM = PortLength(in.TargetHz, totalM2, volumeM3, dL)
		res.TuningHz = in.TargetHz
		if res.LengthM < MinPortLengthM {
			res.LengthM = MinPortLengthM
			res.Clamped = true
			res.TuningHz = TuningFrequency(res.LengthM, totalM2, volumeM3, dL)
		}
		res.LengthIn = units.MetersToInches(res.LengthM)
	case ModeSolveFrequency:
		res.LengthIn = in.Port.Length
		res.LengthM = units.InchesToMeters(in.Port.Length)
		res.TuningHz = TuningFrequency(res.LengthM, totalM2, volumeM3, dL)
	}

	sdM2 := units.SquareCmToSquareMeters(in.Driver.Sd) * float64(drivers)
	res.VelocityMS = PortVelocity(sdM2, units.MillimetersToMeters(in.Driver.Xmax), res.TuningHz, totalM2)
	res.PortVolumeL = units.CubicInchesToLiters(port.Total * res.LengthIn)

	advise(in, port, res)
	return res, nil
}

func validateTuning(in TuningInput) error {
	if in.Mode != ModeSolveLength && in.Mode != ModeSolveFrequency {
		return validation.Invalid("mode", in.Mode, "solve_length|solve_frequency")
	}
	if err := validation.FirstError(
		validation.RequirePositive("net_volume_l", in.NetVolumeL),
		validation.RequirePositive("driver.fs", in.Driver.Fs),
		validation.RequirePositive("driver.sd_cm2", in.Driver.Sd),
		validation.RequirePositive("driver.xmax_mm", in.Driver.Xmax),
		validation.RequireNonNegative("largest_internal_in", in.LargestInternalIn),
	); err != nil {
		return err
	}
	if in.DriverCount < 0 {
		return validation.Invalid("driver_count", in.DriverCount, ">= 1")
	}
	if in.Mode == ModeSolveLength {
		return validation.RequirePositive("target_hz", in.TargetHz)
	}
	return validation.RequirePositive("port.length_in", in.Port.Length)
}
