// Package sealed computes the second-order response of a driver in a
// sealed (acoustic suspension) enclosure.
package sealed

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Alignment bounds on system Q.
const (
	ButterworthQtc = 0.707
	MinQtc         = 0.577 // below this the box is larger than it needs to be
	MaxQtc         = 1.0   // above this the response peaks audibly
)

// Response is the sealed-box system response.
type Response struct {
	Alpha float64 `json:"alpha"`
	Qtc   float64 `json:"qtc"`
	Fc    float64 `json:"fc_hz"`
	F3    float64 `json:"f3_hz"`

	Advisories *validation.Report `json:"advisories"`
}

// Calculate returns Qtc and F3 for the driver in netL liters of sealed box.
func Calculate(d spec.DriverSpecs, netL float64) (*Response, error) {
	if err := validateDriver(d); err != nil {
		return nil, err
	}
	if err := validation.RequirePositive("net_volume_l", netL); err != nil {
		return nil, err
	}

	alpha := d.Vas / netL
	qtc := d.Qts * math.Sqrt(1+alpha)
	resp := &Response{
		Alpha:      alpha,
		Qtc:        qtc,
		Fc:         d.Fs * qtc / d.Qts,
		F3:         F3(d.Fs, qtc),
		Advisories: validation.NewReport(),
	}

	switch {
	case qtc > MaxQtc:
		resp.Advisories.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryAlignment,
			Message:     fmt.Sprintf("Qtc %.2f is above %.1f: peaky, boomy response", qtc, MaxQtc),
			SpecPath:    "enclosure.net_volume_l",
			ActualValue: qtc,
			Expected:    fmt.Sprintf("%.3f-%.1f", MinQtc, MaxQtc),
			Suggestions: []string{"Increase box volume to lower Qtc"},
		})
	case qtc < MinQtc:
		resp.Advisories.AddRecommendation(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryAlignment,
			Message:     fmt.Sprintf("Qtc %.2f is below %.3f: the box is larger than needed for this driver", qtc, MinQtc),
			SpecPath:    "enclosure.net_volume_l",
			ActualValue: qtc,
			Expected:    fmt.Sprintf("%.3f-%.1f", MinQtc, MaxQtc),
		})
	}
	return resp, nil
}

// F3 returns the -3 dB frequency of the second-order high-pass for the given Qtc.
func F3(fs, qtc float64) float64 {
	x := 1/(qtc*qtc) - 2
	return fs * math.Sqrt((x+math.Sqrt(x*x+4))/2)
}

// VolumeForQtc returns the net volume in liters that yields the target Qtc.
func VolumeForQtc(d spec.DriverSpecs, targetQtc float64) (float64, error) {
	if err := validateDriver(d); err != nil {
		return 0, err
	}
	if err := validation.RequirePositive("target_qtc", targetQtc); err != nil {
		return 0, err
	}
	if targetQtc <= d.Qts {
		return 0, validation.Invalid("target_qtc", targetQtc, fmt.Sprintf("> qts (%.3f)", d.Qts))
	}
	r := targetQtc / d.Qts
	return d.Vas / (r*r - 1), nil
}

func validateDriver(d spec.DriverSpecs) error {
	return validation.FirstError(
		validation.RequirePositive("driver.fs", d.Fs),
		validation.RequirePositive("driver.qts", d.Qts),
		validation.RequirePositive("driver.vas_l", d.Vas),
	)
}
