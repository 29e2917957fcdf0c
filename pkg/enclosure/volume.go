// Package enclosure computes net box volume and solves vented-box port
// tuning as a Helmholtz resonator with end correction.
package enclosure

import (
	"math"

	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/units"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// Volume is the breakdown from external box size to net air volume.
type Volume struct {
	ExternalL           float64 `json:"external_l"`
	InternalGrossL      float64 `json:"internal_gross_l"`
	DriverDisplacementL float64 `json:"driver_displacement_l"`
	PortDisplacementL   float64 `json:"port_displacement_l"`
	BracingL            float64 `json:"bracing_l"`
	NetL                float64 `json:"net_l"`
	NetCuFt             float64 `json:"net_cu_ft"`

	InternalWidthIn   float64 `json:"internal_width_in"`
	InternalHeightIn  float64 `json:"internal_height_in"`
	InternalDepthIn   float64 `json:"internal_depth_in"`
	LargestInternalIn float64 `json:"largest_internal_in"`
}

// NetVolume subtracts wall thickness, driver displacement, port
// displacement and bracing from the external box dimensions.
func NetVolume(box spec.BoxDimensions, driverDisplacementL float64, driverCount int, portDisplacementL float64) (*Volume, error) {
	if err := validation.FirstError(
		validation.RequirePositive("width_in", box.Width),
		validation.RequirePositive("height_in", box.Height),
		validation.RequirePositive("depth_in", box.Depth),
		validation.RequirePositive("thickness_in", box.Thickness),
		validation.RequireNonNegative("bracing_l", box.BracingL),
		validation.RequireNonNegative("displacement_l", driverDisplacementL),
		validation.RequireCount("driver_count", driverCount),
		validation.RequireNonNegative("port_displacement_l", portDisplacementL),
	); err != nil {
		return nil, err
	}

	w := box.Width - 2*box.Thickness
	h := box.Height - 2*box.Thickness
	d := box.Depth - 2*box.Thickness
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, validation.Invalid("thickness_in", box.Thickness, "less than half of every external dimension")
	}

	v := &Volume{
		ExternalL:           units.CubicInchesToLiters(box.Width * box.Height * box.Depth),
		InternalGrossL:      units.CubicInchesToLiters(w * h * d),
		DriverDisplacementL: driverDisplacementL * float64(driverCount),
		PortDisplacementL:   portDisplacementL,
		BracingL:            box.BracingL,
		InternalWidthIn:     w,
		InternalHeightIn:    h,
		InternalDepthIn:     d,
		LargestInternalIn:   math.Max(w, math.Max(h, d)),
	}
	v.NetL = v.InternalGrossL - v.DriverDisplacementL - v.PortDisplacementL - v.BracingL
	if v.NetL <= 0 {
		return nil, validation.Invalid("net_volume_l", v.NetL, "> 0 after displacement")
	}
	v.NetCuFt = units.LitersToCubicFeet(v.NetL)
	return v, nil
}
