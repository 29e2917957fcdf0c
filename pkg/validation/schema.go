package validation

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/spec"
)

// ValidateDesign performs schema validation on a parsed design.
// It checks structural correctness before any computation.
func ValidateDesign(d *spec.Design) *Report {
	r := NewReport()

	validateDriver(d, r)
	validateEnclosure(d, r)
	validateWiring(d, r)
	validateCompetition(d, r)

	return r
}

func requirePositive(r *Report, path string, v float64) {
	if RequirePositive(path, v) != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must be greater than 0", path),
			SpecPath:    path,
			ActualValue: actual(v),
			Expected:    "> 0",
		})
	}
}

func requireNonNegative(r *Report, path string, v float64) {
	if RequireNonNegative(path, v) != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s must be non-negative", path),
			SpecPath:    path,
			ActualValue: actual(v),
			Expected:    ">= 0",
		})
	}
}

// actual keeps NaN and Inf JSON-encodable in a report.
func actual(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return v
}

func validateDriver(d *spec.Design, r *Report) {
	drv := d.Driver
	requirePositive(r, "driver.fs", drv.Fs)
	requirePositive(r, "driver.qts", drv.Qts)
	requirePositive(r, "driver.vas_l", drv.Vas)
	requirePositive(r, "driver.sd_cm2", drv.Sd)
	requirePositive(r, "driver.xmax_mm", drv.Xmax)
	requirePositive(r, "driver.impedance_ohms", drv.Impedance)
	requirePositive(r, "driver.rms_watts", drv.RMSWatts)
	requirePositive(r, "driver.nominal_size_in", drv.NominalSizeIn)
	requireNonNegative(r, "driver.displacement_l", drv.Displacement)
	requireNonNegative(r, "driver.peak_watts", drv.PeakWatts)

	if drv.Shape != "" && drv.Shape != spec.ShapeRound && drv.Shape != spec.ShapeSquare {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown driver shape %q", drv.Shape),
			SpecPath:    "driver.shape",
			ActualValue: drv.Shape,
			Expected:    "round|square",
		})
	}
	if drv.PeakWatts > 0 && drv.PeakWatts < drv.RMSWatts {
		r.AddWarning(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("peak rating %.0f W is below the RMS rating %.0f W", drv.PeakWatts, drv.RMSWatts),
			SpecPath:     "driver.peak_watts",
			ActualValue:  drv.PeakWatts,
			ConflictWith: "driver.rms_watts",
		})
	}
}

func validateEnclosure(d *spec.Design, r *Report) {
	e := d.Enclosure
	switch e.Type {
	case spec.EnclosureSealed, spec.EnclosurePorted:
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown enclosure type %q", e.Type),
			SpecPath:    "enclosure.type",
			ActualValue: e.Type,
			Expected:    "sealed|ported",
		})
	}

	if e.Box == nil && e.NetVolumeL != 0 {
		requirePositive(r, "enclosure.net_volume_l", e.NetVolumeL)
	}
	if e.Box == nil && e.NetVolumeL == 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "enclosure needs either box dimensions or net_volume_l",
			SpecPath:    "enclosure",
			Expected:    "box or net_volume_l > 0",
			Suggestions: []string{"Add enclosure.box with external dimensions and material thickness"},
		})
	}
	if e.Box != nil {
		requirePositive(r, "enclosure.box.width_in", e.Box.Width)
		requirePositive(r, "enclosure.box.height_in", e.Box.Height)
		requirePositive(r, "enclosure.box.depth_in", e.Box.Depth)
		requirePositive(r, "enclosure.box.thickness_in", e.Box.Thickness)
		requireNonNegative(r, "enclosure.box.bracing_l", e.Box.BracingL)
		if e.NetVolumeL > 0 {
			r.AddInfo(Result{
				Level:    LevelSchema,
				Message:  "net_volume_l is ignored when box dimensions are given",
				SpecPath: "enclosure.net_volume_l",
			})
		}
	}

	if e.Type != spec.EnclosurePorted {
		return
	}
	if e.Port == nil {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "ported enclosure requires a port",
			SpecPath: "enclosure.port",
		})
		return
	}
	validatePort(e, r)
}

func validatePort(e spec.EnclosureDef, r *Report) {
	p := e.Port
	switch p.Shape {
	case spec.ShapeRound:
		requirePositive(r, "enclosure.port.diameter_in", p.Diameter)
	case spec.ShapeSquare:
		requirePositive(r, "enclosure.port.width_in", p.Width)
	case spec.ShapeSlot:
		requirePositive(r, "enclosure.port.width_in", p.Width)
		requirePositive(r, "enclosure.port.height_in", p.Height)
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown port shape %q", p.Shape),
			SpecPath:    "enclosure.port.shape",
			ActualValue: p.Shape,
			Expected:    "round|square|slot",
		})
	}
	if p.Count < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "port count must be at least 1",
			SpecPath:    "enclosure.port.count",
			ActualValue: p.Count,
			Expected:    ">= 1",
		})
	}
	requireNonNegative(r, "enclosure.target_hz", e.TargetHz)
	requireNonNegative(r, "enclosure.port.length_in", p.Length)
	if e.TargetHz <= 0 && p.Length <= 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "ported enclosure needs target_hz or port.length_in",
			SpecPath: "enclosure.target_hz",
			Expected: "target_hz > 0 or port.length_in > 0",
		})
	}
	if e.TargetHz > 0 && p.Length > 0 {
		r.AddInfo(Result{
			Level:    LevelSchema,
			Message:  "port.length_in is recomputed from target_hz",
			SpecPath: "enclosure.port.length_in",
		})
	}
}

func validateWiring(d *spec.Design, r *Report) {
	w := d.Wiring
	if w.DriverCount < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "driver_count must be at least 1",
			SpecPath:    "wiring.driver_count",
			ActualValue: w.DriverCount,
			Expected:    ">= 1",
		})
	}

	switch w.Topology {
	case spec.TopologySeries, spec.TopologyParallel:
	case spec.TopologySeriesParallel:
		if w.DriverCount%2 != 0 {
			r.AddError(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("series_parallel needs an even driver count (got %d)", w.DriverCount),
				SpecPath:     "wiring.topology",
				ActualValue:  w.DriverCount,
				ConflictWith: "wiring.driver_count",
				Suggestions:  []string{"Use series or parallel, or add a driver"},
			})
		}
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown wiring topology %q", w.Topology),
			SpecPath:    "wiring.topology",
			ActualValue: w.Topology,
			Expected:    "series|parallel|series_parallel",
		})
	}

	switch w.VoiceCoils {
	case 0, 1:
	case 2:
		if w.CoilWiring != spec.TopologySeries && w.CoilWiring != spec.TopologyParallel {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "dual voice coil drivers need coil_wiring series or parallel",
				SpecPath:    "wiring.coil_wiring",
				ActualValue: w.CoilWiring,
				Expected:    "series|parallel",
			})
		}
	default:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("voice_coils must be 1 or 2 (got %d)", w.VoiceCoils),
			SpecPath:    "wiring.voice_coils",
			ActualValue: w.VoiceCoils,
			Expected:    "1|2",
		})
	}
	requireNonNegative(r, "wiring.amp_min_load_ohms", w.AmpMinLoad)
}

func validateCompetition(d *spec.Design, r *Report) {
	c := d.Competition
	if c == nil {
		return
	}
	if c.Organization == "" {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "competition.organization must not be empty",
			SpecPath: "competition.organization",
		})
	}
	requireNonNegative(r, "competition.fuse_amps", c.FuseAmps)
	requireNonNegative(r, "competition.power_watts", c.PowerWatts)
}
