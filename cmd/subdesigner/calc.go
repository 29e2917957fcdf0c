package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/enclosure"
	"github.com/caraudioevents/subdesigner/pkg/sealed"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
	"github.com/caraudioevents/subdesigner/pkg/wiring"
)

func (a *app) areaCmd() *cobra.Command {
	var (
		kind  string
		shape string
		dims  area.Dimensions
		count int
	)

	cmd := &cobra.Command{
		Use:   "area",
		Short: "Compute cone or port area in square inches",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var (
				res area.Area
				err error
			)
			switch kind {
			case "cone":
				res, err = area.ConeArea(shape, dims, count)
			case "port":
				res, err = area.PortArea(shape, dims, count)
			default:
				err = validation.Invalid("kind", kind, "cone|port")
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(a.out, res)
			}
			printArea(a.out, kind, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "kind", "cone", "cone|port")
	f.StringVar(&shape, "shape", spec.ShapeRound, "round|square|slot")
	f.Float64Var(&dims.Diameter, "diameter", 0, "diameter in inches (round)")
	f.Float64Var(&dims.Side, "side", 0, "side in inches (square)")
	f.Float64Var(&dims.Diagonal, "diagonal", 0, "corner-to-corner size in inches (square driver)")
	f.Float64Var(&dims.Width, "width", 0, "width in inches (slot)")
	f.Float64Var(&dims.Height, "height", 0, "height in inches (slot)")
	f.IntVarP(&count, "count", "n", 1, "number of identical units")
	return cmd
}

// driverFlags binds the driver parameters shared by tune and sealed.
func driverFlags(cmd *cobra.Command, d *spec.DriverSpecs) {
	f := cmd.Flags()
	f.Float64Var(&d.Fs, "fs", 0, "free-air resonance (Hz)")
	f.Float64Var(&d.Qts, "qts", 0, "total Q")
	f.Float64Var(&d.Vas, "vas", 0, "equivalent compliance volume (L)")
	f.Float64Var(&d.Sd, "sd", 0, "effective cone area of one driver (cm²)")
	f.Float64Var(&d.Xmax, "xmax", 0, "one-way linear excursion (mm)")
}

func (a *app) tuneCmd() *cobra.Command {
	var (
		in       enclosure.TuningInput
		lengthIn float64
	)

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Solve port length for a target frequency, or tuning for a given length",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			in.Mode = enclosure.ModeSolveLength
			if lengthIn > 0 {
				in.Mode = enclosure.ModeSolveFrequency
				in.Port.Length = lengthIn
			}
			res, err := enclosure.Tune(in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(a.out, res)
			}
			printTuning(a.out, res)
			fmt.Fprintln(a.out)
			printValidationReport(a.out, res.Advisories)
			return nil
		},
	}

	driverFlags(cmd, &in.Driver)
	f := cmd.Flags()
	f.Float64Var(&in.NetVolumeL, "volume", 0, "net internal volume (L)")
	f.IntVar(&in.DriverCount, "drivers", 1, "number of drivers")
	f.StringVar(&in.Port.Shape, "port-shape", spec.ShapeRound, "round|square|slot")
	f.Float64Var(&in.Port.Diameter, "port-diameter", 0, "round port diameter (in)")
	f.Float64Var(&in.Port.Width, "port-width", 0, "slot width or square side (in)")
	f.Float64Var(&in.Port.Height, "port-height", 0, "slot height (in)")
	f.IntVar(&in.Port.Count, "ports", 1, "number of identical ports")
	f.BoolVar(&in.Port.Flared, "flared", false, "ports have flared ends")
	f.Float64Var(&in.TargetHz, "target", 0, "target tuning frequency (Hz)")
	f.Float64Var(&lengthIn, "length", 0, "physical port length (in); solves for frequency instead")
	f.Float64Var(&in.LargestInternalIn, "max-length", 0, "largest internal box dimension (in) for the fit check")
	return cmd
}

func (a *app) sealedCmd() *cobra.Command {
	var (
		d         spec.DriverSpecs
		netL      float64
		targetQtc float64
	)

	cmd := &cobra.Command{
		Use:   "sealed",
		Short: "Compute Qtc and F3 for a sealed enclosure",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			res, err := sealed.Calculate(d, netL)
			if err != nil {
				return err
			}
			var forTarget float64
			if targetQtc > 0 {
				if forTarget, err = sealed.VolumeForQtc(d, targetQtc); err != nil {
					return err
				}
			}
			if a.jsonOut {
				return writeJSON(a.out, map[string]any{
					"response":            res,
					"volume_for_target_l": forTarget,
				})
			}
			printSealed(a.out, res)
			if forTarget > 0 {
				fmt.Fprintf(a.out, "  Volume for Qtc %.3f:  %s L\n", targetQtc, num(forTarget, 1))
			}
			fmt.Fprintln(a.out)
			printValidationReport(a.out, res.Advisories)
			return nil
		},
	}

	driverFlags(cmd, &d)
	cmd.Flags().Float64Var(&netL, "volume", 0, "net internal volume (L)")
	cmd.Flags().Float64Var(&targetQtc, "target-qtc", 0, "also report the volume that gives this Qtc")
	return cmd
}

func (a *app) wiringCmd() *cobra.Command {
	var in wiring.Input

	cmd := &cobra.Command{
		Use:   "wiring",
		Short: "Compute amplifier load and total power for a set of drivers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			res, err := wiring.Calculate(in)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(a.out, res)
			}
			printWiring(a.out, res)
			fmt.Fprintln(a.out)
			printValidationReport(a.out, res.Advisories)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&in.Impedance, "impedance", 0, "impedance per voice coil (ohms)")
	f.IntVarP(&in.Count, "count", "n", 1, "number of drivers")
	f.StringVar(&in.Topology, "topology", spec.TopologyParallel, "series|parallel|series_parallel")
	f.Float64Var(&in.RMSWatts, "rms", 0, "RMS rating per driver (W)")
	f.Float64Var(&in.PeakWatts, "peak", 0, "peak rating per driver (W), default 2x RMS")
	f.IntVar(&in.VoiceCoils, "coils", 1, "voice coils per driver (1 or 2)")
	f.StringVar(&in.CoilWiring, "coil-wiring", "", "series|parallel for dual voice coils")
	f.Float64Var(&in.AmpMinLoad, "amp-min-load", 0, "amplifier minimum stable load (ohms)")
	return cmd
}

func (a *app) classifyCmd() *cobra.Command {
	var (
		req   classify.Request
		flags []string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Find the competition class for a configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			parsed, err := parseFlags(flags)
			if err != nil {
				return err
			}
			req.Flags = parsed

			engine, err := a.engine()
			if err != nil {
				return err
			}
			res, err := engine.Classify(req)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(a.out, res)
			}
			printClassification(a.out, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Organization, "org", "", "organization id (see orgs)")
	f.StringVar(&req.Category, "category", "", "category id (default: organization default)")
	f.Float64Var(&req.ConeAreaIn2, "cone", 0, "total cone area (in²)")
	f.Float64Var(&req.PortAreaIn2, "port", 0, "total port area (in²)")
	f.Float64Var(&req.PowerWatts, "power", 0, "amplifier power (W)")
	f.Float64Var(&req.FuseAmps, "fuse", 0, "main fuse rating (A)")
	f.IntVar(&req.DriverCount, "drivers", 0, "number of subwoofers")
	f.StringSliceVar(&flags, "flag", nil, "eligibility flag as name=true|false, repeatable")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

// parseFlags turns name=bool pairs into a flag map. A bare name means true.
func parseFlags(pairs []string) (map[string]bool, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		name, value, found := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, validation.Invalid("flag", p, "name=true|false")
		}
		if !found {
			out[name] = true
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, validation.Invalid("flag", p, "name=true|false")
		}
		out[name] = b
	}
	return out, nil
}

func (a *app) orgsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List competition organizations, categories and classes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(a.out, engine.Organizations())
			}
			printOrganizations(a.out, engine.Organizations())
			return nil
		},
	}
}
