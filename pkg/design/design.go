// Package design runs the calculators over a design document in order:
// area, volume and tuning (or sealed response), wiring, classification.
package design

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/enclosure"
	"github.com/caraudioevents/subdesigner/pkg/sealed"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
	"github.com/caraudioevents/subdesigner/pkg/wiring"
)

// Port displacement converges geometrically; each pass shrinks the change by
// roughly the port-to-box volume ratio.
const (
	maxPortPasses = 20
	portSettleL   = 1e-6 // L
)

// Evaluation holds the output of every stage for one design.
type Evaluation struct {
	Name           string                  `json:"name"`
	ConeArea       area.Area               `json:"cone_area"`
	PortArea       *area.Area              `json:"port_area,omitempty"`
	Volume         *enclosure.Volume       `json:"volume,omitempty"`
	NetVolumeL     float64                 `json:"net_volume_l"`
	Tuning         *enclosure.TuningResult `json:"tuning,omitempty"`
	Sealed         *sealed.Response        `json:"sealed,omitempty"`
	Wiring         *wiring.Result          `json:"wiring"`
	Classification *classify.Result        `json:"classification,omitempty"`
}

// Evaluate runs the pipeline. Advisories from every stage are merged into
// the returned report. Classification is skipped when the design names no
// competition or engine is nil.
func Evaluate(d *spec.Design, engine *classify.Engine) (*Evaluation, *validation.Report, error) {
	report := validation.NewReport()
	count := d.Wiring.DriverCount

	// 1. Cone area
	cone, err := area.DriverCone(d.Driver, count)
	if err != nil {
		return nil, nil, err
	}
	ev := &Evaluation{Name: d.Name, ConeArea: cone}

	// 2. Enclosure
	switch d.Enclosure.Type {
	case spec.EnclosureSealed:
		if err := evaluateSealed(d, ev, report); err != nil {
			return nil, nil, err
		}
	case spec.EnclosurePorted:
		if err := evaluatePorted(d, ev, report); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, validation.Invalid("enclosure.type", d.Enclosure.Type, "sealed|ported")
	}

	// 3. Wiring
	w, err := wiring.Calculate(wiring.FromConfig(d.Wiring, d.Driver))
	if err != nil {
		return nil, nil, fmt.Errorf("wiring: %w", err)
	}
	ev.Wiring = w
	report.Merge(w.Advisories)

	// 4. Classification
	if d.Competition != nil && engine != nil {
		res, err := engine.Classify(ClassifyRequest(d, ev))
		if err != nil {
			return nil, nil, fmt.Errorf("classification: %w", err)
		}
		ev.Classification = res
		reportClassification(res, report)
	}

	return ev, report, nil
}

// ClassifyRequest builds the classification request from a design and the
// areas and power already computed for it.
func ClassifyRequest(d *spec.Design, ev *Evaluation) classify.Request {
	c := d.Competition
	req := classify.Request{
		Organization: c.Organization,
		Category:     c.Category,
		ConeAreaIn2:  ev.ConeArea.Total,
		PowerWatts:   c.PowerWatts,
		FuseAmps:     c.FuseAmps,
		DriverCount:  d.Wiring.DriverCount,
		Flags:        c.Flags,
	}
	if ev.PortArea != nil {
		req.PortAreaIn2 = ev.PortArea.Total
	}
	if req.PowerWatts == 0 && ev.Wiring != nil {
		req.PowerWatts = ev.Wiring.TotalRMSWatts
	}
	return req
}

func netVolume(d *spec.Design, portDisplacementL float64) (*enclosure.Volume, error) {
	v, err := enclosure.NetVolume(*d.Enclosure.Box, d.Driver.Displacement, d.Wiring.DriverCount, portDisplacementL)
	if err != nil {
		return nil, fmt.Errorf("enclosure volume: %w", err)
	}
	return v, nil
}

func evaluateSealed(d *spec.Design, ev *Evaluation, report *validation.Report) error {
	ev.NetVolumeL = d.Enclosure.NetVolumeL
	if d.Enclosure.Box != nil {
		v, err := netVolume(d, 0)
		if err != nil {
			return err
		}
		ev.Volume = v
		ev.NetVolumeL = v.NetL
	}

	resp, err := sealed.Calculate(d.Driver, ev.NetVolumeL)
	if err != nil {
		return fmt.Errorf("sealed response: %w", err)
	}
	ev.Sealed = resp
	report.Merge(resp.Advisories)
	return nil
}

func evaluatePorted(d *spec.Design, ev *Evaluation, report *validation.Report) error {
	if d.Enclosure.Port == nil {
		return validation.Invalid("enclosure.port", nil, "a port for a ported enclosure")
	}
	port := *d.Enclosure.Port
	pa, err := area.PortArea(port.Shape, area.PortDims(port), port.Count)
	if err != nil {
		return fmt.Errorf("port area: %w", err)
	}
	ev.PortArea = &pa

	in := enclosure.TuningInput{
		Mode:        enclosure.ModeSolveFrequency,
		Driver:      d.Driver,
		DriverCount: d.Wiring.DriverCount,
		Port:        port,
		TargetHz:    d.Enclosure.TargetHz,
	}
	if in.TargetHz > 0 {
		in.Mode = enclosure.ModeSolveLength
	}

	if d.Enclosure.Box == nil {
		in.NetVolumeL = d.Enclosure.NetVolumeL
		res, err := enclosure.Tune(in)
		if err != nil {
			return fmt.Errorf("port tuning: %w", err)
		}
		ev.NetVolumeL = in.NetVolumeL
		ev.Tuning = res
		report.Merge(res.Advisories)
		return nil
	}

	// The port's own displacement depends on its length, so retune against
	// the reduced volume until the displacement settles.
	vol, err := netVolume(d, 0)
	if err != nil {
		return err
	}
	in.NetVolumeL = vol.NetL
	in.LargestInternalIn = vol.LargestInternalIn
	res, err := enclosure.Tune(in)
	if err != nil {
		return fmt.Errorf("port tuning: %w", err)
	}

	for range maxPortPasses {
		next, err := netVolume(d, res.PortVolumeL)
		if err != nil {
			// Port larger than the box: keep the last pass, which carries the fit warning.
			break
		}
		in.NetVolumeL = next.NetL
		retuned, err := enclosure.Tune(in)
		if err != nil {
			return fmt.Errorf("port tuning: %w", err)
		}
		settled := math.Abs(retuned.PortVolumeL-res.PortVolumeL) < portSettleL
		vol, res = next, retuned
		if settled {
			break
		}
	}

	ev.Volume = vol
	ev.NetVolumeL = vol.NetL
	ev.Tuning = res
	report.Merge(res.Advisories)
	return nil
}

func reportClassification(res *classify.Result, report *validation.Report) {
	for _, v := range res.Violations {
		report.AddWarning(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryEligibility,
			Message:     fmt.Sprintf("%s %s: %s", res.Organization, v.Family, v.Message),
			SpecPath:    "competition",
			ActualValue: v.Actual,
			Expected:    fmt.Sprintf("<= %g (%s)", v.Allowed, v.Limit),
		})
	}
	if !res.Matched() {
		report.AddInfo(validation.Result{
			Level:       validation.LevelAnalytical,
			Category:    validation.CategoryEligibility,
			Message:     fmt.Sprintf("no qualifying %s %s class for metric %.1f", res.Organization, res.Category, res.Metric),
			SpecPath:    "competition",
			ActualValue: res.Metric,
		})
	}
}
