package mcptools

import (
	"context"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/enclosure"
	"github.com/caraudioevents/subdesigner/pkg/sealed"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
	"github.com/caraudioevents/subdesigner/pkg/wiring"
)

// Advisory is one non-fatal finding attached to a result.
type Advisory struct {
	Severity string `json:"severity" jsonschema:"warning or recommendation"`
	Category string `json:"category,omitempty" jsonschema:"advisory category such as velocity or fit"`
	Message  string `json:"message" jsonschema:"human readable advisory"`
}

func advisories(r *validation.Report) []Advisory {
	if r == nil {
		return nil
	}
	var out []Advisory
	for _, group := range [][]validation.Result{r.Warnings, r.Recommendations, r.Info} {
		for _, res := range group {
			out = append(out, Advisory{
				Severity: string(res.Severity),
				Category: string(res.Category),
				Message:  res.Message,
			})
		}
	}
	return out
}

// ConeAreaInput describes count identical drivers.
type ConeAreaInput struct {
	Shape      string  `json:"shape" jsonschema:"round or square"`
	DiameterIn float64 `json:"diameter_in,omitempty" jsonschema:"effective cone diameter in inches for round drivers"`
	SideIn     float64 `json:"side_in,omitempty" jsonschema:"side length in inches for square drivers"`
	DiagonalIn float64 `json:"diagonal_in,omitempty" jsonschema:"corner to corner size in inches for square drivers without a side"`
	Count      int     `json:"count" jsonschema:"number of drivers"`
}

// AreaResult is the per-unit and total area in square inches.
type AreaResult struct {
	PerUnitIn2 float64 `json:"per_unit_in2" jsonschema:"area of one driver"`
	Count      int     `json:"count" jsonschema:"number of drivers"`
	TotalIn2   float64 `json:"total_in2" jsonschema:"total radiating area"`
}

// ConeAreaTool defines the cone area tool.
func ConeAreaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cone_area",
		Description: "Computes total radiating cone area for round or square subwoofers",
	}
}

// ConeAreaHandler computes cone area.
func ConeAreaHandler() mcp.ToolHandlerFor[ConeAreaInput, AreaResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ConeAreaInput) (*mcp.CallToolResult, AreaResult, error) {
		a, err := area.ConeArea(in.Shape, area.Dimensions{
			Diameter: in.DiameterIn,
			Side:     in.SideIn,
			Diagonal: in.DiagonalIn,
		}, in.Count)
		if err != nil {
			return nil, AreaResult{}, err
		}
		return nil, AreaResult{PerUnitIn2: a.PerUnit, Count: a.Count, TotalIn2: a.Total}, nil
	}
}

// PortTuningInput describes a vented box and its port.
type PortTuningInput struct {
	Mode        string  `json:"mode" jsonschema:"solve_length or solve_frequency"`
	NetVolumeL  float64 `json:"net_volume_l" jsonschema:"net internal volume in liters"`
	FsHz        float64 `json:"fs_hz" jsonschema:"driver free-air resonance in Hz"`
	SdCm2       float64 `json:"sd_cm2" jsonschema:"effective cone area of one driver in cm²"`
	XmaxMm      float64 `json:"xmax_mm" jsonschema:"one-way linear excursion in mm"`
	DriverCount int     `json:"driver_count,omitempty" jsonschema:"number of drivers, default 1"`
	PortShape   string  `json:"port_shape" jsonschema:"round, square or slot"`
	DiameterIn  float64 `json:"diameter_in,omitempty" jsonschema:"round port diameter in inches"`
	WidthIn     float64 `json:"width_in,omitempty" jsonschema:"slot width or square side in inches"`
	HeightIn    float64 `json:"height_in,omitempty" jsonschema:"slot height in inches"`
	PortCount   int     `json:"port_count" jsonschema:"number of identical ports"`
	Flared      bool    `json:"flared,omitempty" jsonschema:"whether port ends are flared"`
	TargetHz    float64 `json:"target_hz,omitempty" jsonschema:"tuning frequency for solve_length"`
	LengthIn    float64 `json:"length_in,omitempty" jsonschema:"physical port length for solve_frequency"`
}

// PortTuningResult is the solved port.
type PortTuningResult struct {
	TuningHz         float64    `json:"tuning_hz" jsonschema:"box tuning frequency"`
	LengthIn         float64    `json:"length_in" jsonschema:"physical port length in inches"`
	TotalPortAreaIn2 float64    `json:"total_port_area_in2" jsonschema:"total port cross-section"`
	VelocityMS       float64    `json:"velocity_ms" jsonschema:"peak port air velocity in m/s"`
	PortVolumeL      float64    `json:"port_volume_l" jsonschema:"volume the ports displace"`
	Clamped          bool       `json:"clamped" jsonschema:"whether the length hit the physical minimum"`
	Advisories       []Advisory `json:"advisories,omitempty" jsonschema:"non-fatal findings"`
}

// PortTuningTool defines the port tuning tool.
func PortTuningTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "port_tuning",
		Description: "Solves vented box port length for a target frequency, or tuning for a given length",
	}
}

// PortTuningHandler runs the Helmholtz tuning solver.
func PortTuningHandler() mcp.ToolHandlerFor[PortTuningInput, PortTuningResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in PortTuningInput) (*mcp.CallToolResult, PortTuningResult, error) {
		res, err := enclosure.Tune(enclosure.TuningInput{
			Mode:        enclosure.Mode(in.Mode),
			NetVolumeL:  in.NetVolumeL,
			Driver:      spec.DriverSpecs{Fs: in.FsHz, Sd: in.SdCm2, Xmax: in.XmaxMm},
			DriverCount: in.DriverCount,
			Port: spec.PortDimensions{
				Shape:    in.PortShape,
				Diameter: in.DiameterIn,
				Width:    in.WidthIn,
				Height:   in.HeightIn,
				Length:   in.LengthIn,
				Count:    in.PortCount,
				Flared:   in.Flared,
			},
			TargetHz: in.TargetHz,
		})
		if err != nil {
			return nil, PortTuningResult{}, err
		}
		return nil, PortTuningResult{
			TuningHz:         res.TuningHz,
			LengthIn:         res.LengthIn,
			TotalPortAreaIn2: res.TotalPortAreaIn2,
			VelocityMS:       res.VelocityMS,
			PortVolumeL:      res.PortVolumeL,
			Clamped:          res.Clamped,
			Advisories:       advisories(res.Advisories),
		}, nil
	}
}

// SealedInput is the driver and sealed box volume.
type SealedInput struct {
	FsHz       float64 `json:"fs_hz" jsonschema:"driver free-air resonance in Hz"`
	Qts        float64 `json:"qts" jsonschema:"driver total Q"`
	VasL       float64 `json:"vas_l" jsonschema:"driver equivalent compliance volume in liters"`
	NetVolumeL float64 `json:"net_volume_l" jsonschema:"net internal volume in liters"`
}

// SealedResult is the sealed system response.
type SealedResult struct {
	Alpha      float64    `json:"alpha" jsonschema:"compliance ratio Vas/Vb"`
	Qtc        float64    `json:"qtc" jsonschema:"system Q in the box"`
	FcHz       float64    `json:"fc_hz" jsonschema:"system resonance"`
	F3Hz       float64    `json:"f3_hz" jsonschema:"frequency where response is 3 dB down"`
	Advisories []Advisory `json:"advisories,omitempty" jsonschema:"non-fatal findings"`
}

// SealedTool defines the sealed response tool.
func SealedTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "sealed_response",
		Description: "Computes Qtc and F3 for a driver in a sealed box",
	}
}

// SealedHandler computes the sealed response.
func SealedHandler() mcp.ToolHandlerFor[SealedInput, SealedResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in SealedInput) (*mcp.CallToolResult, SealedResult, error) {
		res, err := sealed.Calculate(spec.DriverSpecs{Fs: in.FsHz, Qts: in.Qts, Vas: in.VasL}, in.NetVolumeL)
		if err != nil {
			return nil, SealedResult{}, err
		}
		return nil, SealedResult{
			Alpha:      res.Alpha,
			Qtc:        res.Qtc,
			FcHz:       res.Fc,
			F3Hz:       res.F3,
			Advisories: advisories(res.Advisories),
		}, nil
	}
}

// WiringInput describes the drivers and how they are wired.
type WiringInput struct {
	ImpedanceOhms  float64 `json:"impedance_ohms" jsonschema:"impedance per voice coil"`
	Count          int     `json:"count" jsonschema:"number of drivers"`
	Topology       string  `json:"topology" jsonschema:"series, parallel or series_parallel"`
	RMSWatts       float64 `json:"rms_watts,omitempty" jsonschema:"RMS rating per driver"`
	PeakWatts      float64 `json:"peak_watts,omitempty" jsonschema:"peak rating per driver, default twice RMS"`
	VoiceCoils     int     `json:"voice_coils,omitempty" jsonschema:"1 or 2"`
	CoilWiring     string  `json:"coil_wiring,omitempty" jsonschema:"series or parallel for dual voice coils"`
	AmpMinLoadOhms float64 `json:"amp_min_load_ohms,omitempty" jsonschema:"lowest stable amplifier load"`
}

// WiringResult is the final load and combined power.
type WiringResult struct {
	DriverImpedanceOhms float64    `json:"driver_impedance_ohms" jsonschema:"impedance of one driver after coil wiring"`
	TotalImpedanceOhms  float64    `json:"total_impedance_ohms" jsonschema:"load seen by the amplifier"`
	TotalRMSWatts       float64    `json:"total_rms_watts" jsonschema:"combined RMS handling"`
	TotalPeakWatts      float64    `json:"total_peak_watts" jsonschema:"combined peak handling"`
	Advisories          []Advisory `json:"advisories,omitempty" jsonschema:"non-fatal findings"`
}

// WiringTool defines the wiring tool.
func WiringTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "wiring",
		Description: "Computes the amplifier load and total power for a set of subwoofers",
	}
}

// WiringHandler computes the wiring result.
func WiringHandler() mcp.ToolHandlerFor[WiringInput, WiringResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in WiringInput) (*mcp.CallToolResult, WiringResult, error) {
		res, err := wiring.Calculate(wiring.Input{
			Impedance:  in.ImpedanceOhms,
			Count:      in.Count,
			Topology:   in.Topology,
			RMSWatts:   in.RMSWatts,
			PeakWatts:  in.PeakWatts,
			VoiceCoils: in.VoiceCoils,
			CoilWiring: in.CoilWiring,
			AmpMinLoad: in.AmpMinLoadOhms,
		})
		if err != nil {
			return nil, WiringResult{}, err
		}
		return nil, WiringResult{
			DriverImpedanceOhms: res.DriverImpedance,
			TotalImpedanceOhms:  res.TotalImpedance,
			TotalRMSWatts:       res.TotalRMSWatts,
			TotalPeakWatts:      res.TotalPeakWatts,
			Advisories:          advisories(res.Advisories),
		}, nil
	}
}

// ClassifyInput is the measured configuration to classify.
type ClassifyInput struct {
	Organization string          `json:"organization" jsonschema:"organization id, see list_organizations"`
	Category     string          `json:"category,omitempty" jsonschema:"category id, defaults to the organization's default"`
	ConeAreaIn2  float64         `json:"cone_area_in2" jsonschema:"total cone area in square inches"`
	PortAreaIn2  float64         `json:"port_area_in2,omitempty" jsonschema:"total port area in square inches"`
	PowerWatts   float64         `json:"power_watts,omitempty" jsonschema:"amplifier power in watts"`
	FuseAmps     float64         `json:"fuse_amps,omitempty" jsonschema:"main fuse rating in amps"`
	DriverCount  int             `json:"driver_count,omitempty" jsonschema:"number of subwoofers"`
	Flags        map[string]bool `json:"flags,omitempty" jsonschema:"eligibility flags such as modified or wall"`
}

// ClassMatch is the class found in one family. MaxIn2 is omitted for the
// open top bracket.
type ClassMatch struct {
	Family      string   `json:"family" jsonschema:"bracket family"`
	Class       string   `json:"class" jsonschema:"class name"`
	Min         float64  `json:"min" jsonschema:"inclusive lower edge"`
	Max         *float64 `json:"max,omitempty" jsonschema:"exclusive upper edge, absent when unbounded"`
	Description string   `json:"description,omitempty" jsonschema:"bracket description"`
}

// ClassifyResult is every class the configuration qualifies for.
type ClassifyResult struct {
	Organization string       `json:"organization" jsonschema:"organization id"`
	Category     string       `json:"category" jsonschema:"category id"`
	Metric       float64      `json:"metric" jsonschema:"computed classification metric"`
	Matches      []ClassMatch `json:"matches,omitempty" jsonschema:"matched classes, empty when none apply"`
	Violations   []string     `json:"violations,omitempty" jsonschema:"limits that withheld a class"`
	Ineligible   []string     `json:"ineligible_families,omitempty" jsonschema:"families skipped by flags"`
}

// ClassifyTool defines the classification tool.
func ClassifyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "classify",
		Description: "Finds the competition class for a configuration under one organization's rules",
	}
}

// ClassifyHandler classifies against engine.
func ClassifyHandler(engine *classify.Engine) mcp.ToolHandlerFor[ClassifyInput, ClassifyResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ClassifyInput) (*mcp.CallToolResult, ClassifyResult, error) {
		res, err := engine.Classify(classify.Request{
			Organization: in.Organization,
			Category:     in.Category,
			ConeAreaIn2:  in.ConeAreaIn2,
			PortAreaIn2:  in.PortAreaIn2,
			PowerWatts:   in.PowerWatts,
			FuseAmps:     in.FuseAmps,
			DriverCount:  in.DriverCount,
			Flags:        in.Flags,
		})
		if err != nil {
			return nil, ClassifyResult{}, err
		}
		out := ClassifyResult{
			Organization: res.Organization,
			Category:     res.Category,
			Metric:       res.Metric,
			Ineligible:   res.Ineligible,
		}
		for _, m := range res.Matches {
			out.Matches = append(out.Matches, ClassMatch{
				Family:      m.Family,
				Class:       m.Class,
				Min:         float64(m.Min),
				Max:         finite(m.Max),
				Description: m.Description,
			})
		}
		for _, v := range res.Violations {
			out.Violations = append(out.Violations, v.Message)
		}
		return nil, out, nil
	}
}

func finite(b classify.Bound) *float64 {
	if math.IsInf(float64(b), 1) {
		return nil
	}
	v := float64(b)
	return &v
}

// ListOrganizationsInput takes no arguments.
type ListOrganizationsInput struct{}

// CategorySummary names a category and its classes in bracket order.
type CategorySummary struct {
	ID      string             `json:"id" jsonschema:"category id"`
	Name    string             `json:"name" jsonschema:"display name"`
	Metric  map[string]float64 `json:"metric" jsonschema:"weights applied to each input"`
	Classes []string           `json:"classes" jsonschema:"class names across all families"`
}

// OrganizationSummary describes one organization.
type OrganizationSummary struct {
	ID              string            `json:"id" jsonschema:"organization id"`
	Name            string            `json:"name" jsonschema:"display name"`
	DefaultCategory string            `json:"default_category,omitempty" jsonschema:"category used when none is given"`
	Categories      []CategorySummary `json:"categories" jsonschema:"rule categories"`
}

// ListOrganizationsResult is every organization the engine knows.
type ListOrganizationsResult struct {
	Organizations []OrganizationSummary `json:"organizations" jsonschema:"organizations sorted by id"`
}

// ListOrganizationsTool defines the organization listing tool.
func ListOrganizationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_organizations",
		Description: "Lists competition organizations, their categories and classes",
	}
}

// ListOrganizationsHandler lists engine organizations.
func ListOrganizationsHandler(engine *classify.Engine) mcp.ToolHandlerFor[ListOrganizationsInput, ListOrganizationsResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListOrganizationsInput) (*mcp.CallToolResult, ListOrganizationsResult, error) {
		var out ListOrganizationsResult
		for _, org := range engine.Organizations() {
			summary := OrganizationSummary{ID: org.ID, Name: org.Name, DefaultCategory: org.DefaultCategory}
			for _, cat := range org.Categories {
				cs := CategorySummary{ID: cat.ID, Name: cat.Name, Metric: cat.Metric}
				for _, fam := range cat.Families {
					for _, b := range fam.Brackets {
						cs.Classes = append(cs.Classes, b.Class)
					}
				}
				summary.Categories = append(summary.Categories, cs)
			}
			out.Organizations = append(out.Organizations, summary)
		}
		return nil, out, nil
	}
}
