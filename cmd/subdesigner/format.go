package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/caraudioevents/subdesigner/pkg/area"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/design"
	"github.com/caraudioevents/subdesigner/pkg/enclosure"
	"github.com/caraudioevents/subdesigner/pkg/sealed"
	"github.com/caraudioevents/subdesigner/pkg/validation"
	"github.com/caraudioevents/subdesigner/pkg/wiring"
)

var printer = message.NewPrinter(language.English)

// num formats v with digit grouping and prec decimals.
func num(v float64, prec int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", prec), v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResults(w io.Writer, title string, results []validation.Result, detail bool) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", title, len(results))
	for _, r := range results {
		if r.Category != "" {
			fmt.Fprintf(w, "  [%s/%s] %s\n", r.Level, r.Category, r.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", r.Level, r.Message)
		}
		if !detail {
			continue
		}
		if r.SpecPath != "" {
			fmt.Fprintf(w, "    -> %s = %v\n", r.SpecPath, r.ActualValue)
		}
		if r.Expected != "" {
			fmt.Fprintf(w, "    expected: %s\n", r.Expected)
		}
		if r.ConflictWith != "" {
			fmt.Fprintf(w, "    conflicts with: %s\n", r.ConflictWith)
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "    * %s\n", s)
		}
	}
	fmt.Fprintln(w)
}

func printValidationReport(w io.Writer, r *validation.Report) {
	if r == nil {
		return
	}
	printResults(w, "ERRORS", r.Errors, true)
	printResults(w, "WARNINGS", r.Warnings, true)
	printResults(w, "RECOMMENDATIONS", r.Recommendations, true)
	printResults(w, "INFO", r.Info, false)

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printArea(w io.Writer, kind string, a area.Area) {
	fmt.Fprintf(w, "%s area (%s)\n", strings.ToUpper(kind[:1])+kind[1:], a.Shape)
	fmt.Fprintf(w, "  Per unit:  %s in²\n", num(a.PerUnit, 2))
	fmt.Fprintf(w, "  Count:     %d\n", a.Count)
	fmt.Fprintf(w, "  Total:     %s in²\n", num(a.Total, 2))
}

func printTuning(w io.Writer, r *enclosure.TuningResult) {
	fmt.Fprintln(w, "Port Tuning")
	fmt.Fprintln(w, "===========")
	fmt.Fprintf(w, "  Tuning:          %s Hz\n", num(r.TuningHz, 2))
	fmt.Fprintf(w, "  Port length:     %s in (%s m)\n", num(r.LengthIn, 2), num(r.LengthM, 4))
	if r.Clamped {
		fmt.Fprintln(w, "                   (clamped to the minimum physical length)")
	}
	fmt.Fprintf(w, "  End correction:  %s m\n", num(r.EndCorrectionM, 4))
	fmt.Fprintf(w, "  Port area:       %s in² each, %s in² total\n", num(r.PortAreaIn2, 2), num(r.TotalPortAreaIn2, 2))
	fmt.Fprintf(w, "  Port velocity:   %s m/s\n", num(r.VelocityMS, 2))
	fmt.Fprintf(w, "  Port volume:     %s L\n", num(r.PortVolumeL, 2))
}

func printSealed(w io.Writer, r *sealed.Response) {
	fmt.Fprintln(w, "Sealed Response")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "  Alpha (Vas/Vb):     %s\n", num(r.Alpha, 3))
	fmt.Fprintf(w, "  Qtc:                %s\n", num(r.Qtc, 3))
	fmt.Fprintf(w, "  Fc:                 %s Hz\n", num(r.Fc, 2))
	fmt.Fprintf(w, "  F3:                 %s Hz\n", num(r.F3, 2))
}

func printWiring(w io.Writer, r *wiring.Result) {
	fmt.Fprintln(w, "Wiring")
	fmt.Fprintln(w, "======")
	fmt.Fprintf(w, "  Per driver:   %s ohms\n", num(r.DriverImpedance, 2))
	fmt.Fprintf(w, "  Final load:   %s ohms\n", num(r.TotalImpedance, 2))
	fmt.Fprintf(w, "  Total RMS:    %s W\n", num(r.TotalRMSWatts, 0))
	fmt.Fprintf(w, "  Total peak:   %s W\n", num(r.TotalPeakWatts, 0))
}

func bracketRange(lo, hi classify.Bound) string {
	if math.IsInf(float64(hi), 1) {
		return num(float64(lo), 0) + "+"
	}
	return num(float64(lo), 0) + "-" + num(float64(hi), 0)
}

func printClassification(w io.Writer, r *classify.Result) {
	fmt.Fprintf(w, "Classification: %s / %s\n", r.Organization, r.Category)
	fmt.Fprintf(w, "  Metric:  %s\n", num(r.Metric, 2))
	if !r.Matched() {
		fmt.Fprintln(w, "  Class:   none")
	}
	for _, m := range r.Matches {
		fmt.Fprintf(w, "  Class:   %s [%s] (%s)\n", m.Class, m.Family, bracketRange(m.Min, m.Max))
		if m.Description != "" {
			fmt.Fprintf(w, "           %s\n", m.Description)
		}
	}
	for _, v := range r.Violations {
		fmt.Fprintf(w, "  Withheld: %s\n", v.Message)
	}
	if len(r.Ineligible) > 0 {
		fmt.Fprintf(w, "  Not eligible: %s\n", strings.Join(r.Ineligible, ", "))
	}
}

func printOrganizations(w io.Writer, orgs []*classify.Organization) {
	for _, org := range orgs {
		fmt.Fprintf(w, "%s (%s)\n", org.Name, org.ID)
		for _, cat := range org.Categories {
			marker := ""
			if cat.ID == org.DefaultCategory {
				marker = " (default)"
			}
			fmt.Fprintf(w, "  %s%s\n", cat.ID, marker)
			for _, fam := range cat.Families {
				for _, b := range fam.Brackets {
					fmt.Fprintf(w, "    %-18s %-14s %s\n", b.Class, bracketRange(b.Min, b.Max), fam.ID)
				}
			}
		}
	}
}

func printEvaluation(w io.Writer, ev *design.Evaluation) {
	fmt.Fprintf(w, "Design: %s\n", ev.Name)
	fmt.Fprintln(w, strings.Repeat("=", len("Design: ")+len(ev.Name)))
	fmt.Fprintf(w, "  Cone area:       %s in² (%d x %s)\n", num(ev.ConeArea.Total, 2), ev.ConeArea.Count, num(ev.ConeArea.PerUnit, 2))
	if ev.PortArea != nil {
		fmt.Fprintf(w, "  Port area:       %s in²\n", num(ev.PortArea.Total, 2))
	}
	if ev.Volume != nil {
		fmt.Fprintf(w, "  Gross internal:  %s L\n", num(ev.Volume.InternalGrossL, 2))
	}
	fmt.Fprintf(w, "  Net volume:      %s L\n", num(ev.NetVolumeL, 2))
	fmt.Fprintln(w)

	if ev.Tuning != nil {
		printTuning(w, ev.Tuning)
		fmt.Fprintln(w)
	}
	if ev.Sealed != nil {
		printSealed(w, ev.Sealed)
		fmt.Fprintln(w)
	}
	if ev.Wiring != nil {
		printWiring(w, ev.Wiring)
	}
	if ev.Classification != nil {
		fmt.Fprintln(w)
		printClassification(w, ev.Classification)
	}
}
