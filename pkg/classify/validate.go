package classify

import (
	"fmt"
	"math"

	"github.com/caraudioevents/subdesigner/pkg/validation"
)

var knownInputs = map[string]bool{
	InputConeArea:   true,
	InputPortArea:   true,
	InputFuseAmps:   true,
	InputPowerWatts: true,
}

// ValidateTables checks a set of organizations for authoring defects:
// duplicate IDs, unknown metric inputs, and bracket ladders that are
// unsorted, gapped or overlapping.
func ValidateTables(orgs []Organization) *validation.Report {
	r := validation.NewReport()
	seen := map[string]bool{}

	if len(orgs) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelRules,
			Message:  "no organizations defined",
			Expected: "at least 1 organization",
		})
	}

	for i := range orgs {
		org := &orgs[i]
		path := fmt.Sprintf("organizations[%d]", i)
		if org.ID == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelRules,
				Message:  fmt.Sprintf("%s: id must not be empty", path),
				SpecPath: path + ".id",
			})
		} else {
			path = org.ID
		}
		if seen[org.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("duplicate organization id %q", org.ID),
				SpecPath:    path + ".id",
				ActualValue: org.ID,
			})
		}
		seen[org.ID] = true
		validateOrganization(org, path, r)
	}
	return r
}

func validateOrganization(org *Organization, path string, r *validation.Report) {
	if len(org.Categories) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelRules,
			Message:  fmt.Sprintf("%s: categories must contain at least one category", path),
			SpecPath: path + ".categories",
			Expected: "at least 1 category",
		})
		return
	}
	if org.DefaultCategory != "" && org.Category(org.DefaultCategory) == nil {
		r.AddError(validation.Result{
			Level:       validation.LevelRules,
			Message:     fmt.Sprintf("%s: default_category %q is not defined", path, org.DefaultCategory),
			SpecPath:    path + ".default_category",
			ActualValue: org.DefaultCategory,
		})
	}

	seen := map[string]bool{}
	for i := range org.Categories {
		cat := &org.Categories[i]
		cpath := fmt.Sprintf("%s.categories[%d]", path, i)
		if cat.ID == "" || seen[cat.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s: category id must be unique and non-empty", cpath),
				SpecPath:    cpath + ".id",
				ActualValue: cat.ID,
			})
		}
		seen[cat.ID] = true
		validateMetric(cat.Metric, cpath, r)
		validateFamilies(cat.Families, cpath, r)
	}
}

func validateMetric(m Metric, path string, r *validation.Report) {
	positive := false
	for name, w := range m {
		if !knownInputs[name] {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s: unknown metric input %q", path, name),
				SpecPath:    path + ".metric." + name,
				ActualValue: name,
				Expected:    "cone_area|port_area|fuse_amps|power_watts",
			})
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s: metric weight for %s must be a finite non-negative number", path, name),
				SpecPath:    path + ".metric." + name,
				ActualValue: w,
				Expected:    ">= 0",
			})
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		r.AddError(validation.Result{
			Level:    validation.LevelRules,
			Message:  fmt.Sprintf("%s: metric needs at least one positive weight", path),
			SpecPath: path + ".metric",
		})
	}
}

func validateFamilies(families []Family, path string, r *validation.Report) {
	if len(families) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelRules,
			Message:  fmt.Sprintf("%s: families must contain at least one family", path),
			SpecPath: path + ".families",
		})
		return
	}
	seen := map[string]bool{}
	for i := range families {
		f := &families[i]
		fpath := fmt.Sprintf("%s.families[%d]", path, i)
		if f.ID == "" || seen[f.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s: family id must be unique and non-empty", fpath),
				SpecPath:    fpath + ".id",
				ActualValue: f.ID,
			})
		}
		seen[f.ID] = true
		validateBrackets(f.Brackets, fpath, r)
	}
}

func validateBrackets(brackets []Bracket, path string, r *validation.Report) {
	if len(brackets) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelRules,
			Message:  fmt.Sprintf("%s: brackets must contain at least one class", path),
			SpecPath: path + ".brackets",
		})
		return
	}

	for i, b := range brackets {
		bpath := fmt.Sprintf("%s.brackets[%d]", path, i)
		if b.Class == "" {
			r.AddError(validation.Result{
				Level:    validation.LevelRules,
				Message:  fmt.Sprintf("%s: class must not be empty", bpath),
				SpecPath: bpath + ".class",
			})
		}
		lo, hi := float64(b.Min), float64(b.Max)
		if math.IsNaN(lo) || math.IsInf(lo, 0) || lo < 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s (%s): min must be a finite non-negative number", bpath, b.Class),
				SpecPath:    bpath + ".min",
				ActualValue: lo,
				Expected:    ">= 0",
			})
		}
		if math.IsNaN(hi) || lo >= hi {
			r.AddError(validation.Result{
				Level:       validation.LevelRules,
				Message:     fmt.Sprintf("%s (%s): min (%g) must be less than max (%g)", bpath, b.Class, lo, hi),
				SpecPath:    bpath,
				ActualValue: fmt.Sprintf("%g-%g", lo, hi),
			})
		}
		if b.Limits.MaxPowerWatts < 0 || b.Limits.MaxDrivers < 0 {
			r.AddError(validation.Result{
				Level:    validation.LevelRules,
				Message:  fmt.Sprintf("%s (%s): limits must be non-negative", bpath, b.Class),
				SpecPath: bpath + ".limits",
			})
		}
		if i < len(brackets)-1 && math.IsInf(hi, 1) {
			r.AddError(validation.Result{
				Level:    validation.LevelRules,
				Message:  fmt.Sprintf("%s (%s): only the last bracket may be unbounded", bpath, b.Class),
				SpecPath: bpath + ".max",
			})
		}
	}

	// Continuity: each bracket's max must equal the next bracket's min.
	for i := 0; i < len(brackets)-1; i++ {
		cur, next := brackets[i], brackets[i+1]
		if cur.Max == next.Min {
			continue
		}
		kind := "gap"
		if next.Min < cur.Max {
			kind = "overlap"
		}
		r.AddError(validation.Result{
			Level:       validation.LevelRules,
			Message:     fmt.Sprintf("bracket %s: %s ends at %g but %s starts at %g", kind, cur.Class, float64(cur.Max), next.Class, float64(next.Min)),
			SpecPath:    fmt.Sprintf("%s.brackets[%d].min", path, i+1),
			ActualValue: float64(next.Min),
			Expected:    fmt.Sprintf("%g (matching %s.max)", float64(cur.Max), cur.Class),
		})
	}
}
