// Package classify maps a measured configuration to competition classes
// using declarative per-organization rule tables.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caraudioevents/subdesigner/pkg/validation"
)

// TableError reports rule tables that failed validation.
type TableError struct {
	Report *validation.Report
}

func (e *TableError) Error() string {
	msgs := make([]string, 0, len(e.Report.Errors))
	for _, r := range e.Report.Errors {
		msgs = append(msgs, r.Message)
	}
	return fmt.Sprintf("invalid rule tables (%s): %s", e.Report.Summary, strings.Join(msgs, "; "))
}

// Engine classifies requests against a validated, immutable set of rule
// tables. It is safe for concurrent use.
type Engine struct {
	orgs map[string]*Organization
	ids  []string
}

// NewEngine validates the tables and builds an engine over them.
func NewEngine(orgs []Organization) (*Engine, error) {
	if report := ValidateTables(orgs); !report.Valid {
		return nil, &TableError{Report: report}
	}
	e := &Engine{orgs: make(map[string]*Organization, len(orgs))}
	for i := range orgs {
		org := orgs[i]
		e.orgs[org.ID] = &org
		e.ids = append(e.ids, org.ID)
	}
	sort.Strings(e.ids)
	return e, nil
}

// Organizations returns the loaded organizations sorted by ID.
// Callers must treat the result as read-only.
func (e *Engine) Organizations() []*Organization {
	out := make([]*Organization, 0, len(e.ids))
	for _, id := range e.ids {
		out = append(out, e.orgs[id])
	}
	return out
}

// Organization looks up an organization by ID.
func (e *Engine) Organization(id string) (*Organization, error) {
	org, ok := e.orgs[id]
	if !ok {
		return nil, validation.Invalid("organization", id, strings.Join(e.ids, "|"))
	}
	return org, nil
}

// Classify evaluates every eligible family of the request's category and
// returns the union of matches. A bracket whose limits are exceeded yields a
// violation instead of a match.
func (e *Engine) Classify(req Request) (*Result, error) {
	org, err := e.Organization(req.Organization)
	if err != nil {
		return nil, err
	}
	cat, err := resolveCategory(org, req.Category)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	value := cat.Metric.Value(req)
	res := &Result{
		Organization: org.ID,
		Category:     cat.ID,
		Metric:       value,
		Matches:      []Match{},
		Violations:   []Violation{},
	}

	for i := range cat.Families {
		fam := &cat.Families[i]
		if !fam.Eligible(req.Flags) {
			res.Ineligible = append(res.Ineligible, fam.ID)
			continue
		}
		b, ok := lookup(fam.Brackets, value)
		if !ok {
			continue
		}
		if v := checkLimits(fam, b, req); len(v) > 0 {
			res.Violations = append(res.Violations, v...)
			continue
		}
		res.Matches = append(res.Matches, Match{
			Family:      fam.ID,
			Class:       b.Class,
			Min:         b.Min,
			Max:         b.Max,
			Description: b.Description,
		})
	}
	return res, nil
}

// lookup finds the bracket containing v. Brackets are sorted and contiguous,
// so the first bracket whose max exceeds v is the only candidate.
func lookup(brackets []Bracket, v float64) (Bracket, bool) {
	i := sort.Search(len(brackets), func(i int) bool {
		return v < float64(brackets[i].Max)
	})
	if i == len(brackets) || !brackets[i].Contains(v) {
		return Bracket{}, false
	}
	return brackets[i], true
}

func checkLimits(fam *Family, b Bracket, req Request) []Violation {
	var out []Violation
	if limit := b.Limits.MaxPowerWatts; limit > 0 && req.PowerWatts > limit {
		out = append(out, Violation{
			Family:  fam.ID,
			Class:   b.Class,
			Limit:   "max_power_watts",
			Actual:  req.PowerWatts,
			Allowed: limit,
			Message: fmt.Sprintf("%.0f W exceeds the %.0f W limit for %s", req.PowerWatts, limit, b.Class),
		})
	}
	if limit := b.Limits.MaxDrivers; limit > 0 && req.DriverCount > limit {
		out = append(out, Violation{
			Family:  fam.ID,
			Class:   b.Class,
			Limit:   "max_drivers",
			Actual:  float64(req.DriverCount),
			Allowed: float64(limit),
			Message: fmt.Sprintf("%d drivers exceeds the %d driver limit for %s", req.DriverCount, limit, b.Class),
		})
	}
	return out
}

func resolveCategory(org *Organization, id string) (*Category, error) {
	if id == "" {
		id = org.DefaultCategory
	}
	if id == "" && len(org.Categories) == 1 {
		return &org.Categories[0], nil
	}
	if cat := org.Category(id); cat != nil {
		return cat, nil
	}
	ids := make([]string, 0, len(org.Categories))
	for _, c := range org.Categories {
		ids = append(ids, c.ID)
	}
	return nil, validation.Invalid("category", id, strings.Join(ids, "|"))
}

func validateRequest(req Request) error {
	if req.DriverCount < 0 {
		return validation.Invalid("driver_count", req.DriverCount, ">= 0")
	}
	return validation.FirstError(
		validation.RequireNonNegative("cone_area_in2", req.ConeAreaIn2),
		validation.RequireNonNegative("port_area_in2", req.PortAreaIn2),
		validation.RequireNonNegative("power_watts", req.PowerWatts),
		validation.RequireNonNegative("fuse_amps", req.FuseAmps),
	)
}
