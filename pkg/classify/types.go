package classify

import (
	"encoding/json"
	"math"
)

// Metric inputs a category's weights may reference.
const (
	InputConeArea   = "cone_area"
	InputPortArea   = "port_area"
	InputFuseAmps   = "fuse_amps"
	InputPowerWatts = "power_watts"
)

// Organization is one sanctioning body's rule table.
type Organization struct {
	ID              string     `yaml:"id" json:"id"`
	Name            string     `yaml:"name" json:"name"`
	DefaultCategory string     `yaml:"default_category,omitempty" json:"default_category,omitempty"`
	Categories      []Category `yaml:"categories" json:"categories"`
}

// Category returns the category with the given ID, or nil if not found.
func (o *Organization) Category(id string) *Category {
	for i := range o.Categories {
		if o.Categories[i].ID == id {
			return &o.Categories[i]
		}
	}
	return nil
}

// Category is a competition division with its own metric and class families.
type Category struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Metric   Metric   `yaml:"metric" json:"metric"`
	Families []Family `yaml:"families" json:"families"`
}

// Metric is a weighted sum over request inputs, e.g. {fuse_amps: 10, cone_area: 1}.
type Metric map[string]float64

// inputOrder fixes the summation order so a metric is the same float for
// the same request.
var inputOrder = []string{InputConeArea, InputPortArea, InputFuseAmps, InputPowerWatts}

// Value evaluates the metric for a request.
func (m Metric) Value(req Request) float64 {
	inputs := req.inputs()
	total := 0.0
	for _, name := range inputOrder {
		if w, ok := m[name]; ok {
			total += w * inputs[name]
		}
	}
	return total
}

// Family is an independent ladder of classes. A vehicle may place in several
// families at once when it meets each family's flag preconditions.
type Family struct {
	ID       string          `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Requires map[string]bool `yaml:"requires,omitempty" json:"requires,omitempty"`
	Brackets []Bracket       `yaml:"brackets" json:"brackets"`
}

// Eligible reports whether the declared flags satisfy every precondition.
// Undeclared flags read as false.
func (f *Family) Eligible(flags map[string]bool) bool {
	for flag, want := range f.Requires {
		if flags[flag] != want {
			return false
		}
	}
	return true
}

// Bracket is one class covering the half-open metric range [Min, Max).
type Bracket struct {
	Class       string `yaml:"class" json:"class"`
	Min         Bound  `yaml:"min" json:"min"`
	Max         Bound  `yaml:"max" json:"max"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Limits      Limits `yaml:"limits,omitempty" json:"limits,omitempty"`
}

// Contains reports whether v falls in [Min, Max).
func (b Bracket) Contains(v float64) bool {
	return v >= float64(b.Min) && v < float64(b.Max)
}

// Limits are per-bracket eligibility ceilings checked after the bracket
// match. Zero means no limit.
type Limits struct {
	MaxPowerWatts float64 `yaml:"max_power_watts,omitempty" json:"max_power_watts,omitempty"`
	MaxDrivers    int     `yaml:"max_drivers,omitempty" json:"max_drivers,omitempty"`
}

// Bound is a bracket edge. +Inf marks an open top and encodes as JSON null.
type Bound float64

// Unbounded is the open top of the last bracket.
var Unbounded = Bound(math.Inf(1))

func (b Bound) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(b), 1) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(b))
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = Unbounded
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*b = Bound(f)
	return nil
}

// Request is the measured configuration to classify.
type Request struct {
	Organization string          `json:"organization"`
	Category     string          `json:"category,omitempty"`
	ConeAreaIn2  float64         `json:"cone_area_in2"`
	PortAreaIn2  float64         `json:"port_area_in2,omitempty"`
	PowerWatts   float64         `json:"power_watts,omitempty"`
	FuseAmps     float64         `json:"fuse_amps,omitempty"`
	DriverCount  int             `json:"driver_count,omitempty"`
	Flags        map[string]bool `json:"flags,omitempty"`
}

func (r Request) inputs() map[string]float64 {
	return map[string]float64{
		InputConeArea:   r.ConeAreaIn2,
		InputPortArea:   r.PortAreaIn2,
		InputFuseAmps:   r.FuseAmps,
		InputPowerWatts: r.PowerWatts,
	}
}

// Result lists every class the configuration qualifies for.
// No matches is a valid outcome.
type Result struct {
	Organization string      `json:"organization"`
	Category     string      `json:"category"`
	Metric       float64     `json:"metric"`
	Matches      []Match     `json:"matches"`
	Violations   []Violation `json:"violations"`
	Ineligible   []string    `json:"ineligible_families,omitempty"`
}

// Matched reports whether at least one class was found.
func (r *Result) Matched() bool { return len(r.Matches) > 0 }

// Class returns the first matched class name, or "" when none matched.
func (r *Result) Class() string {
	if len(r.Matches) == 0 {
		return ""
	}
	return r.Matches[0].Class
}

// Match is the class found in one family.
type Match struct {
	Family      string `json:"family"`
	Class       string `json:"class"`
	Min         Bound  `json:"min"`
	Max         Bound  `json:"max"`
	Description string `json:"description,omitempty"`
}

// Violation explains why a matched bracket was withheld.
type Violation struct {
	Family  string  `json:"family"`
	Class   string  `json:"class"`
	Limit   string  `json:"limit"`
	Actual  float64 `json:"actual"`
	Allowed float64 `json:"allowed"`
	Message string  `json:"message"`
}
