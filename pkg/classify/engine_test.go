package classify

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/caraudioevents/subdesigner/pkg/validation"
)

func TestFuseFormulaBoundary(t *testing.T) {
	e := Default()

	res, err := e.Classify(Request{Organization: "bassrace", FuseAmps: 50, ConeAreaIn2: 600})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Metric != 1100 {
		t.Errorf("metric = %v, want 1100", res.Metric)
	}
	want := []Match{{Family: "race", Class: "Bass Race 3", Min: 1100, Max: 1800, Description: "1100-1799 points"}}
	if diff := cmp.Diff(want, res.Matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	below, err := e.Classify(Request{Organization: "bassrace", FuseAmps: 50, ConeAreaIn2: 599.99})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if below.Class() != "Bass Race 2" {
		t.Errorf("just below 1100: class = %q, want Bass Race 2", below.Class())
	}
}

func TestWattageCeiling(t *testing.T) {
	e := Default()

	over, err := e.Classify(Request{Organization: "usaci", Category: "pro", ConeAreaIn2: 500, PowerWatts: 10001})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if over.Matched() {
		t.Errorf("10001 W should not qualify, got %+v", over.Matches)
	}
	wantViolations := []Violation{{
		Family:  "pro",
		Class:   "Pro 3",
		Limit:   "max_power_watts",
		Actual:  10001,
		Allowed: 10000,
	}}
	if diff := cmp.Diff(wantViolations, over.Violations, cmpopts.IgnoreFields(Violation{}, "Message")); diff != "" {
		t.Errorf("violations mismatch (-want +got):\n%s", diff)
	}

	at, err := e.Classify(Request{Organization: "usaci", Category: "pro", ConeAreaIn2: 500, PowerWatts: 10000})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if at.Class() != "Pro 3" || len(at.Violations) != 0 {
		t.Errorf("10000 W: class = %q violations = %v, want Pro 3 and none", at.Class(), at.Violations)
	}
}

func TestMultiFamilyReturnsSet(t *testing.T) {
	e := Default()
	tests := []struct {
		name       string
		flags      map[string]bool
		want       []string
		ineligible []string
	}{
		{"stock trunk build", nil, []string{"Trunk 2", "Street 2"}, []string{"modified"}},
		{"modified with wall", map[string]bool{"modified": true, "wall": true}, []string{"Modified 1"}, []string{"trunk", "street"}},
		{"modified without wall", map[string]bool{"modified": true}, []string{"Trunk 2", "Modified 1"}, []string{"street"}},
		{"stock with wall", map[string]bool{"wall": true}, []string{"Street 2"}, []string{"trunk", "modified"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Classify(Request{Organization: "bassleague", ConeAreaIn2: 250, Flags: tt.flags})
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			var got []string
			for _, m := range res.Matches {
				got = append(got, m.Class)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("classes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.ineligible, res.Ineligible); diff != "" {
				t.Errorf("ineligible mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConePlusPortMetric(t *testing.T) {
	res, err := Default().Classify(Request{Organization: "meca", ConeAreaIn2: 191.6, PortAreaIn2: 43.5})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if math.Abs(res.Metric-235.1) > 1e-9 {
		t.Errorf("metric = %v, want 235.1", res.Metric)
	}
	if res.Class() != "Street 3" || res.Category != "spl" {
		t.Errorf("got %s/%s, want spl/Street 3", res.Category, res.Class())
	}
}

func TestMetricSumIsStable(t *testing.T) {
	orgs := bracketsFamily(
		Bracket{Class: "Low", Min: 0, Max: 0.6000000000000001},
		Bracket{Class: "High", Min: 0.6000000000000001, Max: Unbounded},
	)
	orgs[0].Categories[0].Metric = Metric{InputConeArea: 1, InputPortArea: 1, InputFuseAmps: 1}
	e, err := NewEngine(orgs)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	req := Request{Organization: "test", ConeAreaIn2: 0.1, PortAreaIn2: 0.2, FuseAmps: 0.3}
	for i := 0; i < 500; i++ {
		res, err := e.Classify(req)
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if res.Metric != 0.6000000000000001 || res.Class() != "High" {
			t.Fatalf("call %d: metric %v class %q, want 0.6000000000000001 High", i, res.Metric, res.Class())
		}
	}
}

func TestDriverLimit(t *testing.T) {
	res, err := Default().Classify(Request{Organization: "dbdrag", ConeAreaIn2: 90, DriverCount: 3})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Matched() {
		t.Errorf("three drivers in Street 1 should not qualify, got %v", res.Matches)
	}
	if len(res.Violations) != 1 || res.Violations[0].Limit != "max_drivers" {
		t.Errorf("violations = %+v, want one max_drivers violation", res.Violations)
	}
}

func TestDefaultCategory(t *testing.T) {
	res, err := Default().Classify(Request{Organization: "usaci", ConeAreaIn2: 500, PowerWatts: 50000})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Category != "street" || res.Class() != "Street 3" {
		t.Errorf("got %s/%s, want street/Street 3", res.Category, res.Class())
	}
}

func TestClassifyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"unknown organization", Request{Organization: "nope", ConeAreaIn2: 100}, "organization"},
		{"unknown category", Request{Organization: "usaci", Category: "amateur", ConeAreaIn2: 100}, "category"},
		{"negative cone", Request{Organization: "meca", ConeAreaIn2: -1}, "cone_area_in2"},
		{"nan fuse", Request{Organization: "bassrace", FuseAmps: math.NaN()}, "fuse_amps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default().Classify(tt.req)
			var ie *validation.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("err = %v, want InputError", err)
			}
			if ie.Field != tt.field {
				t.Errorf("field = %q, want %q", ie.Field, tt.field)
			}
		})
	}
}

func TestBracketsAreDisjoint(t *testing.T) {
	for _, org := range Default().Organizations() {
		for _, cat := range org.Categories {
			for _, fam := range cat.Families {
				for v := 0.0; v <= 5000; v += 0.5 {
					hits := 0
					for _, b := range fam.Brackets {
						if b.Contains(v) {
							hits++
						}
					}
					if hits > 1 {
						t.Fatalf("%s/%s/%s: %v matches %d brackets", org.ID, cat.ID, fam.ID, v, hits)
					}
					b, ok := lookup(fam.Brackets, v)
					if ok != (hits == 1) || (ok && !b.Contains(v)) {
						t.Fatalf("%s/%s/%s: lookup(%v) disagrees with linear scan", org.ID, cat.ID, fam.ID, v)
					}
				}
			}
		}
	}
}

func bracketsFamily(brackets ...Bracket) []Organization {
	return []Organization{{
		ID:   "test",
		Name: "Test",
		Categories: []Category{{
			ID:       "main",
			Metric:   Metric{InputConeArea: 1},
			Families: []Family{{ID: "main", Brackets: brackets}},
		}},
	}}
}

func TestNewEngineRejectsDefectiveTables(t *testing.T) {
	tests := []struct {
		name string
		orgs []Organization
		msg  string
	}{
		{"gap", bracketsFamily(Bracket{Class: "A", Min: 0, Max: 100}, Bracket{Class: "B", Min: 110, Max: Unbounded}), "bracket gap: A ends at 100 but B starts at 110"},
		{"overlap", bracketsFamily(Bracket{Class: "A", Min: 0, Max: 100}, Bracket{Class: "B", Min: 90, Max: Unbounded}), "bracket overlap"},
		{"empty range", bracketsFamily(Bracket{Class: "A", Min: 100, Max: 100}), "must be less than max"},
		{"unbounded middle", bracketsFamily(Bracket{Class: "A", Min: 0, Max: Unbounded}, Bracket{Class: "B", Min: 100, Max: 200}), "only the last bracket"},
		{"no brackets", bracketsFamily(), "at least one class"},
		{"no organizations", nil, "no organizations"},
		{"unknown metric", []Organization{{ID: "x", Categories: []Category{{ID: "c", Metric: Metric{"horsepower": 1}, Families: []Family{{ID: "f", Brackets: []Bracket{{Class: "A", Max: Unbounded}}}}}}}}, "unknown metric input"},
		{"duplicate org", append(bracketsFamily(Bracket{Class: "A", Max: Unbounded}), bracketsFamily(Bracket{Class: "A", Max: Unbounded})...), "duplicate organization id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.orgs)
			var te *TableError
			if !errors.As(err, &te) {
				t.Fatalf("err = %v, want TableError", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestBuiltinTablesValid(t *testing.T) {
	orgs, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if r := ValidateTables(orgs); !r.Valid {
		t.Fatalf("built-in tables invalid: %+v", r.Errors)
	}
	var ids []string
	for _, org := range Default().Organizations() {
		ids = append(ids, org.ID)
	}
	if diff := cmp.Diff([]string{"bassleague", "bassrace", "dbdrag", "meca", "usaci"}, ids); diff != "" {
		t.Errorf("organizations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("id: x\ncategories:\n  - id: c\n    metric: {cone_area: 1}\n    families:\n      - id: f\n        brackets:\n          - {class: A, min: 0, max: .inf, limits: {max_power: 3}}\n"))
	if err == nil {
		t.Fatal("expected error for misspelled limit")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	table := "id: local\nname: Local Meet\ncategories:\n  - id: open\n    metric: {cone_area: 1}\n    families:\n      - id: open\n        brackets:\n          - {class: Open, min: 0, max: .inf}\n"
	if err := os.WriteFile(filepath.Join(dir, "local.yaml"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	orgs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	e, err := NewEngine(orgs)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	res, err := e.Classify(Request{Organization: "local", ConeAreaIn2: 1e6})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Class() != "Open" {
		t.Errorf("class = %q, want Open", res.Class())
	}
}

func TestBoundJSON(t *testing.T) {
	data, err := json.Marshal(Match{Class: "Extreme", Min: 1000, Max: Unbounded})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"max":null`) {
		t.Errorf("unbounded max should encode as null: %s", data)
	}

	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !math.IsInf(float64(m.Max), 1) || m.Min != 1000 {
		t.Errorf("decoded = %+v, want min 1000 and unbounded max", m)
	}
}

func BenchmarkClassify(b *testing.B) {
	e := Default()
	req := Request{Organization: "bassleague", ConeAreaIn2: 450, Flags: map[string]bool{"modified": true}}
	for b.Loop() {
		if _, err := e.Classify(req); err != nil {
			b.Fatal(err)
		}
	}
}
