package units

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestLengthConversions(t *testing.T) {
	if got := InchesToMeters(1); got != 0.0254 {
		t.Errorf("InchesToMeters(1) = %v, want 0.0254", got)
	}
	if got := MetersToInches(0.0254); math.Abs(got-1) > tol {
		t.Errorf("MetersToInches(0.0254) = %v, want 1", got)
	}
	if got := MillimetersToMeters(15); math.Abs(got-0.015) > tol {
		t.Errorf("MillimetersToMeters(15) = %v, want 0.015", got)
	}
}

func TestVolumeConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"liters to m3", LitersToCubicMeters(50), 0.05},
		{"m3 to liters", CubicMetersToLiters(0.05), 50},
		{"ft3 to liters", CubicFeetToLiters(1), 28.316846592},
		{"liters to ft3", LitersToCubicFeet(28.316846592), 1},
		{"in3 to liters", CubicInchesToLiters(1728), 28.316846592},
		{"liters to in3", LitersToCubicInches(1), 61.02374409473229},
		{"in3 to ft3", CubicInchesToCubicFeet(3456), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-6 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestAreaConversions(t *testing.T) {
	if got := SquareInchesToSquareCm(1); got != 6.4516 {
		t.Errorf("SquareInchesToSquareCm(1) = %v, want 6.4516", got)
	}
	if got := SquareCmToSquareInches(6.4516); math.Abs(got-1) > tol {
		t.Errorf("SquareCmToSquareInches(6.4516) = %v, want 1", got)
	}
	if got := SquareCmToSquareMeters(500); math.Abs(got-0.05) > tol {
		t.Errorf("SquareCmToSquareMeters(500) = %v, want 0.05", got)
	}
	if got := SquareInchesToSquareMeters(1); math.Abs(got-0.00064516) > tol {
		t.Errorf("SquareInchesToSquareMeters(1) = %v, want 0.00064516", got)
	}
}

func TestRoundTrips(t *testing.T) {
	for _, v := range []float64{0.001, 1, 12.5, 300, 1e6} {
		if got := CubicFeetToLiters(LitersToCubicFeet(v)); math.Abs(got-v) > v*1e-12 {
			t.Errorf("liters round trip %v -> %v", v, got)
		}
		if got := MetersToInches(InchesToMeters(v)); math.Abs(got-v) > v*1e-12 {
			t.Errorf("inches round trip %v -> %v", v, got)
		}
	}
}
