// Package units converts between the imperial units car-audio builders work
// in and the SI units the acoustic formulas expect.
package units

// InchesToMeters converts a length in inches to meters.
func InchesToMeters(in float64) float64 { return in * MetersPerInch }

// MetersToInches converts a length in meters to inches.
func MetersToInches(m float64) float64 { return m / MetersPerInch }

// MillimetersToMeters converts a length in millimeters to meters.
func MillimetersToMeters(mm float64) float64 { return mm * MetersPerMillimeter }

// LitersToCubicMeters converts a volume in liters to cubic meters.
func LitersToCubicMeters(l float64) float64 { return l * CubicMetersPerLiter }

// CubicMetersToLiters converts a volume in cubic meters to liters.
func CubicMetersToLiters(m3 float64) float64 { return m3 / CubicMetersPerLiter }

// LitersToCubicFeet converts a volume in liters to cubic feet.
func LitersToCubicFeet(l float64) float64 { return l / LitersPerCubicFoot }

// CubicFeetToLiters converts a volume in cubic feet to liters.
func CubicFeetToLiters(ft3 float64) float64 { return ft3 * LitersPerCubicFoot }

// CubicInchesToLiters converts a volume in cubic inches to liters.
func CubicInchesToLiters(in3 float64) float64 { return in3 * LitersPerCubicInch }

// LitersToCubicInches converts a volume in liters to cubic inches.
func LitersToCubicInches(l float64) float64 { return l / LitersPerCubicInch }

// CubicInchesToCubicFeet converts a volume in cubic inches to cubic feet.
func CubicInchesToCubicFeet(in3 float64) float64 { return in3 / CubicInchesPerCubicFoot }

// SquareInchesToSquareCm converts an area in square inches to square centimeters.
func SquareInchesToSquareCm(in2 float64) float64 { return in2 * SquareCmPerSquareInch }

// SquareCmToSquareInches converts an area in square centimeters to square inches.
func SquareCmToSquareInches(cm2 float64) float64 { return cm2 / SquareCmPerSquareInch }

// SquareCmToSquareMeters converts an area in square centimeters to square meters.
func SquareCmToSquareMeters(cm2 float64) float64 { return cm2 * SquareMetersPerSquareCm }

// SquareInchesToSquareMeters converts an area in square inches to square meters.
func SquareInchesToSquareMeters(in2 float64) float64 {
	return SquareCmToSquareMeters(SquareInchesToSquareCm(in2))
}
