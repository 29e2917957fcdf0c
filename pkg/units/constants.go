package units

// Conversion factors. Every calculator converts through this package.
const (
	MetersPerInch           = 0.0254       // m/in (exact)
	MetersPerMillimeter     = 0.001        // m/mm
	CubicMetersPerLiter     = 0.001        // m³/L
	SquareCmPerSquareInch   = 6.4516       // cm²/in² (exact)
	SquareMetersPerSquareCm = 0.0001       // m²/cm²
	LitersPerCubicFoot      = 28.316846592 // L/ft³
	LitersPerCubicInch      = 0.016387064  // L/in³ (exact)
	CubicInchesPerCubicFoot = 1728.0       // in³/ft³

	SpeedOfSound = 343.0 // m/s, air at ~20°C
)
