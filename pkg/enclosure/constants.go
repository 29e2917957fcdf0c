package enclosure

// End-correction coefficients applied as ΔL = k·√(port area).
const (
	EndCorrectionFlared   = 0.425
	EndCorrectionStraight = 0.613
)

// MinPortLengthM is the floor applied when the solved port length is
// non-physical (zero or negative).
const MinPortLengthM = 0.01 // m

// Port air-velocity ceilings above which chuffing becomes audible.
const (
	MaxVelocityStraight = 15.0 // m/s
	MaxVelocityFlared   = 20.0 // m/s
)

// Advisory bands.
const (
	MinTuningRatio = 0.6 // Fb/Fs
	MaxTuningRatio = 1.3 // Fb/Fs

	MinPortAreaPerCuFt = 12.0 // in² per ft³ of net volume
	MaxPortAreaPerCuFt = 20.0 // in² per ft³ of net volume

	MaxRoundPorts = 4
)
