package spec

// Design is the top-level document describing one subwoofer build.
type Design struct {
	SpecVersion string       `yaml:"spec_version" json:"spec_version"`
	Name        string       `yaml:"name" json:"name"`
	Driver      DriverSpecs  `yaml:"driver" json:"driver"`
	Enclosure   EnclosureDef `yaml:"enclosure" json:"enclosure"`
	Wiring      WiringConfig `yaml:"wiring" json:"wiring"`
	Competition *Competition `yaml:"competition,omitempty" json:"competition,omitempty"`
}

// Driver shapes.
const (
	ShapeRound  = "round"
	ShapeSquare = "square"
	ShapeSlot   = "slot"
)

// DriverSpecs holds the Thiele-Small parameters and ratings of one driver.
type DriverSpecs struct {
	Fs            float64 `yaml:"fs" json:"fs"`                           // Hz
	Qts           float64 `yaml:"qts" json:"qts"`                         // dimensionless
	Vas           float64 `yaml:"vas_l" json:"vas_l"`                     // L
	Sd            float64 `yaml:"sd_cm2" json:"sd_cm2"`                   // cm²
	Xmax          float64 `yaml:"xmax_mm" json:"xmax_mm"`                 // mm, one-way
	Displacement  float64 `yaml:"displacement_l" json:"displacement_l"`   // L
	Impedance     float64 `yaml:"impedance_ohms" json:"impedance_ohms"`   // Ω per voice coil
	RMSWatts      float64 `yaml:"rms_watts" json:"rms_watts"`             // W
	PeakWatts     float64 `yaml:"peak_watts,omitempty" json:"peak_watts"` // W, 0 means 2×RMS
	NominalSizeIn float64 `yaml:"nominal_size_in" json:"nominal_size_in"` // in, diameter or square side
	Shape         string  `yaml:"shape" json:"shape"`                     // round|square
}

// EffectivePeakWatts returns PeakWatts, defaulting to twice the RMS rating.
func (d DriverSpecs) EffectivePeakWatts() float64 {
	if d.PeakWatts > 0 {
		return d.PeakWatts
	}
	return 2 * d.RMSWatts
}

// Enclosure types.
const (
	EnclosureSealed = "sealed"
	EnclosurePorted = "ported"
)

// EnclosureDef describes the box and, for ported designs, its port.
type EnclosureDef struct {
	Type       string          `yaml:"type" json:"type"` // sealed|ported
	Box        *BoxDimensions  `yaml:"box,omitempty" json:"box,omitempty"`
	NetVolumeL float64         `yaml:"net_volume_l,omitempty" json:"net_volume_l,omitempty"`
	Port       *PortDimensions `yaml:"port,omitempty" json:"port,omitempty"`
	TargetHz   float64         `yaml:"target_hz,omitempty" json:"target_hz,omitempty"`
}

// BoxDimensions are the external dimensions of a rectangular enclosure.
type BoxDimensions struct {
	Width     float64 `yaml:"width_in" json:"width_in"`
	Height    float64 `yaml:"height_in" json:"height_in"`
	Depth     float64 `yaml:"depth_in" json:"depth_in"`
	Thickness float64 `yaml:"thickness_in" json:"thickness_in"`
	BracingL  float64 `yaml:"bracing_l,omitempty" json:"bracing_l,omitempty"`
}

// PortDimensions describes one or more identical ports.
type PortDimensions struct {
	Shape    string  `yaml:"shape" json:"shape"` // round|square|slot
	Diameter float64 `yaml:"diameter_in,omitempty" json:"diameter_in,omitempty"`
	Width    float64 `yaml:"width_in,omitempty" json:"width_in,omitempty"`
	Height   float64 `yaml:"height_in,omitempty" json:"height_in,omitempty"`
	Length   float64 `yaml:"length_in,omitempty" json:"length_in,omitempty"`
	Count    int     `yaml:"count" json:"count"`
	Flared   bool    `yaml:"flared" json:"flared"`
}

// Wiring topologies.
const (
	TopologySeries         = "series"
	TopologyParallel       = "parallel"
	TopologySeriesParallel = "series_parallel"
)

// WiringConfig describes how the drivers are connected to the amplifier.
type WiringConfig struct {
	DriverCount int     `yaml:"driver_count" json:"driver_count"`
	Topology    string  `yaml:"topology" json:"topology"`
	VoiceCoils  int     `yaml:"voice_coils,omitempty" json:"voice_coils,omitempty"` // 1 or 2, default 1
	CoilWiring  string  `yaml:"coil_wiring,omitempty" json:"coil_wiring,omitempty"` // series|parallel for dual coils
	AmpMinLoad  float64 `yaml:"amp_min_load_ohms,omitempty" json:"amp_min_load_ohms,omitempty"`
}

// Competition selects the sanctioning organization the build is entered in.
type Competition struct {
	Organization string          `yaml:"organization" json:"organization"`
	Category     string          `yaml:"category,omitempty" json:"category,omitempty"`
	FuseAmps     float64         `yaml:"fuse_amps,omitempty" json:"fuse_amps,omitempty"`
	PowerWatts   float64         `yaml:"power_watts,omitempty" json:"power_watts,omitempty"` // 0 means total RMS
	Flags        map[string]bool `yaml:"flags,omitempty" json:"flags,omitempty"`
}
