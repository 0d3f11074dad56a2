package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RadioConfig groups the first-order radio model constants.
type RadioConfig struct {
	ElectronicsJPerBit float64 `yaml:"electronics_j_per_bit"` // TX/RX electronics cost (J/bit)
	FreeSpaceAmpJ      float64 `yaml:"free_space_amp_j"`      // free-space amplifier (J/bit/m²)
	MultipathAmpJ      float64 `yaml:"multipath_amp_j"`       // multipath amplifier (J/bit/m⁴)
	AggregationJPerBit float64 `yaml:"aggregation_j_per_bit"` // aggregation cost (J/bit/signal)
}

// Model builds the RadioModel, deriving the free-space/multipath threshold.
func (rc RadioConfig) Model() RadioModel {
	return NewRadioModel(rc.ElectronicsJPerBit, rc.FreeSpaceAmpJ, rc.MultipathAmpJ, rc.AggregationJPerBit)
}

// ScenarioConfig is the full description of one simulation scenario.
// Loaded from YAML via LoadScenario(path), or assembled from CLI flags.
type ScenarioConfig struct {
	AreaWidthM     float64     `yaml:"area_width_m"`     // deployment area width (m), must be > 0
	AreaHeightM    float64     `yaml:"area_height_m"`    // deployment area height (m), must be > 0
	NodeCount      int         `yaml:"node_count"`       // number of sensors, must be > 0
	CHProbability  float64     `yaml:"ch_probability"`   // desired cluster-head probability, in (0,1]
	PacketSizeBits float64     `yaml:"packet_size_bits"` // data packet size (bits), must be > 0
	InitialEnergyJ float64     `yaml:"initial_energy_j"` // per-node energy budget (J), must be > 0
	MaxRounds      int         `yaml:"max_rounds"`       // round cap for Run, must be > 0
	Radio          RadioConfig `yaml:"radio"`

	// BaseStationX/Y pin the sink position. Both nil means the area center.
	BaseStationX *float64 `yaml:"base_station_x,omitempty"`
	BaseStationY *float64 `yaml:"base_station_y,omitempty"`
}

// DefaultScenario returns the canonical 500×500 m, 100-node scenario with the
// standard first-order radio constants. The 0.5 J per-node budget is sized so
// the whole network depletes inside the 2000-round cap even for nodes sitting
// next to the sink, which only ever pay free-space costs.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		AreaWidthM:     500.0,
		AreaHeightM:    500.0,
		NodeCount:      100,
		CHProbability:  0.1,
		PacketSizeBits: 4000.0,
		InitialEnergyJ: 0.5,
		MaxRounds:      2000,
		Radio: RadioConfig{
			ElectronicsJPerBit: 5e-8,
			FreeSpaceAmpJ:      1e-11,
			MultipathAmpJ:      1.3e-15,
			AggregationJPerBit: 5e-9,
		},
	}
}

// BaseStation returns the sink position: the configured point, or the area
// center when none is set.
func (c ScenarioConfig) BaseStation() Position {
	bs := Position{X: c.AreaWidthM / 2.0, Y: c.AreaHeightM / 2.0}
	if c.BaseStationX != nil {
		bs.X = *c.BaseStationX
	}
	if c.BaseStationY != nil {
		bs.Y = *c.BaseStationY
	}
	return bs
}

// Validate enforces the construction-time preconditions. Everything past this
// point is either a well-defined round or a documented no-op, so this is the
// only place a scenario can be rejected.
func (c ScenarioConfig) Validate() error {
	if c.AreaWidthM <= 0 || c.AreaHeightM <= 0 {
		return fmt.Errorf("deployment area must be positive, got %gx%g", c.AreaWidthM, c.AreaHeightM)
	}
	if c.NodeCount <= 0 {
		return fmt.Errorf("node count must be positive, got %d", c.NodeCount)
	}
	if c.CHProbability <= 0 || c.CHProbability > 1 {
		return fmt.Errorf("cluster-head probability must be in (0,1], got %g", c.CHProbability)
	}
	if c.PacketSizeBits <= 0 {
		return fmt.Errorf("packet size must be positive, got %g bits", c.PacketSizeBits)
	}
	if c.InitialEnergyJ <= 0 {
		return fmt.Errorf("initial energy must be positive, got %g J", c.InitialEnergyJ)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("max rounds must be positive, got %d", c.MaxRounds)
	}
	if c.Radio.ElectronicsJPerBit <= 0 || c.Radio.FreeSpaceAmpJ <= 0 ||
		c.Radio.MultipathAmpJ <= 0 || c.Radio.AggregationJPerBit <= 0 {
		return fmt.Errorf("radio constants must all be positive: %+v", c.Radio)
	}
	return nil
}

// LoadScenario reads a YAML scenario file on top of the defaults, so partial
// files only need to name the fields they change.
func LoadScenario(path string) (ScenarioConfig, error) {
	cfg := DefaultScenario()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return cfg, nil
}
