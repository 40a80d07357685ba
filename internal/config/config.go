// YAML config loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"uav-aoi-sim/internal/channel"
	"uav-aoi-sim/internal/energy"
	"uav-aoi-sim/internal/geom"
	"uav-aoi-sim/internal/guard"
	"uav-aoi-sim/internal/mission"
	"uav-aoi-sim/internal/policy"
)

// UAV holds the airframe and battery settings.
type UAV struct {
	SpeedMps      float64 `yaml:"speed_mps"`
	BatteryWh     float64 `yaml:"battery_Wh"`
	MassKg        float64 `yaml:"mass_kg"`
	Gravity       float64 `yaml:"g"`
	RotorRadiusM  float64 `yaml:"rotor_radius_m"`
	BladeTipSpeed float64 `yaml:"blade_tip_speed"`
	RotorSolidity float64 `yaml:"rotor_solidity"`
	ProfilePowerW float64 `yaml:"P0"`
	InducedPowerW float64 `yaml:"Pi"`
	FuselageDrag  float64 `yaml:"d0"`
	AirDensity    float64 `yaml:"air_density"`
}

// Radio holds the link settings. The payload size lives at the top level.
type Radio struct {
	BandwidthHz      float64 `yaml:"bandwidth_Hz"`
	NoiseW           float64 `yaml:"noise_W"`
	PathLossExponent float64 `yaml:"pathloss_exponent"`
	SNRThreshold     float64 `yaml:"snr_threshold_linear"`
	CommRadiusM      float64 `yaml:"comm_radius_m"`
}

// Tx holds the transmitter front end.
type Tx struct {
	CircuitW      float64 `yaml:"P_circuit_W"`
	OutputW       float64 `yaml:"P_out_W"`
	AmpEfficiency float64 `yaml:"amp_efficiency"`
}

// Planner tunes the fixed-tour planner.
type Planner struct {
	TourSeed     int `yaml:"tour_seed"`
	TwoOptPasses int `yaml:"two_opt_passes"`
}

// AWN bounds the exponents used when alpha drives the policy.
type AWN struct {
	FromAlpha bool    `yaml:"from_alpha"`
	BetaMin   float64 `yaml:"beta_min"`
	BetaMax   float64 `yaml:"beta_max"`
	GammaMin  float64 `yaml:"gamma_min"`
	GammaMax  float64 `yaml:"gamma_max"`
}

// Config is the root configuration of a mission run.
type Config struct {
	N                int       `yaml:"N"`
	FieldSize        []float64 `yaml:"field_size"`
	MissionTimeS     float64   `yaml:"mission_time_s"`
	PayloadBits      float64   `yaml:"payload_bits"`
	Policy           string    `yaml:"policy"`
	Beta             float64   `yaml:"beta"`
	Gamma            float64   `yaml:"gamma"`
	Alpha            float64   `yaml:"alpha"`
	Seed             int64     `yaml:"seed"`
	GreedyMode       bool      `yaml:"greedy_mode"`
	HoverCapS        float64   `yaml:"hover_cap_s"`
	ContactDistanceM float64   `yaml:"contact_distance_m"`
	StartNode        *int      `yaml:"start_node,omitempty"`
	// Scenario names a built-in layout or a node file. Empty places N
	// nodes uniformly at random from Seed.
	Scenario string  `yaml:"scenario"`
	UAV      UAV     `yaml:"uav"`
	Radio    Radio   `yaml:"radio"`
	Tx       Tx      `yaml:"tx"`
	Planner  Planner `yaml:"planner"`
	AWN      AWN     `yaml:"awn"`
}

// Default returns the built-in configuration.
func Default() *Config {
	w := policy.DefaultWeights()
	return &Config{
		N:            20,
		FieldSize:    []float64{1000, 1000},
		MissionTimeS: 3600,
		PayloadBits:  1_600_000,
		Policy:       policy.AWN,
		Beta:         1.0,
		Gamma:        1.0,
		Alpha:        0.5,
		Seed:         42,
		UAV: UAV{
			SpeedMps:      10,
			BatteryWh:     100,
			MassKg:        1.5,
			Gravity:       9.81,
			RotorRadiusM:  0.15,
			BladeTipSpeed: 140,
			RotorSolidity: 0.05,
			ProfilePowerW: 10,
			FuselageDrag:  0.3,
			AirDensity:    1.225,
		},
		Radio: Radio{
			BandwidthHz:      1e6,
			NoiseW:           1e-10,
			PathLossExponent: 2.0,
			SNRThreshold:     10,
			CommRadiusM:      50,
		},
		Tx:      Tx{CircuitW: 1.0, OutputW: 1.0, AmpEfficiency: 0.4},
		Planner: Planner{TwoOptPasses: 100},
		AWN: AWN{
			BetaMin: w.BetaMin, BetaMax: w.BetaMax,
			GammaMin: w.GammaMin, GammaMax: w.GammaMax,
		},
	}
}

// Load reads a YAML file, checks it against the schema and merges it over the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Config, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, typically as resolved_config.yaml next to a run.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate runs the semantic checks the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if len(c.FieldSize) != 2 {
		errs = append(errs, guard.Invalid("field_size", "needs 2 values, got %d", len(c.FieldSize)))
	} else {
		errs = append(errs,
			guard.Positive("field_size[0]", c.FieldSize[0]),
			guard.Positive("field_size[1]", c.FieldSize[1]))
	}
	if c.Scenario == "" && c.N < 1 {
		errs = append(errs, guard.Invalid("N", "must be >= 1, got %d", c.N))
	}
	errs = append(errs, guard.InRange("alpha", c.Alpha, 0, 1))
	// The layout is only known at run time; placeholder nodes cover the rest.
	p := c.MissionParams(make([]geom.Point, max(c.N, 1)))
	errs = append(errs, p.Validate())
	return errors.Join(errs...)
}

// Weights returns the AWN exponent ranges.
func (c *Config) Weights() policy.Weights {
	return policy.Weights{
		BetaMin: c.AWN.BetaMin, BetaMax: c.AWN.BetaMax,
		GammaMin: c.AWN.GammaMin, GammaMax: c.AWN.GammaMax,
	}
}

// MissionParams builds the simulator input for the given node layout.
func (c *Config) MissionParams(nodes []geom.Point) mission.Params {
	p := mission.Params{
		Nodes:     nodes,
		StartNode: c.StartNode,
		Speed:     c.UAV.SpeedMps,
		Airframe: energy.Rotorcraft{
			MassKg:        c.UAV.MassKg,
			Gravity:       c.UAV.Gravity,
			RotorRadiusM:  c.UAV.RotorRadiusM,
			BladeTipSpeed: c.UAV.BladeTipSpeed,
			RotorSolidity: c.UAV.RotorSolidity,
			ProfilePowerW: c.UAV.ProfilePowerW,
			InducedPowerW: c.UAV.InducedPowerW,
			FuselageDrag:  c.UAV.FuselageDrag,
			AirDensity:    c.UAV.AirDensity,
		},
		Radio: channel.Radio{
			BandwidthHz:      c.Radio.BandwidthHz,
			NoiseW:           c.Radio.NoiseW,
			PathLossExponent: c.Radio.PathLossExponent,
			SNRThreshold:     c.Radio.SNRThreshold,
			CommRadiusM:      c.Radio.CommRadiusM,
			PayloadBits:      c.PayloadBits,
		},
		Transmitter: energy.Transmitter{
			CircuitW:      c.Tx.CircuitW,
			OutputW:       c.Tx.OutputW,
			AmpEfficiency: c.Tx.AmpEfficiency,
		},
		MissionTimeS:     c.MissionTimeS,
		BatteryWh:        c.UAV.BatteryWh,
		Policy:           c.Policy,
		Beta:             c.Beta,
		Gamma:            c.Gamma,
		Weights:          c.Weights(),
		Greedy:           c.GreedyMode,
		HoverCapS:        c.HoverCapS,
		ContactDistanceM: c.ContactDistanceM,
		TourSeed:         c.Planner.TourSeed,
		TwoOptPasses:     c.Planner.TwoOptPasses,
	}
	if c.AWN.FromAlpha {
		alpha := c.Alpha
		p.Alpha = &alpha
	}
	return p
}
