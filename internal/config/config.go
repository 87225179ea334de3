// Package config loads and saves parcel simulation configurations.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/parcelsim/internal/aerosol"
	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/dynamo"
	"github.com/san-kum/parcelsim/internal/parcel"
	"github.com/san-kum/parcelsim/internal/thermo"
)

// WorkersEnv overrides the reduction worker count when the config does
// not pin one. Absent or unparsable values fall back to the platform
// default instead of failing.
const WorkersEnv = "PARCELSIM_WORKERS"

const (
	DefaultDt       = 0.01
	DefaultDuration = 300.0
	DefaultPressure = 95000.0
	DefaultTemp     = 285.0
	DefaultRH       = 0.98
	DefaultUpdraft  = 0.5
)

type Config struct {
	Integrator string         `yaml:"integrator"`
	Dt         float64        `yaml:"dt"`
	Duration   float64        `yaml:"duration"`
	Adaptive   bool           `yaml:"adaptive"`
	Tolerance  float64        `yaml:"tolerance"`
	Workers    int            `yaml:"workers"`
	Parcel     ParcelConfig   `yaml:"parcel"`
	Aerosol    []aerosol.Mode `yaml:"aerosol"`
}

type ParcelConfig struct {
	Pressure         float64 `yaml:"pressure"`          // Pa
	Temperature      float64 `yaml:"temperature"`       // K
	RelativeHumidity float64 `yaml:"relative_humidity"` // fraction, S0 = RH - 1
	Updraft          float64 `yaml:"updraft"`           // m/s
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  1e-8,
		Parcel: ParcelConfig{
			Pressure:         DefaultPressure,
			Temperature:      DefaultTemp,
			RelativeHumidity: DefaultRH,
			Updraft:          DefaultUpdraft,
		},
		Aerosol: []aerosol.Mode{
			{
				Name:          "accumulation",
				TotalNumber:   850e6,
				GeoMeanRadius: 15e-9,
				GeoStdDev:     1.6,
				Kappa:         0.54,
				Bins:          200,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveWorkers returns the configured worker count, the environment
// override, or zero (platform default) in that order of preference.
func (c *Config) ResolveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if v := os.Getenv(WorkersEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Population discretizes the configured aerosol modes.
func (c *Config) Population() (parcel.Population, error) {
	return aerosol.NewPopulation(c.Aerosol...)
}

// InitialState builds the starting state vector: the configured parcel
// thermodynamics plus every particle at its equilibrium wet radius.
func (c *Config) InitialState(ct constants.Table, pop parcel.Population) dynamo.State {
	s0 := c.Parcel.RelativeHumidity - 1.0
	temp := c.Parcel.Temperature
	press := c.Parcel.Pressure

	pv := c.Parcel.RelativeHumidity * thermo.SaturationVaporPressure(temp-273.15)
	wv := (ct.Mw / ct.Ma) * pv / (press - pv)

	radii := aerosol.EquilibriumRadii(ct, pop, temp, s0)

	return parcel.NewState(press, temp, wv, 0.0, s0, radii)
}

// SimConfig translates to the simulator's run configuration.
func (c *Config) SimConfig() dynamo.Config {
	sim := dynamo.DefaultConfig()
	sim.Dt = c.Dt
	sim.Duration = c.Duration
	sim.Adaptive = c.Adaptive
	if c.Tolerance > 0 {
		sim.Tolerance = c.Tolerance
	}
	return sim
}
