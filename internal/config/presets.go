package config

import "github.com/san-kum/parcelsim/internal/aerosol"

var Presets = map[string]*Config{
	"marine": {
		Integrator: "rk4", Dt: 0.01, Duration: 500.0,
		Parcel: ParcelConfig{
			Pressure: 101300.0, Temperature: 288.0,
			RelativeHumidity: 0.99, Updraft: 0.3,
		},
		Aerosol: []aerosol.Mode{
			{Name: "sea salt", TotalNumber: 100e6, GeoMeanRadius: 85e-9, GeoStdDev: 1.6, Kappa: 1.2, Bins: 100},
			{Name: "sulfate", TotalNumber: 250e6, GeoMeanRadius: 25e-9, GeoStdDev: 1.7, Kappa: 0.54, Bins: 100},
		},
	},
	"continental": {
		Integrator: "rk4", Dt: 0.01, Duration: 300.0,
		Parcel: ParcelConfig{
			Pressure: 95000.0, Temperature: 285.0,
			RelativeHumidity: 0.98, Updraft: 1.0,
		},
		Aerosol: []aerosol.Mode{
			{Name: "aitken", TotalNumber: 1500e6, GeoMeanRadius: 20e-9, GeoStdDev: 1.5, Kappa: 0.6, Bins: 100},
			{Name: "accumulation", TotalNumber: 800e6, GeoMeanRadius: 75e-9, GeoStdDev: 1.6, Kappa: 0.54, Bins: 100},
			{Name: "dust", TotalNumber: 5e6, GeoMeanRadius: 500e-9, GeoStdDev: 1.8, Kappa: 0.03, Bins: 50},
		},
	},
	"polluted": {
		Integrator: "rk45", Dt: 0.005, Duration: 300.0, Adaptive: true, Tolerance: 1e-8,
		Parcel: ParcelConfig{
			Pressure: 98000.0, Temperature: 290.0,
			RelativeHumidity: 0.97, Updraft: 2.0,
		},
		Aerosol: []aerosol.Mode{
			{Name: "urban fine", TotalNumber: 5000e6, GeoMeanRadius: 30e-9, GeoStdDev: 1.8, Kappa: 0.3, Bins: 150},
			{Name: "soot", TotalNumber: 800e6, GeoMeanRadius: 50e-9, GeoStdDev: 1.6, Kappa: 0.0, Bins: 50},
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
