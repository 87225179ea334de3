package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/parcelsim/internal/constants"
	"github.com/san-kum/parcelsim/internal/parcel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Parcel.RelativeHumidity >= 1.0 {
		t.Error("default parcel should start below saturation")
	}
	if len(cfg.Aerosol) == 0 {
		t.Error("default config should carry an aerosol mode")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parcel.yaml")

	cfg := DefaultConfig()
	cfg.Parcel.Updraft = 2.5
	cfg.Workers = 3
	cfg.Aerosol[0].Kappa = 0.61

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Parcel.Updraft != 2.5 {
		t.Errorf("updraft: want 2.5, got %v", loaded.Parcel.Updraft)
	}
	if loaded.Workers != 3 {
		t.Errorf("workers: want 3, got %v", loaded.Workers)
	}
	if loaded.Aerosol[0].Kappa != 0.61 {
		t.Errorf("kappa: want 0.61, got %v", loaded.Aerosol[0].Kappa)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveWorkers(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Workers = 7
	if got := cfg.ResolveWorkers(); got != 7 {
		t.Errorf("explicit workers: want 7, got %d", got)
	}

	cfg.Workers = 0
	t.Setenv(WorkersEnv, "5")
	if got := cfg.ResolveWorkers(); got != 5 {
		t.Errorf("env workers: want 5, got %d", got)
	}

	t.Setenv(WorkersEnv, "not-a-number")
	if got := cfg.ResolveWorkers(); got != 0 {
		t.Errorf("invalid env must fall back to platform default, got %d", got)
	}

	t.Setenv(WorkersEnv, "-4")
	if got := cfg.ResolveWorkers(); got != 0 {
		t.Errorf("negative env must fall back to platform default, got %d", got)
	}
}

func TestInitialStateThermodynamics(t *testing.T) {
	cfg := DefaultConfig()
	ct := constants.Default()

	pop, err := cfg.Population()
	if err != nil {
		t.Fatalf("Population: %v", err)
	}

	x := cfg.InitialState(ct, pop)

	if len(x) != parcel.NumScalars+pop.Len() {
		t.Fatalf("state length %d, want %d", len(x), parcel.NumScalars+pop.Len())
	}
	if x[parcel.IdxSupersaturation] >= 0 {
		t.Error("subsaturated start must have negative supersaturation")
	}
	if math.Abs(x[parcel.IdxSupersaturation]-(cfg.Parcel.RelativeHumidity-1.0)) > 1e-12 {
		t.Error("S0 must equal RH - 1")
	}

	// Mixing ratio sanity: order of a few g/kg at these conditions.
	wv := x[parcel.IdxVapor]
	if wv < 1e-3 || wv > 3e-2 {
		t.Errorf("implausible vapor mixing ratio %v", wv)
	}

	// Every particle starts at or above its dry size.
	for i := 0; i < pop.Len(); i++ {
		if x[parcel.NumScalars+i] < pop.DryRadius[i] {
			t.Fatalf("particle %d starts below its dry radius", i)
		}
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("marine") == nil {
		t.Fatal("marine preset missing")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset must return nil")
	}
	if len(ListPresets()) < 3 {
		t.Error("expected at least three presets")
	}

	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if _, err := cfg.Population(); err != nil {
			t.Errorf("preset %q has an invalid aerosol: %v", name, err)
		}
	}
}
