package config

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"uav-aoi-sim/internal/guard"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
N: 7
policy: MAF
greedy_mode: true
uav:
  battery_Wh: 50
radio:
  noise_W: 1e-13
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.N != 7 || cfg.Policy != "MAF" || !cfg.GreedyMode {
		t.Errorf("top-level fields not applied: %+v", cfg)
	}
	if cfg.UAV.BatteryWh != 50 || cfg.UAV.SpeedMps != Default().UAV.SpeedMps {
		t.Errorf("uav merge wrong: %+v", cfg.UAV)
	}
	if cfg.Radio.NoiseW != 1e-13 || cfg.Radio.BandwidthHz != Default().Radio.BandwidthHz {
		t.Errorf("radio merge wrong: %+v", cfg.Radio)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "fleets: []\n",
		"zero nodes":     "N: 0\n",
		"bad policy":     "policy: random\n",
		"alpha range":    "alpha: 1.5\n",
		"efficiency":     "tx:\n  amp_efficiency: 2\n",
		"negative speed": "uav:\n  speed_mps: -1\n",
		"field size":     "field_size: [100]\n",
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		if !errors.Is(err, guard.ErrInvalidParameter) {
			t.Errorf("%s: err = %v, want ErrInvalidParameter", name, err)
		}
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("empty file should yield defaults")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	start := 2
	cfg.StartNode = &start
	cfg.Scenario = "ring"
	cfg.Radio.NoiseW = 3.5e-13
	path := filepath.Join(t.TempDir(), "resolved_config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()
	n, speed, policyName, greedy := 33, 15.0, "awn", true
	cfg.Override(Overrides{N: &n, Speed: &speed, Policy: &policyName, Greedy: &greedy})
	if cfg.N != 33 || cfg.UAV.SpeedMps != 15 || cfg.Policy != "AWN" || !cfg.GreedyMode {
		t.Fatalf("override not applied: %+v", cfg)
	}
	if cfg.UAV.BatteryWh != Default().UAV.BatteryWh {
		t.Fatalf("unset override changed battery")
	}
}

func TestLockSeed(t *testing.T) {
	seed := int64(9)
	if got := LockSeed(Overrides{Seed: &seed}, time.Now()); got != 9 {
		t.Fatalf("seed = %d, want 9", got)
	}
	now := time.Unix(0, 5_000_000_000)
	if got := LockSeed(Overrides{}, now); got != 5_000_000_000%2_147_483_647 {
		t.Fatalf("time seed = %d", got)
	}
}

func TestJitterRespectsPinnedValues(t *testing.T) {
	base := Default()
	beta, payload := 2.0, 1000.0
	o := Overrides{Beta: &beta, Payload: &payload}
	for i := uint64(0); i < 50; i++ {
		cfg := Default()
		cfg.Override(o)
		cfg.Jitter(rand.New(rand.NewPCG(i, 1)), o, false, true)
		if cfg.Beta != 2 || cfg.PayloadBits != 1000 || cfg.Alpha != base.Alpha {
			t.Fatalf("pinned values changed: %+v", cfg)
		}
		if cfg.Gamma < 0.7-1e-12 || cfg.Gamma > 1.3+1e-12 {
			t.Fatalf("gamma %v outside ±30%%", cfg.Gamma)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("jittered config invalid: %v", err)
		}
	}
}
