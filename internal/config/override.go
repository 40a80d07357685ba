package config

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"uav-aoi-sim/internal/policy"
)

// Overrides carries the command-line values that take precedence over the
// file. Nil fields were not given.
type Overrides struct {
	N          *int
	T          *float64
	Battery    *float64
	Speed      *float64
	Payload    *float64
	Beta       *float64
	Gamma      *float64
	Alpha      *float64
	Policy     *string
	Seed       *int64
	CommRadius *float64
	Greedy     *bool
}

// Override applies every set field of o.
func (c *Config) Override(o Overrides) {
	if o.N != nil {
		c.N = *o.N
	}
	if o.T != nil {
		c.MissionTimeS = *o.T
	}
	if o.Battery != nil {
		c.UAV.BatteryWh = *o.Battery
	}
	if o.Speed != nil {
		c.UAV.SpeedMps = *o.Speed
	}
	if o.Payload != nil {
		c.PayloadBits = *o.Payload
	}
	if o.Beta != nil {
		c.Beta = *o.Beta
	}
	if o.Gamma != nil {
		c.Gamma = *o.Gamma
	}
	if o.Alpha != nil {
		c.Alpha = *o.Alpha
	}
	if o.Policy != nil {
		c.Policy = strings.ToUpper(*o.Policy)
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.CommRadius != nil {
		c.Radio.CommRadiusM = *o.CommRadius
	}
	if o.Greedy != nil {
		c.GreedyMode = *o.Greedy
	}
}

// MaxSeed bounds generated seeds.
const MaxSeed = 2_147_483_647

// LockSeed picks the one seed a command uses for all of its runs: the flag,
// or a time-based value when none was given.
func LockSeed(o Overrides, now time.Time) int64 {
	if o.Seed != nil {
		return *o.Seed
	}
	return now.UnixNano() % MaxSeed
}

// Jitter perturbs the parameters the user did not pin on the command line:
// a random policy, beta and gamma within ±30%, alpha within ±20% and the
// payload within ±10%. keepPolicy and keepAlpha protect the swept value of an
// experiment.
func (c *Config) Jitter(rng *rand.Rand, o Overrides, keepPolicy, keepAlpha bool) {
	jitter := func(v, rel, lo, hi float64) float64 {
		low, high := max(v*(1-rel), lo), min(v*(1+rel), hi)
		if high <= low {
			return low
		}
		return low + rng.Float64()*(high-low)
	}
	if o.Policy == nil && !keepPolicy {
		names := policy.Names()
		c.Policy = names[rng.IntN(len(names))]
	}
	if o.Beta == nil {
		c.Beta = jitter(c.Beta, 0.3, 0.1, math.Inf(1))
	}
	if o.Gamma == nil {
		c.Gamma = jitter(c.Gamma, 0.3, 0.1, math.Inf(1))
	}
	if o.Alpha == nil && !keepAlpha {
		c.Alpha = jitter(c.Alpha, 0.2, 0, 1)
	}
	if o.Payload == nil {
		c.PayloadBits = math.Max(1, math.Trunc(jitter(c.PayloadBits, 0.1, 1, math.Inf(1))))
	}
}
