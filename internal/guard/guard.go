// Package guard centralizes the numeric floors and parameter checks shared by
// the mission models.
package guard

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter marks a configuration or call argument the models cannot
// work with. Runs fail with it before any step executes.
var ErrInvalidParameter = errors.New("invalid parameter")

// Floors applied before divisions and powers.
const (
	DistanceFloor = 1e-6
	SpeedFloor    = 1e-9
	RateFloor     = 1e-9
	ScoreEpsilon  = 1e-6
	FreshAoI      = 1e-6
)

// Floor returns v, or eps when v is smaller.
func Floor(v, eps float64) float64 {
	if v < eps || math.IsNaN(v) {
		return eps
	}
	return v
}

// Invalid builds an ErrInvalidParameter error for the named parameter.
func Invalid(name string, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, fmt.Sprintf(format, args...))
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid(name, "must be finite, got %v", v)
	}
	return nil
}

// Positive requires v > 0.
func Positive(name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return Invalid(name, "must be > 0, got %g", v)
	}
	return nil
}

// NonNegative requires v >= 0.
func NonNegative(name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return Invalid(name, "must be >= 0, got %g", v)
	}
	return nil
}

// InRange requires lo <= v <= hi.
func InRange(name string, v, lo, hi float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return Invalid(name, "must be in [%g, %g], got %g", lo, hi, v)
	}
	return nil
}
