// Package energy converts the UAV's flight, hover and radio power draw into
// energy (Wh).
package energy

import (
	"errors"
	"math"

	"uav-aoi-sim/internal/guard"
)

const secondsPerHour = 3600.0

// Rotorcraft holds the aerodynamic parameters of the rotary-wing power model.
type Rotorcraft struct {
	MassKg        float64 `json:"mass_kg"`
	Gravity       float64 `json:"g"`
	RotorRadiusM  float64 `json:"rotor_radius_m"`
	BladeTipSpeed float64 `json:"blade_tip_speed"`
	RotorSolidity float64 `json:"rotor_solidity"`
	ProfilePowerW float64 `json:"P0"`
	// InducedPowerW is the hover induced power. Zero derives it from weight
	// and induced velocity.
	InducedPowerW float64 `json:"Pi"`
	FuselageDrag  float64 `json:"d0"`
	AirDensity    float64 `json:"air_density"`
}

// Validate checks that every parameter is physically meaningful.
func (r Rotorcraft) Validate() error {
	return errors.Join(
		guard.Positive("mass_kg", r.MassKg),
		guard.Positive("g", r.Gravity),
		guard.Positive("rotor_radius_m", r.RotorRadiusM),
		guard.Positive("blade_tip_speed", r.BladeTipSpeed),
		guard.NonNegative("rotor_solidity", r.RotorSolidity),
		guard.NonNegative("P0", r.ProfilePowerW),
		guard.NonNegative("Pi", r.InducedPowerW),
		guard.NonNegative("d0", r.FuselageDrag),
		guard.Positive("air_density", r.AirDensity),
	)
}

// DiskArea is the rotor disk area in m².
func (r Rotorcraft) DiskArea() float64 {
	return math.Pi * r.RotorRadiusM * r.RotorRadiusM
}

// Weight is the gravitational force in N.
func (r Rotorcraft) Weight() float64 {
	return r.MassKg * r.Gravity
}

// InducedVelocity is the mean rotor induced velocity in hover.
func (r Rotorcraft) InducedVelocity() float64 {
	return math.Sqrt(r.Weight() / (2 * r.AirDensity * r.DiskArea()))
}

// InducedPower returns the configured hover induced power or W·v0.
func (r Rotorcraft) InducedPower() float64 {
	if r.InducedPowerW > 0 {
		return r.InducedPowerW
	}
	return r.Weight() * r.InducedVelocity()
}

// Power returns the propulsion power (W) at forward speed v (m/s).
func (r Rotorcraft) Power(v float64) float64 {
	v0 := r.InducedVelocity()
	pi := r.InducedPower()
	v2 := v * v
	v4 := v2 * v2
	v04 := v0 * v0 * v0 * v0

	blade := r.ProfilePowerW * (1 + 3*v2/(r.BladeTipSpeed*r.BladeTipSpeed))
	inner := math.Sqrt(1+v4/(4*v04)) - v2/(2*v0*v0)
	induced := pi * math.Sqrt(math.Max(inner, 0))
	parasite := 0.5 * r.FuselageDrag * r.AirDensity * r.RotorSolidity * r.DiskArea() * v2 * v
	return blade + induced + parasite
}

// HoverPower is P0 + Pi, the draw at zero forward speed.
func (r Rotorcraft) HoverPower() float64 {
	return r.ProfilePowerW + r.InducedPower()
}

// FlightTime returns the seconds needed to cover d meters at speed v.
func FlightTime(d, v float64) float64 {
	return d / guard.Floor(v, guard.SpeedFloor)
}

// FlightEnergyWh is the energy of a straight leg of d meters at speed v.
func (r Rotorcraft) FlightEnergyWh(d, v float64) float64 {
	return r.Power(v) * FlightTime(d, v) / secondsPerHour
}

// HoverEnergyWh is the energy of hovering for t seconds.
func (r Rotorcraft) HoverEnergyWh(t float64) float64 {
	return r.HoverPower() * t / secondsPerHour
}

// Transmitter describes the radio front end used for uploads.
type Transmitter struct {
	CircuitW      float64 `json:"P_circuit_W"`
	OutputW       float64 `json:"P_out_W"`
	AmpEfficiency float64 `json:"amp_efficiency"`
}

// Validate checks the transmitter parameters.
func (t Transmitter) Validate() error {
	err := errors.Join(
		guard.NonNegative("P_circuit_W", t.CircuitW),
		guard.Positive("P_out_W", t.OutputW),
		guard.Positive("amp_efficiency", t.AmpEfficiency),
	)
	if err != nil {
		return err
	}
	return guard.InRange("amp_efficiency", t.AmpEfficiency, 0, 1)
}

// Power is the electrical draw while transmitting: Pc + Pout/η.
func (t Transmitter) Power() float64 {
	return t.CircuitW + t.OutputW/t.AmpEfficiency
}

// EnergyWh is the energy of transmitting for d seconds.
func (t Transmitter) EnergyWh(d float64) float64 {
	return t.Power() * d / secondsPerHour
}

// Breakdown accumulates energy per consumer.
type Breakdown struct {
	FlyWh   float64 `json:"E_fly_total"`
	HoverWh float64 `json:"E_hover_total"`
	TxWh    float64 `json:"E_tx_total"`
}

// Total returns the sum of all buckets.
func (b Breakdown) Total() float64 {
	return b.FlyWh + b.HoverWh + b.TxWh
}
