package energy

import (
	"errors"
	"math"
	"testing"

	"uav-aoi-sim/internal/guard"
)

func testAirframe() Rotorcraft {
	return Rotorcraft{
		MassKg:        1.5,
		Gravity:       9.81,
		RotorRadiusM:  0.15,
		BladeTipSpeed: 140,
		RotorSolidity: 0.05,
		ProfilePowerW: 10,
		FuselageDrag:  0.3,
		AirDensity:    1.225,
	}
}

func TestFlightTime(t *testing.T) {
	if got := FlightTime(120, 12); math.Abs(got-10) > 1e-9 {
		t.Fatalf("FlightTime = %v, want 10", got)
	}
	if got := FlightTime(1, 0); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("FlightTime with zero speed not floored: %v", got)
	}
}

func TestHoverPowerMatchesZeroSpeed(t *testing.T) {
	r := testAirframe()
	want := r.ProfilePowerW + r.InducedPower()
	if got := r.HoverPower(); got != want {
		t.Fatalf("HoverPower = %v, want %v", got, want)
	}
	if got := r.Power(0); math.Abs(got-want)/want > 0.01 {
		t.Fatalf("Power(0) = %v, want ~%v", got, want)
	}
}

func TestDerivedInducedPower(t *testing.T) {
	r := testAirframe()
	want := r.Weight() * math.Sqrt(r.Weight()/(2*r.AirDensity*math.Pi*0.15*0.15))
	if got := r.InducedPower(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("InducedPower = %v, want %v", got, want)
	}
	r.InducedPowerW = 50
	if got := r.InducedPower(); got != 50 {
		t.Fatalf("configured InducedPower = %v, want 50", got)
	}
}

func TestPowerGrowsAtHighSpeed(t *testing.T) {
	r := testAirframe()
	p10, p20, p30 := r.Power(10), r.Power(20), r.Power(30)
	if !(p20 > p10 && p30 > p20) {
		t.Fatalf("power not increasing: %v %v %v", p10, p20, p30)
	}
}

func TestLegEnergy(t *testing.T) {
	r := testAirframe()
	e := r.FlightEnergyWh(120, 12)
	if e <= 0 || e >= 10 {
		t.Fatalf("FlightEnergyWh = %v", e)
	}
	if want := r.Power(12) * 10 / 3600; math.Abs(e-want) > 1e-12 {
		t.Fatalf("FlightEnergyWh = %v, want %v", e, want)
	}
	if h := r.HoverEnergyWh(10); h <= 0 || h >= 100 {
		t.Fatalf("HoverEnergyWh = %v", h)
	}
}

func TestTransmitterEnergy(t *testing.T) {
	tx := Transmitter{CircuitW: 1, OutputW: 2, AmpEfficiency: 0.4}
	if got := tx.Power(); math.Abs(got-6) > 1e-12 {
		t.Fatalf("Power = %v, want 6", got)
	}
	if got, want := tx.EnergyWh(5), 30.0/3600; math.Abs(got-want) > 1e-12 {
		t.Fatalf("EnergyWh = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	if err := testAirframe().Validate(); err != nil {
		t.Fatalf("valid airframe: %v", err)
	}
	bad := testAirframe()
	bad.AirDensity = 0
	if err := bad.Validate(); !errors.Is(err, guard.ErrInvalidParameter) {
		t.Fatalf("Validate = %v", err)
	}
	tx := Transmitter{CircuitW: 1, OutputW: 1, AmpEfficiency: 1.2}
	if err := tx.Validate(); !errors.Is(err, guard.ErrInvalidParameter) {
		t.Fatalf("efficiency > 1 accepted: %v", err)
	}
}

func TestBreakdownTotal(t *testing.T) {
	b := Breakdown{FlyWh: 1, HoverWh: 2, TxWh: 0.5}
	if b.Total() != 3.5 {
		t.Fatalf("Total = %v", b.Total())
	}
}
