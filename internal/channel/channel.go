// Package channel models the UAV-to-node radio link: path loss, SNR,
// Shannon rate and contact success.
package channel

import (
	"errors"
	"math"

	"uav-aoi-sim/internal/guard"
)

// Radio holds the link parameters for a run.
type Radio struct {
	BandwidthHz      float64 `json:"bandwidth_Hz"`
	NoiseW           float64 `json:"noise_W"`
	PathLossExponent float64 `json:"pathloss_exponent"`
	SNRThreshold     float64 `json:"snr_threshold_linear"`
	CommRadiusM      float64 `json:"comm_radius_m"`
	PayloadBits      float64 `json:"payload_bits"`
}

// Validate checks the link parameters.
func (r Radio) Validate() error {
	return errors.Join(
		guard.Positive("bandwidth_Hz", r.BandwidthHz),
		guard.Positive("noise_W", r.NoiseW),
		guard.NonNegative("pathloss_exponent", r.PathLossExponent),
		guard.NonNegative("snr_threshold_linear", r.SNRThreshold),
		guard.NonNegative("comm_radius_m", r.CommRadiusM),
		guard.Positive("payload_bits", r.PayloadBits),
	)
}

// ReceivedPower applies Pr = Pt·d^-n with d floored away from zero.
func (r Radio) ReceivedPower(pt, d float64) float64 {
	return pt * math.Pow(guard.Floor(d, guard.DistanceFloor), -r.PathLossExponent)
}

// SNR returns the linear signal-to-noise ratio at distance d.
func (r Radio) SNR(pt, d float64) float64 {
	return r.ReceivedPower(pt, d) / r.NoiseW
}

// Rate returns the achievable rate in bit/s.
func (r Radio) Rate(pt, d float64) float64 {
	return r.BandwidthHz * math.Log2(1+r.SNR(pt, d))
}

// TxTime returns the seconds needed to upload one payload at distance d.
func (r Radio) TxTime(pt, d float64) float64 {
	return r.PayloadBits / guard.Floor(r.Rate(pt, d), guard.RateFloor)
}

// Covered reports whether a contact at distance d with the given SNR succeeds.
// Either proximity or link quality is enough.
func (r Radio) Covered(d, snr float64) bool {
	return d <= r.CommRadiusM || snr >= r.SNRThreshold
}

// Contact is the outcome of one upload attempt.
type Contact struct {
	DistanceM float64
	SNR       float64
	RateBps   float64
	TxTimeS   float64
	Success   bool
}

// Contact evaluates an upload attempt at distance d with transmit power pt.
func (r Radio) Contact(pt, d float64) Contact {
	snr := r.SNR(pt, d)
	rate := r.BandwidthHz * math.Log2(1+snr)
	return Contact{
		DistanceM: d,
		SNR:       snr,
		RateBps:   rate,
		TxTimeS:   r.PayloadBits / guard.Floor(rate, guard.RateFloor),
		Success:   r.Covered(d, snr),
	}
}
