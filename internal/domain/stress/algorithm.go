package stress

import (
	"math"

	"github.com/yachaflex/yachaflex-api/internal/domain"
)

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// interpolate maps v linearly so that from yields 0 and to yields scale,
// clamped to [0, scale]. from may be greater than to for inverted anchors.
func interpolate(v, from, to, scale float64) float64 {
	return clamp((v-from)/(to-from)*scale, 0, scale)
}

// scoreCheckin averages the three ratings and inverts them against the scale:
// the minimum rating scores 100, the maximum scores 0. Ratings must already
// be validated.
func scoreCheckin(checkin domain.CheckinInput, params *Params) float64 {
	avg := (checkin.Wellbeing + checkin.Sleep + checkin.Focus) / 3
	span := params.CheckinScaleMax - params.CheckinScaleMin
	return round2(clamp((params.CheckinScaleMax-avg)/span*100, 0, 100))
}

// scoreBiometrics returns the mean of the partial stress contributions of
// every present signal. ok is false when no participating signal is present.
func scoreBiometrics(b domain.BiometricInput, params *Params) (score float64, ok bool) {
	var parts []float64

	if b.HeartRate != nil {
		parts = append(parts, interpolate(*b.HeartRate, params.RestingHeartRate, params.MaxHeartRate, 100))
	}
	if params.IncludeHRV && b.HRV != nil {
		parts = append(parts, interpolate(*b.HRV, params.CalmHRV, params.StressHRV, 100))
	}
	if b.Activity != nil {
		parts = append(parts, interpolate(*b.Activity, params.ActiveSteps, 0, params.ActivityPenaltyCap))
	}

	if len(parts) == 0 {
		return 0, false
	}

	var sum float64
	for _, p := range parts {
		sum += p
	}
	return round2(sum / float64(len(parts))), true
}

// blend combines a check-in score with a biometric score using the configured weights.
func blend(checkinScore, biometricScore float64, params *Params) float64 {
	return round2(clamp(params.CheckinWeight*checkinScore+params.BiometricWeight*biometricScore, 0, 100))
}

// classify maps a score onto a stress level using the configured thresholds.
func classify(score float64, params *Params) domain.StressLevel {
	switch {
	case score <= params.LowThreshold:
		return domain.StressLevelLow
	case score <= params.MediumThreshold:
		return domain.StressLevelMedium
	default:
		return domain.StressLevelHigh
	}
}
