package stress

// Params defines all configurable parameters of the stress scoring heuristics
type Params struct {
	// Inclusive rating scale of a check-in answer
	CheckinScaleMin float64
	CheckinScaleMax float64

	// Classification thresholds: score <= LowThreshold is low,
	// score <= MediumThreshold is medium, anything above is high
	LowThreshold    float64
	MediumThreshold float64

	// Blend weights applied when a biometric score is present
	CheckinWeight   float64
	BiometricWeight float64

	// Heart rate anchors in beats per minute
	RestingHeartRate float64
	MaxHeartRate     float64

	// HRV anchors in milliseconds. HRV only participates when IncludeHRV is set.
	IncludeHRV bool
	CalmHRV    float64
	StressHRV  float64

	// Activity anchors. Zero activity contributes ActivityPenaltyCap,
	// ActiveSteps or more contributes nothing.
	ActiveSteps        float64
	ActivityPenaltyCap float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// A nil field keeps the default, so zero is a valid override.
type ParamsConfig struct {
	CheckinScaleMin *float64
	CheckinScaleMax *float64

	LowThreshold    *float64
	MediumThreshold *float64

	IncludeHRV bool
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		CheckinScaleMin: 1,
		CheckinScaleMax: 5,

		LowThreshold:    33,
		MediumThreshold: 66,

		CheckinWeight:   0.6,
		BiometricWeight: 0.4,

		RestingHeartRate: 50,
		MaxHeartRate:     120,

		IncludeHRV: false,
		CalmHRV:    80,
		StressHRV:  10,

		ActiveSteps:        10000,
		ActivityPenaltyCap: 30,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Nil fields in config keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.CheckinScaleMin != nil {
		params.CheckinScaleMin = *config.CheckinScaleMin
	}
	if config.CheckinScaleMax != nil {
		params.CheckinScaleMax = *config.CheckinScaleMax
	}
	if config.LowThreshold != nil {
		params.LowThreshold = *config.LowThreshold
	}
	if config.MediumThreshold != nil {
		params.MediumThreshold = *config.MediumThreshold
	}
	params.IncludeHRV = config.IncludeHRV

	return params
}

// Validate checks that the parameters describe a usable scale and ordered thresholds.
func (p *Params) Validate() error {
	if p.CheckinScaleMax <= p.CheckinScaleMin {
		return ErrInvalidScale
	}
	if p.LowThreshold < 0 || p.MediumThreshold > 100 || p.LowThreshold >= p.MediumThreshold {
		return ErrInvalidThresholds
	}
	return nil
}
