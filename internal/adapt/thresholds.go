package adapt

// Thresholds holds the rule calibration. Defaults reproduce the reference
// coaching behavior.
type Thresholds struct {
	RestingHRMultiplier   float64 `mapstructure:"resting_hr_multiplier"`
	BodyBatteryMultiplier float64 `mapstructure:"body_battery_multiplier"`
	SleepMultiplier       float64 `mapstructure:"sleep_multiplier"`
	MultiplierFloor       float64 `mapstructure:"multiplier_floor"`

	FatigueRulesForSwap  int `mapstructure:"fatigue_rules_for_swap"`
	ShortNightsForSwap   int `mapstructure:"short_nights_for_swap"`
	RPEFatigueIndicators int `mapstructure:"rpe_fatigue_indicators"`

	MinRunsForPace    int     `mapstructure:"min_runs_for_pace"`
	RecentRunDays     int     `mapstructure:"recent_run_days"`
	RecentRunWeight   float64 `mapstructure:"recent_run_weight"`
	EasyPaceMargin    float64 `mapstructure:"easy_pace_margin"`
	EasyHRCeiling     float64 `mapstructure:"easy_hr_ceiling"`
	EasyBandOffset    float64 `mapstructure:"easy_band_offset"`
	PaceDivergenceMax float64 `mapstructure:"pace_divergence_max"`

	LongRunLookbackDays    int     `mapstructure:"long_run_lookback_days"`
	WorstDayReduction      float64 `mapstructure:"worst_day_reduction"`
	MissedLongRunReduction float64 `mapstructure:"missed_long_run_reduction"`
	MissedLongRunFraction  float64 `mapstructure:"missed_long_run_fraction"`

	VO2MaxImprovement float64 `mapstructure:"vo2max_improvement"`
}

// DefaultThresholds returns the standard rule calibration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RestingHRMultiplier:   0.90,
		BodyBatteryMultiplier: 0.85,
		SleepMultiplier:       0.85,
		MultiplierFloor:       0.70,

		FatigueRulesForSwap:  2,
		ShortNightsForSwap:   3,
		RPEFatigueIndicators: 2,

		MinRunsForPace:    3,
		RecentRunDays:     14,
		RecentRunWeight:   2,
		EasyPaceMargin:    30,
		EasyHRCeiling:     150,
		EasyBandOffset:    120,
		PaceDivergenceMax: 30,

		LongRunLookbackDays:    7,
		WorstDayReduction:      0.10,
		MissedLongRunReduction: 0.15,
		MissedLongRunFraction:  0.60,

		VO2MaxImprovement: 0.5,
	}
}
