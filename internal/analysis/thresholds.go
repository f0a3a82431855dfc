package analysis

// Thresholds holds the calibration constants used to grade each metric.
// DefaultThresholds reproduces the reference coaching behavior; every field
// can be overridden from the "analysis" configuration section.
type Thresholds struct {
	Window       int `mapstructure:"window"`
	VO2MaxWindow int `mapstructure:"vo2max_window"`

	RestingHRConcernChange float64 `mapstructure:"resting_hr_concern_change"`
	RestingHRGoodChange    float64 `mapstructure:"resting_hr_good_change"`
	RestingHRTrendDelta    float64 `mapstructure:"resting_hr_trend_delta"`

	BodyBatteryConcern    float64 `mapstructure:"body_battery_concern"`
	BodyBatteryGood       float64 `mapstructure:"body_battery_good"`
	BodyBatteryTrendDelta float64 `mapstructure:"body_battery_trend_delta"`

	SleepConcernHours float64 `mapstructure:"sleep_concern_hours"`
	SleepGoodHours    float64 `mapstructure:"sleep_good_hours"`
	ShortNightHours   float64 `mapstructure:"short_night_hours"`
	LongNightHours    float64 `mapstructure:"long_night_hours"`
	SleepTrendDelta   float64 `mapstructure:"sleep_trend_delta"`

	StressConcern    float64 `mapstructure:"stress_concern"`
	StressGood       float64 `mapstructure:"stress_good"`
	StressTrendDelta float64 `mapstructure:"stress_trend_delta"`

	VO2MaxConcernChange float64 `mapstructure:"vo2max_concern_change"`

	SedentaryConcernMinutes float64 `mapstructure:"sedentary_concern_minutes"`
	SedentaryGoodMinutes    float64 `mapstructure:"sedentary_good_minutes"`
	SedentaryTrendDelta     float64 `mapstructure:"sedentary_trend_delta"`

	StepsGood       float64 `mapstructure:"steps_good"`
	StepsConcern    float64 `mapstructure:"steps_concern"`
	StepsTrendDelta float64 `mapstructure:"steps_trend_delta"`

	RPEWindow           int     `mapstructure:"rpe_window"`
	RPETrendDelta       float64 `mapstructure:"rpe_trend_delta"`
	RPEFatigueMin       float64 `mapstructure:"rpe_fatigue_min"`
	AerobicEffectMax    float64 `mapstructure:"aerobic_effect_max"`
	FatigueConcernCount int     `mapstructure:"fatigue_concern_count"`
}

// DefaultThresholds returns the standard grading constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Window:       14,
		VO2MaxWindow: 7,

		RestingHRConcernChange: 3,
		RestingHRGoodChange:    -1,
		RestingHRTrendDelta:    1,

		BodyBatteryConcern:    60,
		BodyBatteryGood:       75,
		BodyBatteryTrendDelta: 5,

		SleepConcernHours: 6.5,
		SleepGoodHours:    7,
		ShortNightHours:   6,
		LongNightHours:    7,
		SleepTrendDelta:   0.5,

		StressConcern:    45,
		StressGood:       35,
		StressTrendDelta: 5,

		VO2MaxConcernChange: -2,

		SedentaryConcernMinutes: 600,
		SedentaryGoodMinutes:    480,
		SedentaryTrendDelta:     30,

		StepsGood:       10000,
		StepsConcern:    5000,
		StepsTrendDelta: 1000,

		RPEWindow:           5,
		RPETrendDelta:       0.5,
		RPEFatigueMin:       6,
		AerobicEffectMax:    2.5,
		FatigueConcernCount: 2,
	}
}

// withDefaults fills zero-valued windows so a partially populated
// configuration never produces empty averages.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.Window <= 0 {
		t.Window = d.Window
	}
	if t.VO2MaxWindow <= 0 {
		t.VO2MaxWindow = d.VO2MaxWindow
	}
	if t.RPEWindow <= 0 {
		t.RPEWindow = d.RPEWindow
	}
	return t
}
