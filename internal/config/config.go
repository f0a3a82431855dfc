package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"fitness-coach/internal/adapt"
	"fitness-coach/internal/analysis"
	"fitness-coach/internal/plan"
)

// EnvPrefix prefixes environment overrides, e.g. COACH_LOGGER_LEVEL.
const EnvPrefix = "COACH"

// Config represents the application configuration
type Config struct {
	Logger     LoggerConfig        `mapstructure:"logger"`
	Strava     StravaConfig        `mapstructure:"strava"`
	Athlete    AthleteConfig       `mapstructure:"athlete"`
	Display    DisplayConfig       `mapstructure:"display"`
	Goal       GoalConfig          `mapstructure:"goal"`
	Analysis   analysis.Thresholds `mapstructure:"analysis"`
	Adaptation adapt.Thresholds    `mapstructure:"adaptation"`
	Store      StoreConfig         `mapstructure:"store"`
	Batch      BatchConfig         `mapstructure:"batch"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	ServiceName string `mapstructure:"service_name"`
	AddSource   bool   `mapstructure:"add_source"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	RestingHR   float64 `mapstructure:"resting_hr"`
	MaxHR       float64 `mapstructure:"max_hr"`
	ThresholdHR float64 `mapstructure:"threshold_hr"`
}

// Zones returns the heart rate zones used for training load.
func (a AthleteConfig) Zones() analysis.HRZones {
	return analysis.HRZones{RestingHR: a.RestingHR, MaxHR: a.MaxHR}
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `mapstructure:"distance_unit"`
	PaceUnit     string `mapstructure:"pace_unit"`
	Color        bool   `mapstructure:"color"`
}

// GoalConfig is the goal as written in the config file. Dates and times are
// kept as strings here and parsed by Goal.
type GoalConfig struct {
	Category      string  `json:"category,omitempty" mapstructure:"category"`
	Type          string  `json:"type" mapstructure:"type"`
	TargetDate    string  `json:"target_date,omitempty" mapstructure:"target_date"` // 2006-01-02
	TargetTime    string  `json:"target_time,omitempty" mapstructure:"target_time"` // h:mm:ss or mm:ss
	WeeklyMileage float64 `json:"weekly_mileage,omitempty" mapstructure:"weekly_mileage"`
	Experience    string  `json:"experience,omitempty" mapstructure:"experience"`
	LongRunDay    string  `json:"long_run_day,omitempty" mapstructure:"long_run_day"`
	Intensity     string  `json:"intensity,omitempty" mapstructure:"intensity"`
}

// IsSet reports whether a goal was configured.
func (g GoalConfig) IsSet() bool {
	return g.Type != ""
}

// Goal converts the configured goal into a plan goal.
func (g GoalConfig) Goal() (plan.Goal, error) {
	goal := plan.Goal{
		Category:      plan.Category(g.Category),
		Type:          plan.GoalType(strings.ToLower(g.Type)),
		WeeklyMileage: g.WeeklyMileage,
		Experience:    plan.Experience(strings.ToLower(g.Experience)),
		LongRunDay:    strings.ToLower(g.LongRunDay),
		Intensity:     plan.Intensity(strings.ToLower(g.Intensity)),
	}
	if g.TargetDate != "" {
		d, err := time.Parse(time.DateOnly, g.TargetDate)
		if err != nil {
			return plan.Goal{}, fmt.Errorf("goal.target_date: %w", err)
		}
		goal.TargetDate = d
	}
	if g.TargetTime != "" {
		d, err := ParseTargetTime(g.TargetTime)
		if err != nil {
			return plan.Goal{}, fmt.Errorf("goal.target_time: %w", err)
		}
		goal.TargetTime = d
	}
	return goal, nil
}

// ParseTargetTime parses a finish time written as h:mm:ss or mm:ss.
func ParseTargetTime(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q, want h:mm:ss or mm:ss", s)
	}
	var total int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q, want h:mm:ss or mm:ss", s)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", s)
		}
		total = total*60 + n
	}
	if total == 0 {
		return 0, fmt.Errorf("invalid time %q: must be positive", s)
	}
	return time.Duration(total) * time.Second, nil
}

// StoreConfig locates the local database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// BatchConfig bounds concurrent plan generation.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// ErrNoConfig is returned when an explicitly requested config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// SetDefaults registers the default value of every scalar setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "coach")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	v.SetDefault("athlete.resting_hr", 50)
	v.SetDefault("athlete.max_hr", 185)
	v.SetDefault("athlete.threshold_hr", 165)

	v.SetDefault("display.distance_unit", "mi")
	v.SetDefault("display.pace_unit", "min/mi")
	v.SetDefault("display.color", true)

	v.SetDefault("strava.client_id", "")
	v.SetDefault("strava.client_secret", "")

	v.SetDefault("goal.category", "")
	v.SetDefault("goal.type", "")
	v.SetDefault("goal.target_date", "")
	v.SetDefault("goal.target_time", "")
	v.SetDefault("goal.weekly_mileage", 0)
	v.SetDefault("goal.experience", "")
	v.SetDefault("goal.long_run_day", "sunday")
	v.SetDefault("goal.intensity", string(plan.Normal))

	v.SetDefault("store.path", "")
	v.SetDefault("batch.concurrency", 4)

	// every threshold key is registered so COACH_ANALYSIS_* and
	// COACH_ADAPTATION_* reach it
	an := analysis.DefaultThresholds()
	v.SetDefault("analysis.window", an.Window)
	v.SetDefault("analysis.vo2max_window", an.VO2MaxWindow)
	v.SetDefault("analysis.resting_hr_concern_change", an.RestingHRConcernChange)
	v.SetDefault("analysis.resting_hr_good_change", an.RestingHRGoodChange)
	v.SetDefault("analysis.resting_hr_trend_delta", an.RestingHRTrendDelta)
	v.SetDefault("analysis.body_battery_concern", an.BodyBatteryConcern)
	v.SetDefault("analysis.body_battery_good", an.BodyBatteryGood)
	v.SetDefault("analysis.body_battery_trend_delta", an.BodyBatteryTrendDelta)
	v.SetDefault("analysis.sleep_concern_hours", an.SleepConcernHours)
	v.SetDefault("analysis.sleep_good_hours", an.SleepGoodHours)
	v.SetDefault("analysis.short_night_hours", an.ShortNightHours)
	v.SetDefault("analysis.long_night_hours", an.LongNightHours)
	v.SetDefault("analysis.sleep_trend_delta", an.SleepTrendDelta)
	v.SetDefault("analysis.stress_concern", an.StressConcern)
	v.SetDefault("analysis.stress_good", an.StressGood)
	v.SetDefault("analysis.stress_trend_delta", an.StressTrendDelta)
	v.SetDefault("analysis.vo2max_concern_change", an.VO2MaxConcernChange)
	v.SetDefault("analysis.sedentary_concern_minutes", an.SedentaryConcernMinutes)
	v.SetDefault("analysis.sedentary_good_minutes", an.SedentaryGoodMinutes)
	v.SetDefault("analysis.sedentary_trend_delta", an.SedentaryTrendDelta)
	v.SetDefault("analysis.steps_good", an.StepsGood)
	v.SetDefault("analysis.steps_concern", an.StepsConcern)
	v.SetDefault("analysis.steps_trend_delta", an.StepsTrendDelta)
	v.SetDefault("analysis.rpe_window", an.RPEWindow)
	v.SetDefault("analysis.rpe_trend_delta", an.RPETrendDelta)
	v.SetDefault("analysis.rpe_fatigue_min", an.RPEFatigueMin)
	v.SetDefault("analysis.aerobic_effect_max", an.AerobicEffectMax)
	v.SetDefault("analysis.fatigue_concern_count", an.FatigueConcernCount)

	ad := adapt.DefaultThresholds()
	v.SetDefault("adaptation.resting_hr_multiplier", ad.RestingHRMultiplier)
	v.SetDefault("adaptation.body_battery_multiplier", ad.BodyBatteryMultiplier)
	v.SetDefault("adaptation.sleep_multiplier", ad.SleepMultiplier)
	v.SetDefault("adaptation.multiplier_floor", ad.MultiplierFloor)
	v.SetDefault("adaptation.fatigue_rules_for_swap", ad.FatigueRulesForSwap)
	v.SetDefault("adaptation.short_nights_for_swap", ad.ShortNightsForSwap)
	v.SetDefault("adaptation.rpe_fatigue_indicators", ad.RPEFatigueIndicators)
	v.SetDefault("adaptation.min_runs_for_pace", ad.MinRunsForPace)
	v.SetDefault("adaptation.recent_run_days", ad.RecentRunDays)
	v.SetDefault("adaptation.recent_run_weight", ad.RecentRunWeight)
	v.SetDefault("adaptation.easy_pace_margin", ad.EasyPaceMargin)
	v.SetDefault("adaptation.easy_hr_ceiling", ad.EasyHRCeiling)
	v.SetDefault("adaptation.easy_band_offset", ad.EasyBandOffset)
	v.SetDefault("adaptation.pace_divergence_max", ad.PaceDivergenceMax)
	v.SetDefault("adaptation.long_run_lookback_days", ad.LongRunLookbackDays)
	v.SetDefault("adaptation.worst_day_reduction", ad.WorstDayReduction)
	v.SetDefault("adaptation.missed_long_run_reduction", ad.MissedLongRunReduction)
	v.SetDefault("adaptation.missed_long_run_fraction", ad.MissedLongRunFraction)
	v.SetDefault("adaptation.vo2max_improvement", ad.VO2MaxImprovement)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("decoding default config: %v", err))
	}
	return cfg
}

// decode unmarshals v on top of the threshold defaults, so a partial
// analysis or adaptation section only overrides the keys it names.
func decode(v *viper.Viper) (*Config, error) {
	cfg := Config{
		Analysis:   analysis.DefaultThresholds(),
		Adaptation: adapt.DefaultThresholds(),
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Store.Path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.Store.Path = filepath.Join(dir, "coach.db")
	}
	return &cfg, nil
}

// Load reads the configuration. With an empty path it looks for
// ~/.coach/config.json and falls back to defaults when the file is absent.
// COACH_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
		}
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return decode(v)
}

// CreateExample creates an example config file if none exists
func CreateExample() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(dir, "config.json")

	v := viper.New()
	v.Set("strava.client_id", "YOUR_CLIENT_ID")
	v.Set("strava.client_secret", "YOUR_CLIENT_SECRET")
	v.Set("athlete.resting_hr", 50)
	v.Set("athlete.max_hr", 185)
	v.Set("athlete.threshold_hr", 165)
	v.Set("goal.type", string(plan.GoalHalfMarathon))
	v.Set("goal.target_date", time.Now().AddDate(0, 0, 84).Format(time.DateOnly))
	v.Set("goal.target_time", "1:55:00")
	v.Set("goal.weekly_mileage", 25)
	v.Set("goal.long_run_day", "sunday")
	v.Set("logger.level", "info")

	if err := v.SafeWriteConfigAs(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return path, nil // Config exists, don't overwrite
		}
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// Validate checks settings that every command depends on
func (c *Config) Validate() error {
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	// Validate threshold_hr < max_hr when both are set
	if c.Athlete.ThresholdHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.ThresholdHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.threshold_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.ThresholdHR, c.Athlete.MaxHR)
	}
	if c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be a positive integer, got %d", c.Batch.Concurrency)
	}
	if c.Adaptation.MultiplierFloor <= 0 || c.Adaptation.MultiplierFloor > 1 {
		return fmt.Errorf("adaptation.multiplier_floor must be in (0, 1], got %v", c.Adaptation.MultiplierFloor)
	}
	if c.Analysis.Window < 1 {
		return fmt.Errorf("analysis.window must be a positive integer, got %d", c.Analysis.Window)
	}

	if c.Goal.IsSet() {
		g, err := c.Goal.Goal()
		if err != nil {
			return err
		}
		if err := g.Normalize().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrava checks the API credentials needed to sync
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// Dir returns the path to the config directory
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".coach"), nil
}
