package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/telemetry"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestTRIMP(t *testing.T) {
	zones := DefaultZones()

	tests := []struct {
		name     string
		activity telemetry.Activity
		zones    HRZones
		expected float64
		delta    float64
	}{
		{
			name:     "one hour at 150 bpm",
			activity: telemetry.Activity{Duration: 3600, AvgHR: floatPtr(150)},
			zones:    zones,
			// ratio = 100/135, TRIMP = 60 * 0.741 * e^(1.92*0.741)
			expected: 184.3,
			delta:    1,
		},
		{
			name:     "no HR data available",
			activity: telemetry.Activity{Duration: 3600},
			zones:    zones,
		},
		{
			name:     "HR below resting clamps to zero",
			activity: telemetry.Activity{Duration: 3600, AvgHR: floatPtr(40)},
			zones:    zones,
		},
		{
			name:     "HR above max clamps ratio to one",
			activity: telemetry.Activity{Duration: 1800, AvgHR: floatPtr(200)},
			zones:    zones,
			expected: 30 * 6.821,
			delta:    0.5,
		},
		{
			name:     "invalid zones",
			activity: telemetry.Activity{Duration: 3600, AvgHR: floatPtr(150)},
			zones:    HRZones{RestingHR: 180, MaxHR: 170},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TRIMP(tt.activity, tt.zones), tt.delta)
		})
	}
}

func TestDailyLoads(t *testing.T) {
	day := time.Date(2026, 5, 4, 6, 30, 0, 0, time.UTC)
	acts := []telemetry.Activity{
		{ID: 1, StartTime: day.AddDate(0, 0, 1), Duration: 3600, AvgHR: floatPtr(150)},
		{ID: 2, StartTime: day, Duration: 3600, AvgHR: floatPtr(150)},
		{ID: 3, StartTime: day.Add(8 * time.Hour), Duration: 3600, AvgHR: floatPtr(150)},
		{ID: 4, StartTime: day, Duration: 3600},
	}

	loads := DailyLoads(acts, DefaultZones())
	require.Len(t, loads, 2)
	assert.Equal(t, telemetry.DateOf(day), loads[0].Date)
	assert.InDelta(t, 2*184.3, loads[0].TRIMP, 2)
	assert.InDelta(t, 184.3, loads[1].TRIMP, 1)
}

func TestCalculateFitnessTrend(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, CalculateFitnessTrend(nil, base))
	})

	t.Run("single day", func(t *testing.T) {
		metrics := CalculateFitnessTrend([]DailyLoad{{Date: base, TRIMP: 100}}, base)
		require.Len(t, metrics, 1)
		assert.InDelta(t, 4.65, metrics[0].CTL, 0.01)
		assert.InDelta(t, 25, metrics[0].ATL, 0.01)
		assert.InDelta(t, metrics[0].CTL-metrics[0].ATL, metrics[0].TSB, 0.001)
	})

	t.Run("consecutive loads build fitness", func(t *testing.T) {
		loads := make([]DailyLoad, 14)
		for i := range loads {
			loads[i] = DailyLoad{Date: base.AddDate(0, 0, i), TRIMP: 100}
		}
		metrics := CalculateFitnessTrend(loads, base.AddDate(0, 0, 13))
		require.Len(t, metrics, 14)
		for i := 1; i < len(metrics); i++ {
			assert.Greater(t, metrics[i].CTL, metrics[i-1].CTL)
		}
		assert.Greater(t, metrics[6].ATL, metrics[6].CTL)
		assert.Negative(t, metrics[13].TSB)
	})

	t.Run("gaps and trailing rest days are filled", func(t *testing.T) {
		loads := []DailyLoad{
			{Date: base.AddDate(0, 0, 4), TRIMP: 80},
			{Date: base, TRIMP: 100},
		}
		metrics := CalculateFitnessTrend(loads, base.AddDate(0, 0, 9))
		require.Len(t, metrics, 10)
		assert.Less(t, metrics[3].ATL, metrics[0].ATL)
		assert.Less(t, metrics[9].ATL, metrics[4].ATL)
		// input order is left untouched
		assert.Equal(t, base.AddDate(0, 0, 4), loads[0].Date)
	})
}

func TestFormDescription(t *testing.T) {
	tests := []struct {
		tsb  float64
		want string
	}{
		{30, "Very fresh (possibly detrained)"},
		{15, "Fresh and ready to race"},
		{5, "Neutral - good for training"},
		{-5, "Slightly fatigued"},
		{-15, "Tired but building fitness"},
		{-30, "Very fatigued - rest needed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormDescription(tt.tsb))
	}
}

func TestAnalyzeLoad(t *testing.T) {
	day := time.Date(2026, 5, 4, 6, 30, 0, 0, time.UTC)
	var acts []telemetry.Activity
	for i := 0; i < 10; i++ {
		acts = append(acts, telemetry.Activity{
			ID: int64(i), Type: telemetry.TypeRun, StartTime: day.AddDate(0, 0, i),
			Duration: 3600, AvgHR: floatPtr(150),
		})
	}

	load := analyzeLoad(acts, DefaultZones())
	require.NotNil(t, load)
	assert.Equal(t, 10, load.Activities)
	assert.InDelta(t, 7*184.3, load.WeeklyTRIMP, 5)
	assert.Negative(t, load.TSB)
	assert.Equal(t, FormDescription(load.TSB), load.Form)

	assert.Nil(t, analyzeLoad([]telemetry.Activity{{Duration: 3600}}, DefaultZones()))
}
