package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/telemetry"
)

func TestCalculateVDOT(t *testing.T) {
	tests := []struct {
		name            string
		distanceMeters  float64
		durationSeconds int
		wantVDOT        float64
		tolerance       float64
	}{
		{"5K at 19:00", Distance5K, 1140, 50, 0.5},
		{"5K at 23:42", Distance5K, 1422, 40, 0.5},
		{"10K at 39:24", Distance10K, 2364, 50, 0.5},
		{"half marathon at 1:25:00", DistanceHalfMara, 5100, 50, 0.5},
		{"marathon at 2:54:54", DistanceMarathon, 10494, 50, 0.5},
		{"mile at 5:44", Distance1Mile, 344, 50, 0.5},
		{"5K between rows", Distance5K, 1431, 39.8, 0.3},
		{"slower than table", Distance5K, 4000, 30, 0},
		{"faster than table", Distance5K, 600, 85, 0},
		{"non-standard 8K", 8000, 1900, 50, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVDOT(tt.distanceMeters, tt.durationSeconds)
			assert.InDelta(t, tt.wantVDOT, got, tt.tolerance)
		})
	}
}

func TestCalculateVDOT_EdgeCases(t *testing.T) {
	assert.Zero(t, CalculateVDOT(Distance5K, 0))
	assert.Zero(t, CalculateVDOT(Distance5K, -10))
	assert.Zero(t, CalculateVDOT(0, 1200))
}

func TestPredictTime(t *testing.T) {
	tests := []struct {
		name     string
		vdot     float64
		distance float64
		want     int
		delta    float64
	}{
		{"VDOT 50 5K", 50, Distance5K, 1140, 0},
		{"VDOT 50 marathon", 50, DistanceMarathon, 10494, 0},
		{"VDOT 40 10K", 40, Distance10K, 2952, 0},
		{"VDOT 45.5 5K interpolated", 45.5, Distance5K, 1254, 1},
		{"below table clamps", 20, Distance5K, 1860, 0},
		{"above table clamps", 90, Distance5K, 708, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PredictTime(tt.vdot, tt.distance), tt.delta)
		})
	}

	assert.Zero(t, PredictTime(0, Distance5K))
	assert.Zero(t, PredictTime(50, 0))
}

func TestPredictTimeRoundTrip(t *testing.T) {
	for _, vdot := range []float64{32, 41.5, 50, 63.2} {
		for _, d := range []float64{Distance5K, Distance10K, DistanceHalfMara, DistanceMarathon} {
			seconds := PredictTime(vdot, d)
			assert.InDelta(t, vdot, CalculateVDOT(d, seconds), 0.2, "vdot %.1f over %.0fm", vdot, d)
		}
	}
}

func TestGetVDOTLabel(t *testing.T) {
	tests := []struct {
		vdot float64
		want string
	}{
		{80, "Elite"},
		{65, "Highly Competitive"},
		{58, "Competitive"},
		{45, "Advanced Recreational"},
		{40, "Intermediate"},
		{30, "Beginner"},
		{25, "Novice"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetVDOTLabel(tt.vdot), "vdot %.0f", tt.vdot)
	}
}

func TestEstimateFitness(t *testing.T) {
	day := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	t.Run("prefers race-distance runs", func(t *testing.T) {
		acts := []telemetry.Activity{
			{ID: 1, Type: telemetry.TypeRun, StartTime: day, Distance: Distance5K, Duration: 1422},
			{ID: 2, Type: telemetry.TypeRun, StartTime: day.AddDate(0, 0, 1), Distance: Distance5K, Duration: 1140},
			{ID: 3, Type: telemetry.TypeRun, StartTime: day.AddDate(0, 0, 2), Distance: 7000, Duration: 1300},
			{ID: 4, Type: telemetry.TypeBike, StartTime: day, Distance: Distance10K, Duration: 1000},
		}
		got := estimateFitness(acts)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.SourceActivityID)
		assert.Equal(t, "5k", got.SourceRace)
		assert.InDelta(t, 50, got.VDOT, 0.1)
		assert.Equal(t, "Advanced Recreational", got.Label)
		assert.Equal(t, 1140, got.Predictions["5k"])
		assert.Len(t, got.Predictions, 4)
	})

	t.Run("falls back to long runs", func(t *testing.T) {
		acts := []telemetry.Activity{
			{ID: 9, Type: telemetry.TypeRun, StartTime: day, Distance: 8000, Duration: 2400},
		}
		got := estimateFitness(acts)
		require.NotNil(t, got)
		assert.Equal(t, int64(9), got.SourceActivityID)
		assert.Empty(t, got.SourceRace)
	})

	t.Run("nothing usable", func(t *testing.T) {
		acts := []telemetry.Activity{
			{ID: 1, Type: telemetry.TypeRun, StartTime: day, Distance: 2000, Duration: 600},
			{ID: 2, Type: telemetry.TypeRun, StartTime: day, Distance: 0, Duration: 600},
		}
		assert.Nil(t, estimateFitness(acts))
	})
}

func TestFitnessEstimatePredictSeconds(t *testing.T) {
	var none *FitnessEstimate
	_, ok := none.PredictSeconds("5k")
	assert.False(t, ok)

	f := &FitnessEstimate{VDOT: 50}
	got, ok := f.PredictSeconds("marathon")
	require.True(t, ok)
	assert.Equal(t, 10494, got)

	_, ok = f.PredictSeconds("ultra")
	assert.False(t, ok)
}
