package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectQualityChecks(s *Simulator) []QualityCheckResult {
	var all []QualityCheckResult
	for _, l := range s.Lines {
		for _, v := range l.Vehicles {
			all = append(all, v.QualityHistory...)
		}
	}
	return all
}

func TestQuality_PeriodicInspectionCount(t *testing.T) {
	// Trigger at 20, inspect at 21, next trigger at 41, inspect at 42,
	// next trigger at 62: exactly two inspections before horizon 45.
	s := mustSimulator(fixedConfig(), 45, 42)
	s.Run()

	checks := collectQualityChecks(s)
	require.Len(t, checks, 2)
	assert.Equal(t, 21.0, checks[0].Time)
	assert.Equal(t, 42.0, checks[1].Time)
}

func TestQuality_ScoresAreRoundedAndBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialStock = 10000
	s := mustSimulator(cfg, 2000, 42)
	s.Run()

	checks := collectQualityChecks(s)
	require.NotEmpty(t, checks)
	for _, c := range checks {
		for _, score := range []float64{c.AssemblyScore, c.PaintScore, c.PerformanceScore, c.OverallScore} {
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			// Two decimal places.
			assert.InDelta(t, score*100, math.Round(score*100), 1e-9)
		}
		// The recorded overall is the rounded mean, so it tracks the mean
		// of the rounded per-factor scores within rounding error.
		mean := (c.AssemblyScore + c.PaintScore + c.PerformanceScore) / 3.0
		assert.InDelta(t, mean, c.OverallScore, 0.011)
		assert.Contains(t, []string{"passed", "failed"}, c.Result)
	}
}

func TestQuality_PassRequiresEveryFactor(t *testing.T) {
	// Impossible thresholds fail every inspection; zero thresholds pass
	// every inspection.
	cfg := DefaultConfig()
	cfg.InitialStock = 10000
	cfg.Quality.AssemblyThreshold = 1.0
	s := mustSimulator(cfg, 1000, 42)
	s.Run()
	for _, c := range collectQualityChecks(s) {
		assert.Equal(t, "failed", c.Result)
	}

	cfg = DefaultConfig()
	cfg.InitialStock = 10000
	cfg.Quality.AssemblyThreshold = 0
	cfg.Quality.PaintThreshold = 0
	cfg.Quality.PerformanceThreshold = 0
	s = mustSimulator(cfg, 1000, 42)
	s.Run()
	checks := collectQualityChecks(s)
	require.NotEmpty(t, checks)
	for _, c := range checks {
		assert.Equal(t, "passed", c.Result)
	}
}

func TestQuality_SkipsWhenNoVehiclesExist(t *testing.T) {
	// No stock and no supply: nothing is ever produced, and the process
	// keeps ticking without inspecting or faulting.
	cfg := fixedConfig()
	cfg.InitialStock = 0
	cfg.Supply.Threshold = 0

	s := mustSimulator(cfg, 500, 42)
	report := s.Run()

	assert.Empty(t, collectQualityChecks(s))
	assert.Empty(t, report.Errors)
}
