package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLine_PollsWithoutProducingWhenStockEmpty(t *testing.T) {
	cfg := fixedConfig()
	cfg.InitialStock = 0
	cfg.Supply.Threshold = 0 // no replenishment ever

	report, err := Run(cfg, 40, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalProduced)
	assert.Equal(t, 0, report.FinalStock)
	assert.Empty(t, report.Errors, "polling is backpressure, not a fault")
}

func TestProductionLine_StationSequenceTiming(t *testing.T) {
	// With collapsed duration ranges the first vehicle's timeline is exact:
	// welding 0-1, assembly 1-3, painting 3-4, inspection 4-5,
	// testing 5-7, packaging 7-8.
	s := mustSimulator(fixedConfig(), 9, 42)
	s.Run()

	require.NotEmpty(t, s.Lines[0].Vehicles)
	v := s.Lines[0].Vehicles[0]
	require.Equal(t, StatusCompleted, v.Status())

	wantPrefix := []struct {
		step string
		time float64
	}{
		{"Vehicle Produced", 0},
		{"Status updated to welding", 0},
		{"Welding started", 0},
		{"Welding completed", 1},
		{"Status updated to assembly", 1},
		{"Assembly started", 1},
		{"Installed Chassis", 3},
		{"Installed Engine", 3},
		{"Assembly completed", 3},
		{"Status updated to painting", 3},
		{"Painting started", 3},
		{"Painting completed", 4},
	}
	require.GreaterOrEqual(t, len(v.ProductionHistory), len(wantPrefix))
	for i, want := range wantPrefix {
		got := v.ProductionHistory[i]
		assert.Equal(t, want.step, got.Step, "entry %d", i)
		assert.Equal(t, want.time, got.Time, "entry %d (%s)", i, want.step)
	}

	last := v.ProductionHistory[len(v.ProductionHistory)-1]
	assert.Equal(t, "Status updated to completed", last.Step)
	assert.Equal(t, 8.0, last.Time)
}

func TestProductionLine_AssemblyInstallsChassisAndEngine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialStock = 10000
	s := mustSimulator(cfg, 100, 42)
	s.Run()

	checked := 0
	for _, v := range s.Lines[0].Vehicles {
		if statusIndex(v.Status()) <= statusIndex(StatusAssembly) {
			continue
		}
		checked++
		require.Contains(t, v.Components, "Chassis")
		require.Contains(t, v.Components, "Engine")
		assert.Equal(t, "Aluminum", v.Components["Chassis"]["material"])
		assert.Contains(t, qualityGrades, v.Components["Chassis"]["quality"])
		assert.Equal(t, v.EngineType, v.Components["Engine"]["type"])
		hp := v.Components["Engine"]["horsepower"].(int)
		assert.GreaterOrEqual(t, hp, 150)
		assert.LessOrEqual(t, hp, 400)
	}
	require.Greater(t, checked, 0, "expected at least one vehicle past assembly")
}

func TestProductionLine_PaintingAppliesPaletteColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialStock = 10000
	s := mustSimulator(cfg, 200, 42)
	s.Run()

	for _, v := range s.Lines[0].Vehicles {
		if statusIndex(v.Status()) > statusIndex(StatusPainting) {
			assert.Contains(t, paintPalette, v.Color)
		}
	}
}

func TestProductionLine_FailedTestFlagsMaintenance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialStock = 10000
	s := mustSimulator(cfg, 400, 42)
	s.Run()

	failed, passed := 0, 0
	for _, v := range s.Lines[0].Vehicles {
		hasFail, hasPass := false, false
		for _, h := range v.ProductionHistory {
			switch h.Step {
			case "Testing failed":
				hasFail = true
			case "Testing passed":
				hasPass = true
			}
		}
		if hasFail {
			failed++
			assert.True(t, v.MaintenanceNeeded, "vehicle %d failed testing but is not flagged", v.ID)
		}
		if hasPass {
			passed++
			assert.False(t, v.MaintenanceNeeded, "vehicle %d passed testing but is flagged", v.ID)
		}
		assert.False(t, hasFail && hasPass, "vehicle %d both passed and failed", v.ID)
	}
	// With a 0.5 threshold and a 400-unit horizon both outcomes occur.
	assert.Greater(t, failed, 0)
	assert.Greater(t, passed, 0)
}

func TestProductionLine_ConsumesSampledMaterialCost(t *testing.T) {
	cfg := fixedConfig()
	cfg.InitialStock = 100
	cfg.Supply.Threshold = 0
	// Vehicles launch at 0, 5, 10; each consumes exactly one unit.
	report, err := Run(cfg, 12, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalProduced)
	assert.Equal(t, 97, report.FinalStock)
}
