package sim

// Shared helpers for the sim package tests.

// fixedConfig returns a config where every sampled range is collapsed to a
// single value, so event timings are exact and assertions can use known
// timestamps. Maintenance is disabled (probability 0) and the supply chain
// is idle (threshold 0) unless a test overrides them.
func fixedConfig() *Config {
	cfg := DefaultConfig()
	cfg.Lines = 1
	cfg.InitialStock = 100
	cfg.Line = LineConfig{
		Stations: StationDurations{
			Welding:    DurationRange{Min: 1.0, Max: 1.0},
			Assembly:   DurationRange{Min: 2.0, Max: 2.0},
			Painting:   DurationRange{Min: 1.0, Max: 1.0},
			Inspection: DurationRange{Min: 1.0, Max: 1.0},
			Testing:    DurationRange{Min: 2.0, Max: 2.0},
			Packaging:  DurationRange{Min: 1.0, Max: 1.0},
		},
		StockPollInterval: 2.0,
		MaterialCost:      AmountRange{Min: 1, Max: 1},
		InterArrival:      DurationRange{Min: 5.0, Max: 5.0},
	}
	cfg.Maintenance = MaintenanceConfig{
		Interval:    50.0,
		Probability: 0.0,
		Duration:    DurationRange{Min: 5.0, Max: 5.0},
	}
	cfg.Supply = SupplyConfig{
		Interval:  10.0,
		Threshold: 0,
		LeadTime:  DurationRange{Min: 5.0, Max: 5.0},
		Amount:    AmountRange{Min: 50, Max: 50},
	}
	cfg.Quality = QualityConfig{
		Interval:             20.0,
		InspectionDelay:      DurationRange{Min: 1.0, Max: 1.0},
		AssemblyThreshold:    0.75,
		PaintThreshold:       0.80,
		PerformanceThreshold: 0.70,
	}
	return cfg
}

// mustSimulator builds a simulator or panics; for tests where construction
// cannot fail.
func mustSimulator(cfg *Config, horizon float64, seed int64) *Simulator {
	s, err := NewSimulator(cfg, horizon, seed)
	if err != nil {
		panic(err)
	}
	return s
}

// statusIndex returns the position of a status in the canonical sequence,
// or -1 when unknown.
func statusIndex(st Status) int {
	for i, s := range statusSequence {
		if s == st {
			return i
		}
	}
	return -1
}
