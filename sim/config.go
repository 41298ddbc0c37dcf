package sim

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// DurationRange is a (min, max) interval sampled uniformly for processing
// and suspension times, in simulated time units.
type DurationRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws a duration uniformly from [Min, Max).
func (r DurationRange) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r DurationRange) validate(name string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s: min must be >= 0, got %v", name, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: max (%v) must be >= min (%v)", name, r.Max, r.Min)
	}
	return nil
}

// AmountRange is an inclusive integer range sampled uniformly for material
// costs and replenishment amounts.
type AmountRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws an amount uniformly from [Min, Max].
func (r AmountRange) Sample(rng *rand.Rand) int {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

func (r AmountRange) validate(name string) error {
	if r.Min < 1 {
		return fmt.Errorf("%s: min must be >= 1, got %d", name, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: max (%d) must be >= min (%d)", name, r.Max, r.Min)
	}
	return nil
}

// StationDurations holds the per-station processing time ranges.
type StationDurations struct {
	Welding    DurationRange `yaml:"welding"`
	Assembly   DurationRange `yaml:"assembly"`
	Painting   DurationRange `yaml:"painting"`
	Inspection DurationRange `yaml:"inspection"`
	Testing    DurationRange `yaml:"testing"`
	Packaging  DurationRange `yaml:"packaging"`
}

// ForStation returns the duration range configured for the given station.
func (d StationDurations) ForStation(st Station) DurationRange {
	switch st {
	case StationWelding:
		return d.Welding
	case StationAssembly:
		return d.Assembly
	case StationPainting:
		return d.Painting
	case StationInspection:
		return d.Inspection
	case StationTesting:
		return d.Testing
	case StationPackaging:
		return d.Packaging
	}
	panic(fmt.Sprintf("unknown station %d", st))
}

func (d StationDurations) validate() error {
	for _, st := range Stations() {
		if err := d.ForStation(st).validate("stations." + st.String()); err != nil {
			return err
		}
	}
	return nil
}

// LineConfig groups the parameters of one production line's loop.
type LineConfig struct {
	Stations          StationDurations `yaml:"stations"`
	StockPollInterval float64          `yaml:"stock_poll_interval"` // recheck delay while stock < 1
	MaterialCost      AmountRange      `yaml:"material_cost"`       // stock units consumed per vehicle
	InterArrival      DurationRange    `yaml:"inter_arrival"`       // delay between vehicle launches
}

// MaintenanceConfig groups the maintenance process parameters.
type MaintenanceConfig struct {
	Interval    float64       `yaml:"interval"`    // time between inspection rounds
	Probability float64       `yaml:"probability"` // per-line chance a round services the line
	Duration    DurationRange `yaml:"duration"`    // service time
}

// SupplyConfig groups the supply-chain process parameters.
type SupplyConfig struct {
	Interval  float64       `yaml:"interval"`  // time between stock checks
	Threshold int           `yaml:"threshold"` // low-water mark triggering replenishment
	LeadTime  DurationRange `yaml:"lead_time"` // delay before a replenishment lands
	Amount    AmountRange   `yaml:"amount"`    // units added per replenishment
}

// QualityConfig groups the quality-control process parameters. A vehicle
// passes inspection only if all three factor scores meet their thresholds;
// the overall score is the unweighted mean and is diagnostic only.
type QualityConfig struct {
	Interval             float64       `yaml:"interval"`
	InspectionDelay      DurationRange `yaml:"inspection_delay"`
	AssemblyThreshold    float64       `yaml:"assembly_threshold"`
	PaintThreshold       float64       `yaml:"paint_threshold"`
	PerformanceThreshold float64       `yaml:"performance_threshold"`
}

// Config is the full factory configuration passed to NewSimulator.
// Construction fails fast on invalid values; nothing here is read from
// ambient global state.
type Config struct {
	Lines        int               `yaml:"lines"`
	InitialStock int               `yaml:"initial_stock"`
	Line         LineConfig        `yaml:"line"`
	Maintenance  MaintenanceConfig `yaml:"maintenance"`
	Supply       SupplyConfig      `yaml:"supply"`
	Quality      QualityConfig     `yaml:"quality"`
}

// DefaultConfig returns the stock factory configuration.
func DefaultConfig() *Config {
	return &Config{
		Lines:        1,
		InitialStock: 100,
		Line: LineConfig{
			Stations: StationDurations{
				Welding:    DurationRange{Min: 1.0, Max: 3.0},
				Assembly:   DurationRange{Min: 2.0, Max: 5.0},
				Painting:   DurationRange{Min: 1.0, Max: 3.0},
				Inspection: DurationRange{Min: 1.0, Max: 2.5},
				Testing:    DurationRange{Min: 2.0, Max: 4.0},
				Packaging:  DurationRange{Min: 0.5, Max: 1.5},
			},
			StockPollInterval: 2.0,
			MaterialCost:      AmountRange{Min: 1, Max: 3},
			InterArrival:      DurationRange{Min: 2.0, Max: 6.0},
		},
		Maintenance: MaintenanceConfig{
			Interval:    50.0,
			Probability: 0.3,
			Duration:    DurationRange{Min: 5.0, Max: 10.0},
		},
		Supply: SupplyConfig{
			Interval:  10.0,
			Threshold: 20,
			LeadTime:  DurationRange{Min: 5.0, Max: 10.0},
			Amount:    AmountRange{Min: 30, Max: 60},
		},
		Quality: QualityConfig{
			Interval:             20.0,
			InspectionDelay:      DurationRange{Min: 0.5, Max: 1.5},
			AssemblyThreshold:    0.75,
			PaintThreshold:       0.80,
			PerformanceThreshold: 0.70,
		},
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Lines < 1 {
		return fmt.Errorf("lines: must be >= 1, got %d", c.Lines)
	}
	if c.InitialStock < 0 {
		return fmt.Errorf("initial_stock: must be >= 0, got %d", c.InitialStock)
	}
	if err := c.Line.Stations.validate(); err != nil {
		return err
	}
	if c.Line.StockPollInterval <= 0 {
		return fmt.Errorf("line.stock_poll_interval: must be > 0, got %v", c.Line.StockPollInterval)
	}
	if err := c.Line.MaterialCost.validate("line.material_cost"); err != nil {
		return err
	}
	if err := c.Line.InterArrival.validate("line.inter_arrival"); err != nil {
		return err
	}
	if c.Maintenance.Interval <= 0 {
		return fmt.Errorf("maintenance.interval: must be > 0, got %v", c.Maintenance.Interval)
	}
	if c.Maintenance.Probability < 0 || c.Maintenance.Probability > 1 {
		return fmt.Errorf("maintenance.probability: must be in [0, 1], got %v", c.Maintenance.Probability)
	}
	if err := c.Maintenance.Duration.validate("maintenance.duration"); err != nil {
		return err
	}
	if c.Supply.Interval <= 0 {
		return fmt.Errorf("supply.interval: must be > 0, got %v", c.Supply.Interval)
	}
	if c.Supply.Threshold < 0 {
		return fmt.Errorf("supply.threshold: must be >= 0, got %d", c.Supply.Threshold)
	}
	if err := c.Supply.LeadTime.validate("supply.lead_time"); err != nil {
		return err
	}
	if err := c.Supply.Amount.validate("supply.amount"); err != nil {
		return err
	}
	if c.Quality.Interval <= 0 {
		return fmt.Errorf("quality.interval: must be > 0, got %v", c.Quality.Interval)
	}
	if err := c.Quality.InspectionDelay.validate("quality.inspection_delay"); err != nil {
		return err
	}
	thresholds := []struct {
		name  string
		value float64
	}{
		{"quality.assembly_threshold", c.Quality.AssemblyThreshold},
		{"quality.paint_threshold", c.Quality.PaintThreshold},
		{"quality.performance_threshold", c.Quality.PerformanceThreshold},
	}
	for _, t := range thresholds {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("%s: must be in [0, 1], got %v", t.name, t.value)
		}
	}
	return nil
}

// LoadConfig reads a YAML config file, applying it over DefaultConfig so
// partial files only override what they mention.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
