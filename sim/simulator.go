// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ProcessError records a process fault absorbed by the engine.
type ProcessError struct {
	Process string  `json:"process"`
	Time    float64 `json:"time"`
	Message string  `json:"message"`
}

// Simulator is the core object that holds simulated time, factory state,
// and the event loop. Scheduling is single-threaded cooperative: exactly one
// process resumption executes at a time, and every mutation between two
// suspension points is atomic with respect to other processes.
type Simulator struct {
	Clock   float64
	Horizon float64

	// EventQueue holds all pending process resumptions.
	EventQueue *EventQueue

	// Stock is the single material pool shared by all lines and the
	// supply chain.
	Stock *RawMaterialStock

	Lines []*ProductionLine

	// MaintenanceLog is append-only; records are never mutated after
	// creation.
	MaintenanceLog []MaintenanceRecord

	// Errors lists process faults absorbed during the run.
	Errors []ProcessError

	RNG *PartitionedRNG

	maintenance *MaintenanceProcess
	supply      *SupplyChainProcess
	quality     *QualityControlProcess

	cfg *Config

	// failed marks processes excluded from scheduling after a fault.
	failed map[string]bool
}

// NewSimulator validates the configuration, builds the factory state, and
// seeds every process's first activation. Configuration errors fail here,
// before any event runs.
func NewSimulator(cfg *Config, horizon float64, seed int64) (*Simulator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must be >= 0, got %v", horizon)
	}

	s := &Simulator{
		Horizon:    horizon,
		EventQueue: NewEventQueue(),
		Stock:      NewRawMaterialStock(cfg.InitialStock, cfg.Supply.Threshold),
		RNG:        NewPartitionedRNG(seed),
		cfg:        cfg,
		failed:     make(map[string]bool),
	}

	for i := 1; i <= cfg.Lines; i++ {
		line := NewProductionLine(i, cfg.Line, s.RNG.ForSubsystem(SubsystemLine(i)))
		s.Lines = append(s.Lines, line)
	}
	s.maintenance = NewMaintenanceProcess(cfg.Maintenance, s.RNG.ForSubsystem(SubsystemMaintenance), s.Lines)
	s.supply = NewSupplyChainProcess(cfg.Supply, s.RNG.ForSubsystem(SubsystemSupply))
	s.quality = NewQualityControlProcess(cfg.Quality, s.RNG.ForSubsystem(SubsystemQuality), s.Lines)

	// Initial activations. Production starts immediately; the periodic
	// processes wait out their first interval before their first check.
	for _, line := range s.Lines {
		s.Schedule(NewProduceEvent(0, line))
	}
	s.Schedule(&maintenanceTickEvent{time: cfg.Maintenance.Interval, process: s.maintenance})
	s.Schedule(&supplyTickEvent{time: cfg.Supply.Interval, process: s.supply})
	s.Schedule(&qualityTickEvent{time: cfg.Quality.Interval, process: s.quality})

	return s, nil
}

// Schedule inserts a pending resumption into the event queue. Events may
// never be scheduled in the simulated past.
func (s *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < s.Clock {
		panic(fmt.Sprintf("schedule in the past: %.2f < %.2f", ev.Timestamp(), s.Clock))
	}
	s.EventQueue.Schedule(ev)
}

// Run drives the event loop until the next event would land at or beyond
// the horizon, then discards whatever remains queued. Run never panics past
// its own boundary: a faulting process is logged, recorded, and excluded
// from further scheduling while everything else continues.
func (s *Simulator) Run() *Report {
	start := time.Now()
	for s.EventQueue.Len() > 0 {
		next := s.EventQueue.Peek()
		if next.Timestamp() >= s.Horizon {
			break
		}
		ev := s.EventQueue.PopNext()
		if ev.Timestamp() < s.Clock {
			panic(fmt.Sprintf("clock went backwards: %.2f < %.2f", ev.Timestamp(), s.Clock))
		}
		s.Clock = ev.Timestamp()
		if s.failed[ev.Process()] {
			logrus.Debugf("[tick %09.2f] dropping event for failed process %s", s.Clock, ev.Process())
			continue
		}
		logrus.Debugf("[tick %09.2f] executing %T", s.Clock, ev)
		s.execute(ev)
	}
	s.Clock = s.Horizon
	logrus.Infof("[tick %09.2f] simulation ended", s.Clock)
	return s.report(time.Since(start))
}

// execute runs one event under fault isolation.
func (s *Simulator) execute(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("process %s failed at %.2f: %v", ev.Process(), s.Clock, r)
			s.failed[ev.Process()] = true
			s.Errors = append(s.Errors, ProcessError{
				Process: ev.Process(),
				Time:    s.Clock,
				Message: fmt.Sprint(r),
			})
		}
	}()
	ev.Execute(s)
}

// Run executes a full simulation from config to report.
func Run(cfg *Config, horizon float64, seed int64) (*Report, error) {
	s, err := NewSimulator(cfg, horizon, seed)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}
