package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// testingPassThreshold is the uniform-draw cutoff for the testing station.
// Draws below it fail the vehicle and flag it for maintenance.
const testingPassThreshold = 0.5

// ProductionLine owns the vehicles it has produced and drives each through
// the station sequence. The vehicle slice is a ledger: entries are appended,
// never removed. Vehicle ids are unique per line and strictly increasing.
type ProductionLine struct {
	ID           int
	Vehicles     []*Vehicle
	VehicleCount int

	cfg LineConfig
	rng *rand.Rand
}

// NewProductionLine creates a line with its own deterministic RNG stream.
func NewProductionLine(id int, cfg LineConfig, rng *rand.Rand) *ProductionLine {
	return &ProductionLine{ID: id, cfg: cfg, rng: rng}
}

func (l *ProductionLine) processName() string {
	return SubsystemLine(l.ID)
}

// ProducedCount returns the number of vehicles ever created on this line.
func (l *ProductionLine) ProducedCount() int {
	return len(l.Vehicles)
}

// CompletedCount returns how many of the line's vehicles finished all
// six stations.
func (l *ProductionLine) CompletedCount() int {
	n := 0
	for _, v := range l.Vehicles {
		if v.Status() == StatusCompleted {
			n++
		}
	}
	return n
}

// VehicleByID returns the line's vehicle with the given id, or nil.
func (l *ProductionLine) VehicleByID(id int) *Vehicle {
	for _, v := range l.Vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// produceVehicle creates the next vehicle and appends it to the ledger.
func (l *ProductionLine) produceVehicle(now float64) *Vehicle {
	l.VehicleCount++
	v := NewVehicle(l.VehicleCount, l.ID, now, l.rng)
	l.Vehicles = append(l.Vehicles, v)
	logrus.Infof("Line %d: vehicle %d produced at simulation time %.2f", l.ID, v.ID, now)
	v.AddStep("Vehicle Produced", now, "Vehicle creation completed.")
	return v
}

// continueBuild advances a vehicle's build sequence from station idx.
// Each station is delegated to a sub-task; a Join barrier resumes the
// sequence when the sub-task completes. After the last station the vehicle
// is marked completed and the sequence terminates.
func (l *ProductionLine) continueBuild(s *Simulator, v *Vehicle, idx int) {
	stations := Stations()
	if idx >= len(stations) {
		if err := v.advanceTo(StatusCompleted, s.Clock); err != nil {
			panic(err)
		}
		logrus.Infof("Line %d: vehicle %d completed production at simulation time %.2f",
			l.ID, v.ID, s.Clock)
		return
	}
	st := stations[idx]
	j := NewJoin(1, l.processName(), func(s *Simulator) {
		l.continueBuild(s, v, idx+1)
	})
	s.Schedule(&stationStartEvent{
		time:    s.Clock,
		line:    l,
		vehicle: v,
		station: st,
		join:    j,
	})
}

// ProduceEvent is one resumption of the production loop: poll stock, and
// when material is available create a vehicle, launch its build sequence
// as an independent sub-process, and wait an inter-arrival delay.
type ProduceEvent struct {
	time float64
	line *ProductionLine
}

// NewProduceEvent creates the line's production-loop activation at the
// given time.
func NewProduceEvent(at float64, line *ProductionLine) *ProduceEvent {
	return &ProduceEvent{time: at, line: line}
}

func (e *ProduceEvent) Timestamp() float64 { return e.time }
func (e *ProduceEvent) Process() string    { return e.line.processName() }

// Execute runs one production attempt. The stock check and decrement happen
// within this single resumption; no suspension separates them, so two lines
// can never both consume against the same observed level.
func (e *ProduceEvent) Execute(s *Simulator) {
	l := e.line
	if s.Stock.Level() < 1 {
		logrus.Debugf("Line %d: insufficient stock at %.2f, polling again in %.2f",
			l.ID, s.Clock, l.cfg.StockPollInterval)
		s.Schedule(&ProduceEvent{time: s.Clock + l.cfg.StockPollInterval, line: l})
		return
	}

	cost := l.cfg.MaterialCost.Sample(l.rng)
	taken := s.Stock.Consume(cost)
	logrus.Debugf("Line %d: consumed %d stock units (wanted %d, %d remaining)",
		l.ID, taken, cost, s.Stock.Level())

	v := l.produceVehicle(s.Clock)
	l.continueBuild(s, v, 0)

	delay := l.cfg.InterArrival.Sample(l.rng)
	s.Schedule(&ProduceEvent{time: s.Clock + delay, line: l})
}

// stationStartEvent marks a vehicle's arrival at a station and suspends for
// the sampled processing duration.
type stationStartEvent struct {
	time    float64
	line    *ProductionLine
	vehicle *Vehicle
	station Station
	join    *Join
}

func (e *stationStartEvent) Timestamp() float64 { return e.time }
func (e *stationStartEvent) Process() string    { return e.line.processName() }

func (e *stationStartEvent) Execute(s *Simulator) {
	v := e.vehicle
	if err := v.advanceTo(e.station.Status(), s.Clock); err != nil {
		panic(err)
	}
	v.AddStep(e.station.Title()+" started", s.Clock, "")

	d := e.line.cfg.Stations.ForStation(e.station).Sample(e.line.rng)
	logrus.Debugf("Vehicle %d: %s duration %.2f", v.ID, e.station, d)
	s.Schedule(&stationFinishEvent{
		time:    s.Clock + d,
		line:    e.line,
		vehicle: v,
		station: e.station,
		join:    e.join,
	})
}

// stationFinishEvent applies the station's side effects, records the
// completion entry, and releases the build sequence's join barrier.
type stationFinishEvent struct {
	time    float64
	line    *ProductionLine
	vehicle *Vehicle
	station Station
	join    *Join
}

func (e *stationFinishEvent) Timestamp() float64 { return e.time }
func (e *stationFinishEvent) Process() string    { return e.line.processName() }

func (e *stationFinishEvent) Execute(s *Simulator) {
	v := e.vehicle
	rng := e.line.rng

	switch e.station {
	case StationAssembly:
		v.AddComponent("Chassis", ComponentDetails{
			"material": "Aluminum",
			"quality":  qualityGrades[rng.Intn(len(qualityGrades))],
		}, s.Clock)
		v.AddComponent("Engine", ComponentDetails{
			"type":       v.EngineType,
			"horsepower": 150 + rng.Intn(251),
		}, s.Clock)
		v.AddStep("Assembly completed", s.Clock, "Chassis and Engine installed.")
	case StationPainting:
		v.Color = paintPalette[rng.Intn(len(paintPalette))]
		v.AddStep("Painting completed", s.Clock, "Color applied: "+v.Color)
	case StationTesting:
		performance := rng.Float64()
		if performance < testingPassThreshold {
			v.AddStep("Testing failed", s.Clock, "Performance below threshold")
			v.MarkForMaintenance(s.Clock)
		} else {
			v.AddStep("Testing passed", s.Clock, "Performance meets standard")
		}
	case StationPackaging:
		v.AddStep("Packaging completed", s.Clock, "Vehicle ready for delivery")
	default:
		v.AddStep(e.station.Title()+" completed", s.Clock, "")
	}
	logrus.Debugf("Vehicle %d: %s completed", v.ID, e.station)

	e.join.Done(s)
}
