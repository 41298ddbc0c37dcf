package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// MaintenanceRecord is one completed line service. Records are appended to
// the simulator's maintenance log and never mutated afterwards.
type MaintenanceRecord struct {
	LineID   int     `json:"line_id"`
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
}

// MaintenanceProcess periodically walks the production lines, tosses a coin
// per line, and services the lines that need it. Servicing suspends the
// process for a sampled duration but never halts the line's own production
// loop; the two interleave through the scheduler.
type MaintenanceProcess struct {
	cfg   MaintenanceConfig
	rng   *rand.Rand
	lines []*ProductionLine
}

// NewMaintenanceProcess creates the maintenance process over the given lines.
func NewMaintenanceProcess(cfg MaintenanceConfig, rng *rand.Rand, lines []*ProductionLine) *MaintenanceProcess {
	return &MaintenanceProcess{cfg: cfg, rng: rng, lines: lines}
}

// serviceFrom resumes the inspection round at line index idx. Lines are
// visited in order; a line needing service suspends the round until the
// service completes.
func (m *MaintenanceProcess) serviceFrom(s *Simulator, idx int) {
	for i := idx; i < len(m.lines); i++ {
		if m.rng.Float64() >= m.cfg.Probability {
			continue
		}
		dur := m.cfg.Duration.Sample(m.rng)
		logrus.Debugf("Maintenance: servicing line %d for %.2f time units", m.lines[i].ID, dur)
		s.Schedule(&maintenanceDoneEvent{
			time:     s.Clock + dur,
			process:  m,
			line:     m.lines[i],
			duration: dur,
			next:     i + 1,
		})
		return
	}
	s.Schedule(&maintenanceTickEvent{time: s.Clock + m.cfg.Interval, process: m})
}

// maintenanceTickEvent starts one periodic inspection round.
type maintenanceTickEvent struct {
	time    float64
	process *MaintenanceProcess
}

func (e *maintenanceTickEvent) Timestamp() float64 { return e.time }
func (e *maintenanceTickEvent) Process() string    { return SubsystemMaintenance }

func (e *maintenanceTickEvent) Execute(s *Simulator) {
	e.process.serviceFrom(s, 0)
}

// maintenanceDoneEvent records a finished service and resumes the round at
// the next line.
type maintenanceDoneEvent struct {
	time     float64
	process  *MaintenanceProcess
	line     *ProductionLine
	duration float64
	next     int
}

func (e *maintenanceDoneEvent) Timestamp() float64 { return e.time }
func (e *maintenanceDoneEvent) Process() string    { return SubsystemMaintenance }

func (e *maintenanceDoneEvent) Execute(s *Simulator) {
	s.MaintenanceLog = append(s.MaintenanceLog, MaintenanceRecord{
		LineID:   e.line.ID,
		Time:     s.Clock,
		Duration: e.duration,
	})
	logrus.Infof("Maintenance: line %d serviced at %.2f (duration %.2f)",
		e.line.ID, s.Clock, e.duration)
	e.process.serviceFrom(s, e.next)
}
