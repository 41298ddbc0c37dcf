package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// QualityControlProcess periodically inspects a random vehicle from the
// pool produced so far across all lines. Each inspection draws three
// independent scores (assembly, paint, performance); the verdict passes
// only when every score meets its per-factor threshold. The overall score
// is the unweighted mean and is diagnostic only.
type QualityControlProcess struct {
	cfg   QualityConfig
	rng   *rand.Rand
	lines []*ProductionLine
}

// NewQualityControlProcess creates the quality-control process over the
// given lines.
func NewQualityControlProcess(cfg QualityConfig, rng *rand.Rand, lines []*ProductionLine) *QualityControlProcess {
	return &QualityControlProcess{cfg: cfg, rng: rng, lines: lines}
}

// pickVehicle selects uniformly from all vehicles produced so far, walking
// lines in id order so the selection is deterministic for a fixed seed.
// Returns nil when no vehicle exists yet.
func (q *QualityControlProcess) pickVehicle() *Vehicle {
	total := 0
	for _, l := range q.lines {
		total += l.ProducedCount()
	}
	if total == 0 {
		return nil
	}
	idx := q.rng.Intn(total)
	for _, l := range q.lines {
		if idx < l.ProducedCount() {
			return l.Vehicles[idx]
		}
		idx -= l.ProducedCount()
	}
	return nil
}

// qualityTickEvent is one periodic inspection trigger.
type qualityTickEvent struct {
	time    float64
	process *QualityControlProcess
}

func (e *qualityTickEvent) Timestamp() float64 { return e.time }
func (e *qualityTickEvent) Process() string    { return SubsystemQuality }

func (e *qualityTickEvent) Execute(s *Simulator) {
	q := e.process
	v := q.pickVehicle()
	if v == nil {
		s.Schedule(&qualityTickEvent{time: s.Clock + q.cfg.Interval, process: q})
		return
	}
	logrus.Infof("Quality: performing advanced quality check on vehicle %d (line %d) at %.2f",
		v.ID, v.LineID, s.Clock)
	delay := q.cfg.InspectionDelay.Sample(q.rng)
	s.Schedule(&qualityInspectEvent{time: s.Clock + delay, process: q, vehicle: v})
}

// qualityInspectEvent completes an inspection: draws the score vector,
// appends the result to the vehicle's quality history, and resumes the
// periodic trigger.
type qualityInspectEvent struct {
	time    float64
	process *QualityControlProcess
	vehicle *Vehicle
}

func (e *qualityInspectEvent) Timestamp() float64 { return e.time }
func (e *qualityInspectEvent) Process() string    { return SubsystemQuality }

func (e *qualityInspectEvent) Execute(s *Simulator) {
	q := e.process
	assembly := q.rng.Float64()
	paint := q.rng.Float64()
	performance := q.rng.Float64()

	// Verdict is computed on the raw draws; only the recorded scores are
	// rounded.
	result := "failed"
	if assembly >= q.cfg.AssemblyThreshold &&
		paint >= q.cfg.PaintThreshold &&
		performance >= q.cfg.PerformanceThreshold {
		result = "passed"
	}

	res := QualityCheckResult{
		Time:             s.Clock,
		AssemblyScore:    round2(assembly),
		PaintScore:       round2(paint),
		PerformanceScore: round2(performance),
		OverallScore:     round2((assembly + paint + performance) / 3.0),
		Result:           result,
	}
	e.vehicle.AddQualityCheck(res)
	logrus.Infof("Quality: vehicle %d check result: %s (assembly=%.2f paint=%.2f performance=%.2f overall=%.2f)",
		e.vehicle.ID, res.Result, res.AssemblyScore, res.PaintScore, res.PerformanceScore, res.OverallScore)

	s.Schedule(&qualityTickEvent{time: s.Clock + q.cfg.Interval, process: q})
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
