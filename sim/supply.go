package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// SupplyChainProcess periodically checks the shared stock against its
// low-water threshold. When the stock is low it suspends for a sampled
// lead time, then lands a sampled replenishment amount.
type SupplyChainProcess struct {
	cfg SupplyConfig
	rng *rand.Rand
}

// NewSupplyChainProcess creates the supply-chain process.
func NewSupplyChainProcess(cfg SupplyConfig, rng *rand.Rand) *SupplyChainProcess {
	return &SupplyChainProcess{cfg: cfg, rng: rng}
}

// supplyTickEvent is one periodic stock check.
type supplyTickEvent struct {
	time    float64
	process *SupplyChainProcess
}

func (e *supplyTickEvent) Timestamp() float64 { return e.time }
func (e *supplyTickEvent) Process() string    { return SubsystemSupply }

func (e *supplyTickEvent) Execute(s *Simulator) {
	p := e.process
	if !s.Stock.BelowThreshold() {
		s.Schedule(&supplyTickEvent{time: s.Clock + p.cfg.Interval, process: p})
		return
	}
	lead := p.cfg.LeadTime.Sample(p.rng)
	amount := p.cfg.Amount.Sample(p.rng)
	logrus.Debugf("Supply: stock %d below threshold %d, ordering %d units (lead time %.2f)",
		s.Stock.Level(), s.Stock.Threshold(), amount, lead)
	s.Schedule(&supplyReplenishEvent{time: s.Clock + lead, process: p, amount: amount})
}

// supplyReplenishEvent lands an ordered replenishment and resumes the
// periodic check.
type supplyReplenishEvent struct {
	time    float64
	process *SupplyChainProcess
	amount  int
}

func (e *supplyReplenishEvent) Timestamp() float64 { return e.time }
func (e *supplyReplenishEvent) Process() string    { return SubsystemSupply }

func (e *supplyReplenishEvent) Execute(s *Simulator) {
	s.Stock.Replenish(e.amount)
	logrus.Infof("Supply: replenished %d units at %.2f (stock now %d)",
		e.amount, s.Clock, s.Stock.Level())
	s.Schedule(&supplyTickEvent{time: s.Clock + e.process.cfg.Interval, process: e.process})
}
