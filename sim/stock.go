package sim

import "fmt"

// RawMaterialStock is the shared material counter drawn down by production
// lines and refilled by the supply chain. The cooperative scheduler never
// preempts within a single resumption, so a check-and-consume performed in
// one Execute call is atomic with respect to every other process. No
// suspension may ever be introduced between the check and the decrement.
type RawMaterialStock struct {
	level     int
	threshold int
}

// NewRawMaterialStock creates a stock with an initial level and the
// low-water threshold watched by the supply chain.
func NewRawMaterialStock(level, threshold int) *RawMaterialStock {
	if level < 0 {
		panic(fmt.Sprintf("sim: initial stock must be >= 0, got %d", level))
	}
	return &RawMaterialStock{level: level, threshold: threshold}
}

// Level returns the current stock level.
func (s *RawMaterialStock) Level() int { return s.level }

// Threshold returns the replenishment low-water mark.
func (s *RawMaterialStock) Threshold() int { return s.threshold }

// BelowThreshold reports whether the supply chain should replenish.
func (s *RawMaterialStock) BelowThreshold() bool { return s.level < s.threshold }

// Consume removes up to n units and returns the amount actually taken.
// Returns 0 without mutating when the stock is empty; never drives the
// level negative.
func (s *RawMaterialStock) Consume(n int) int {
	if n <= 0 {
		return 0
	}
	taken := min(n, s.level)
	s.level -= taken
	return taken
}

// Replenish adds n units to the stock.
func (s *RawMaterialStock) Replenish(n int) {
	if n < 0 {
		panic(fmt.Sprintf("sim: replenish amount must be >= 0, got %d", n))
	}
	s.level += n
}
