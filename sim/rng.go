package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === Subsystem Constants ===

const (
	// SubsystemMaintenance is the RNG stream for the maintenance process.
	SubsystemMaintenance = "maintenance"

	// SubsystemSupply is the RNG stream for the supply-chain process.
	SubsystemSupply = "supply"

	// SubsystemQuality is the RNG stream for the quality-control process.
	SubsystemQuality = "quality"
)

// SubsystemLine returns the subsystem name for production line n.
// Each line draws from its own stream so adding a line never perturbs
// the draws of existing ones.
func SubsystemLine(id int) string {
	return fmt.Sprintf("line_%d", id)
}

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName). Two simulations
// built from the same seed and configuration MUST produce identical results.
//
// Thread-safety: NOT thread-safe. The cooperative scheduler runs all
// processes on one goroutine, so no locking is needed.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance
// (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed used to create this PartitionedRNG.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
