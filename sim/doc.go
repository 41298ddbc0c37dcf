// Package sim provides the discrete-event simulation core for the vehicle
// factory.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go / queue.go: the Event interface and the time-ordered queue
//     with FIFO tie-break for equal timestamps
//   - simulator.go: the event loop, horizon cutoff, and fault isolation
//   - line.go: the production loop and the six-station build sequence
//
// # Architecture
//
// A single logical clock advances in discrete jumps by popping the next
// queued event. "Concurrency" means several independently-suspended
// processes interleaved by the loop, not parallel execution: at most one
// process's logic runs at any simulated instant, so a check-then-mutate
// performed within one resumption is atomic with respect to every other
// process.
//
// Processes suspend in exactly three ways: a fixed delay (schedule an event
// at now+d), a Join barrier over a set of sub-tasks (join.go), or
// termination (do not reschedule). Each process is an explicit state
// machine of event types rather than a suspended goroutine, which keeps
// interleaving deterministic for a fixed seed: equal-time events pop in
// insertion order, and every random draw comes from a per-subsystem stream
// (rng.go).
//
// The web and persistence layers consume read-only views through
// Simulator.Snapshot and Vehicle.Summary; they never mutate core state.
package sim
