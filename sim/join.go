package sim

// Join is a completion barrier for sub-task continuations. A process that
// delegates work to a set of sub-tasks creates a Join sized to the set and
// hands it to each sub-task; the parent continuation is scheduled exactly
// once, at the simulated time the last sub-task signals Done.
//
// This is the second suspension kind a process may request (the first being
// a fixed delay, the third being termination by simply not rescheduling).
type Join struct {
	remaining int
	process   string
	resume    func(*Simulator)
}

// NewJoin creates a barrier that waits for n sub-task completions before
// scheduling resume. n must be positive.
func NewJoin(n int, process string, resume func(*Simulator)) *Join {
	if n <= 0 {
		panic("sim: Join size must be positive")
	}
	return &Join{remaining: n, process: process, resume: resume}
}

// Done signals one sub-task completion. When the last sub-task reports in,
// the parent continuation is scheduled at the current simulated time; FIFO
// tie-break guarantees it runs after any event already pending at that
// instant.
func (j *Join) Done(s *Simulator) {
	j.remaining--
	if j.remaining > 0 {
		return
	}
	s.Schedule(&funcEvent{time: s.Clock, process: j.process, fn: j.resume})
}

// Pending reports how many sub-tasks have not yet completed.
func (j *Join) Pending() int { return j.remaining }
