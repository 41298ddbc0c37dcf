package sim

// Event defines the interface for all simulation events.
// Each event carries a Timestamp (in simulated time units) and an Execute
// method that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	// Process names the owning process ("line_1", "maintenance", "supply",
	// "quality"). Used for logging and for the fault report when an event
	// panics.
	Process() string
	Execute(*Simulator)
}

// eventEntry wraps an Event with a sequence number assigned at insertion
// time. Events with equal timestamps execute in strict FIFO order of their
// sequence numbers, which keeps process interleaving reproducible for a
// fixed seed.
type eventEntry struct {
	event Event
	seq   uint64
}

// funcEvent adapts a bare continuation to the Event interface. Used by the
// Join barrier to resume a parent process without defining a dedicated
// event type.
type funcEvent struct {
	time    float64
	process string
	fn      func(*Simulator)
}

func (e *funcEvent) Timestamp() float64 { return e.time }
func (e *funcEvent) Process() string    { return e.process }
func (e *funcEvent) Execute(s *Simulator) {
	e.fn(s)
}
