package sim

import "testing"

// stubEvent is a minimal Event for queue-level tests.
type stubEvent struct {
	time    float64
	process string
	fired   *[]string
	label   string
}

func (e *stubEvent) Timestamp() float64 { return e.time }
func (e *stubEvent) Process() string    { return e.process }
func (e *stubEvent) Execute(_ *Simulator) {
	if e.fired != nil {
		*e.fired = append(*e.fired, e.label)
	}
}

func TestEventQueue_OrdersByTimestamp(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(&stubEvent{time: 5.0, label: "c"})
	q.Schedule(&stubEvent{time: 1.0, label: "a"})
	q.Schedule(&stubEvent{time: 3.0, label: "b"})

	var got []string
	for q.Len() > 0 {
		got = append(got, q.PopNext().(*stubEvent).label)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order %v, want %v", got, want)
		}
	}
}

func TestEventQueue_EqualTimestampsPopFIFO(t *testing.T) {
	// GIVEN many events scheduled at the same instant
	q := NewEventQueue()
	labels := []string{"first", "second", "third", "fourth", "fifth"}
	for _, l := range labels {
		q.Schedule(&stubEvent{time: 7.0, label: l})
	}

	// THEN they pop in strict insertion order
	for _, want := range labels {
		got := q.PopNext().(*stubEvent).label
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestEventQueue_TieBreakSurvivesInterleavedInserts(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(&stubEvent{time: 2.0, label: "t2-a"})
	q.Schedule(&stubEvent{time: 1.0, label: "t1"})
	q.Schedule(&stubEvent{time: 2.0, label: "t2-b"})
	q.Schedule(&stubEvent{time: 0.5, label: "t0"})
	q.Schedule(&stubEvent{time: 2.0, label: "t2-c"})

	want := []string{"t0", "t1", "t2-a", "t2-b", "t2-c"}
	for _, w := range want {
		if got := q.PopNext().(*stubEvent).label; got != w {
			t.Fatalf("expected %q, got %q", w, got)
		}
	}
}

func TestEventQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewEventQueue()
	q.Schedule(&stubEvent{time: 1.0, label: "only"})

	if q.Peek() == nil || q.Len() != 1 {
		t.Fatal("peek must not remove the event")
	}
	if q.PopNext() == nil || q.Len() != 0 {
		t.Fatal("pop must remove the event")
	}
	if q.Peek() != nil || q.PopNext() != nil {
		t.Fatal("empty queue must return nil")
	}
}
