package sim

import "container/heap"

// EventQueue is a min-heap of pending resumptions ordered by
// (timestamp, insertion sequence). The sequence tie-break makes
// concurrently-pending events pop in FIFO order, so two processes scheduled
// for the same instant always resume in the order they suspended.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue struct {
	entries []eventEntry
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{entries: make([]eventEntry, 0)}
	heap.Init(q)
	return q
}

func (q *EventQueue) Len() int { return len(q.entries) }

func (q *EventQueue) Less(i, j int) bool {
	if q.entries[i].event.Timestamp() != q.entries[j].event.Timestamp() {
		return q.entries[i].event.Timestamp() < q.entries[j].event.Timestamp()
	}
	return q.entries[i].seq < q.entries[j].seq
}

func (q *EventQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

func (q *EventQueue) Push(x any) {
	q.entries = append(q.entries, x.(eventEntry))
}

func (q *EventQueue) Pop() any {
	old := q.entries
	n := len(old)
	item := old[n-1]
	q.entries = old[:n-1]
	return item
}

// Schedule inserts a pending resumption, assigning its FIFO sequence number.
func (q *EventQueue) Schedule(ev Event) {
	heap.Push(q, eventEntry{event: ev, seq: q.nextSeq})
	q.nextSeq++
}

// PopNext removes and returns the earliest-scheduled pending event.
// Returns nil when the queue is empty.
func (q *EventQueue) PopNext() Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(eventEntry).event
}

// Peek returns the next event without removing it, or nil when empty.
func (q *EventQueue) Peek() Event {
	if q.Len() == 0 {
		return nil
	}
	return q.entries[0].event
}
