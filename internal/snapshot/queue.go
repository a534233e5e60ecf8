package snapshot

// Queue is a bounded concurrent queue shared by all instruments' tick paths
// on the producer side and drained by a single flusher. Push blocks when the
// queue is full, applying backpressure to tick ingestion instead of growing
// without bound.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue holding at most capacity entries.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push appends v, blocking while the queue is full.
func (q *Queue[T]) Push(v T) {
	q.ch <- v
}

// TryDrain removes and returns up to max entries without blocking.
func (q *Queue[T]) TryDrain(max int) []T {
	var out []T
	for len(out) < max {
		select {
		case v := <-q.ch:
			out = append(out, v)
		default:
			return out
		}
	}
	return out
}

// Len returns the number of queued entries.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}
