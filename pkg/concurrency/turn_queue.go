package concurrency

const initialTurnQueueSize = 8 // Must be a power of 2

// turnQueue is a FIFO queue of pending turns that grows as needed.
// It is not goroutine-safe; callers synchronize externally.
type turnQueue[T any] struct {
	buf  []T
	len  int
	head int
	tail int // write pointer
}

func newTurnQueue[T any]() *turnQueue[T] {
	return &turnQueue[T]{
		buf: make([]T, initialTurnQueueSize),
	}
}

func (q *turnQueue[T]) Push(v T) {
	if q.len == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % len(q.buf)
	q.len++
}

// Pop returns the oldest queued turn. The second value is false when the
// queue is empty and a zero value was returned instead.
func (q *turnQueue[T]) Pop() (T, bool) {
	var zero T
	if q.len == 0 {
		return zero, false
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.len--
	return v, true
}

func (q *turnQueue[T]) Len() int {
	return q.len
}

func (q *turnQueue[T]) Empty() bool {
	return q.len == 0
}

func (q *turnQueue[T]) grow() {
	newBuf := make([]T, len(q.buf)*2)
	if q.tail > q.head {
		copy(newBuf, q.buf[q.head:q.tail])
	} else {
		n := copy(newBuf, q.buf[q.head:])
		copy(newBuf[n:], q.buf[:q.tail])
	}
	q.head = 0
	q.tail = q.len
	q.buf = newBuf
}
