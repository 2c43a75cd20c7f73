package queue

import "sync/atomic"

// Unbounded is a channel pair joined by a growable buffer. Sends on In
// never wait on the consumer and nothing is ever dropped. Closing In
// closes Out once the buffer has drained.
type Unbounded[T any] struct {
	in  chan T
	out chan T
	n   atomic.Int64
}

func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{
		in:  make(chan T),
		out: make(chan T),
	}

	go q.pump()

	return q
}

func (q *Unbounded[T]) In() chan<- T {
	return q.in
}

func (q *Unbounded[T]) Out() <-chan T {
	return q.out
}

// Len is the number of buffered items not yet received from Out
func (q *Unbounded[T]) Len() int {
	return int(q.n.Load())
}

func (q *Unbounded[T]) Close() {
	close(q.in)
}

func (q *Unbounded[T]) pump() {
	defer close(q.out)

	var buf []T
	in := q.in

	for in != nil || len(buf) > 0 {
		var out chan T
		var next T
		if len(buf) > 0 {
			out = q.out
			next = buf[0]
		}

		select {
		case v, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			buf = append(buf, v)
			q.n.Add(1)
		case out <- next:
			var zero T
			buf[0] = zero
			buf = buf[1:]
			q.n.Add(-1)
		}
	}
}
