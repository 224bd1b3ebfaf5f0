package queue

import "errors"

// ErrQueueFull is returned by Enqueue when the queue has no free capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue represents a bounded, non-blocking queue.
type Queue[T any] interface {
	Enqueue(item T) error
	Size() int
	ReadAllMessages() ([]T, error)
	ClearQueue()
}
