package queue

import (
	"context"
	"slices"
	"sync"
)

// Memory is an unbounded in-process queue. Messages do not survive a
// restart; dead-lettered bodies are kept for inspection.
type Memory struct {
	mu      sync.Mutex
	pending [][]byte
	dead    [][]byte
	acked   int
	wake    chan struct{}
}

func NewMemory() *Memory {
	return &Memory{wake: make(chan struct{})}
}

func (m *Memory) Publish(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.push(slices.Clone(body), false)
	return nil
}

func (m *Memory) push(body []byte, front bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if front {
		m.pending = slices.Insert(m.pending, 0, body)
	} else {
		m.pending = append(m.pending, body)
	}
	close(m.wake)
	m.wake = make(chan struct{})
}

// pop returns the next body, or a channel closed on the next push.
func (m *Memory) pop() ([]byte, bool, <-chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, false, m.wake
	}
	body := m.pending[0]
	m.pending = m.pending[1:]
	return body, true, nil
}

func (m *Memory) Deliveries(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			body, ok, wake := m.pop()
			if !ok {
				select {
				case <-wake:
					continue
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- &memoryDelivery{queue: m, body: body}:
			case <-ctx.Done():
				m.push(body, true)
				return
			}
		}
	}()
	return out, nil
}

// Len reports messages waiting for a worker.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Memory) Acked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acked
}

// Dead returns the bodies rejected without requeue.
func (m *Memory) Dead() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.dead)
}

type memoryDelivery struct {
	queue   *Memory
	body    []byte
	mu      sync.Mutex
	settled bool
}

func (d *memoryDelivery) Body() []byte {
	return d.body
}

func (d *memoryDelivery) settle() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.settled {
		return ErrSettled
	}
	d.settled = true
	return nil
}

func (d *memoryDelivery) Ack() error {
	if err := d.settle(); err != nil {
		return err
	}
	d.queue.mu.Lock()
	d.queue.acked++
	d.queue.mu.Unlock()
	return nil
}

func (d *memoryDelivery) Nack(requeue bool) error {
	if err := d.settle(); err != nil {
		return err
	}
	if requeue {
		d.queue.push(d.body, true)
		return nil
	}
	d.queue.mu.Lock()
	d.queue.dead = append(d.queue.dead, d.body)
	d.queue.mu.Unlock()
	return nil
}
