// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// ErrClosed reports a send on, or a drained receive from, a closed pipe.
var ErrClosed = errors.New("codisp: pipe closed")

// Pipe is a bounded single-producer single-consumer element stream feeding
// queue-driven consumers from exactly one external producer goroutine.
// Transport is a bounded lock-free SPSC ring from lfq; the blocking
// variants wait past the full/empty boundary with adaptive backoff.
type Pipe[T any] struct {
	ring   lfq.SPSC[T]
	slot   T
	closed atomix.Uint32
}

// NewPipe creates a pipe holding at most capacity in-flight elements.
func NewPipe[T any](capacity int) *Pipe[T] {
	p := &Pipe[T]{}
	p.ring.Init(capacity)
	return p
}

// TrySend enqueues v without blocking. Returns iox.ErrWouldBlock when the
// ring is full and ErrClosed after Close.
func (p *Pipe[T]) TrySend(v T) error {
	if p.closed.Load() != 0 {
		return ErrClosed
	}
	p.slot = v
	return p.ring.Enqueue(&p.slot)
}

// Send blocks the producer goroutine until v is enqueued.
func (p *Pipe[T]) Send(v T) error {
	var bo iox.Backoff
	for {
		err := p.TrySend(v)
		if err == nil || !iox.IsWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
}

// TryRecv dequeues one element without blocking. Returns
// iox.ErrWouldBlock when the ring is empty and the pipe is open, and
// ErrClosed once a closed pipe has drained.
func (p *Pipe[T]) TryRecv() (T, error) {
	v, err := p.ring.Dequeue()
	if err == nil {
		return v, nil
	}
	if p.closed.Load() != 0 {
		// Residue enqueued before Close is still delivered; only an
		// empty closed ring reports ErrClosed.
		if v, err = p.ring.Dequeue(); err == nil {
			return v, nil
		}
		var zero T
		return zero, ErrClosed
	}
	var zero T
	return zero, err
}

// Recv blocks the consumer goroutine until an element arrives or the pipe
// closes empty.
func (p *Pipe[T]) Recv() (T, error) {
	var bo iox.Backoff
	for {
		v, err := p.TryRecv()
		if err == nil || !iox.IsWouldBlock(err) {
			return v, err
		}
		bo.Wait()
	}
}

// Close marks the pipe closed. Elements already in flight remain
// receivable.
func (p *Pipe[T]) Close() {
	p.closed.Add(1)
}

// RecvOn exposes the next element as a future resolving on q, bridging the
// pipe into awaiting bodies.
func (p *Pipe[T]) RecvOn(q *Queue) Future[T] {
	return Async(q, p.Recv)
}

// SendOn enqueues v from q, completing when the element is in flight.
func (p *Pipe[T]) SendOn(q *Queue, v T) Future[struct{}] {
	return Async(q, func() (struct{}, error) {
		return struct{}{}, p.Send(v)
	})
}
