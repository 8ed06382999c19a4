// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// Generator is the handle to a deferred async producer of a sequence. The
// body does not run until Begin, BeginOn or BeginSync; after that the
// consumer pulls one element at a time through an Iterator, and the body
// advances exactly one yield per pull.
type Generator[T any] struct {
	p *state[T]
}

// Generate wraps a yielding body into a generator. The body emits elements
// through YieldThen (or YieldOp) and terminates the sequence by returning.
func Generate[T any](body kont.Eff[struct{}]) Generator[T] {
	return GenerateExprMode[T](PropagateErrors, kont.Reify(body))
}

// GenerateMode is Generate with an explicit error mode.
func GenerateMode[T any](mode ErrorMode, body kont.Eff[struct{}]) Generator[T] {
	return GenerateExprMode[T](mode, kont.Reify(body))
}

// GenerateExpr wraps a defunctionalized yielding body into a generator.
func GenerateExpr[T any](body kont.Expr[struct{}]) Generator[T] {
	return GenerateExprMode[T](PropagateErrors, body)
}

// GenerateExprMode is GenerateExpr with an explicit error mode.
func GenerateExprMode[T any](mode ErrorMode, body kont.Expr[struct{}]) Generator[T] {
	s := newState[T](mode, false)
	s.body = func(on *Queue) {
		_, susp, err := stepInit(body)
		if err != nil {
			failGen(s, susp, on, err)
			return
		}
		driveGen(s, susp, on)
	}
	s.release = func() { s.body = nil }
	return Generator[T]{p: s}
}

// ResumingOn designates the queue every iteration resumption runs on.
// Must be called before the generator is begun.
func (g Generator[T]) ResumingOn(q *Queue) Generator[T] {
	g.p.setResumeQueue(q, 0)
	return g
}

// ResumingOnAfter is ResumingOn with a minimum delay per resumption.
func (g Generator[T]) ResumingOnAfter(q *Queue, d time.Duration) Generator[T] {
	g.p.setResumeQueue(q, d)
	return g
}

// BeginOn starts the body on q and returns the handle to the first element.
// All later advances of the returned iterator run the body on q as well.
func (g Generator[T]) BeginOn(q *Queue) IterFuture[T] {
	g.p.resumeExecution(q, nil)
	return IterFuture[T]{p: g.p, q: q}
}

// Begin starts the body inline on the calling context.
func (g Generator[T]) Begin() IterFuture[T] {
	g.p.resumeExecution(nil, nil)
	return IterFuture[T]{p: g.p}
}

// BeginSync starts the body inline and blocks until the first element or
// the end of the sequence.
func (g Generator[T]) BeginSync() (*Iterator[T], error) {
	return g.Begin().Wait()
}

// Abandon discards the generator without pulling any further elements.
// Safe before Begin and while the body is still running; a running body
// keeps going to its next suspension, and the state is reclaimed by
// whichever side acts second. Abandoning twice panics.
func (g Generator[T]) Abandon() {
	g.p.clientAbandon()
}

// IterFuture is the await handle for the next element of a generator's
// sequence. Consuming it produces the sequence's iterator, positioned on
// the element (or past the end).
type IterFuture[T any] struct {
	p  *state[T]
	q  *Queue
	it *Iterator[T]
}

// Wait blocks the calling goroutine until the element is available.
func (f IterFuture[T]) Wait() (*Iterator[T], error) {
	v, err := blockOn(f.source())
	if err != nil {
		return nil, err
	}
	return v.(*Iterator[T]), nil
}

// Abandon drops the iteration without consuming the pending element.
func (f IterFuture[T]) Abandon() {
	f.p.clientAbandon()
}

func (f IterFuture[T]) source() awaitSource {
	return iterSource[T]{p: f.p, q: f.q, it: f.it}
}

// iterSource materializes or advances the iterator when the pending
// element (or the end of the sequence) becomes available.
type iterSource[T any] struct {
	p  *state[T]
	q  *Queue
	it *Iterator[T]
}

func (s iterSource[T]) isReady(on *Queue) bool      { return s.p.isReady(on) }
func (s iterSource[T]) clientAwait(c resumeFn) bool { return s.p.clientAwait(c) }

func (s iterSource[T]) consume() (kont.Resumed, error) {
	tok, err := s.p.value.token()
	if err != nil {
		s.p.clientAbandon()
		return nil, err
	}
	it := s.it
	if it == nil {
		it = &Iterator[T]{p: s.p, q: s.q}
	}
	it.tok = tok
	it.moved = false
	if tok == nil {
		// Sequence ended; nothing further to pull, release the state.
		s.p.clientAbandon()
		it.released = true
	}
	return it, nil
}

// Iterator is the move-style cursor over a generator's elements. At most
// one advance may be pending at a time, and the cursor must not be
// advanced past the end.
type Iterator[T any] struct {
	p        *state[T]
	q        *Queue
	tok      *T
	moved    bool
	released bool
}

// Ok reports whether the cursor is positioned on an element.
func (it *Iterator[T]) Ok() bool { return it.tok != nil }

// Value returns the current element.
func (it *Iterator[T]) Value() T {
	if it.tok == nil {
		panic("codisp: iterator has no current value")
	}
	return *it.tok
}

// Next resumes the producer toward the next element and returns the handle
// to await it.
func (it *Iterator[T]) Next() IterFuture[T] {
	if it.moved {
		panic("codisp: iterator advanced twice")
	}
	if it.tok == nil {
		panic("codisp: iterator advanced past the end")
	}
	it.moved = true
	it.tok = nil
	it.p.resumeExecution(it.q, nil)
	return IterFuture[T]{p: it.p, q: it.q, it: it}
}

// Abandon stops the iteration without pulling further elements.
func (it *Iterator[T]) Abandon() {
	if it.released || it.moved {
		return
	}
	it.tok = nil
	it.moved = true
	it.released = true
	it.p.clientAbandon()
}
