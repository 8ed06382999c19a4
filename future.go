// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// Future is the single-consumer handle to one eventual result. A Future is
// consumed exactly once, by awaiting it from an asynchronous body, by Wait,
// or by Abandon.
type Future[T any] struct {
	p *state[T]
}

// Promise is the producer-side completion token of a Future. Tokens are
// copyable; the future completes when any one copy is used, and using a
// second copy panics.
type Promise[T any] struct {
	p *state[T]
}

// Success completes the future with v.
func (pr Promise[T]) Success(v T) {
	pr.p.claim()
	pr.p.value.emplace(v)
	pr.p.serverComplete(nil)
}

// Failure completes the future with err. Panics when the future was made
// with TrapErrors.
func (pr Promise[T]) Failure(err error) {
	pr.p.claim()
	pr.p.value.storeFailure(err)
	pr.p.serverComplete(nil)
}

func (s *state[T]) claim() {
	if s.completed.Add(1) != 1 {
		panic("codisp: completion token used twice")
	}
}

// MakeFuture creates an unresolved future and its completion token.
func MakeFuture[T any](mode ErrorMode) (Future[T], Promise[T]) {
	s := newState[T](mode, true)
	return Future[T]{p: s}, Promise[T]{p: s}
}

// InvokeOnQueue runs fn asynchronously on q and exposes its result as a
// future. A panic in fn completes the future with a *PanicError.
func InvokeOnQueue[T any](mode ErrorMode, q *Queue, fn func() (T, error)) Future[T] {
	s := newState[T](mode, true)
	q.do(func(on *Queue) {
		v, err := invoke(fn)
		if err != nil {
			s.value.storeFailure(err)
		} else {
			s.value.emplace(v)
		}
		s.serverComplete(on)
	})
	return Future[T]{p: s}
}

// Async is InvokeOnQueue with error propagation, the common case.
func Async[T any](q *Queue, fn func() (T, error)) Future[T] {
	return InvokeOnQueue[T](PropagateErrors, q, fn)
}

// InvokeDirectly runs setup synchronously, handing it a completion token to
// resolve from an arbitrary callback, possibly before setup returns. A panic
// in setup before the token is used completes the future with a
// *PanicError; after the token is used the panic propagates.
func InvokeDirectly[T any](mode ErrorMode, setup func(Promise[T])) Future[T] {
	s := newState[T](mode, true)
	func() {
		defer func() {
			if p := recover(); p != nil {
				if s.completed.Add(1) != 1 {
					panic(p)
				}
				s.value.storeFailure(&PanicError{Value: p})
				s.serverComplete(nil)
			}
		}()
		setup(Promise[T]{p: s})
	}()
	return Future[T]{p: s}
}

func invoke[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	return fn()
}

// ResumeOn designates the queue the awaiter of the future resumes on.
// Must be called before the future is awaited. Returns the future for
// chaining.
func (f Future[T]) ResumeOn(q *Queue) Future[T] {
	f.p.setResumeQueue(q, 0)
	return f
}

// ResumeOnAfter is ResumeOn with a minimum delay before the resumption
// runs, counted from completion.
func (f Future[T]) ResumeOnAfter(q *Queue, d time.Duration) Future[T] {
	f.p.setResumeQueue(q, d)
	return f
}

// Wait blocks the calling goroutine until the result is available and
// consumes it. It is the boundary between synchronous and queue-driven
// code; never call it from a body running on a queue the producer needs.
func (f Future[T]) Wait() (T, error) {
	v, err := blockOn(ownedSource[T]{p: f.p})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Abandon drops interest in the result without consuming it.
func (f Future[T]) Abandon() {
	f.p.clientAbandon()
}

func (f Future[T]) source() awaitSource { return ownedSource[T]{p: f.p} }

// ownedSource consumes a future's single result and releases the shared
// state in the same step.
type ownedSource[T any] struct {
	p *state[T]
}

func (s ownedSource[T]) isReady(on *Queue) bool      { return s.p.isReady(on) }
func (s ownedSource[T]) clientAwait(c resumeFn) bool { return s.p.clientAwait(c) }
func (s ownedSource[T]) consume() (kont.Resumed, error) {
	v, err := s.p.value.moveOut()
	s.p.clientAbandon()
	if err != nil {
		return nil, err
	}
	return v, nil
}
