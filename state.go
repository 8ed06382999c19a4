// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
)

// resumeFn is an opaque client continuation. The argument is the queue the
// continuation is running on, or nil when the context is unknown.
type resumeFn func(on *Queue)

// stateNode is the unit stored in the state word. The four sentinel nodes
// below mark the not-started, running, completed and abandoned states; any
// other node carries a suspended client's continuation.
type stateNode struct {
	resume resumeFn
}

var (
	stateNotStarted = &stateNode{}
	stateRunning    = &stateNode{}
	stateCompleted  = &stateNode{}
	stateAbandoned  = &stateNode{}
)

// state coordinates exactly one producer and one client around a single
// eventual result. It is the engine everything else in the package wraps.
//
// Every transition is a single atomic exchange on the state word: with only
// two parties and asymmetric roles, whichever side acts second always
// observes the other side's transition in the exchanged-out value, and only
// that side takes the resume (or destroy) action. The exchange also orders
// the unsynchronized fields: each side writes them before its exchange and
// reads them only after observing the other side's.
type state[T any] struct {
	word atomic.Pointer[stateNode]

	// Set by the client before awaiting; read by the producer only after
	// it observes the client's suspension.
	resumeQueue    *Queue
	after          time.Duration
	awaiterOnQueue bool

	value carrier[T]

	// once-guard for completion tokens; see future.go.
	completed atomix.Uint32

	// Parked producer resumption for deferred-start bodies (generators).
	// nil once the producer has finished.
	body resumeFn

	// release runs when whichever side acts second reclaims the state.
	release func()
}

func newState[T any](mode ErrorMode, started bool) *state[T] {
	s := &state[T]{value: carrier[T]{mode: mode}}
	if started {
		s.word.Store(stateRunning)
	} else {
		s.word.Store(stateNotStarted)
	}
	return s
}

// setResumeQueue designates the queue the client's resumption must run on,
// no earlier than after from the moment the redirection is scheduled.
// Must be called by the client before it awaits.
func (s *state[T]) setResumeQueue(q *Queue, after time.Duration) {
	s.resumeQueue = q
	s.after = after
}

// isReady reports whether the result is available to consume right now
// from the calling context. With a resume queue configured it returns
// false unless the caller is already on that queue with no delay pending,
// forcing a suspension so the resumption can be redirected.
func (s *state[T]) isReady(on *Queue) bool {
	if s.resumeQueue != nil {
		if s.after > 0 {
			return false
		}
		s.awaiterOnQueue = on != nil && on == s.resumeQueue
		if !s.awaiterOnQueue {
			return false
		}
	}
	st := s.word.Load()
	if st != stateRunning && st != stateCompleted {
		panic("codisp: ready check on a state that is not awaitable")
	}
	return st != stateRunning
}

// clientAwait publishes the client's continuation and reports whether the
// client actually remains suspended. False means the result is already
// available and the caller should consume it inline; true means either the
// producer will resume c on completion, or c has been redirected onto the
// resume queue.
func (s *state[T]) clientAwait(c resumeFn) bool {
	old := s.word.Swap(&stateNode{resume: c})
	if old == stateNotStarted || old == stateAbandoned {
		panic("codisp: await on a state that was never started or was abandoned")
	}
	if old != stateRunning {
		// Producer finished first. Redirect when the awaiting context is
		// not already on the designated queue.
		if s.resumeQueue != nil && !s.awaiterOnQueue {
			s.redirect(c)
			return true
		}
		return false
	}
	return true
}

// resumeExecution restarts a deferred producer: clears the slot for the
// next value and hands the parked body to q, or runs it inline when q is
// nil.
func (s *state[T]) resumeExecution(q *Queue, on *Queue) {
	run := s.body
	if run == nil {
		panic("codisp: resume of a finished producer")
	}
	s.value.clear()
	s.awaiterOnQueue = false
	old := s.word.Swap(stateRunning)
	if old == stateRunning || old == stateAbandoned {
		panic("codisp: resume of a running or abandoned state")
	}
	if q != nil {
		q.do(run)
		return
	}
	run(on)
}

// clientAbandon releases the client's interest in the result. If the
// producer has already finished, nobody else will reclaim the state, so it
// is destroyed here; otherwise destruction is deferred to the producer's
// completion.
func (s *state[T]) clientAbandon() {
	old := s.word.Swap(stateAbandoned)
	if old == stateAbandoned {
		panic("codisp: state abandoned twice")
	}
	if old != stateRunning {
		s.destroy()
	}
}

// serverComplete publishes completion from the producer side. A suspended
// client is resumed exactly once: inline when no redirection is needed, or
// asynchronously on the designated queue otherwise. An abandoned state is
// destroyed here and nothing is resumed.
func (s *state[T]) serverComplete(on *Queue) {
	old := s.word.Swap(stateCompleted)
	if old == stateCompleted || old == stateNotStarted {
		panic("codisp: completion of a state that is not running")
	}
	if old == stateAbandoned {
		s.destroy()
		return
	}
	if old == stateRunning {
		// No client suspended yet; it will observe completion on its
		// next ready check.
		return
	}
	if s.resumeQueue == nil || (s.after == 0 && on != nil && on == s.resumeQueue) {
		old.resume(on)
		return
	}
	s.redirect(old.resume)
}

// redirect schedules c on the designated resume queue, honoring the
// minimum delay.
func (s *state[T]) redirect(c resumeFn) {
	s.resumeQueue.doAfter(s.after, c)
}

func (s *state[T]) destroy() {
	if s.release != nil {
		s.release()
	}
}
