// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// Task is the handle to a spawned asynchronous body. The body starts
// running immediately, inline on the spawning context, until its first
// genuine suspension point.
type Task[T any] struct {
	p *state[T]
}

// Spawn starts body and returns its handle. Failures raised by the body
// propagate to whoever consumes the task.
func Spawn[T any](body kont.Eff[T]) Task[T] {
	return SpawnExprMode(PropagateErrors, kont.Reify(body))
}

// SpawnMode is Spawn with an explicit error mode.
func SpawnMode[T any](mode ErrorMode, body kont.Eff[T]) Task[T] {
	return SpawnExprMode(mode, kont.Reify(body))
}

// SpawnExpr starts a defunctionalized body and returns its handle.
func SpawnExpr[T any](body kont.Expr[T]) Task[T] {
	return SpawnExprMode(PropagateErrors, body)
}

// SpawnExprMode is SpawnExpr with an explicit error mode.
func SpawnExprMode[T any](mode ErrorMode, body kont.Expr[T]) Task[T] {
	s := newState[T](mode, true)
	r, susp, err := stepInit(body)
	if err != nil {
		failTask(s, susp, nil, err)
		return Task[T]{p: s}
	}
	driveTask(s, r, susp, nil)
	return Task[T]{p: s}
}

// ResumeOn designates the queue the awaiter of the task resumes on. Must
// be called before the task is awaited.
func (t Task[T]) ResumeOn(q *Queue) Task[T] {
	t.p.setResumeQueue(q, 0)
	return t
}

// ResumeOnAfter is ResumeOn with a minimum delay counted from completion.
func (t Task[T]) ResumeOnAfter(q *Queue, d time.Duration) Task[T] {
	t.p.setResumeQueue(q, d)
	return t
}

// Wait blocks the calling goroutine until the body finishes and consumes
// its result. See Future.Wait for the blocking caveats.
func (t Task[T]) Wait() (T, error) {
	v, err := blockOn(ownedSource[T]{p: t.p})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Abandon drops interest in the result; the body keeps running to
// completion.
func (t Task[T]) Abandon() {
	t.p.clientAbandon()
}

func (t Task[T]) source() awaitSource { return ownedSource[T]{p: t.p} }
