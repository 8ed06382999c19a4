// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// PanicError wraps a panic recovered from an asynchronous body, so the panic
// surfaces through the result channel instead of tearing down a queue's
// drain goroutine.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("codisp: async body panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// resumeStep resumes a suspension with v, converting a panic in the body
// into a *PanicError.
func resumeStep[R any](susp *kont.Suspension[R], v kont.Resumed) (r R, next *kont.Suspension[R], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	r, next = susp.Resume(v)
	return r, next, nil
}

// stepInit takes the first step of an expression, with the same panic
// containment as resumeStep.
func stepInit[R any](e kont.Expr[R]) (r R, next *kont.Suspension[R], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	r, next = kont.StepExpr(e)
	return r, next, nil
}

// driveTask steps a task body to completion, interpreting its suspension
// points. on names the queue the driver is currently running on; each hop
// through an await or switch updates it.
func driveTask[T any](s *state[T], result T, susp *kont.Suspension[T], on *Queue) {
	for {
		if susp == nil {
			s.value.emplace(result)
			s.serverComplete(on)
			return
		}
		switch op := susp.Op().(type) {
		case awaitDispatcher:
			src := op.awaitSource()
			if src.isReady(on) {
				v, err := src.consume()
				if err != nil {
					failTask(s, susp, on, err)
					return
				}
				var stepErr error
				result, susp, stepErr = resumeStep(susp, v)
				if stepErr != nil {
					failTask(s, susp, on, stepErr)
					return
				}
				continue
			}
			k := susp
			if src.clientAwait(func(next *Queue) { resumeTask(s, src, k, next) }) {
				return
			}
			v, err := src.consume()
			if err != nil {
				failTask(s, susp, on, err)
				return
			}
			var stepErr error
			result, susp, stepErr = resumeStep(susp, v)
			if stepErr != nil {
				failTask(s, susp, on, stepErr)
				return
			}
		case queueSwitcher:
			q, after := op.switchTarget()
			if q != nil && after == 0 && q == on {
				var stepErr error
				result, susp, stepErr = resumeStep(susp, kont.Resumed(struct{}{}))
				if stepErr != nil {
					failTask(s, susp, on, stepErr)
					return
				}
				continue
			}
			k := susp
			hop := func(next *Queue) {
				r, nk, stepErr := resumeStep(k, kont.Resumed(struct{}{}))
				if stepErr != nil {
					failTask(s, nk, next, stepErr)
					return
				}
				driveTask(s, r, nk, next)
			}
			if q != nil {
				q.doAfter(after, hop)
			} else {
				afterDetached(after, hop)
			}
			return
		case failDispatcher:
			failTask(s, susp, on, op.failure())
			return
		default:
			panic(fmt.Sprintf("codisp: unsupported operation %T in task body", susp.Op()))
		}
	}
}

// resumeTask re-enters a task body after an awaited source became ready.
func resumeTask[T any](s *state[T], src awaitSource, susp *kont.Suspension[T], on *Queue) {
	v, err := src.consume()
	if err != nil {
		failTask(s, susp, on, err)
		return
	}
	r, next, stepErr := resumeStep(susp, v)
	if stepErr != nil {
		failTask(s, next, on, stepErr)
		return
	}
	driveTask(s, r, next, on)
}

// failTask abandons the remainder of the body and completes with err.
func failTask[T any](s *state[T], susp *kont.Suspension[T], on *Queue, err error) {
	if susp != nil {
		susp.Discard()
	}
	s.value.storeFailure(err)
	s.serverComplete(on)
}

// driveGen steps a generator body, parking it at each yield until the
// consumer resumes execution. The body's result type is struct{}: values
// leave through YieldOp, termination through the carrier.
func driveGen[T any](s *state[T], susp *kont.Suspension[struct{}], on *Queue) {
	for {
		if susp == nil {
			s.body = nil
			s.serverComplete(on)
			return
		}
		switch op := susp.Op().(type) {
		case yieldDispatcher:
			v, ok := op.yieldValue().(T)
			if !ok {
				failGen(s, susp, on, fmt.Errorf("codisp: yield of %T from a generator of %T", op.yieldValue(), v))
				return
			}
			s.value.emplace(v)
			k := susp
			s.body = func(next *Queue) {
				_, nk, stepErr := resumeStep(k, kont.Resumed(struct{}{}))
				if stepErr != nil {
					failGen(s, nk, next, stepErr)
					return
				}
				driveGen(s, nk, next)
			}
			s.serverComplete(on)
			return
		case awaitDispatcher:
			src := op.awaitSource()
			if src.isReady(on) {
				v, err := src.consume()
				if err != nil {
					failGen(s, susp, on, err)
					return
				}
				var stepErr error
				_, susp, stepErr = resumeStep(susp, v)
				if stepErr != nil {
					failGen(s, susp, on, stepErr)
					return
				}
				continue
			}
			k := susp
			if src.clientAwait(func(next *Queue) { resumeGen(s, src, k, next) }) {
				return
			}
			v, err := src.consume()
			if err != nil {
				failGen(s, susp, on, err)
				return
			}
			var stepErr error
			_, susp, stepErr = resumeStep(susp, v)
			if stepErr != nil {
				failGen(s, susp, on, stepErr)
				return
			}
		case queueSwitcher:
			q, after := op.switchTarget()
			if q != nil && after == 0 && q == on {
				var stepErr error
				_, susp, stepErr = resumeStep(susp, kont.Resumed(struct{}{}))
				if stepErr != nil {
					failGen(s, susp, on, stepErr)
					return
				}
				continue
			}
			k := susp
			hop := func(next *Queue) {
				_, nk, stepErr := resumeStep(k, kont.Resumed(struct{}{}))
				if stepErr != nil {
					failGen(s, nk, next, stepErr)
					return
				}
				driveGen(s, nk, next)
			}
			if q != nil {
				q.doAfter(after, hop)
			} else {
				afterDetached(after, hop)
			}
			return
		case failDispatcher:
			failGen(s, susp, on, op.failure())
			return
		default:
			panic(fmt.Sprintf("codisp: unsupported operation %T in generator body", susp.Op()))
		}
	}
}

func resumeGen[T any](s *state[T], src awaitSource, susp *kont.Suspension[struct{}], on *Queue) {
	v, err := src.consume()
	if err != nil {
		failGen(s, susp, on, err)
		return
	}
	_, next, stepErr := resumeStep(susp, v)
	if stepErr != nil {
		failGen(s, next, on, stepErr)
		return
	}
	driveGen(s, next, on)
}

func failGen[T any](s *state[T], susp *kont.Suspension[struct{}], on *Queue, err error) {
	if susp != nil {
		susp.Discard()
	}
	s.body = nil
	s.value.storeFailure(err)
	s.serverComplete(on)
}
