// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// awaitSource is the producer-side face a suspension point drives: readiness
// from the awaiting context, continuation hand-off, and single consumption of
// the produced result.
type awaitSource interface {
	isReady(on *Queue) bool
	clientAwait(c resumeFn) bool
	consume() (kont.Resumed, error)
}

// AwaitOp suspends the surrounding computation until an asynchronous result
// is available and resumes with that result.
type AwaitOp[T any] struct {
	kont.Phantom[T]
	src awaitSource
}

func (op AwaitOp[T]) awaitSource() awaitSource { return op.src }

// SwitchOp suspends the surrounding computation and resumes it on Queue,
// no earlier than After from now. A nil Queue with a positive After resumes
// on a fresh context after the delay.
type SwitchOp struct {
	kont.Phantom[struct{}]
	Queue *Queue
	After time.Duration
}

func (op SwitchOp) switchTarget() (*Queue, time.Duration) { return op.Queue, op.After }

// YieldOp publishes one element of a generator and suspends the producer
// until the consumer asks for the next one.
type YieldOp[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

func (op YieldOp[T]) yieldValue() kont.Resumed { return op.Value }

// FailOp terminates the surrounding computation with Err. The driver never
// resumes past it.
type FailOp struct {
	kont.Phantom[struct{}]
	Err error
}

func (op FailOp) failure() error { return op.Err }

// The drivers dispatch on these unexported structural interfaces rather than
// on the concrete op types, so fused frames can emit ops without naming them.

type awaitDispatcher interface {
	awaitSource() awaitSource
}

type queueSwitcher interface {
	switchTarget() (*Queue, time.Duration)
}

type yieldDispatcher interface {
	yieldValue() kont.Resumed
}

type failDispatcher interface {
	failure() error
}
