// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// AwaitFuture suspends until f resolves and resumes with its value.
// Fuses Perform(AwaitOp[T]) into the awaiting body.
func AwaitFuture[T any](f Future[T]) kont.Eff[T] {
	return kont.Perform(AwaitOp[T]{src: f.source()})
}

// AwaitFutureBind awaits f and passes its value to fn.
// Fuses Perform(AwaitOp[T]) + Bind.
func AwaitFutureBind[T, B any](f Future[T], fn func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitOp[T]{src: f.source()}), fn)
}

// AwaitTask suspends until the task's body finishes and resumes with its
// result.
func AwaitTask[T any](t Task[T]) kont.Eff[T] {
	return kont.Perform(AwaitOp[T]{src: t.source()})
}

// AwaitTaskBind awaits t and passes its result to fn.
// Fuses Perform(AwaitOp[T]) + Bind.
func AwaitTaskBind[T, B any](t Task[T], fn func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitOp[T]{src: t.source()}), fn)
}

// AwaitIterBind awaits the next element of an iteration and passes the
// positioned iterator to fn.
// Fuses Perform(AwaitOp[*Iterator[T]]) + Bind.
func AwaitIterBind[T, B any](f IterFuture[T], fn func(*Iterator[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitOp[*Iterator[T]]{src: f.source()}), fn)
}

// SwitchThen hops the body onto q and continues with next.
// Fuses Perform(SwitchOp) + Then.
func SwitchThen[B any](q *Queue, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(SwitchOp{Queue: q}), next)
}

// SwitchAfterThen hops the body onto q no earlier than d from now and
// continues with next.
// Fuses Perform(SwitchOp) + Then.
func SwitchAfterThen[B any](q *Queue, d time.Duration, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(SwitchOp{Queue: q, After: d}), next)
}

// YieldThen publishes v and, once the consumer pulls again, continues with
// next.
// Fuses Perform(YieldOp[T]) + Then.
func YieldThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(YieldOp[T]{Value: v}), next)
}
