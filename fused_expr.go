// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// Pre-allocated return frame to eliminate heap escapes when boxing the
// empty struct into kont.Frame during Expr-world construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

func awaitBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprFutureBind awaits f and passes its value to fn.
// Fuses ExprPerform(AwaitOp[T]) + ExprBind.
func ExprFutureBind[T, B any](f Future[T], fn func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = fn
	bf.Unwind = awaitBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = AwaitOp[T]{src: f.source()}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprTaskBind awaits t and passes its result to fn.
// Fuses ExprPerform(AwaitOp[T]) + ExprBind.
func ExprTaskBind[T, B any](t Task[T], fn func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = fn
	bf.Unwind = awaitBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = AwaitOp[T]{src: t.source()}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprIterBind awaits the next element of an iteration and passes the
// positioned iterator to fn.
// Fuses ExprPerform(AwaitOp[*Iterator[T]]) + ExprBind.
func ExprIterBind[T, B any](f IterFuture[T], fn func(*Iterator[T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = fn
	bf.Unwind = awaitBindUnwind[*Iterator[T], B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = AwaitOp[*Iterator[T]]{src: f.source()}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprSwitchThen hops the body onto q and continues with next.
// Fuses ExprPerform(SwitchOp) + ExprThen.
func ExprSwitchThen[B any](q *Queue, next kont.Expr[B]) kont.Expr[B] {
	return exprSwitch(SwitchOp{Queue: q}, next)
}

// ExprSwitchAfterThen hops the body onto q no earlier than d from now and
// continues with next.
// Fuses ExprPerform(SwitchOp) + ExprThen.
func ExprSwitchAfterThen[B any](q *Queue, d time.Duration, next kont.Expr[B]) kont.Expr[B] {
	return exprSwitch(SwitchOp{Queue: q, After: d}, next)
}

func exprSwitch[B any](op SwitchOp, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprYieldThen publishes v and, once the consumer pulls again, continues
// with next.
// Fuses ExprPerform(YieldOp[T]) + ExprThen.
func ExprYieldThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = YieldOp[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprFail terminates the body with err.
// Fuses ExprPerform(FailOp) + ExprThen + ExprReturn.
func ExprFail[A any](err error) kont.Expr[A] {
	var zero A
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(zero), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = FailOp{Err: err}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}
