// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"time"

	"code.hybscloud.com/kont"
)

// SwitchTo suspends the body and resumes it on q. Resuming on the queue
// the body already runs on is a no-op, not a round-trip.
func SwitchTo(q *Queue) kont.Eff[struct{}] {
	return kont.Perform(SwitchOp{Queue: q})
}

// SwitchAfter suspends the body and resumes it on q no earlier than d from
// now. A nil q resumes off any queue after the delay.
func SwitchAfter(q *Queue, d time.Duration) kont.Eff[struct{}] {
	return kont.Perform(SwitchOp{Queue: q, After: d})
}

// Yield publishes one element of a generator body and suspends until the
// consumer pulls the next one.
func Yield[T any](v T) kont.Eff[struct{}] {
	return kont.Perform(YieldOp[T]{Value: v})
}

// Fail terminates the body with err. The remainder of the computation is
// discarded.
func Fail[A any](err error) kont.Eff[A] {
	var zero A
	return kont.Then(kont.Perform(FailOp{Err: err}), kont.Pure(zero))
}
