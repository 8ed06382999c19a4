// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp_test

import (
	"testing"
	"time"

	"code.hybscloud.com/codisp"
	"code.hybscloud.com/kont"
)

func TestSwitchMovesBodyToQueue(t *testing.T) {
	q := codisp.NewSerial("worker")
	task := codisp.Spawn(codisp.SwitchThen(q, kont.Pure("moved")))
	if got := mustTask(t, task); got != "moved" {
		t.Fatalf("got %q, want moved", got)
	}
	if d := q.Dispatched(); d != 1 {
		t.Fatalf("queue dispatched %d hops, want 1", d)
	}
}

func TestSwitchToSameQueueElided(t *testing.T) {
	q := codisp.NewSerial("worker")
	task := codisp.Spawn(
		codisp.SwitchThen(q, codisp.SwitchThen(q, kont.Pure(1))),
	)
	mustTask(t, task)
	// the second switch finds the body already on q and costs nothing
	if d := q.Dispatched(); d != 1 {
		t.Fatalf("queue dispatched %d hops, want 1", d)
	}
}

func TestSwitchBetweenQueues(t *testing.T) {
	qa := codisp.NewSerial("a")
	qb := codisp.NewSerial("b")
	task := codisp.Spawn(
		codisp.SwitchThen(qa,
			codisp.SwitchThen(qb,
				codisp.SwitchThen(qa, kont.Pure(struct{}{})))),
	)
	mustTask(t, task)
	if qa.Dispatched() != 2 || qb.Dispatched() != 1 {
		t.Fatalf("hops a=%d b=%d, want a=2 b=1", qa.Dispatched(), qb.Dispatched())
	}
}

func TestSwitchAfterDelays(t *testing.T) {
	q := codisp.NewSerial("worker")
	const delay = 30 * time.Millisecond
	start := time.Now()
	task := codisp.Spawn(
		codisp.SwitchAfterThen(q, delay, kont.Pure(struct{}{})),
	)
	mustTask(t, task)
	if elapsed := time.Since(start); elapsed < delay-5*time.Millisecond {
		t.Fatalf("resumed after %v, want at least %v", elapsed, delay)
	}
}

func TestSwitchAfterDetached(t *testing.T) {
	const delay = 20 * time.Millisecond
	start := time.Now()
	task := codisp.Spawn(
		codisp.SwitchAfterThen(nil, delay, kont.Pure(struct{}{})),
	)
	mustTask(t, task)
	if elapsed := time.Since(start); elapsed < delay-5*time.Millisecond {
		t.Fatalf("resumed after %v, want at least %v", elapsed, delay)
	}
}

func TestSwitchToEff(t *testing.T) {
	q := codisp.NewSerial("worker")
	task := codisp.Spawn(kont.Then(codisp.SwitchTo(q), kont.Pure(7)))
	if got := mustTask(t, task); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
