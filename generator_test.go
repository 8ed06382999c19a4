// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/codisp"
	"code.hybscloud.com/kont"
	"github.com/google/go-cmp/cmp"
)

func countdown(n int) kont.Eff[struct{}] {
	if n == 0 {
		return kont.Pure(struct{}{})
	}
	return codisp.YieldThen(n, countdown(n-1))
}

func TestGeneratorSequence(t *testing.T) {
	g := codisp.Generate[int](countdown(3))
	got := collect(t, g.Begin())
	if diff := cmp.Diff([]int{3, 2, 1}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorEmpty(t *testing.T) {
	g := codisp.Generate[int](kont.Pure(struct{}{}))
	it, err := g.BeginSync()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if it.Ok() {
		t.Fatal("empty generator produced an element")
	}
}

func TestGeneratorDeferredStart(t *testing.T) {
	started := false
	body := kont.Bind(kont.Pure(struct{}{}), func(struct{}) kont.Eff[struct{}] {
		started = true
		return codisp.Yield(1)
	})
	g := codisp.Generate[int](body)
	if started {
		t.Fatal("generator body ran before Begin")
	}
	it, err := g.BeginSync()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !started || !it.Ok() || it.Value() != 1 {
		t.Fatalf("begin did not run the body to its first yield")
	}
	it.Abandon()
}

func TestGeneratorOnQueue(t *testing.T) {
	q := codisp.NewSerial("gen")
	g := codisp.Generate[string](
		codisp.YieldThen("a", codisp.YieldThen("b", kont.Pure(struct{}{}))),
	)
	got := collect(t, g.BeginOn(q))
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorAwaitsInsideBody(t *testing.T) {
	q := codisp.NewSerial("worker")
	body := codisp.AwaitFutureBind(
		codisp.Async(q, func() (int, error) { return 10, nil }),
		func(n int) kont.Eff[struct{}] {
			return codisp.YieldThen(n, codisp.YieldThen(n+1, kont.Pure(struct{}{})))
		},
	)
	g := codisp.Generate[int](body)
	got := collect(t, g.Begin())
	if diff := cmp.Diff([]int{10, 11}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorFailureSurfacesAtPull(t *testing.T) {
	boom := errors.New("boom")
	g := codisp.Generate[int](
		codisp.YieldThen(1, codisp.Fail[struct{}](boom)),
	)
	it, err := g.BeginSync()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !it.Ok() || it.Value() != 1 {
		t.Fatal("first element missing before the failure")
	}
	if _, err = it.Next().Wait(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestGeneratorImmediateFailure(t *testing.T) {
	boom := errors.New("boom")
	g := codisp.Generate[int](codisp.Fail[struct{}](boom))
	if _, err := g.BeginSync(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestGeneratorAbandonMidIteration(t *testing.T) {
	g := codisp.Generate[int](countdown(100))
	it, err := g.BeginSync()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if !it.Ok() {
		t.Fatal("no first element")
	}
	it.Abandon() // the parked body past the first yield never runs
}

func TestGeneratorAbandonUnbegun(t *testing.T) {
	g := codisp.Generate[int](countdown(3))
	g.Abandon()
}

func TestGeneratorResumingOn(t *testing.T) {
	gen := codisp.NewSerial("gen")
	target := codisp.NewSerial("target")
	g := codisp.Generate[int](countdown(2)).ResumingOn(target)
	got := collect(t, g.BeginOn(gen))
	if diff := cmp.Diff([]int{2, 1}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
	// one redirect per pull: two elements plus the end of the sequence
	if d := target.Dispatched(); d != 3 {
		t.Fatalf("target dispatched %d resumptions, want 3", d)
	}
}

func TestIteratorMisuse(t *testing.T) {
	g := codisp.Generate[int](kont.Pure(struct{}{}))
	it, err := g.BeginSync()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("advancing past the end did not panic")
		}
	}()
	it.Next()
}

func TestGeneratorExprBody(t *testing.T) {
	g := codisp.GenerateExpr[int](
		codisp.ExprYieldThen(1, codisp.ExprYieldThen(2, kont.ExprReturn(struct{}{}))),
	)
	got := collect(t, g.Begin())
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}
