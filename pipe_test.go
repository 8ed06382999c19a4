// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/codisp"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"github.com/google/go-cmp/cmp"
)

func TestPipeTrySendTryRecv(t *testing.T) {
	skipRace(t)
	p := codisp.NewPipe[int](2)

	if _, err := p.TryRecv(); !iox.IsWouldBlock(err) {
		t.Fatalf("empty pipe: got %v, want ErrWouldBlock", err)
	}
	if err := p.TrySend(1); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := p.TrySend(2); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := p.TrySend(3); !iox.IsWouldBlock(err) {
		t.Fatalf("full pipe: got %v, want ErrWouldBlock", err)
	}
	if v, err := p.TryRecv(); err != nil || v != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", v, err)
	}
}

func TestPipeCloseDrainsResidue(t *testing.T) {
	skipRace(t)
	p := codisp.NewPipe[int](4)
	p.TrySend(1)
	p.TrySend(2)
	p.Close()

	if err := p.TrySend(3); !errors.Is(err, codisp.ErrClosed) {
		t.Fatalf("send on closed pipe: got %v, want ErrClosed", err)
	}
	if v, err := p.TryRecv(); err != nil || v != 1 {
		t.Fatalf("got (%d, %v), want (1, nil)", v, err)
	}
	if v, err := p.TryRecv(); err != nil || v != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", v, err)
	}
	if _, err := p.TryRecv(); !errors.Is(err, codisp.ErrClosed) {
		t.Fatalf("drained closed pipe: got %v, want ErrClosed", err)
	}
}

func TestPipeBlockingRoundTrip(t *testing.T) {
	skipRace(t)
	p := codisp.NewPipe[int](2)
	go func() {
		for i := range 16 {
			p.Send(i)
		}
		p.Close()
	}()

	got := make([]int, 0, 16)
	for {
		v, err := p.Recv()
		if errors.Is(err, codisp.ErrClosed) {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		got = append(got, v)
	}
	want := make([]int, 16)
	for i := range want {
		want[i] = i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeRecvOnFeedsAwait(t *testing.T) {
	skipRace(t)
	q := codisp.NewSerial("consumer")
	p := codisp.NewPipe[int](4)
	go func() {
		p.Send(20)
		p.Send(22)
	}()

	task := codisp.Spawn(codisp.AwaitFutureBind(p.RecvOn(q), func(a int) kont.Eff[int] {
		return codisp.AwaitFutureBind(p.RecvOn(q), func(b int) kont.Eff[int] {
			return kont.Pure(a + b)
		})
	}))
	if got := mustTask(t, task); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestPipeSendOn(t *testing.T) {
	skipRace(t)
	q := codisp.NewSerial("producer")
	p := codisp.NewPipe[string](2)
	mustFuture(t, p.SendOn(q, "hello"))
	if v, err := p.Recv(); err != nil || v != "hello" {
		t.Fatalf("got (%q, %v), want (hello, nil)", v, err)
	}
}
