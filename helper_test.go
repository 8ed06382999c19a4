// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp_test

import (
	"testing"

	"code.hybscloud.com/codisp"
)

// mustTask waits for a task and fails the test on a propagated failure.
func mustTask[T any](t *testing.T, task codisp.Task[T]) T {
	t.Helper()
	v, err := task.Wait()
	if err != nil {
		t.Fatalf("task failed: %v", err)
	}
	return v
}

// mustFuture waits for a future and fails the test on a propagated failure.
func mustFuture[T any](t *testing.T, f codisp.Future[T]) T {
	t.Helper()
	v, err := f.Wait()
	if err != nil {
		t.Fatalf("future failed: %v", err)
	}
	return v
}

// collect drains a begun generator into a slice.
func collect[T any](t *testing.T, f codisp.IterFuture[T]) []T {
	t.Helper()
	out := make([]T, 0, 8)
	it, err := f.Wait()
	if err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	for it.Ok() {
		out = append(out, it.Value())
		it, err = it.Next().Wait()
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
	}
	return out
}
