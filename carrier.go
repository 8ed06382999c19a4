// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import "fmt"

// ErrorMode selects, per async value, whether its result slot can carry a
// propagated failure. The choice mirrors environments where failure
// propagation is disabled wholesale: a TrapErrors slot treats any attempt
// to store a failure as a fatal logic fault instead of deferring it.
type ErrorMode uint8

const (
	// PropagateErrors stores producer failures in the result slot and
	// re-returns them exactly once when the result is consumed.
	PropagateErrors ErrorMode = iota

	// TrapErrors panics on any attempt to store a failure.
	TrapErrors
)

// carrier is the typed slot for one eventual result: empty, a value, or a
// propagated failure. For T = struct{} it degenerates to "completed with
// failure Y/N"; reference results are carried as pointers by choosing a
// pointer T.
//
// The slot itself is unsynchronized. Ordering between the producer's store
// and the consumer's load is established by the state word transitions in
// state.go; within one side access is sequential.
type carrier[T any] struct {
	mode ErrorMode
	set  bool
	val  T
	err  error
}

// emplace stores a value, replacing whatever the slot held.
func (c *carrier[T]) emplace(v T) {
	c.val, c.set = v, true
}

// storeFailure records a propagated failure in place of a value.
// Fatal when the slot was configured with TrapErrors.
func (c *carrier[T]) storeFailure(err error) {
	if c.mode == TrapErrors {
		panic(fmt.Sprintf("codisp: failure stored in a no-failure slot: %v", err))
	}
	c.err = err
}

// moveOut empties the slot, returning the value or re-returning the stored
// failure. A slot may be moved out of at most once; moving out of an empty
// slot is a logic fault.
func (c *carrier[T]) moveOut() (T, error) {
	var zero T
	if c.err != nil {
		err := c.err
		c.err = nil
		return zero, err
	}
	if !c.set {
		panic("codisp: result consumed twice or never produced")
	}
	v := c.val
	c.val, c.set = zero, false
	return v, nil
}

// token returns a view of the current value without consuming it, or
// re-returns a stored failure. A nil token with a nil error means the slot
// is empty (a generator that completed without yielding again). The token
// stays valid until the next clear.
func (c *carrier[T]) token() (*T, error) {
	if c.err != nil {
		return nil, c.err
	}
	if !c.set {
		return nil, nil
	}
	return &c.val, nil
}

// clear resets the slot to empty.
func (c *carrier[T]) clear() {
	var zero T
	c.val, c.set, c.err = zero, false, nil
}
