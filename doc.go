// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package codisp bridges suspendable computations on [code.hybscloud.com/kont]
// to serial work queues, providing awaitable tasks, futures and generators.
//
// Async bodies are ordinary kont computations whose suspension points are
// codisp effect operations. A drive loop steps each body one effect at a
// time; handoff between the producing body and the awaiting consumer is
// coordinated by a lock-free atomic state machine, with optional redirection
// of the resumption onto a designated queue after a minimum delay.
//
// # Architecture
//
//   - Queues: [Queue] is a serial FIFO executor ([NewSerial], [Main]).
//     Work items run one at a time, in order, on an on-demand goroutine.
//   - Shared state: a single atomic word per async value encodes
//     not-started, running, completed, abandoned, or a suspended client's
//     continuation. All transitions are single atomic exchanges; no mutex.
//   - Failure handling: producer errors and panics are captured at the body
//     boundary and re-returned when the result is consumed. [TrapErrors]
//     slots treat any failure as fatal.
//
// # Handle Types
//
//   - [Task]: handle to a spawned async body ([Spawn]). Starts running
//     immediately and suspends only at its first effect.
//   - [Future]: a callback-based async call made awaitable ([Async],
//     [MakeFuture], [InvokeOnQueue], [InvokeDirectly]). The [Promise]
//     completion token is copyable and must be completed exactly once.
//   - [Generator]: an async body yielding a sequence ([Generate]).
//     Constructed suspended; started with [Generator.BeginOn],
//     [Generator.Begin] or [Generator.BeginSync]; consumed through a
//     move-only [Iterator].
//   - [Pipe]: bounded lock-free SPSC conduit via [code.hybscloud.com/lfq],
//     with awaitable endpoints.
//
// # Suspension Points
//
//   - Awaiting: [AwaitFuture], [AwaitFutureBind], [AwaitTask],
//     [AwaitTaskBind], [AwaitIterBind] (Cont-world); [ExprFutureBind],
//     [ExprTaskBind], [ExprIterBind] (Expr-world, pooled frames).
//   - Queue switching: [SwitchTo], [SwitchAfter], [SwitchThen],
//     [ExprSwitchThen]. Switching to the current queue with a delay is an
//     asynchronous sleep.
//   - Yielding: [YieldThen], [ExprYieldThen] inside generator bodies.
//   - Failing: [Fail] completes the surrounding body with an error.
//
// # Blocking Boundary
//
// Wait methods ([Task.Wait], [Future.Wait], [IterFuture.Wait]) suspend the
// calling goroutine until the result is available. Do not Wait on the same
// queue the resumption is redirected to; a serial queue cannot run the
// resumption while its worker is blocked in Wait.
//
// # Cancellation
//
// Dropping interest in a result is abandonment, not interruption: Abandon
// releases the client side immediately, the producer runs to completion and
// reclaims the shared state when it observes the abandonment. The result,
// if any, is discarded.
//
// # Example
//
//	q := codisp.NewSerial("worker")
//	t := codisp.Spawn(
//		codisp.AwaitFutureBind(codisp.Async(q, load), func(v int) kont.Eff[int] {
//			return kont.Pure(v * 2)
//		}),
//	)
//	v, err := t.Wait()
package codisp
