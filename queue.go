// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Queue is a serial FIFO executor of work items.
// Items accepted by Async and AsyncAfter run one at a time, in submission
// order, on an on-demand drain goroutine; no goroutine exists while the
// queue is idle. Submission is safe for concurrent use and never blocks.
//
// Internally each item receives the queue it executes on. That identity is
// threaded through the drive loops and is what allows a resumption to be
// elided when the awaiting context already runs on the designated queue.
type Queue struct {
	label  string
	serial Serial

	mu       sync.Mutex
	work     []func(on *Queue)
	head     int
	draining bool

	dispatched atomix.Uint32
}

// NewSerial creates an idle serial queue with the given label.
func NewSerial(label string) *Queue {
	return &Queue{label: label, serial: nextSerial()}
}

var (
	mainOnce  sync.Once
	mainQueue *Queue
)

// Main returns the process-wide default queue, created on first use.
// It is an ordinary serial queue; code that wants a different default
// passes its own queue explicitly.
func Main() *Queue {
	mainOnce.Do(func() {
		mainQueue = NewSerial("codisp.main")
	})
	return mainQueue
}

// Label returns the label the queue was created with.
func (q *Queue) Label() string { return q.label }

// Serial returns the serial number assigned to the queue.
func (q *Queue) Serial() Serial { return q.serial }

// Dispatched reports how many work items the queue has accepted so far,
// including resumptions redirected onto it. It is a cheap way to observe
// whether an await round-trip scheduled an asynchronous hop.
func (q *Queue) Dispatched() uint32 { return q.dispatched.Load() }

// Async schedules fn for asynchronous execution on the queue.
func (q *Queue) Async(fn func()) {
	q.do(func(*Queue) { fn() })
}

// AsyncAfter schedules fn to run on the queue no earlier than d from now.
// A non-positive d is equivalent to Async.
func (q *Queue) AsyncAfter(d time.Duration, fn func()) {
	q.doAfter(d, func(*Queue) { fn() })
}

func (q *Queue) do(item func(on *Queue)) {
	q.dispatched.Add(1)
	q.mu.Lock()
	q.work = append(q.work, item)
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()
	if start {
		go q.drain()
	}
}

// afterDetached runs item off any queue after d. Used by delayed queue
// switches that name no target queue.
func afterDetached(d time.Duration, item func(on *Queue)) {
	if d <= 0 {
		go item(nil)
		return
	}
	time.AfterFunc(d, func() { item(nil) })
}

func (q *Queue) doAfter(d time.Duration, item func(on *Queue)) {
	if d <= 0 {
		q.do(item)
		return
	}
	time.AfterFunc(d, func() { q.do(item) })
}

// drain pops and runs queued items in FIFO order until the queue empties.
// At most one drain runs at a time, which is what makes the queue serial.
func (q *Queue) drain() {
	q.mu.Lock()
	for q.head < len(q.work) {
		item := q.work[q.head]
		q.work[q.head] = nil
		q.head++
		q.mu.Unlock()
		item(q)
		q.mu.Lock()
	}
	q.work = q.work[:0]
	q.head = 0
	q.draining = false
	q.mu.Unlock()
}
