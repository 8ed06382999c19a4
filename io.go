// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import "io"

// IOResult carries the outcome of an offloaded I/O operation. I/O failures
// travel as data in the result rather than as propagated failures, so the
// backing future uses TrapErrors.
type IOResult struct {
	Data []byte
	N    int
	Err  error
}

// ReadOn reads up to n bytes from r on q. A stream that ends early yields
// the bytes read with a nil Err; only genuine read failures set Err.
func ReadOn(q *Queue, r io.Reader, n int) Future[IOResult] {
	return InvokeOnQueue(TrapErrors, q, func() (IOResult, error) {
		buf := make([]byte, n)
		read, err := io.ReadFull(r, buf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = nil
		}
		return IOResult{Data: buf[:read], N: read, Err: err}, nil
	})
}

// WriteOn writes data to w on q.
func WriteOn(q *Queue, w io.Writer, data []byte) Future[IOResult] {
	return InvokeOnQueue(TrapErrors, q, func() (IOResult, error) {
		n, err := w.Write(data)
		return IOResult{N: n, Err: err}, nil
	})
}
