// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codisp

import "code.hybscloud.com/kont"

// blockOn parks the calling goroutine until src is ready, then consumes it.
// The channel is buffered so the producer's resume never blocks on a slow
// waiter.
func blockOn(src awaitSource) (kont.Resumed, error) {
	if !src.isReady(nil) {
		ready := make(chan struct{}, 1)
		if src.clientAwait(func(*Queue) { ready <- struct{}{} }) {
			<-ready
		}
	}
	return src.consume()
}
