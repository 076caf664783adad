// Copyright (c) 2024, The DCFSIM Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package mac

import (
	"math/rand"
	"time"

	"github.com/wlansim/dcfsim/logger"
)

// BackoffEngine draws binary-exponential backoff durations.
type BackoffEngine struct {
	cwMin int
	cwMax int
	slot  time.Duration
	rnd   *rand.Rand
}

func NewBackoffEngine(cwMin, cwMax int, slot time.Duration, rnd *rand.Rand) *BackoffEngine {
	logger.AssertTrue(cwMin >= 1 && cwMax >= cwMin && slot > 0)
	return &BackoffEngine{
		cwMin: cwMin,
		cwMax: cwMax,
		slot:  slot,
		rnd:   rnd,
	}
}

// ContentionWindow returns ((CWmin+1) << retry) - 1, capped at CWmax.
func (b *BackoffEngine) ContentionWindow(retry int) int {
	logger.AssertTrue(retry >= 0)
	if retry >= 30 {
		return b.cwMax
	}
	cw := ((b.cwMin + 1) << retry) - 1
	if cw > b.cwMax {
		cw = b.cwMax
	}
	return cw
}

// SampleBackoff draws a uniform slot count in [0, cw] and returns it as a duration.
func (b *BackoffEngine) SampleBackoff(cw int) time.Duration {
	return time.Duration(b.rnd.Intn(cw+1)) * b.slot
}

// Sample draws a backoff for the given retry count.
func (b *BackoffEngine) Sample(retry int) time.Duration {
	return b.SampleBackoff(b.ContentionWindow(retry))
}

// Suspend computes the backoff that remains after a contention period of length armed (IFS plus
// backoff) was interrupted after elapsed. If the interruption came during the IFS, no slot was
// consumed and current is kept. Otherwise the time left is expressed in whole slots; a partially
// elapsed slot is not counted as consumed.
func (b *BackoffEngine) Suspend(armed, elapsed, ifs, current time.Duration) time.Duration {
	logger.AssertTrue(current >= 0 && elapsed >= 0)
	if elapsed < ifs {
		return current
	}
	left := armed - elapsed
	if left <= 0 {
		return 0
	}
	// rounded up, a slot counts as consumed only once it has fully elapsed
	slots := left / b.slot
	if left%b.slot != 0 {
		slots++
	}
	return slots * b.slot
}

func (b *BackoffEngine) SlotTime() time.Duration {
	return b.slot
}
