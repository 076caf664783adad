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

package dispatcher

import (
	"math/rand"
	"time"

	"github.com/wlansim/dcfsim/logger"
	. "github.com/wlansim/dcfsim/types"
)

// FailTime configures periodic radio failure: in every FailInterval, the radio is down for FailDuration
// starting at a random offset.
type FailTime struct {
	FailDuration time.Duration
	FailInterval time.Duration
}

var (
	NonFailTime = FailTime{0, 0}
)

type FailureCtrl struct {
	owner         *Node
	failTime      FailTime
	rnd           *rand.Rand
	intervalStart SimTime // start of the current fail interval
	failTs        SimTime // timestamp when failure starts (valid if currently not failed)
	recoverTs     SimTime // timestamp when recovery from failure starts (valid if currently failed)
}

func newFailureCtrl(owner *Node, failTime FailTime, rnd *rand.Rand) *FailureCtrl {
	fc := &FailureCtrl{
		owner: owner,
		rnd:   rnd,
	}
	fc.SetFailTime(failTime, owner.D.CurTime)
	return fc
}

func (ft FailTime) CanFail() bool {
	return ft.FailDuration > 0
}

func (fc *FailureCtrl) SetFailTime(failTime FailTime, now SimTime) {
	logger.AssertTrue(!failTime.CanFail() || failTime.FailInterval > failTime.FailDuration,
		"fail interval must be longer than fail duration")
	fc.failTime = failTime
	fc.intervalStart = now
	fc.recoverTs = Ever
	fc.failTs = Ever

	if !failTime.CanFail() {
		if fc.owner.IsFailed() {
			fc.owner.Recover()
		}
		return
	}
	if fc.owner.IsFailed() {
		fc.recoverTs = now.Add(failTime.FailDuration)
		return
	}
	fc.calcNextFailTimestamp()
}

// OnTimeAdvanced must be called when the simulation time advances. It performs all fail/recover
// operations due until now and returns the timestamp of the next one.
func (fc *FailureCtrl) OnTimeAdvanced(now SimTime) SimTime {
	if !fc.failTime.CanFail() {
		return Ever
	}

	for {
		if fc.owner.IsFailed() {
			if now < fc.recoverTs {
				return fc.recoverTs
			}
			fc.owner.Recover()
			fc.intervalStart = fc.intervalStart.Add(fc.failTime.FailInterval)
			if fc.intervalStart < fc.recoverTs {
				fc.intervalStart = fc.recoverTs
			}
			fc.recoverTs = Ever
			fc.calcNextFailTimestamp()
		} else {
			if now < fc.failTs {
				return fc.failTs
			}
			fc.owner.Fail()
			fc.recoverTs = fc.failTs.Add(fc.failTime.FailDuration)
			fc.failTs = Ever
		}
	}
}

func (fc *FailureCtrl) calcNextFailTimestamp() {
	failStartTimeMax := int64(fc.failTime.FailInterval - fc.failTime.FailDuration)
	fc.failTs = fc.intervalStart.Add(time.Duration(fc.rnd.Int63n(failStartTimeMax)))
}
