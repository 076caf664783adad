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

// State is the channel access state of the MAC.
type State uint8

const (
	StateIdle State = iota
	StateContend
	StateWaitCts
	StateWaitAck
	StateWaitData
	StateQuiet
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateContend:
		return "CONTEND"
	case StateWaitCts:
		return "WAIT_FOR_CTS"
	case StateWaitAck:
		return "WAIT_FOR_ACK"
	case StateWaitData:
		return "WAIT_FOR_DATA"
	case StateQuiet:
		return "QUIET"
	case StateBusy:
		return "BUSY"
	default:
		return "invalid"
	}
}

// Counters are per-MAC event counts.
type Counters struct {
	Submitted     uint64 `yaml:"submitted"`
	QueueDrops    uint64 `yaml:"queue-drops"`
	RetryDrops    uint64 `yaml:"retry-drops"`
	RtsSent       uint64 `yaml:"rts-sent"`
	CtsSent       uint64 `yaml:"cts-sent"`
	DataSent      uint64 `yaml:"data-sent"`
	AckSent       uint64 `yaml:"ack-sent"`
	BroadcastSent uint64 `yaml:"broadcast-sent"`
	Acked         uint64 `yaml:"acked"`
	Delivered     uint64 `yaml:"delivered"`
	Duplicates    uint64 `yaml:"duplicates"`
	CtsTimeouts   uint64 `yaml:"cts-timeouts"`
	AckTimeouts   uint64 `yaml:"ack-timeouts"`
	DataTimeouts  uint64 `yaml:"data-timeouts"`
	NavDeferrals  uint64 `yaml:"nav-deferrals"`
	RxErrors      uint64 `yaml:"rx-errors"`
}
