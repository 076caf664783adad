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
	"time"

	. "github.com/wlansim/dcfsim/types"
)

// TimerKind names one of the MAC's timers. At most one timer of each kind is armed at any time.
type TimerKind uint8

const (
	TimerContention TimerKind = iota
	TimerTimeout
	TimerNav
	TimerSifs
	NumTimerKinds
)

func (k TimerKind) String() string {
	switch k {
	case TimerContention:
		return "contention"
	case TimerTimeout:
		return "timeout"
	case TimerNav:
		return "nav"
	case TimerSifs:
		return "sifs"
	default:
		return "invalid"
	}
}

// ExchangeHandle refers to the MAC's in-flight exchange slot from a timer's context.
type ExchangeHandle uint32

const NoExchange ExchangeHandle = 0

// TimerService arms and cancels the MAC's timers. An expired timer is reported back through Dcf.OnTimer
// with the handle it was armed with; it is no longer armed at that point.
// Arming an armed timer, or cancelling one that is not armed, is a contract violation.
type TimerService interface {
	Arm(kind TimerKind, delay time.Duration, handle ExchangeHandle)
	Cancel(kind TimerKind)
	IsArmed(kind TimerKind) bool
	// ExpiresAt returns the expiry time of an armed timer, or Ever.
	ExpiresAt(kind TimerKind) SimTime
	Now() SimTime
}

// ChannelListener receives asynchronous radio and medium notifications.
type ChannelListener interface {
	OnRadioStateChanged(state RadioState)
	OnMediumStateChanged(state MediumState)
}

// ChannelObserver reports the node's radio and the medium as sensed by it.
type ChannelObserver interface {
	RadioState() RadioState
	MediumState() MediumState
	SwitchToSend() bool
	SwitchToRecv() bool
	Subscribe(l ChannelListener)
}

// Phy is the send path to the physical layer. Transmission end is signalled with ControlTxOver.
type Phy interface {
	Transmit(frame *Frame, bitrate float64)
}

// UpperLayer receives payloads and drop notifications from the MAC.
type UpperLayer interface {
	Deliver(src MacAddr, payload []byte)
	ReportDropped(frame *Frame, reason DropReason)
}
