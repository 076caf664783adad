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

package types

import (
	"fmt"
	"math"
	"time"
)

type NodeId = int

const (
	MaxNodeId     NodeId = 0xffff
	InvalidNodeId NodeId = 0
)

// MacAddr is a link-layer station address. Node n is addressed by MacAddr(n).
type MacAddr int

const (
	InvalidAddr   MacAddr = 0
	BroadcastAddr MacAddr = -1
)

func (a MacAddr) IsBroadcast() bool {
	return a == BroadcastAddr
}

// Bytes returns the 48-bit IEEE representation of the address (locally administered).
func (a MacAddr) Bytes() [6]byte {
	if a.IsBroadcast() {
		return [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	}
	return [6]byte{0x02, 0, 0, byte(a >> 16), byte(a >> 8), byte(a)}
}

func (a MacAddr) String() string {
	if a.IsBroadcast() {
		return "bcast"
	}
	return fmt.Sprintf("%d", int(a))
}

// SimTime is an absolute simulation time in nanoseconds.
type SimTime uint64

const (
	// Ever is a timestamp that is never reached by the simulation.
	Ever SimTime = math.MaxUint64 / 2
)

func (t SimTime) Add(d time.Duration) SimTime {
	if d < 0 {
		return t - SimTime(-d)
	}
	return t + SimTime(d)
}

// Sub returns the duration t-u.
func (t SimTime) Sub(u SimTime) time.Duration {
	return time.Duration(int64(t) - int64(u))
}

func (t SimTime) Us() uint64 {
	return uint64(t) / 1000
}

func (t SimTime) String() string {
	if t >= Ever {
		return "ever"
	}
	return time.Duration(t).String()
}

type RadioState byte

const (
	RadioRecv      RadioState = 0
	RadioSend      RadioState = 1
	RadioSleep     RadioState = 2
	RadioSwitching RadioState = 3
)

func (s RadioState) String() string {
	switch s {
	case RadioRecv:
		return "Rx_"
	case RadioSend:
		return "Tx_"
	case RadioSleep:
		return "Slp"
	case RadioSwitching:
		return "Swi"
	default:
		return "invalid"
	}
}

type MediumState byte

const (
	MediumIdle MediumState = 0
	MediumBusy MediumState = 1
)

func (s MediumState) String() string {
	if s == MediumBusy {
		return "busy"
	}
	return "idle"
}

// ControlKind is an indication from the PHY that is not a received frame.
type ControlKind byte

const (
	ControlTxOver             ControlKind = 0
	ControlBitError           ControlKind = 1
	ControlCollision          ControlKind = 2
	ControlRadioSwitchingOver ControlKind = 3
)

func (k ControlKind) String() string {
	switch k {
	case ControlTxOver:
		return "TxOver"
	case ControlBitError:
		return "BitError"
	case ControlCollision:
		return "Collision"
	case ControlRadioSwitchingOver:
		return "SwitchingOver"
	default:
		return "invalid"
	}
}

// DropReason tells the upper layer why the MAC gave up on a frame.
type DropReason byte

const (
	DropQueueFull  DropReason = 0
	DropRetryLimit DropReason = 1
)

func (r DropReason) String() string {
	switch r {
	case DropQueueFull:
		return "queue full"
	case DropRetryLimit:
		return "retry limit"
	default:
		return "invalid"
	}
}
