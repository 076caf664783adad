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
	"time"
)

type FrameType uint8

const (
	FrameRTS       FrameType = 1
	FrameCTS       FrameType = 2
	FrameData      FrameType = 3
	FrameAck       FrameType = 4
	FrameBroadcast FrameType = 5
)

func (t FrameType) String() string {
	switch t {
	case FrameRTS:
		return "RTS"
	case FrameCTS:
		return "CTS"
	case FrameData:
		return "DATA"
	case FrameAck:
		return "ACK"
	case FrameBroadcast:
		return "BROADCAST"
	default:
		return "invalid"
	}
}

// Frame lengths in bits. The MAC header length includes the FCS.
const (
	MacHeaderBits = 272
	RtsBits       = 160
	CtsBits       = 112
	AckBits       = 112
	MaxFrameBits  = 18496
)

// InvalidSeqCtrl is never assigned to a transmitted frame.
const InvalidSeqCtrl uint16 = 0

// RxInfo is receive metadata attached by the PHY. It is not part of the frame on air.
type RxInfo struct {
	Bitrate float64 // bit/s the frame was received at
	SnrDb   float64
}

// Frame is a MAC frame. A Frame has exactly one owner at any time: the outgoing queue,
// the MAC's in-flight slot, or the PHY while on air.
type Frame struct {
	Src      MacAddr
	Dst      MacAddr
	Type     FrameType
	SeqCtrl  uint16
	Retry    bool
	Duration time.Duration // NAV announced to other stations
	Payload  []byte

	Rx RxInfo
}

// BitLength returns the frame length on air, excluding the PLCP header.
func (f *Frame) BitLength() int {
	switch f.Type {
	case FrameRTS:
		return RtsBits
	case FrameCTS:
		return CtsBits
	case FrameAck:
		return AckBits
	default:
		return MacHeaderBits + 8*len(f.Payload)
	}
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	c := *f
	if f.Payload != nil {
		c.Payload = make([]byte, len(f.Payload))
		copy(c.Payload, f.Payload)
	}
	return &c
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s %v->%v seq=%d retry=%v dur=%v len=%d", f.Type, f.Src, f.Dst, f.SeqCtrl, f.Retry,
		f.Duration, len(f.Payload))
}

// NextSeqCtrl returns the sequence control value following seq; it wraps to 1 since 0 is invalid.
func NextSeqCtrl(seq uint16) uint16 {
	seq++
	if seq == InvalidSeqCtrl {
		seq = 1
	}
	return seq
}
