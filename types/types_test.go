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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimTime(t *testing.T) {
	var t0 SimTime = 1000
	assert.Equal(t, SimTime(1500), t0.Add(500*time.Nanosecond))
	assert.Equal(t, SimTime(700), t0.Add(-300*time.Nanosecond))
	assert.Equal(t, -200*time.Nanosecond, SimTime(800).Sub(t0))
	assert.Equal(t, uint64(1), t0.Us())
	assert.Equal(t, "ever", Ever.String())
}

func TestFrameBitLength(t *testing.T) {
	assert.Equal(t, RtsBits, (&Frame{Type: FrameRTS}).BitLength())
	assert.Equal(t, CtsBits, (&Frame{Type: FrameCTS}).BitLength())
	assert.Equal(t, AckBits, (&Frame{Type: FrameAck}).BitLength())
	assert.Equal(t, MacHeaderBits+80, (&Frame{Type: FrameData, Payload: make([]byte, 10)}).BitLength())
	assert.Equal(t, MacHeaderBits, (&Frame{Type: FrameBroadcast}).BitLength())
}

func TestFrameCopy(t *testing.T) {
	f := &Frame{Src: 1, Dst: 2, Type: FrameData, SeqCtrl: 7, Payload: []byte{1, 2, 3}}
	c := f.Copy()
	c.Payload[0] = 9
	c.Retry = true
	assert.Equal(t, byte(1), f.Payload[0])
	assert.False(t, f.Retry)
	assert.Equal(t, uint16(7), c.SeqCtrl)
}

func TestNextSeqCtrl(t *testing.T) {
	assert.Equal(t, uint16(2), NextSeqCtrl(1))
	assert.Equal(t, uint16(1), NextSeqCtrl(0xffff))
}

func TestMacAddr(t *testing.T) {
	assert.True(t, BroadcastAddr.IsBroadcast())
	assert.False(t, MacAddr(3).IsBroadcast())
	assert.Equal(t, [6]byte{0x02, 0, 0, 0, 0x01, 0x02}, MacAddr(0x0102).Bytes())
	assert.Equal(t, "bcast", BroadcastAddr.String())
}
