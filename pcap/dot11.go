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

package pcap

import (
	"encoding/binary"
	"hash/crc32"
	"math"
	"time"

	"github.com/wlansim/dcfsim/types"
)

// 802.11 frame control, first octet: protocol version 0, type and subtype.
const (
	fcRts  = 0xb4
	fcCts  = 0xc4
	fcAck  = 0xd4
	fcData = 0x08

	fcFlagToDs   = 0x01
	fcFlagFromDs = 0x02
	fcFlagRetry  = 0x08

	maxDurationUs = 32767
)

// EncodeDot11 serialises a MAC frame the way it is on air: header, payload and FCS. DATA frames use
// the four address header.
func EncodeDot11(f *types.Frame) []byte {
	buf := make([]byte, 0, (f.BitLength()+7)/8)
	ra := f.Dst.Bytes()
	ta := f.Src.Bytes()

	var fc [2]byte
	switch f.Type {
	case types.FrameRTS:
		fc[0] = fcRts
	case types.FrameCTS:
		fc[0] = fcCts
	case types.FrameAck:
		fc[0] = fcAck
	default:
		fc[0] = fcData
		fc[1] = fcFlagToDs | fcFlagFromDs
	}
	if f.Retry {
		fc[1] |= fcFlagRetry
	}
	buf = append(buf, fc[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, durationUs(f.Duration))
	buf = append(buf, ra[:]...)

	switch f.Type {
	case types.FrameCTS, types.FrameAck:
	case types.FrameRTS:
		buf = append(buf, ta[:]...)
	default:
		bssid := types.BroadcastAddr.Bytes()
		buf = append(buf, ta[:]...)
		buf = append(buf, bssid[:]...)
		buf = binary.LittleEndian.AppendUint16(buf, (f.SeqCtrl&0x0fff)<<4)
		buf = append(buf, ta[:]...)
		buf = append(buf, f.Payload...)
	}

	return binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
}

func durationUs(d time.Duration) uint16 {
	us := math.Ceil(float64(d) / float64(time.Microsecond))
	if us < 0 {
		return 0
	}
	if us > maxDurationUs {
		return maxDurationUs
	}
	return uint16(us)
}
